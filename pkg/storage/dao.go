package storage

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dao runs generated and ad-hoc statements against a pooled connection.
// It keeps no per-call state and is safe for concurrent use.
type Dao struct {
	db        *gorm.DB
	assembler Assembler
	policy    FaultPolicy
	log       logger.Interface
}

// Option configures a Dao.
type Option func(*Dao)

// WithTablePrefix replaces DefaultTablePrefix.
func WithTablePrefix(prefix string) Option {
	return func(d *Dao) {
		d.assembler.Prefix = prefix
	}
}

// WithFaultPolicy sets what write paths do with storage faults.
func WithFaultPolicy(policy FaultPolicy) Option {
	return func(d *Dao) {
		d.policy = policy
	}
}

// WithLogger replaces the logger of the gorm handle.
func WithLogger(l logger.Interface) Option {
	return func(d *Dao) {
		d.log = l
	}
}

// New creates a Dao on top of db.
func New(db *gorm.DB, opts ...Option) (*Dao, error) {
	d := &Dao{
		db:        db,
		assembler: Assembler{Prefix: DefaultTablePrefix},
		policy:    FavorAvailability,
		log:       db.Logger,
	}
	for _, apply := range opts {
		apply(d)
	}
	if d.log == nil {
		d.log = logger.Default
	}

	if d.assembler.Prefix != "" {
		if err := checkIdentifier(d.assembler.Prefix); err != nil {
			return nil, fmt.Errorf("table prefix: %w", err)
		}
	}
	return d, nil
}

// Policy returns the configured fault policy.
func (d *Dao) Policy() FaultPolicy {
	return d.policy
}

// TableName returns the prefixed table name of entity's type.
func (d *Dao) TableName(entity any) (string, error) {
	desc, err := Describe(entity)
	if err != nil {
		return "", err
	}
	return d.assembler.TableName(desc), nil
}

// Save inserts a single entity and returns the number of affected rows.
func (d *Dao) Save(ctx context.Context, entity Storable) (int64, error) {
	if isNil(entity) {
		return 0, ErrNilEntity
	}

	counts, err := d.BatchSave(ctx, []Storable{entity})
	if err != nil {
		if !IsFault(err) {
			return 0, err
		}
		return 0, d.handle(ctx, err)
	}
	return counts[0], nil
}

// BatchSave inserts entities with the statement derived from the first one
// and returns one affected-row count per entity. Faults are always returned;
// the counts of items written before the fault are returned with it.
func (d *Dao) BatchSave(ctx context.Context, entities []Storable) ([]int64, error) {
	if len(entities) == 0 {
		return nil, ErrEmptyBatch
	}
	for _, e := range entities {
		if isNil(e) {
			return nil, ErrNilEntity
		}
	}

	desc, err := Describe(entities[0])
	if err != nil {
		return nil, err
	}
	query, err := d.assembler.Insert(desc)
	if err != nil {
		return nil, err
	}
	table := d.assembler.TableName(desc)

	width := len(desc.Insertable())
	params := make([][]any, len(entities))
	for i, e := range entities {
		params[i] = e.Values()
		if len(params[i]) != width {
			return nil, &Fault{
				Op:    "insert",
				Table: table,
				SQL:   query,
				Err:   fmt.Errorf("%w: item %d has %d values, want %d", ErrShapeMismatch, i, len(params[i]), width),
			}
		}
	}

	db := d.db.WithContext(ctx)
	counts := make([]int64, 0, len(entities))
	for _, values := range params {
		result := db.Exec(query, values...)
		if result.Error != nil {
			return counts, &Fault{Op: "insert", Table: table, SQL: query, Err: result.Error}
		}
		counts = append(counts, result.RowsAffected)
	}
	return counts, nil
}

// Exist reports whether a row matching entity's equality values exists.
// Without equality values it reports false without querying.
func (d *Dao) Exist(ctx context.Context, entity Storable) (bool, error) {
	if isNil(entity) {
		return false, ErrNilEntity
	}

	equal := entity.EqualValues()
	if len(equal) == 0 {
		return false, nil
	}

	desc, err := Describe(entity)
	if err != nil {
		return false, err
	}
	query, ok := d.assembler.Exist(desc)
	if !ok {
		return false, nil
	}

	cols := desc.Equals()
	params := make([]any, 0, len(cols))
	for _, c := range cols {
		v, ok := equal[c.Name]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMissingEqualValue, c.Name)
		}
		params = append(params, v)
	}

	found, err := d.queryExists(ctx, query, params)
	if err != nil {
		return false, d.handle(ctx, &Fault{Op: "exist", Table: d.assembler.TableName(desc), SQL: query, Err: err})
	}
	return found, nil
}

func (d *Dao) queryExists(ctx context.Context, query string, params []any) (bool, error) {
	rows, err := d.db.WithContext(ctx).Raw(query, params...).Rows()
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	found := rows.Next()
	return found, rows.Err()
}

// Update runs an arbitrary parameterized statement in its own transaction
// and returns the number of affected rows. On failure the transaction is
// rolled back; rollback errors are ignored. Nothing is retried.
func (d *Dao) Update(ctx context.Context, query string, params ...any) (int64, error) {
	if strings.TrimSpace(query) == "" {
		return 0, ErrEmptyStatement
	}

	n, err := d.update(ctx, query, params)
	if err != nil {
		return 0, d.handle(ctx, &Fault{Op: "update", SQL: query, Err: err})
	}
	return n, nil
}

func (d *Dao) update(ctx context.Context, query string, params []any) (n int64, err error) {
	tx := d.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback().Error
		}
	}()

	result := tx.Exec(query, params...)
	if result.Error != nil {
		return 0, result.Error
	}
	if err = tx.Commit().Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

// CreateTable creates entity's table if it does not exist yet. Faults are
// always returned.
func (d *Dao) CreateTable(ctx context.Context, entity any) error {
	desc, err := Describe(entity)
	if err != nil {
		return err
	}

	ddl := d.assembler.CreateTable(desc)
	if err := d.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return &Fault{Op: "create table", Table: d.assembler.TableName(desc), SQL: ddl, Err: err}
	}
	return nil
}

// handle logs a fault and applies the fault policy to it.
func (d *Dao) handle(ctx context.Context, err error) error {
	d.log.Error(ctx, "%v", err)
	if d.policy == Strict {
		return err
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
