package storage

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/echoman/robots-in-go/pkg/naming"
)

const tagName = "store"

var identifierRgx = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Identifiers are written into statements unquoted, so words the database
// would parse as keywords are refused.
var reservedWords = map[string]bool{
	"all": true, "and": true, "as": true, "asc": true, "by": true,
	"case": true, "check": true, "column": true, "constraint": true,
	"create": true, "default": true, "delete": true, "desc": true,
	"distinct": true, "drop": true, "else": true, "end": true, "from": true,
	"grant": true, "group": true, "having": true, "in": true, "index": true,
	"insert": true, "into": true, "is": true, "join": true, "key": true,
	"limit": true, "not": true, "null": true, "offset": true, "on": true,
	"or": true, "order": true, "primary": true, "references": true,
	"select": true, "set": true, "table": true, "then": true, "to": true,
	"union": true, "unique": true, "update": true, "user": true,
	"using": true, "values": true, "when": true, "where": true, "with": true,
}

// Column describes one mapped struct field.
type Column struct {
	// Field is the Go field name.
	Field string
	// Name is the SQL column name.
	Name  string
	Index []int
	Type  reflect.Type

	Equal    bool
	ReadOnly bool

	// SQLType and Length are used for schema creation only.
	SQLType string
	Length  int
}

// Insertable reports whether the column is written by INSERT.
func (c Column) Insertable() bool {
	return !c.ReadOnly
}

// Descriptor is the persistence metadata of one entity type.
type Descriptor struct {
	Type reflect.Type
	// Table is the unprefixed table name.
	Table   string
	Columns []Column

	byName map[string]int
}

// Insertable returns the columns written by INSERT, in declaration order.
func (d *Descriptor) Insertable() []Column {
	cols := make([]Column, 0, len(d.Columns))
	for _, c := range d.Columns {
		if c.Insertable() {
			cols = append(cols, c)
		}
	}
	return cols
}

// Equals returns the equality-predicate columns.
func (d *Descriptor) Equals() []Column {
	var cols []Column
	for _, c := range d.Columns {
		if c.Equal {
			cols = append(cols, c)
		}
	}
	return cols
}

// Schema returns the columns carrying schema metadata.
func (d *Descriptor) Schema() []Column {
	var cols []Column
	for _, c := range d.Columns {
		if c.SQLType != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// Lookup finds a column by its SQL name.
func (d *Descriptor) Lookup(name string) (Column, bool) {
	i, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return Column{}, false
	}
	return d.Columns[i], true
}

var descriptors sync.Map // reflect.Type -> *Descriptor

// Describe returns the descriptor of entity's type. entity may be a struct,
// a pointer to a struct (nil pointers included) or a reflect.Type.
func Describe(entity any) (*Descriptor, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}

	t, ok := entity.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(entity)
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	if d, ok := descriptors.Load(t); ok {
		return d.(*Descriptor), nil
	}

	d, err := describe(t)
	if err != nil {
		return nil, err
	}
	actual, _ := descriptors.LoadOrStore(t, d)
	return actual.(*Descriptor), nil
}

func describe(t reflect.Type) (*Descriptor, error) {
	table := naming.Underscore(t.Name())
	if err := checkIdentifier(table); err != nil {
		return nil, fmt.Errorf("table for %s: %w", t, err)
	}

	d := &Descriptor{
		Type:   t,
		Table:  table,
		byName: map[string]int{},
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}

		tag, hasTag := f.Tag.Lookup(tagName)
		if hasTag && tag == "-" {
			continue
		}

		col := Column{
			Field: f.Name,
			Name:  naming.Underscore(f.Name),
			Index: f.Index,
			Type:  f.Type,
		}
		if err := checkIdentifier(col.Name); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), f.Name, err)
		}
		if err := parseTag(tag, &col); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), f.Name, err)
		}

		d.byName[col.Name] = len(d.Columns)
		d.Columns = append(d.Columns, col)
	}

	return d, nil
}

func parseTag(tag string, col *Column) error {
	if tag == "" {
		return nil
	}

	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		key, value, _ := strings.Cut(opt, "=")
		switch key {
		case "":
		case "equal":
			col.Equal = true
		case "readonly":
			col.ReadOnly = true
		case "type":
			if value == "" {
				return fmt.Errorf("%w: empty type", ErrInvalidTag)
			}
			col.SQLType = value
		case "length":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: bad length %q", ErrInvalidTag, value)
			}
			col.Length = n
		default:
			return fmt.Errorf("%w: unknown option %q", ErrInvalidTag, key)
		}
	}

	if col.Length > 0 && col.SQLType == "" {
		return fmt.Errorf("%w: length without type", ErrInvalidTag)
	}
	return nil
}

func checkIdentifier(name string) error {
	if !identifierRgx.MatchString(name) || reservedWords[name] {
		return fmt.Errorf("%w: %q", ErrReservedIdentifier, name)
	}
	return nil
}
