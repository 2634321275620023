package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"time"
)

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// GetBean runs query and binds its first row into a new T. It returns nil
// when the query yields no rows.
//
// Only the columns actually present in the result are bound; NULL values
// leave the field at its zero value. A value that cannot be assigned to its
// field is logged and skipped.
func GetBean[T any](ctx context.Context, d *Dao, query string, params ...any) (*T, error) {
	var bean *T
	err := d.query(ctx, query, params, reflect.TypeOf((*T)(nil)).Elem(), func(v reflect.Value) bool {
		bean = v.Addr().Interface().(*T)
		return false
	})
	if err != nil {
		return nil, err
	}
	return bean, nil
}

// GetBeans runs query and binds every row into a new T.
func GetBeans[T any](ctx context.Context, d *Dao, query string, params ...any) ([]T, error) {
	beans := []T{}
	err := d.query(ctx, query, params, reflect.TypeOf((*T)(nil)).Elem(), func(v reflect.Value) bool {
		beans = append(beans, v.Interface().(T))
		return true
	})
	if err != nil {
		return nil, err
	}
	return beans, nil
}

// query binds rows of query into fresh values of type t and hands each to
// yield until it returns false.
func (d *Dao) query(ctx context.Context, query string, params []any, t reflect.Type, yield func(reflect.Value) bool) error {
	if query == "" {
		return ErrEmptyStatement
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	desc, err := Describe(t)
	if err != nil {
		return err
	}

	rows, err := d.db.WithContext(ctx).Raw(query, params...).Rows()
	if err != nil {
		return &Fault{Op: "query", SQL: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return &Fault{Op: "query", SQL: query, Err: err}
	}

	// Result columns the entity does not map are scanned and dropped.
	cols := make([]*Column, len(names))
	for i, name := range names {
		if c, ok := desc.Lookup(name); ok {
			cols[i] = &c
		}
	}

	raw := make([]any, len(names))
	dest := make([]any, len(names))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return &Fault{Op: "scan", SQL: query, Err: err}
		}

		bean := reflect.New(t).Elem()
		for i, c := range cols {
			if c == nil || raw[i] == nil {
				continue
			}
			if err := assign(bean.FieldByIndex(c.Index), raw[i]); err != nil {
				d.log.Warn(ctx, "storage: bind %s.%s: %v", t.Name(), c.Field, err)
			}
		}

		if !yield(bean) {
			return nil
		}
	}

	if err := rows.Err(); err != nil {
		return &Fault{Op: "query", SQL: query, Err: err}
	}
	return nil
}

// assign stores a driver value into field, converting between the
// representations drivers commonly return.
func assign(field reflect.Value, src any) error {
	if !field.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	if field.CanAddr() && field.Addr().Type().Implements(scannerType) {
		return field.Addr().Interface().(sql.Scanner).Scan(src)
	}

	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), src); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	sv := reflect.ValueOf(src)
	ft := field.Type()

	switch {
	case sv.Type().AssignableTo(ft):
		field.Set(sv)
		return nil
	case ft.Kind() == reflect.String && sv.Kind() == reflect.Slice && sv.Type().Elem().Kind() == reflect.Uint8:
		field.SetString(string(sv.Bytes()))
		return nil
	case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Uint8 && sv.Kind() == reflect.String:
		field.SetBytes([]byte(sv.String()))
		return nil
	case ft.Kind() == reflect.Bool && isInteger(sv.Kind()):
		field.SetBool(sv.Convert(reflect.TypeOf(int64(0))).Int() != 0)
		return nil
	case isNumber(ft.Kind()) && isNumber(sv.Kind()):
		return assignNumber(field, sv)
	case ft == timeType && sv.Kind() == reflect.String:
		ts, err := time.Parse(time.RFC3339Nano, sv.String())
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(ts))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", src, ft)
}

// assignNumber converts between numeric kinds, refusing values the field
// cannot hold exactly.
func assignNumber(field, sv reflect.Value) error {
	ft := field.Type()
	bad := func() error {
		return fmt.Errorf("%v does not fit %s", sv.Interface(), ft)
	}

	switch {
	case isSigned(ft.Kind()):
		switch {
		case isSigned(sv.Kind()):
			if field.OverflowInt(sv.Int()) {
				return bad()
			}
		case isUnsigned(sv.Kind()):
			if sv.Uint() > math.MaxInt64 || field.OverflowInt(int64(sv.Uint())) {
				return bad()
			}
		default:
			f := sv.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || field.OverflowInt(int64(f)) {
				return bad()
			}
		}
	case isUnsigned(ft.Kind()):
		switch {
		case isSigned(sv.Kind()):
			if sv.Int() < 0 || field.OverflowUint(uint64(sv.Int())) {
				return bad()
			}
		case isUnsigned(sv.Kind()):
			if field.OverflowUint(sv.Uint()) {
				return bad()
			}
		default:
			f := sv.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || field.OverflowUint(uint64(f)) {
				return bad()
			}
		}
	default:
		if isFloat(sv.Kind()) && field.OverflowFloat(sv.Float()) {
			return bad()
		}
	}

	field.Set(sv.Convert(ft))
	return nil
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
}
