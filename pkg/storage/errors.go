package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNilEntity          = errors.New("storage: entity must not be nil")
	ErrEmptyBatch         = errors.New("storage: batch must have at least one item")
	ErrNoColumns          = errors.New("storage: entity has no insertable columns")
	ErrNotStruct          = errors.New("storage: entity must be a struct or a pointer to a struct")
	ErrEmptyStatement     = errors.New("storage: statement must not be empty")
	ErrMissingEqualValue  = errors.New("storage: missing value for equality column")
	ErrInvalidTag         = errors.New("storage: invalid store tag")
	ErrReservedIdentifier = errors.New("storage: identifier is reserved or malformed")
	ErrShapeMismatch      = errors.New("storage: value count does not match column count")
)

// Fault is a storage execution failure: connectivity, constraint violation,
// malformed statement and the like.
type Fault struct {
	Op    string
	Table string
	SQL   string
	Err   error
}

func (f *Fault) Error() string {
	if f.Table != "" {
		return fmt.Sprintf("storage: %s %s: %v", f.Op, f.Table, f.Err)
	}
	return fmt.Sprintf("storage: %s: %v", f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// IsFault reports whether err carries a storage execution fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
