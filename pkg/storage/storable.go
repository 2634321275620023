package storage

// Storable is implemented by every persisted entity.
type Storable interface {
	// Values returns one value per insertable column, in declaration order.
	Values() []any

	// EqualValues maps each equality column to the value to compare with.
	// A nil or empty map means no existence check is possible.
	EqualValues() map[string]any
}
