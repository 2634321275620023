package storage

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	d, err := Describe(&Keyword{})
	require.NoError(t, err)

	assert.Equal(t, "keyword", d.Table)
	require.Len(t, d.Columns, 3)

	id := d.Columns[0]
	assert.Equal(t, "ID", id.Field)
	assert.Equal(t, "id", id.Name)
	assert.True(t, id.ReadOnly)
	assert.False(t, id.Insertable())

	kw := d.Columns[1]
	assert.Equal(t, "fans_keywords", kw.Name)
	assert.True(t, kw.Equal)
	assert.Equal(t, "varchar", kw.SQLType)
	assert.Equal(t, 128, kw.Length)

	flag := d.Columns[2]
	assert.Equal(t, "del_flag", flag.Name)
	assert.False(t, flag.Equal)
	assert.Equal(t, "smallint", flag.SQLType)
	assert.Zero(t, flag.Length)
}

func TestDescribe_Cached(t *testing.T) {
	byValue, err := Describe(Keyword{})
	require.NoError(t, err)
	byPointer, err := Describe(&Keyword{})
	require.NoError(t, err)
	byNilPointer, err := Describe((*Keyword)(nil))
	require.NoError(t, err)
	byType, err := Describe(reflect.TypeOf(Keyword{}))
	require.NoError(t, err)

	assert.Same(t, byValue, byPointer)
	assert.Same(t, byValue, byNilPointer)
	assert.Same(t, byValue, byType)
}

func TestDescribe_Excluded(t *testing.T) {
	d, err := Describe(&Account{})
	require.NoError(t, err)

	var names []string
	for _, c := range d.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"vendor", "owner", "nickname"}, names)

	_, ok := d.Lookup("password")
	assert.False(t, ok)
	c, ok := d.Lookup("NICKNAME")
	assert.True(t, ok)
	assert.Equal(t, "Nickname", c.Field)

	assert.Len(t, d.Equals(), 2)
	assert.Empty(t, d.Schema())
}

func TestDescribe_Errors(t *testing.T) {
	type badTag struct {
		Name string `store:"equal,size=3"`
	}
	type badLength struct {
		Name string `store:"type=varchar,length=abc"`
	}
	type lengthOnly struct {
		Name string `store:"length=8"`
	}
	type order struct {
		ID int64
	}
	type reservedColumn struct {
		Order int
	}

	tests := []struct {
		name   string
		entity any
		want   error
	}{
		{"nil", nil, ErrNilEntity},
		{"not a struct", 42, ErrNotStruct},
		{"pointer to slice", &[]string{}, ErrNotStruct},
		{"unknown option", badTag{}, ErrInvalidTag},
		{"bad length", badLength{}, ErrInvalidTag},
		{"length without type", lengthOnly{}, ErrInvalidTag},
		{"reserved table", order{}, ErrReservedIdentifier},
		{"reserved column", reservedColumn{}, ErrReservedIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Describe(tt.entity)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
