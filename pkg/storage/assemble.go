package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultTablePrefix is prepended to every generated table name.
const DefaultTablePrefix = "robot_"

// Assembler builds statements from descriptors. Placeholders are written as
// "?" and rebound by the connection's dialect.
type Assembler struct {
	Prefix string
}

// TableName returns the prefixed table name of d.
func (a Assembler) TableName(d *Descriptor) string {
	return a.Prefix + d.Table
}

// Insert builds the INSERT statement for d. Column and placeholder order
// follow Descriptor.Insertable, which is the order Values must use.
func (a Assembler) Insert(d *Descriptor) (string, error) {
	cols := d.Insertable()
	if len(cols) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoColumns, d.Type)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(a.TableName(d))
	sb.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(c.Name)
	}
	sb.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('?')
	}
	sb.WriteByte(')')
	return sb.String(), nil
}

// Exist builds the existence query over d's equality columns. ok is false
// when d has none, in which case nothing can ever be found.
func (a Assembler) Exist(d *Descriptor) (query string, ok bool) {
	cols := d.Equals()
	if len(cols) == 0 {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(a.TableName(d))
	sb.WriteString(" WHERE 1=1")
	for _, c := range cols {
		sb.WriteString(" AND ")
		sb.WriteString(c.Name)
		sb.WriteString("=?")
	}
	return sb.String(), true
}

// CreateTable builds the DDL for d: a synthetic serial id primary key plus
// one nullable column per field with schema metadata.
func (a Assembler) CreateTable(d *Descriptor) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(a.TableName(d))
	sb.WriteString(" (id SERIAL PRIMARY KEY")
	for _, c := range d.Schema() {
		if c.Name == "id" {
			continue
		}
		sb.WriteString(", ")
		sb.WriteString(c.Name)
		sb.WriteByte(' ')
		sb.WriteString(c.SQLType)
		if c.Length > 0 {
			sb.WriteByte('(')
			sb.WriteString(strconv.Itoa(c.Length))
			sb.WriteByte(')')
		}
		sb.WriteString(" DEFAULT NULL")
	}
	sb.WriteByte(')')
	return sb.String()
}
