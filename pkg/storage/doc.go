// Package storage maps tagged Go structs to SQL tables without hand-written
// SQL.
//
// An entity is a struct whose exported fields become columns. Column and
// table names are derived from field and type names (see package naming);
// the table name carries a fixed prefix, "robot_" by default.
//
// # Declaring an entity
//
//	type Keyword struct {
//	    ID           int64  `store:"readonly"`
//	    FansKeywords string `store:"equal,type=varchar,length=128"`
//	    DelFlag      int    `store:"type=smallint"`
//	    cursor       int    // unexported fields are never mapped
//	}
//
//	func (k *Keyword) Values() []any {
//	    return []any{k.FansKeywords, k.DelFlag}
//	}
//
//	func (k *Keyword) EqualValues() map[string]any {
//	    return map[string]any{"fans_keywords": k.FansKeywords}
//	}
//
// Tag options:
//
//   - equal: the column takes part in existence checks
//   - readonly: bound when reading, left out of INSERT (database generated)
//   - -: the field is not mapped at all
//   - type=<sql type>, length=<n>: schema metadata used by CreateTable
//
// Values must return one value per insertable column in declaration order;
// the INSERT statement is assembled in that order.
//
// # Fault policy
//
// Write paths (Save, Exist, Update) favor availability by default: storage
// faults are logged and reported as a zero result. WithFaultPolicy(Strict)
// returns them as *Fault instead. Caller mistakes such as an empty batch are
// always returned.
package storage
