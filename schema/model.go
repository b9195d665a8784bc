package schema

import "sort"

// FieldType is the abstract storage class of a field. The generator maps
// it onto a concrete PostgreSQL type.
type FieldType string

const (
	TypeText         FieldType = "text"
	TypeNumeric      FieldType = "numeric"
	TypeBoolean      FieldType = "boolean"
	TypeTimestamp    FieldType = "timestamp"
	TypeJSON         FieldType = "json"
	TypeTextArray    FieldType = "textArray"
	TypeNumericArray FieldType = "numericArray"
)

// OnDeleteAction is the referential action applied when a referenced row
// is deleted. Values are stored in SQL form.
type OnDeleteAction string

const (
	OnDeleteCascade    OnDeleteAction = "CASCADE"
	OnDeleteSetNull    OnDeleteAction = "SET NULL"
	OnDeleteRestrict   OnDeleteAction = "RESTRICT"
	OnDeleteNoAction   OnDeleteAction = "NO ACTION"
	OnDeleteSetDefault OnDeleteAction = "SET DEFAULT"
)

// ForeignKey points a field at another table's column. Table is the
// *key* of the target table in the description; the canonical table name
// is resolved at mapping time.
type ForeignKey struct {
	Table    string
	Column   string
	OnDelete OnDeleteAction
}

// Field is one column's abstract definition. Fields are read from the
// description once and never mutated afterwards.
type Field struct {
	Key        string
	Type       FieldType
	Required   bool // NOT NULL unless explicitly set to false
	Unique     bool
	Sortable   bool // text fields: bounded varchar instead of text
	BigInt     bool // numeric fields: bigint instead of integer
	Indexed    bool
	ColumnName string // optional override for the generated column name
	References *ForeignKey
}

// DefaultOrder is assigned to tables that do not declare an explicit
// emission order.
const DefaultOrder = 999

// Table is one table's abstract definition. Field order is significant:
// it is the column order of the generated block, except that an "id"
// field is always emitted first.
type Table struct {
	Key               string
	ModelName         string // canonical table name; defaults to Key
	Order             int    // emission order, ascending; defaults to 999
	DisableMigrations bool
	Fields            []Field
}

// Name returns the canonical table name.
func (t Table) Name() string {
	if t.ModelName != "" {
		return t.ModelName
	}
	return t.Key
}

// IDField returns the table's "id" field, if declared.
func (t Table) IDField() (Field, bool) {
	for _, f := range t.Fields {
		if f.Key == "id" {
			return f, true
		}
	}
	return Field{}, false
}

// Description is the full desired state: every table the system needs,
// in declaration order. It is supplied once per generation run and is
// read-only from the core's point of view.
type Description struct {
	Tables []Table
}

// Lookup returns the table declared under the given key.
func (d *Description) Lookup(key string) (Table, bool) {
	for _, t := range d.Tables {
		if t.Key == key {
			return t, true
		}
	}
	return Table{}, false
}

// Active returns the tables that participate in migration generation,
// sorted ascending by Order. The sort is stable so tables sharing an
// order keep their declaration order.
func (d *Description) Active() []Table {
	var active []Table
	for _, t := range d.Tables {
		if !t.DisableMigrations {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})
	return active
}
