package schema

import "strings"

// Reference is a resolved foreign key: the canonical target table name,
// target column, and delete rule.
type Reference struct {
	Table    string
	Column   string
	OnDelete OnDeleteAction
}

// ColumnSpec is one field resolved into a concrete column: final name,
// PostgreSQL type, and constraints. It carries no SQL text; rendering is
// the generator's job.
type ColumnSpec struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	Indexed    bool
	References *Reference
}

// ColumnName returns the database column name for a field key: the
// explicit override when set, otherwise the key converted from
// mixed case to snake case (userId -> user_id).
func ColumnName(f Field) string {
	if f.ColumnName != "" {
		return f.ColumnName
	}
	return toSnakeCase(f.Key)
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnType maps the abstract storage class onto a PostgreSQL type.
// Sortable text gets a bounded varchar so it can back btree comparisons;
// array classes are stored serialized.
func columnType(f Field) string {
	switch f.Type {
	case TypeText:
		if f.Sortable {
			return "varchar(255)"
		}
		return "text"
	case TypeNumeric:
		if f.BigInt {
			return "bigint"
		}
		return "integer"
	case TypeBoolean:
		return "boolean"
	case TypeTimestamp:
		return "timestamptz"
	case TypeJSON:
		return "jsonb"
	case TypeTextArray, TypeNumericArray:
		return "text"
	default:
		return "text"
	}
}

// MapField resolves one field into its concrete column spec. It is pure:
// the same field and description always produce the same spec.
//
// A foreign key column is never separately indexed; the reference
// already implies one. When the referenced table key is not present in
// the description the raw key is used as the table name, so intentional
// cross-schema references pass through instead of failing the run.
func MapField(f Field, desc *Description) ColumnSpec {
	spec := ColumnSpec{
		Name:    ColumnName(f),
		Type:    columnType(f),
		NotNull: f.Required,
		Unique:  f.Unique,
	}

	if f.Key == "id" {
		spec.PrimaryKey = true
	}

	if f.References != nil {
		target := f.References.Table
		if t, ok := desc.Lookup(target); ok {
			target = t.Name()
		}
		column := f.References.Column
		if column == "" {
			column = "id"
		}
		onDelete := f.References.OnDelete
		if onDelete == "" {
			onDelete = OnDeleteCascade
		}
		spec.References = &Reference{
			Table:    target,
			Column:   column,
			OnDelete: onDelete,
		}
	} else if f.Indexed {
		spec.Indexed = true
	}

	return spec
}

// MapTable resolves every field of a table, emitting the "id" column
// first and the remaining fields in declaration order.
func MapTable(t Table, desc *Description) []ColumnSpec {
	var specs []ColumnSpec
	if id, ok := t.IDField(); ok {
		specs = append(specs, MapField(id, desc))
	}
	for _, f := range t.Fields {
		if f.Key == "id" {
			continue
		}
		specs = append(specs, MapField(f, desc))
	}
	return specs
}
