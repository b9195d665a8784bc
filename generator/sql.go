package generator

import (
	"fmt"
	"strings"

	"github.com/eliotovele/better-lucid/schema"
)

// This file is the only place that turns column specs into SQL text.
// The diff engine works purely on typed operations.

// ColumnDefinition renders one column's declaration fragment.
func ColumnDefinition(spec schema.ColumnSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, `"%s" %s`, spec.Name, spec.Type)
	if spec.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
		return b.String()
	}
	if spec.NotNull {
		b.WriteString(" NOT NULL")
	}
	if spec.Unique {
		b.WriteString(" UNIQUE")
	}
	if spec.References != nil {
		fmt.Fprintf(&b, ` REFERENCES "%s" ("%s") ON DELETE %s`,
			spec.References.Table, spec.References.Column, spec.References.OnDelete)
	}
	return b.String()
}

// CreateTableSQL renders a full creation block: the CREATE TABLE
// statement followed by one CREATE INDEX per indexed column.
func CreateTableSQL(table string, columns []schema.ColumnSpec) []string {
	definitions := make([]string, len(columns))
	for i, spec := range columns {
		definitions[i] = "  " + ColumnDefinition(spec)
	}
	stmt := fmt.Sprintf("CREATE TABLE \"%s\" (\n%s\n);", table, strings.Join(definitions, ",\n"))

	statements := []string{stmt}
	statements = append(statements, indexSQL(table, columns)...)
	return statements
}

// AddColumnsSQL renders one batched alteration adding every missing
// column of a table, followed by index statements for indexed columns.
func AddColumnsSQL(table string, columns []schema.ColumnSpec) []string {
	additions := make([]string, len(columns))
	for i, spec := range columns {
		additions[i] = "ADD COLUMN " + ColumnDefinition(spec)
	}
	stmt := fmt.Sprintf(`ALTER TABLE "%s" %s;`, table, strings.Join(additions, ", "))

	statements := []string{stmt}
	statements = append(statements, indexSQL(table, columns)...)
	return statements
}

// DropTableSQL renders a table drop for rollback.
func DropTableSQL(table string) []string {
	return []string{fmt.Sprintf(`DROP TABLE IF EXISTS "%s";`, table)}
}

// DropColumnsSQL renders one batched alteration dropping exactly the
// named columns. Indexes on those columns go with them.
func DropColumnsSQL(table string, columns []string) []string {
	drops := make([]string, len(columns))
	for i, name := range columns {
		drops[i] = fmt.Sprintf(`DROP COLUMN "%s"`, name)
	}
	return []string{fmt.Sprintf(`ALTER TABLE "%s" %s;`, table, strings.Join(drops, ", "))}
}

func indexSQL(table string, columns []schema.ColumnSpec) []string {
	var statements []string
	for _, spec := range columns {
		if spec.Indexed {
			statements = append(statements, fmt.Sprintf(`CREATE INDEX "idx_%s_%s" ON "%s" ("%s");`,
				table, spec.Name, table, spec.Name))
		}
	}
	return statements
}
