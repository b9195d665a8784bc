package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationIssue describes one problem found in a schema description.
type ValidationIssue struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error" or "warning"
}

// ValidationResult aggregates everything found during a validation pass.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Keywords that cannot be used unquoted in most contexts. "user" is
// allowed: the core auth table carries that name and is always quoted
// in generated SQL.
var reservedKeywords = map[string]bool{
	"select": true, "insert": true, "update": true, "delete": true,
	"table": true, "index": true, "where": true, "order": true,
	"group": true, "primary": true, "foreign": true, "references": true,
	"constraint": true, "default": true, "check": true, "grant": true,
}

var knownFieldTypes = map[FieldType]bool{
	TypeText:         true,
	TypeNumeric:      true,
	TypeBoolean:      true,
	TypeTimestamp:    true,
	TypeJSON:         true,
	TypeTextArray:    true,
	TypeNumericArray: true,
}

// Validate checks a description once, at the boundary, so the diff and
// generation passes can rely on well-formed definitions. Unresolved
// foreign key targets are warnings, not errors: generation degrades to
// the raw key and the reference may be an intentional external table.
func Validate(desc *Description) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationIssue{},
		Warnings: []ValidationIssue{},
	}

	seenTables := map[string]bool{}
	for _, table := range desc.Tables {
		if seenTables[table.Key] {
			addError(result, "duplicate_table", table.Key, "",
				fmt.Sprintf("table %q is declared more than once", table.Key))
		}
		seenTables[table.Key] = true

		validateIdentifier(result, "table_name", table.Key, "", table.Name())
		validateFields(result, table, desc)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateFields(result *ValidationResult, table Table, desc *Description) {
	seenColumns := map[string]bool{}
	for _, field := range table.Fields {
		column := ColumnName(field)
		if seenColumns[column] {
			addError(result, "duplicate_column", table.Key, field.Key,
				fmt.Sprintf("column %q appears more than once in table %q", column, table.Key))
		}
		seenColumns[column] = true

		validateIdentifier(result, "column_name", table.Key, field.Key, column)

		if !knownFieldTypes[field.Type] {
			addError(result, "field_type", table.Key, field.Key,
				fmt.Sprintf("unknown field type %q", field.Type))
		}

		if field.Key == "id" && !field.Required {
			addError(result, "primary_key", table.Key, field.Key,
				"the id field cannot be optional")
		}

		if field.References != nil {
			validateReference(result, table, field, desc)
		}
	}
}

func validateReference(result *ValidationResult, table Table, field Field, desc *Description) {
	target, ok := desc.Lookup(field.References.Table)
	if !ok {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Type:  "foreign_key",
			Table: table.Key,
			Field: field.Key,
			Message: fmt.Sprintf("references unknown table %q; the raw name will be used in generated SQL",
				field.References.Table),
			Severity: "warning",
		})
		return
	}

	column := field.References.Column
	if column == "" || column == "id" {
		return
	}
	for _, f := range target.Fields {
		if ColumnName(f) == column || f.Key == column {
			return
		}
	}
	result.Warnings = append(result.Warnings, ValidationIssue{
		Type:  "foreign_key",
		Table: table.Key,
		Field: field.Key,
		Message: fmt.Sprintf("references column %q which is not declared on table %q",
			column, field.References.Table),
		Severity: "warning",
	})
}

func validateIdentifier(result *ValidationResult, issueType, table, field, name string) {
	if name == "" {
		addError(result, issueType, table, field, "identifier is empty")
		return
	}
	if len(name) > 63 {
		addError(result, issueType, table, field,
			fmt.Sprintf("identifier %q exceeds PostgreSQL's 63 character limit", name))
	}
	if !identifierPattern.MatchString(name) {
		addError(result, issueType, table, field,
			fmt.Sprintf("identifier %q contains invalid characters", name))
	}
	if reservedKeywords[strings.ToLower(name)] {
		addError(result, issueType, table, field,
			fmt.Sprintf("identifier %q is a reserved SQL keyword", name))
	}
}

func addError(result *ValidationResult, issueType, table, field, message string) {
	result.Errors = append(result.Errors, ValidationIssue{
		Type:     issueType,
		Table:    table,
		Field:    field,
		Message:  message,
		Severity: "error",
	})
}
