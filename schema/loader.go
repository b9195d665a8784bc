package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name              string      `yaml:"name"`
	TableName         string      `yaml:"table"`
	Order             *int        `yaml:"order"`
	DisableMigrations bool        `yaml:"disable_migrations"`
	Fields            []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	Required   *bool           `yaml:"required"`
	Unique     bool            `yaml:"unique"`
	Sortable   bool            `yaml:"sortable"`
	BigInt     bool            `yaml:"bigint"`
	Indexed    bool            `yaml:"index"`
	ColumnName string          `yaml:"column_name"`
	References *yamlForeignKey `yaml:"references"`
}

type yamlForeignKey struct {
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	OnDelete string `yaml:"on_delete"`
}

// onDeleteActions maps the declarative action names onto their SQL form.
// SQL spellings are accepted as well so hand-written files keep working.
var onDeleteActions = map[string]OnDeleteAction{
	"cascade":     OnDeleteCascade,
	"set-null":    OnDeleteSetNull,
	"set null":    OnDeleteSetNull,
	"restrict":    OnDeleteRestrict,
	"no-action":   OnDeleteNoAction,
	"no action":   OnDeleteNoAction,
	"set-default": OnDeleteSetDefault,
	"set default": OnDeleteSetDefault,
}

// LoadFile reads a YAML schema description from disk.
func LoadFile(filename string) (*Description, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Load(data)
}

// Load parses a YAML schema description. Defaults are applied here, once
// at the boundary: required defaults to true, order to DefaultOrder, the
// on-delete action to cascade.
func Load(data []byte) (*Description, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	desc := &Description{}
	for _, yt := range yf.Tables {
		if yt.Name == "" {
			return nil, fmt.Errorf("table with no name in schema file")
		}
		table := Table{
			Key:               yt.Name,
			ModelName:         yt.TableName,
			Order:             DefaultOrder,
			DisableMigrations: yt.DisableMigrations,
		}
		if yt.Order != nil {
			table.Order = *yt.Order
		}
		for _, yc := range yt.Fields {
			field, err := loadField(yt.Name, yc)
			if err != nil {
				return nil, err
			}
			table.Fields = append(table.Fields, field)
		}
		desc.Tables = append(desc.Tables, table)
	}

	return desc, nil
}

func loadField(table string, yc yamlField) (Field, error) {
	if yc.Name == "" {
		return Field{}, fmt.Errorf("table %s: field with no name", table)
	}
	field := Field{
		Key:        yc.Name,
		Type:       FieldType(yc.Type),
		Required:   true,
		Unique:     yc.Unique,
		Sortable:   yc.Sortable,
		BigInt:     yc.BigInt,
		Indexed:    yc.Indexed,
		ColumnName: yc.ColumnName,
	}
	if yc.Required != nil {
		field.Required = *yc.Required
	}
	if yc.References != nil {
		if yc.References.Table == "" {
			return Field{}, fmt.Errorf("table %s: field %s references no table", table, yc.Name)
		}
		fk := &ForeignKey{
			Table:  yc.References.Table,
			Column: yc.References.Column,
		}
		if yc.References.OnDelete != "" {
			action, ok := onDeleteActions[strings.ToLower(yc.References.OnDelete)]
			if !ok {
				return Field{}, fmt.Errorf("table %s: field %s has unknown on_delete action %q", table, yc.Name, yc.References.OnDelete)
			}
			fk.OnDelete = action
		}
		field.References = fk
	}
	return field, nil
}
