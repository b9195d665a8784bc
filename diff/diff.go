package diff

import (
	"context"
	"fmt"

	"github.com/eliotovele/better-lucid/schema"
)

// Mode classifies the target database for one generation run.
type Mode string

const (
	// ModeFresh means the core tables have never been provisioned:
	// every active table is emitted as a full creation block.
	ModeFresh Mode = "fresh"
	// ModeProvisioned means the database already carries the core
	// tables: only missing tables and missing columns are emitted.
	ModeProvisioned Mode = "provisioned"
)

type OperationType string

const (
	CreateTable OperationType = "CREATE_TABLE"
	AddColumns  OperationType = "ADD_COLUMNS"
	DropTable   OperationType = "DROP_TABLE"
	DropColumns OperationType = "DROP_COLUMNS"
)

// Operation is one structural change, resolved down to column specs but
// not yet rendered as SQL.
type Operation struct {
	Type        OperationType
	Table       string
	Columns     []schema.ColumnSpec // CREATE_TABLE, ADD_COLUMNS
	ColumnNames []string            // DROP_COLUMNS
}

// Warning is an advisory about catalog structure the engine declines to
// touch. Warnings never turn into executable statements.
type Warning struct {
	Table   string
	Column  string
	Message string
}

// Plan is the computed change set: forward operations, their inverses in
// rollback order, and any advisories.
type Plan struct {
	Mode     Mode
	Up       []Operation
	Down     []Operation
	Warnings []Warning
}

// Empty reports whether the plan carries neither changes nor warnings.
func (p *Plan) Empty() bool {
	return len(p.Up) == 0 && len(p.Warnings) == 0
}

// CatalogReader is the read-only view of the database's metadata the
// engine needs. Both calls must reflect live state; failures propagate
// to the caller untouched.
type CatalogReader interface {
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, tables []string) (map[string][]string, error)
}

// DefaultManagedTables are the table keys this system is known to have
// provisioned in the past. A catalog table missing from the description
// only warrants a warning when its name is in this set; arbitrary
// foreign tables stay silent.
var DefaultManagedTables = []string{"user", "session", "account", "verification"}

// Options tune a diff run.
type Options struct {
	// ManagedTables overrides DefaultManagedTables when non-nil.
	ManagedTables []string
}

// Compute classifies the database, takes a catalog snapshot, and builds
// the migration plan for the given description. It performs no writes
// and at most two catalog queries, so it is safe to invoke repeatedly
// and concurrently.
func Compute(ctx context.Context, reader CatalogReader, desc *schema.Description, opts Options) (*Plan, error) {
	existingTables, err := reader.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading catalog tables: %w", err)
	}

	active := desc.Active()
	plan := &Plan{Mode: classify(existingTables, desc)}

	if plan.Mode == ModeFresh {
		for _, table := range active {
			appendCreate(plan, table, desc)
		}
		return plan, nil
	}

	existing := toSet(existingTables)
	var present []string
	for _, table := range active {
		if existing[table.Name()] {
			present = append(present, table.Name())
		}
	}

	existingColumns, err := reader.ListColumns(ctx, present)
	if err != nil {
		return nil, fmt.Errorf("reading catalog columns: %w", err)
	}

	for _, table := range active {
		name := table.Name()
		if !existing[name] {
			appendCreate(plan, table, desc)
			continue
		}
		diffColumns(plan, table, existingColumns[name], desc)
	}

	warnUnmanagedTables(plan, existingTables, desc, opts)

	return plan, nil
}

// classify decides fresh vs. provisioned by probing for the user table.
// When the description declares a "user" table its canonical name is
// probed; otherwise the literal name. This single-table heuristic
// misclassifies a database whose user table was renamed out from under
// it, which is a documented limitation.
func classify(existingTables []string, desc *schema.Description) Mode {
	probe := "user"
	if t, ok := desc.Lookup("user"); ok && !t.DisableMigrations {
		probe = t.Name()
	}
	for _, name := range existingTables {
		if name == probe {
			return ModeProvisioned
		}
	}
	return ModeFresh
}

// appendCreate emits a full creation block and prepends its drop to the
// rollback sequence, so the newest table is the first dropped. Foreign
// keys make this ordering load-bearing.
func appendCreate(plan *Plan, table schema.Table, desc *schema.Description) {
	plan.Up = append(plan.Up, Operation{
		Type:    CreateTable,
		Table:   table.Name(),
		Columns: schema.MapTable(table, desc),
	})
	plan.Down = append([]Operation{{
		Type:  DropTable,
		Table: table.Name(),
	}}, plan.Down...)
}

// diffColumns compares a provisioned table's declared fields against the
// catalog. Missing columns become a single batched alteration; catalog
// columns with no declared counterpart become warnings only.
func diffColumns(plan *Plan, table schema.Table, catalogColumns []string, desc *schema.Description) {
	known := toSet(catalogColumns)

	var additions []schema.ColumnSpec
	declared := map[string]bool{"id": true}
	for _, field := range table.Fields {
		spec := schema.MapField(field, desc)
		declared[spec.Name] = true
		if field.Key == "id" {
			continue
		}
		if !known[spec.Name] {
			additions = append(additions, spec)
		}
	}

	if len(additions) > 0 {
		plan.Up = append(plan.Up, Operation{
			Type:    AddColumns,
			Table:   table.Name(),
			Columns: additions,
		})
		names := make([]string, len(additions))
		for i, spec := range additions {
			names[i] = spec.Name
		}
		plan.Down = append(plan.Down, Operation{
			Type:        DropColumns,
			Table:       table.Name(),
			ColumnNames: names,
		})
	}

	for _, column := range catalogColumns {
		if !declared[column] {
			plan.Warnings = append(plan.Warnings, Warning{
				Table:  table.Name(),
				Column: column,
				Message: fmt.Sprintf("column %q on table %q exists in the database but is not declared; drop it manually if it is no longer needed",
					column, table.Name()),
			})
		}
	}
}

// warnUnmanagedTables surfaces previously managed tables that the
// description no longer declares. Tables declared anywhere in the
// description, including disabled ones, are never warned about.
func warnUnmanagedTables(plan *Plan, existingTables []string, desc *schema.Description, opts Options) {
	managed := opts.ManagedTables
	if managed == nil {
		managed = DefaultManagedTables
	}
	managedSet := toSet(managed)

	declared := map[string]bool{}
	for _, t := range desc.Tables {
		declared[t.Name()] = true
	}

	for _, name := range existingTables {
		if declared[name] || !managedSet[name] {
			continue
		}
		plan.Warnings = append(plan.Warnings, Warning{
			Table: name,
			Message: fmt.Sprintf("table %q exists in the database but is not declared; drop it manually if it is no longer needed",
				name),
		})
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
