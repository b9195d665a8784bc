package diff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliotovele/better-lucid/schema"
)

// fakeCatalog serves canned catalog state and records query counts.
type fakeCatalog struct {
	tables      []string
	columns     map[string][]string
	tablesErr   error
	columnsErr  error
	columnCalls int
}

func (f *fakeCatalog) ListTables(ctx context.Context) ([]string, error) {
	return f.tables, f.tablesErr
}

func (f *fakeCatalog) ListColumns(ctx context.Context, tables []string) (map[string][]string, error) {
	f.columnCalls++
	if f.columnsErr != nil {
		return nil, f.columnsErr
	}
	out := map[string][]string{}
	for _, t := range tables {
		if cols, ok := f.columns[t]; ok {
			out[t] = cols
		}
	}
	return out, nil
}

func authDescription() *schema.Description {
	return &schema.Description{Tables: []schema.Table{
		{Key: "user", Order: 1, Fields: []schema.Field{
			{Key: "id", Type: schema.TypeText, Required: true},
			{Key: "email", Type: schema.TypeText, Required: true, Unique: true, Sortable: true},
		}},
		{Key: "session", Order: 2, Fields: []schema.Field{
			{Key: "id", Type: schema.TypeText, Required: true},
			{Key: "userId", Type: schema.TypeText, Required: true,
				References: &schema.ForeignKey{Table: "user", Column: "id", OnDelete: schema.OnDeleteCascade}},
		}},
	}}
}

func TestFreshMode(t *testing.T) {
	catalog := &fakeCatalog{}
	plan, err := Compute(context.Background(), catalog, authDescription(), Options{})
	require.NoError(t, err)

	assert.Equal(t, ModeFresh, plan.Mode)
	require.Len(t, plan.Up, 2)
	assert.Equal(t, CreateTable, plan.Up[0].Type)
	assert.Equal(t, "user", plan.Up[0].Table)
	assert.Equal(t, "session", plan.Up[1].Table)

	// Rollback drops in reverse creation order.
	require.Len(t, plan.Down, 2)
	assert.Equal(t, DropTable, plan.Down[0].Type)
	assert.Equal(t, "session", plan.Down[0].Table)
	assert.Equal(t, "user", plan.Down[1].Table)

	assert.Empty(t, plan.Warnings)
	assert.Equal(t, 0, catalog.columnCalls, "fresh mode needs a single query")
}

func TestFreshModeOrdering(t *testing.T) {
	desc := &schema.Description{Tables: []schema.Table{
		{Key: "user", Order: 3, Fields: []schema.Field{{Key: "id", Type: schema.TypeText, Required: true}}},
		{Key: "account", Order: 1, Fields: []schema.Field{{Key: "id", Type: schema.TypeText, Required: true}}},
		{Key: "session", Order: 2, Fields: []schema.Field{{Key: "id", Type: schema.TypeText, Required: true}}},
	}}

	plan, err := Compute(context.Background(), &fakeCatalog{}, desc, Options{})
	require.NoError(t, err)

	var created []string
	for _, op := range plan.Up {
		created = append(created, op.Table)
	}
	assert.Equal(t, []string{"account", "session", "user"}, created)

	var dropped []string
	for _, op := range plan.Down {
		dropped = append(dropped, op.Table)
	}
	assert.Equal(t, []string{"user", "session", "account"}, dropped)
}

func TestDisabledTableNeverAppears(t *testing.T) {
	desc := authDescription()
	desc.Tables = append(desc.Tables, schema.Table{
		Key: "audit", DisableMigrations: true,
		Fields: []schema.Field{{Key: "id", Type: schema.TypeText, Required: true}},
	})

	// Fresh mode.
	plan, err := Compute(context.Background(), &fakeCatalog{}, desc, Options{})
	require.NoError(t, err)
	for _, op := range append(plan.Up, plan.Down...) {
		assert.NotEqual(t, "audit", op.Table)
	}

	// Provisioned mode; the audit table exists in the catalog but must
	// not trigger statements or warnings.
	catalog := &fakeCatalog{
		tables: []string{"user", "session", "audit"},
		columns: map[string][]string{
			"user":    {"id", "email"},
			"session": {"id", "user_id"},
		},
	}
	plan, err = Compute(context.Background(), catalog, desc, Options{})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestProvisionedMissingTable(t *testing.T) {
	catalog := &fakeCatalog{
		tables:  []string{"user"},
		columns: map[string][]string{"user": {"id", "email"}},
	}

	plan, err := Compute(context.Background(), catalog, authDescription(), Options{})
	require.NoError(t, err)

	assert.Equal(t, ModeProvisioned, plan.Mode)
	require.Len(t, plan.Up, 1)
	assert.Equal(t, CreateTable, plan.Up[0].Type)
	assert.Equal(t, "session", plan.Up[0].Table)
	require.Len(t, plan.Down, 1)
	assert.Equal(t, DropTable, plan.Down[0].Type)
}

func TestProvisionedAddsMissingColumns(t *testing.T) {
	desc := authDescription()
	desc.Tables[0].Fields = append(desc.Tables[0].Fields,
		schema.Field{Key: "twoFactorEnabled", Type: schema.TypeBoolean, Required: true},
		schema.Field{Key: "displayName", Type: schema.TypeText, Required: false},
	)

	catalog := &fakeCatalog{
		tables: []string{"user", "session"},
		columns: map[string][]string{
			"user":    {"id", "email"},
			"session": {"id", "user_id"},
		},
	}

	plan, err := Compute(context.Background(), catalog, desc, Options{})
	require.NoError(t, err)

	// Exactly one alteration for the user table, no creation.
	require.Len(t, plan.Up, 1)
	op := plan.Up[0]
	assert.Equal(t, AddColumns, op.Type)
	assert.Equal(t, "user", op.Table)
	require.Len(t, op.Columns, 2)
	assert.Equal(t, "two_factor_enabled", op.Columns[0].Name)
	assert.Equal(t, "display_name", op.Columns[1].Name)

	require.Len(t, plan.Down, 1)
	assert.Equal(t, DropColumns, plan.Down[0].Type)
	assert.Equal(t, []string{"two_factor_enabled", "display_name"}, plan.Down[0].ColumnNames)

	assert.Equal(t, 1, catalog.columnCalls, "column state is snapshotted once")
}

func TestRollbackOrderMixesCreatesAndAlters(t *testing.T) {
	desc := authDescription()
	desc.Tables[0].Fields = append(desc.Tables[0].Fields,
		schema.Field{Key: "phone", Type: schema.TypeText, Required: false})

	catalog := &fakeCatalog{
		tables:  []string{"user"},
		columns: map[string][]string{"user": {"id", "email"}},
	}

	plan, err := Compute(context.Background(), catalog, desc, Options{})
	require.NoError(t, err)

	// Up: alter user, create session. Down: drop session first, then
	// drop the added column.
	require.Len(t, plan.Down, 2)
	assert.Equal(t, DropTable, plan.Down[0].Type)
	assert.Equal(t, "session", plan.Down[0].Table)
	assert.Equal(t, DropColumns, plan.Down[1].Type)
	assert.Equal(t, "user", plan.Down[1].Table)
}

func TestUndeclaredColumnBecomesWarning(t *testing.T) {
	catalog := &fakeCatalog{
		tables: []string{"user", "session"},
		columns: map[string][]string{
			"user":    {"id", "email", "legacy_flag"},
			"session": {"id", "user_id"},
		},
	}

	plan, err := Compute(context.Background(), catalog, authDescription(), Options{})
	require.NoError(t, err)

	assert.Empty(t, plan.Up, "warnings never produce statements")
	assert.Empty(t, plan.Down)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, "user", plan.Warnings[0].Table)
	assert.Equal(t, "legacy_flag", plan.Warnings[0].Column)
	assert.Contains(t, plan.Warnings[0].Message, "legacy_flag")
	assert.Contains(t, plan.Warnings[0].Message, "user")
}

func TestManagedTableWarning(t *testing.T) {
	catalog := &fakeCatalog{
		tables: []string{"user", "session", "verification", "invoices"},
		columns: map[string][]string{
			"user":    {"id", "email"},
			"session": {"id", "user_id"},
		},
	}

	plan, err := Compute(context.Background(), catalog, authDescription(), Options{})
	require.NoError(t, err)

	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, "verification", plan.Warnings[0].Table, "only previously managed tables warn")
	assert.Empty(t, plan.Up)
}

func TestEmptyDiffIsIdempotent(t *testing.T) {
	catalog := &fakeCatalog{
		tables: []string{"user", "session"},
		columns: map[string][]string{
			"user":    {"id", "email"},
			"session": {"id", "user_id"},
		},
	}

	for i := 0; i < 2; i++ {
		plan, err := Compute(context.Background(), catalog, authDescription(), Options{})
		require.NoError(t, err)
		assert.True(t, plan.Empty(), "run %d", i)
	}
}

func TestCatalogFailureIsFatal(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := Compute(context.Background(), &fakeCatalog{tablesErr: boom}, authDescription(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	catalog := &fakeCatalog{tables: []string{"user"}, columnsErr: boom}
	_, err = Compute(context.Background(), catalog, authDescription(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestClassifyHonorsModelName(t *testing.T) {
	desc := authDescription()
	desc.Tables[0].ModelName = "app_users"

	plan, err := Compute(context.Background(), &fakeCatalog{
		tables: []string{"app_users", "session"},
		columns: map[string][]string{
			"app_users": {"id", "email"},
			"session":   {"id", "user_id"},
		},
	}, desc, Options{})
	require.NoError(t, err)
	assert.Equal(t, ModeProvisioned, plan.Mode)

	plan, err = Compute(context.Background(), &fakeCatalog{tables: []string{"unrelated"}}, desc, Options{})
	require.NoError(t, err)
	assert.Equal(t, ModeFresh, plan.Mode)
}
