package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `
tables:
  - name: user
    order: 1
    fields:
      - name: id
        type: text
      - name: email
        type: text
        unique: true
        sortable: true
      - name: name
        type: text
        required: false
  - name: session
    order: 2
    fields:
      - name: id
        type: text
      - name: userId
        type: text
        references:
          table: user
          column: id
          on_delete: cascade
  - name: audit
    table: audit_log
    disable_migrations: true
    fields:
      - name: id
        type: text
`

func TestLoad(t *testing.T) {
	desc, err := Load([]byte(sampleSchema))
	require.NoError(t, err)
	require.Len(t, desc.Tables, 3)

	user := desc.Tables[0]
	assert.Equal(t, "user", user.Key)
	assert.Equal(t, "user", user.Name())
	assert.Equal(t, 1, user.Order)

	require.Len(t, user.Fields, 3)
	assert.True(t, user.Fields[0].Required, "required defaults to true")
	assert.True(t, user.Fields[1].Unique)
	assert.True(t, user.Fields[1].Sortable)
	assert.False(t, user.Fields[2].Required)

	session := desc.Tables[1]
	require.NotNil(t, session.Fields[1].References)
	assert.Equal(t, "user", session.Fields[1].References.Table)
	assert.Equal(t, OnDeleteCascade, session.Fields[1].References.OnDelete)

	audit := desc.Tables[2]
	assert.Equal(t, "audit_log", audit.Name(), "table overrides the key")
	assert.True(t, audit.DisableMigrations)
}

func TestLoadDefaultOrder(t *testing.T) {
	desc, err := Load([]byte("tables:\n  - name: user\n    fields:\n      - name: id\n        type: text\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOrder, desc.Tables[0].Order)
}

func TestLoadOnDeleteSpellings(t *testing.T) {
	cases := map[string]OnDeleteAction{
		"cascade":     OnDeleteCascade,
		"set-null":    OnDeleteSetNull,
		"SET NULL":    OnDeleteSetNull,
		"restrict":    OnDeleteRestrict,
		"no-action":   OnDeleteNoAction,
		"set-default": OnDeleteSetDefault,
	}
	for spelling, want := range cases {
		doc := "tables:\n  - name: a\n    fields:\n      - name: userId\n        type: text\n        references:\n          table: user\n          on_delete: \"" + spelling + "\"\n"
		desc, err := Load([]byte(doc))
		require.NoError(t, err, spelling)
		assert.Equal(t, want, desc.Tables[0].Fields[0].References.OnDelete, spelling)
	}
}

func TestLoadRejectsUnknownOnDelete(t *testing.T) {
	doc := "tables:\n  - name: a\n    fields:\n      - name: userId\n        type: text\n        references:\n          table: user\n          on_delete: obliterate\n"
	_, err := Load([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "obliterate")
}

func TestLoadRejectsNamelessTable(t *testing.T) {
	_, err := Load([]byte("tables:\n  - order: 1\n"))
	require.Error(t, err)
}
