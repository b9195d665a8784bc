package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter schema description",
	Long: `Create a schema.yaml describing the core auth tables (user, session,
account, verification). Edit it to add your own tables and fields, then
run 'better-lucid generate' against your database.`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat("schema.yaml"); err == nil {
			fmt.Println("❌ schema.yaml already exists!")
			return
		}

		content := `# Schema description for better-lucid.
#
# Field reference:
#   type:        text | numeric | boolean | timestamp | json | textArray
#   required:    defaults to true; set false for nullable columns
#   unique:      adds a unique constraint
#   sortable:    text fields get a bounded varchar instead of text
#   bigint:      numeric fields get bigint instead of integer
#   index:       creates a plain index (ignored on foreign key columns)
#   column_name: overrides the snake_case column name
#   references:  { table, column, on_delete } foreign key; on_delete is
#                one of cascade, set-null, restrict, no-action, set-default
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
      - name: emailVerified
        type: boolean
      - name: name
        type: text
        required: false
      - name: createdAt
        type: timestamp
      - name: updatedAt
        type: timestamp

  - name: session
    order: 2
    fields:
      - name: id
        type: text
      - name: token
        type: text
        unique: true
        sortable: true
      - name: userId
        type: text
        references:
          table: user
          column: id
          on_delete: cascade
      - name: expiresAt
        type: timestamp
      - name: ipAddress
        type: text
        required: false
      - name: userAgent
        type: text
        required: false

  - name: account
    order: 3
    fields:
      - name: id
        type: text
      - name: accountId
        type: text
      - name: providerId
        type: text
        index: true
      - name: userId
        type: text
        references:
          table: user
          column: id
          on_delete: cascade
      - name: accessToken
        type: text
        required: false
      - name: refreshToken
        type: text
        required: false
      - name: expiresAt
        type: timestamp
        required: false

  - name: verification
    order: 4
    fields:
      - name: id
        type: text
      - name: identifier
        type: text
        index: true
      - name: value
        type: text
      - name: expiresAt
        type: timestamp
`
		if err := os.WriteFile("schema.yaml", []byte(content), 0644); err != nil {
			fmt.Println("❌ Error creating schema.yaml:", err)
			return
		}
		fmt.Println("✅ Created schema.yaml example file.")
		fmt.Println("📝 Edit schema.yaml to describe your database schema")
		fmt.Println("🚀 Run 'better-lucid generate' to create a migration from it")
	},
}
