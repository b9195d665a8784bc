package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliotovele/better-lucid/schema"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the schema description",
	Long: `Validate the schema description without touching a database.

Checks identifier rules, known field types, primary key constraints,
and foreign key targets. Unresolved foreign key references are reported
as warnings: generation falls back to the raw table name, which may be
an intentional cross-schema reference.

Examples:
  better-lucid validate                 # Validate schema.yaml
  better-lucid validate -f custom.yaml  # Validate a custom schema file
  better-lucid validate --format json   # Output results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Println("❌ Loading config:", err)
			os.Exit(1)
		}

		desc, err := schema.LoadFile(cfg.SchemaFile)
		if err != nil {
			fmt.Println("❌ Loading schema:", err)
			os.Exit(1)
		}

		result := schema.Validate(desc)

		if validateFormat == "json" {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Println("❌ Encoding result:", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
		} else {
			for _, e := range result.Errors {
				fmt.Printf("❌ [%s] %s\n", e.Type, e.Message)
			}
			for _, w := range result.Warnings {
				fmt.Printf("⚠️  [%s] %s\n", w.Type, w.Message)
			}
			if result.Valid {
				fmt.Println("✅ Schema description is valid.")
			}
		}

		if !result.Valid {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Output format (text, json)")
}
