package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliotovele/better-lucid/diff"
	"github.com/eliotovele/better-lucid/generator"
)

var (
	generateOutput string
	dryRunGenerate bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file path (default: migrations/<timestamp>_migration.sql)")
	generateCmd.Flags().BoolVar(&dryRunGenerate, "dry-run", false, "Print the migration instead of writing a file")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a migration file from the schema description",
	Long: `Compare the schema description against the live database and write
a reversible SQL migration for the difference.

The database is classified as fresh or provisioned: a fresh database
gets a creation block for every table, a provisioned one gets only the
missing tables and columns. Columns and tables that exist in the
database but not in the description are reported as warnings, never
dropped.

Examples:
  better-lucid generate                 # Write migrations/<timestamp>_migration.sql
  better-lucid generate -o custom.sql   # Write to a custom path
  better-lucid generate --dry-run       # Preview without writing
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Println("❌ Loading config:", err)
			os.Exit(1)
		}

		desc, err := loadDescription(cfg)
		if err != nil {
			fmt.Println("❌ Loading schema:", err)
			os.Exit(1)
		}

		ctx := context.Background()
		pool, reader, err := connect(ctx, cfg)
		if err != nil {
			fmt.Println("❌ Connecting to database:", err)
			os.Exit(1)
		}
		defer pool.Close()

		plan, err := diff.Compute(ctx, reader, desc, diff.Options{})
		if err != nil {
			fmt.Println("❌ Computing diff:", err)
			os.Exit(1)
		}

		artifact := generator.Generate(plan, generator.Options{
			Path: generateOutput,
			Dir:  cfg.MigrationsDir,
		})

		if dryRunGenerate {
			fmt.Println("\n================ DRY RUN: Migration Preview ================")
			fmt.Print(artifact.Code)
			fmt.Println("============================================================")
			fmt.Println("(Dry run only. No files were written.)")
			return
		}

		if plan.Empty() {
			fmt.Println("✅ No changes detected.")
			return
		}

		if err := artifact.Write(); err != nil {
			fmt.Println("❌ Writing migration file:", err)
			os.Exit(1)
		}

		fmt.Println("✅ Migration generated:", artifact.Path)
		for _, w := range plan.Warnings {
			fmt.Printf("⚠️  %s\n", w.Message)
		}
	},
}
