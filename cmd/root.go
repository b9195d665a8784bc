package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/eliotovele/better-lucid/config"
	"github.com/eliotovele/better-lucid/database"
	"github.com/eliotovele/better-lucid/introspect"
	"github.com/eliotovele/better-lucid/schema"
	"github.com/eliotovele/better-lucid/utils"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "better-lucid",
	Short: "Schema reconciliation and migration generator for PostgreSQL",
	Long: `better-lucid compares a declarative schema description against a live
PostgreSQL database and generates reversible SQL migrations for the
difference. It never executes migrations and never drops anything on
its own: destructive changes are surfaced as warnings only.

Examples:

  better-lucid init
  better-lucid generate
  better-lucid diff --visual
  better-lucid status
`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: better-lucid.yaml)")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL")
	rootCmd.PersistentFlags().StringP("schema-file", "f", "", "Schema description file (default: schema.yaml)")
	rootCmd.PersistentFlags().String("migrations-dir", "", "Directory for generated migrations (default: migrations)")
	rootCmd.PersistentFlags().String("schema-name", "", "Database schema to introspect (default: public)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}

// loadConfig layers defaults, config file, environment, and flags.
func loadConfig() (*config.Config, error) {
	utils.LoadEnv()
	return config.Load(configFile, rootCmd.PersistentFlags())
}

// loadDescription reads and validates the schema description. Boundary
// validation errors abort; warnings are printed and tolerated.
func loadDescription(cfg *config.Config) (*schema.Description, error) {
	desc, err := schema.LoadFile(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}

	result := schema.Validate(desc)
	for _, w := range result.Warnings {
		fmt.Printf("⚠️  %s\n", w.Message)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Printf("❌ %s\n", e.Message)
		}
		return nil, fmt.Errorf("schema description is invalid")
	}

	return desc, nil
}

// connect opens the pool and wraps it in a catalog reader.
func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *introspect.Reader, error) {
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pool, introspect.NewReader(pool, cfg.SchemaName), nil
}
