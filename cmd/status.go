package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliotovele/better-lucid/diff"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how the database compares to the schema description",
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

		fmt.Printf("📊 Database mode: %s\n", plan.Mode)

		if plan.Empty() {
			fmt.Println("✅ Database matches the schema description.")
			return
		}

		tables, columns := 0, 0
		for _, op := range plan.Up {
			switch op.Type {
			case diff.CreateTable:
				tables++
			case diff.AddColumns:
				columns += len(op.Columns)
			}
		}

		if tables > 0 {
			fmt.Printf("🕒 Tables to create: %d\n", tables)
		}
		if columns > 0 {
			fmt.Printf("🕒 Columns to add: %d\n", columns)
		}
		if len(plan.Warnings) > 0 {
			fmt.Println("\n⚠️  Warnings:")
			for _, w := range plan.Warnings {
				fmt.Println("   -", w.Message)
			}
		}
	},
}
