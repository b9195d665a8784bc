package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eliotovele/better-lucid/diff"
)

var diffVisual bool

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show differences between the schema description and the database",
	Long: `Show what a generated migration would change, without writing files.

Examples:
  better-lucid diff             # Show differences in text format
  better-lucid diff --visual    # Show differences in tree format with colors
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

		if plan.Empty() {
			fmt.Println("✅ No differences found between schema and database")
			return
		}

		if diffVisual {
			showVisualDiff(plan)
		} else {
			showTextDiff(plan)
		}
	},
}

func init() {
	diffCmd.Flags().BoolVarP(&diffVisual, "visual", "v", false, "Show changes in visual tree format")
}

func showVisualDiff(plan *diff.Plan) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	fmt.Println("🌳 Schema Changes (Visual Diff)")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Database mode: %s\n", plan.Mode)

	fmt.Println("\n📋 Tables:")
	for _, op := range plan.Up {
		if op.Type != diff.CreateTable {
			continue
		}
		green.Printf("  ➕ CREATE %s\n", op.Table)
		for _, col := range op.Columns {
			green.Printf("      %s (%s)\n", col.Name, col.Type)
		}
	}

	fmt.Println("\n📝 Columns:")
	for _, op := range plan.Up {
		if op.Type != diff.AddColumns {
			continue
		}
		fmt.Printf("  📋 %s:\n", op.Table)
		for _, col := range op.Columns {
			green.Printf("    ➕ ADD %s (%s)", col.Name, col.Type)
			if col.NotNull {
				green.Print(" NOT NULL")
			}
			if col.References != nil {
				green.Printf(" → %s.%s", col.References.Table, col.References.Column)
			}
			green.Println()
		}
	}

	if len(plan.Warnings) > 0 {
		fmt.Println("\n⚠️  Warnings (not auto-applied):")
		for _, w := range plan.Warnings {
			yellow.Printf("    %s\n", w.Message)
		}
	}
}

func showTextDiff(plan *diff.Plan) {
	fmt.Println("📋 Schema Changes (Text Format)")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Database mode: %s\n\n", plan.Mode)

	i := 0
	for _, op := range plan.Up {
		switch op.Type {
		case diff.CreateTable:
			i++
			fmt.Printf("%d. CREATE TABLE %s (%d columns)\n", i, op.Table, len(op.Columns))
		case diff.AddColumns:
			for _, col := range op.Columns {
				i++
				fmt.Printf("%d. ADD COLUMN %s.%s (%s)\n", i, op.Table, col.Name, col.Type)
			}
		}
	}

	for _, w := range plan.Warnings {
		i++
		fmt.Printf("%d. WARNING: %s\n", i, w.Message)
	}
}
