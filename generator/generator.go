package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eliotovele/better-lucid/diff"
)

const noopComment = "-- No schema changes detected. The database matches the schema description."

const manualRollbackComment = "-- No automatic rollback is available for this migration."

// Artifact is the generation result: the migration document, where it
// should be written, and whether an existing file may be replaced.
// Overwrite is always false; generated migrations never clobber files.
type Artifact struct {
	Code      string
	Path      string
	Overwrite bool
}

// Options tune artifact assembly.
type Options struct {
	// Path overrides the default output location.
	Path string
	// Dir is the migrations directory used when Path is empty.
	// Defaults to "migrations".
	Dir string
	// Now stamps the default filename; the zero value means time.Now().
	Now time.Time
}

// Generate wraps a computed plan into a migration artifact. An empty
// plan yields a no-op document whose body is an explanatory comment.
func Generate(plan *diff.Plan, opts Options) *Artifact {
	artifact := &Artifact{Path: outputPath(opts)}

	if plan.Empty() {
		artifact.Code = noopComment + "\n"
		return artifact
	}

	artifact.Code = wrap(upBody(plan), downBody(plan))
	return artifact
}

// Write persists the artifact. It refuses to replace an existing file
// unless the artifact explicitly allows it, which generated artifacts
// never do.
func (a *Artifact) Write() error {
	if !a.Overwrite {
		if _, err := os.Stat(a.Path); err == nil {
			return fmt.Errorf("migration file %s already exists", a.Path)
		}
	}
	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating migrations folder: %w", err)
		}
	}
	if err := os.WriteFile(a.Path, []byte(a.Code), 0644); err != nil {
		return fmt.Errorf("writing migration file: %w", err)
	}
	return nil
}

func outputPath(opts Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	dir := opts.Dir
	if dir == "" {
		dir = "migrations"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return filepath.Join(dir, now.Format("20060102150405")+"_migration.sql")
}

// upBody renders the forward statements followed by a blank-line
// separated warning block. Warnings are comments only; nothing in the
// body drops what they describe.
func upBody(plan *diff.Plan) string {
	var parts []string
	for _, op := range plan.Up {
		parts = append(parts, renderOperation(op)...)
	}

	body := strings.Join(parts, "\n")
	if len(plan.Warnings) > 0 {
		var lines []string
		for _, w := range plan.Warnings {
			lines = append(lines, "-- WARNING: "+w.Message)
		}
		block := strings.Join(lines, "\n")
		if body == "" {
			body = block
		} else {
			body += "\n\n" + block
		}
	}
	return body
}

// downBody renders the rollback statements in the order the diff engine
// arranged them, or a comment when no automatic inverse exists.
func downBody(plan *diff.Plan) string {
	if len(plan.Down) == 0 {
		return manualRollbackComment
	}
	var parts []string
	for _, op := range plan.Down {
		parts = append(parts, renderOperation(op)...)
	}
	return strings.Join(parts, "\n")
}

func renderOperation(op diff.Operation) []string {
	switch op.Type {
	case diff.CreateTable:
		return CreateTableSQL(op.Table, op.Columns)
	case diff.AddColumns:
		return AddColumnsSQL(op.Table, op.Columns)
	case diff.DropTable:
		return DropTableSQL(op.Table)
	case diff.DropColumns:
		return DropColumnsSQL(op.Table, op.ColumnNames)
	default:
		return nil
	}
}

// wrap assembles the final goose-annotated document. The bodies are
// taken verbatim; their correctness is the renderers' responsibility.
func wrap(up, down string) string {
	var b strings.Builder
	b.WriteString("-- +goose Up\n")
	b.WriteString(up)
	b.WriteString("\n\n-- +goose Down\n")
	b.WriteString(down)
	b.WriteString("\n")
	return b.String()
}
