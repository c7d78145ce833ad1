package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/config"
	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/report"
	"github.com/abhisek/coursecheck/internal/store"
	"github.com/abhisek/coursecheck/internal/taxonomy"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit <course.json>",
	Short: "Run quality checks against a course document",
	Long: `Run the quality checks against a course document and print a report.

The audit is fully offline: it reads the course file, grades it against a
cognitive taxonomy, and writes the report to stdout. Findings never fail the
command; the exit code only reflects execution errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringP("taxonomy", "t", "", "Taxonomy ID to grade against (default: project config, then Bloom's)")
	auditCmd.Flags().String("check", "", "Run a single check (e.g. flow, gaps, distribution)")
	auditCmd.Flags().Bool("json", false, "Emit the result as JSON")
	auditCmd.Flags().Bool("plain", false, "Disable color in the text report")
	auditCmd.Flags().Bool("save", false, "Record the run in the audit history")
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := course.LoadFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	taxID := taxonomyID(cmd, cfg)
	save, _ := cmd.Flags().GetBool("save")

	// The store is only needed to save the run or to resolve a user
	// taxonomy; a plain preset audit stays database-free.
	var st *store.Store
	if save || (taxID != "" && !taxonomy.IsPreset(taxID)) {
		st, err = openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	tx, err := lookupTaxonomy(ctx, st, taxID)
	if err != nil {
		return err
	}

	auditor, err := audit.New(c, tx, cfg.Audit.EngineConfig())
	if err != nil {
		return err
	}

	var res *audit.Result
	if checkName, _ := cmd.Flags().GetString("check"); checkName != "" {
		res, err = auditor.RunCheck(audit.CheckType(checkName))
		if err != nil {
			return err
		}
	} else {
		res = auditor.RunAllChecks()
	}

	if save {
		if err := appendRun(ctx, st.RunRepo(), res, c, tx); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		blob, err := report.JSON(res)
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}

	plain, _ := cmd.Flags().GetBool("plain")
	meta := report.Meta{CourseTitle: c.Title, TaxonomyName: taxonomyName(tx)}
	fmt.Print(report.Text(res, meta, !plain))
	return nil
}

// taxonomyID returns the taxonomy the user asked for: the flag first, then
// the project config. Empty means the engine default.
func taxonomyID(cmd *cobra.Command, cfg *config.Config) string {
	if id, _ := cmd.Flags().GetString("taxonomy"); id != "" {
		return id
	}
	return cfg.Taxonomy
}

// lookupTaxonomy resolves a taxonomy ID. Presets resolve without a store; a
// non-preset ID needs one. An empty ID returns nil so the engine falls back
// to its default.
func lookupTaxonomy(ctx context.Context, st *store.Store, id string) (*taxonomy.Taxonomy, error) {
	if id == "" {
		return nil, nil
	}
	if t, ok := taxonomy.Preset(id); ok {
		return t, nil
	}
	if st == nil {
		return nil, fmt.Errorf("taxonomy %q is not a preset and no database is available", id)
	}
	t, err := st.TaxonomyRepo().Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %q: %w", id, err)
	}
	return t, nil
}

func taxonomyName(tx *taxonomy.Taxonomy) string {
	if tx == nil {
		return taxonomy.Default().Name
	}
	return tx.Name
}

// appendRun records one completed audit in the history.
func appendRun(ctx context.Context, repo store.RunRepo, res *audit.Result, c *course.Course, tx *taxonomy.Taxonomy) error {
	if tx == nil {
		tx = taxonomy.Default()
	}
	return repo.Append(ctx, &store.Run{
		CourseID:     res.CourseID,
		CourseTitle:  c.Title,
		TaxonomyID:   res.TaxonomyID,
		TaxonomyName: tx.Name,
		Score:        res.Score,
		Errors:       res.ErrorCount,
		Warnings:     res.WarningCount,
		Infos:        res.InfoCount,
		Result:       res,
	})
}
