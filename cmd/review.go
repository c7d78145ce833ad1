package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/coursecheck/internal/app"
	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/config"
	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/store"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review <course.json>",
	Short: "Audit a course and browse the findings interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringP("taxonomy", "t", "", "Taxonomy ID to grade against (default: project config, then Bloom's)")
	reviewCmd.Flags().Bool("save", false, "Record the run in the audit history before opening the browser")
}

// runReview audits the course, then launches the TUI over the result.
func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := course.LoadFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	// The browser works without a database; only saving and the history
	// screen need one.
	var runRepo store.RunRepo
	st, openErr := openStore(cmd)
	if openErr != nil {
		fmt.Fprintln(os.Stderr, "warning: audit history unavailable:", openErr)
	} else {
		defer st.Close()
		runRepo = st.RunRepo()
	}

	tx, err := lookupTaxonomy(ctx, st, taxonomyID(cmd, cfg))
	if err != nil {
		return err
	}

	auditor, err := audit.New(c, tx, cfg.Audit.EngineConfig())
	if err != nil {
		return err
	}
	res := auditor.RunAllChecks()

	if save, _ := cmd.Flags().GetBool("save"); save {
		if st == nil {
			return fmt.Errorf("cannot save run: %w", openErr)
		}
		if err := appendRun(ctx, st.RunRepo(), res, c, tx); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	return app.Run(app.Options{
		Result:       res,
		CourseTitle:  c.Title,
		TaxonomyName: taxonomyName(tx),
		RunRepo:      runRepo,
	})
}
