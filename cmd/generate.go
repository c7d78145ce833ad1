package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/coursecheck/internal/audit"
	"github.com/abhisek/coursecheck/internal/config"
	"github.com/abhisek/coursecheck/internal/coursegen"
	"github.com/abhisek/coursecheck/internal/llm"
	"github.com/abhisek/coursecheck/internal/report"
	"github.com/abhisek/coursecheck/internal/store"
	"github.com/abhisek/coursecheck/internal/taxonomy"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a course outline with an LLM",
	Long: `Draft a course outline for a topic using the configured LLM provider.

The draft is a complete course document: it passes the same validation as an
imported file, every activity starts in the draft build state, and the output
can be piped straight into audit. Set COURSECHECK_LLM_PROVIDER or one of the
standard provider API key variables first.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "Course topic (required)")
	generateCmd.Flags().String("audience", "", "Target audience, e.g. \"working engineers new to Go\"")
	generateCmd.Flags().Int("modules", 0, "Requested module count (0 lets the model choose)")
	generateCmd.Flags().Int("duration", 0, "Target total duration in minutes")
	generateCmd.Flags().StringP("taxonomy", "t", "", "Taxonomy the outline should follow (default: project config, then Bloom's)")
	generateCmd.Flags().StringP("output", "o", "", "Write the draft to a file instead of stdout")
	generateCmd.Flags().Bool("save", false, "Store the draft in the course database")
	generateCmd.Flags().Bool("audit", false, "Audit the draft and print the report instead of the draft JSON")
	_ = generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	topic, _ := cmd.Flags().GetString("topic")
	audience, _ := cmd.Flags().GetString("audience")
	modules, _ := cmd.Flags().GetInt("modules")
	duration, _ := cmd.Flags().GetInt("duration")
	outPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	// The store provides request logging and the --save destination; drafts
	// to stdout or a file still work without it.
	var logRepo store.LLMLogRepo
	st, openErr := openStore(cmd)
	if openErr != nil {
		fmt.Fprintln(os.Stderr, "warning: request logging unavailable:", openErr)
	} else {
		defer st.Close()
		logRepo = st.LLMLogRepo()
	}
	if save && st == nil {
		return fmt.Errorf("cannot save draft: %w", openErr)
	}

	tx, err := lookupTaxonomy(ctx, st, taxonomyID(cmd, cfg))
	if err != nil {
		return err
	}
	if tx == nil {
		tx = taxonomy.Default()
	}

	provider, err := llm.NewProviderFromEnv(ctx, logRepo)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	svc := coursegen.NewService(provider, tx, coursegen.DefaultConfig())

	fmt.Fprintf(os.Stderr, "Drafting outline for %q...\n", topic)
	c, err := svc.Generate(ctx, coursegen.OutlineInput{
		Topic:                 topic,
		Audience:              audience,
		Modules:               modules,
		TargetDurationMinutes: duration,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Draft %q: %d modules, %d activities, %d min\n",
		c.Title, len(c.Modules), c.ActivityCount(), c.TotalDurationMinutes())

	if save {
		if err := st.CourseRepo().Save(ctx, c); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}
		fmt.Printf("Stored draft %s\n", c.ID)
	}

	if outPath != "" {
		if err := c.SaveFile(outPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outPath)
	}

	if doAudit, _ := cmd.Flags().GetBool("audit"); doAudit {
		auditor, err := audit.New(c, tx, cfg.Audit.EngineConfig())
		if err != nil {
			return err
		}
		res := auditor.RunAllChecks()
		fmt.Print(report.Text(res, report.Meta{CourseTitle: c.Title, TaxonomyName: tx.Name}, true))
		return nil
	}

	if !save && outPath == "" {
		blob, err := c.Encode()
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
	}
	return nil
}
