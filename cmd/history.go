package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/coursecheck/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored audit runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		courseID, _ := cmd.Flags().GetString("course")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()

		var list []*store.Run
		if courseID != "" {
			list, err = s.RunRepo().ForCourse(ctx, courseID, limit)
		} else {
			list, err = s.RunRepo().Recent(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No audit runs recorded. Save one with: coursecheck audit <course.json> --save")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %5s  %-11s  %-30s  %s\n",
			"ID", "Timestamp", "Score", "E/W/I", "Course", "Taxonomy")
		fmt.Println(strings.Repeat("─", 105))

		for _, run := range list {
			fmt.Printf("%-5d  %-19s  %5d  %-11s  %-30s  %s\n",
				run.ID,
				run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				run.Score,
				fmt.Sprintf("%d/%d/%d", run.Errors, run.Warnings, run.Infos),
				truncate(run.CourseTitle, 30),
				run.TaxonomyName,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().String("course", "", "Only show runs for one course ID")
}
