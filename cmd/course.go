package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/coursecheck/internal/course"
	"github.com/spf13/cobra"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage imported course documents",
}

var courseImportCmd = &cobra.Command{
	Use:   "import <course.json>",
	Short: "Validate and store a course document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := course.LoadFile(args[0])
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.CourseRepo().Save(context.Background(), c); err != nil {
			return fmt.Errorf("save course: %w", err)
		}
		fmt.Printf("Imported %s (%s): %d modules, %d activities, %d min\n",
			c.ID, c.Title, len(c.Modules), c.ActivityCount(), c.TotalDurationMinutes())
		return nil
	},
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		summaries, err := s.CourseRepo().List(context.Background())
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No courses stored. Import one with: coursecheck course import <file.json>")
			return nil
		}

		fmt.Printf("%-38s  %-34s  %7s  %10s  %7s\n",
			"ID", "Title", "Modules", "Activities", "Min")
		fmt.Println(strings.Repeat("─", 105))

		for _, cs := range summaries {
			fmt.Printf("%-38s  %-34s  %7d  %10d  %7d\n",
				cs.ID, truncate(cs.Title, 34), cs.Modules, cs.Activities, cs.DurationMinutes)
		}

		fmt.Printf("\n%d courses\n", len(summaries))
		return nil
	},
}

var courseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored course's structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		c, err := s.CourseRepo().Load(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("course %q: %w", args[0], err)
		}

		fmt.Printf("ID:        %s\n", c.ID)
		fmt.Printf("Title:     %s\n", c.Title)
		if c.Description != "" {
			fmt.Printf("About:     %s\n", c.Description)
		}
		if c.TargetDurationMinutes > 0 {
			fmt.Printf("Target:    %d min\n", c.TargetDurationMinutes)
		}
		fmt.Printf("Content:   %d modules, %d activities, %d min\n",
			len(c.Modules), c.ActivityCount(), c.TotalDurationMinutes())
		fmt.Printf("Outcomes:  %d\n", len(c.Outcomes))

		fmt.Println()
		for i, m := range c.Modules {
			fmt.Printf("%2d. %s (%d lessons, %d activities, %d min)\n",
				i+1, m.Title, len(m.Lessons), m.ActivityCount(), m.DurationMinutes())
			for _, l := range m.Lessons {
				fmt.Printf("      %s (%d activities)\n", l.Title, len(l.Activities))
			}
		}
		return nil
	},
}

var courseExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a stored course as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		c, err := s.CourseRepo().Load(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("course %q: %w", args[0], err)
		}

		blob, err := c.Encode()
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("output"); out != "" {
			if err := os.WriteFile(out, blob, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		}
		fmt.Println(string(blob))
		return nil
	},
}

var courseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.CourseRepo().Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	courseExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	courseCmd.AddCommand(courseImportCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseExportCmd)
	courseCmd.AddCommand(courseDeleteCmd)
}
