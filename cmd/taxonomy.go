package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/coursecheck/internal/taxonomy"
	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:     "taxonomy",
	Aliases: []string{"tax"},
	Short:   "Manage cognitive taxonomies",
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets and user taxonomies",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		taxonomies, err := s.TaxonomyRepo().ListAll(context.Background())
		if err != nil {
			return fmt.Errorf("list taxonomies: %w", err)
		}

		fmt.Printf("%-22s  %-34s  %-12s  %6s  %s\n",
			"ID", "Name", "Kind", "Levels", "Preset")
		fmt.Println(strings.Repeat("─", 90))

		for _, t := range taxonomies {
			preset := ""
			if t.Preset {
				preset = "yes"
			}
			fmt.Printf("%-22s  %-34s  %-12s  %6d  %s\n",
				t.ID, truncate(t.Name, 34), t.Kind, len(t.Levels), preset)
		}

		fmt.Printf("\n%d taxonomies\n", len(taxonomies))
		return nil
	},
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a taxonomy's levels and activity mappings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTaxonomy(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:           %s\n", t.ID)
		fmt.Printf("Name:         %s\n", t.Name)
		if t.Description != "" {
			fmt.Printf("Description:  %s\n", t.Description)
		}
		fmt.Printf("Kind:         %s\n", t.Kind)
		fmt.Printf("Preset:       %v\n", t.Preset)

		fmt.Println("\nLevels")
		fmt.Println(strings.Repeat("─", 76))
		for _, lv := range t.Levels {
			line := fmt.Sprintf("%3d  %-20s  %s", lv.Order, lv.Value, lv.Name)
			if lv.Description != "" {
				line += "  — " + truncate(lv.Description, 40)
			}
			fmt.Println(line)
		}

		if len(t.Mappings) > 0 {
			fmt.Println("\nActivity Mappings")
			fmt.Println(strings.Repeat("─", 76))
			for _, m := range t.Mappings {
				fmt.Printf("%-16s  %s\n", m.ActivityType, strings.Join(m.CompatibleLevels, ", "))
			}
		}
		return nil
	},
}

var taxonomyImportCmd = &cobra.Command{
	Use:   "import <taxonomy.json>",
	Short: "Import a user taxonomy from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read taxonomy file: %w", err)
		}
		t, err := taxonomy.Parse(raw)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.TaxonomyRepo().Save(context.Background(), t); err != nil {
			return fmt.Errorf("save taxonomy: %w", err)
		}
		fmt.Printf("Imported taxonomy %s (%s, %d levels)\n", t.ID, t.Name, len(t.Levels))
		return nil
	},
}

var taxonomyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a taxonomy as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTaxonomy(cmd, args[0])
		if err != nil {
			return err
		}

		blob, err := t.Encode()
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

var taxonomyDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy a taxonomy (including presets) as an editable user taxonomy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		dup, err := s.TaxonomyRepo().Duplicate(context.Background(), args[0], name)
		if err != nil {
			return fmt.Errorf("duplicate taxonomy: %w", err)
		}
		fmt.Printf("Created %s (%s)\n", dup.ID, dup.Name)
		return nil
	},
}

var taxonomyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user taxonomy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.TaxonomyRepo().Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("delete taxonomy: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// loadTaxonomy fetches one taxonomy by ID, avoiding the database for
// presets.
func loadTaxonomy(cmd *cobra.Command, id string) (*taxonomy.Taxonomy, error) {
	if t, ok := taxonomy.Preset(id); ok {
		return t, nil
	}

	s, err := openStore(cmd)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	t, err := s.TaxonomyRepo().Load(context.Background(), id)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %q: %w", id, err)
	}
	return t, nil
}

func init() {
	taxonomyExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	taxonomyDuplicateCmd.Flags().String("name", "", "Name for the copy (defaults to \"<source> (copy)\")")

	taxonomyCmd.AddCommand(taxonomyListCmd)
	taxonomyCmd.AddCommand(taxonomyShowCmd)
	taxonomyCmd.AddCommand(taxonomyImportCmd)
	taxonomyCmd.AddCommand(taxonomyExportCmd)
	taxonomyCmd.AddCommand(taxonomyDuplicateCmd)
	taxonomyCmd.AddCommand(taxonomyDeleteCmd)
}
