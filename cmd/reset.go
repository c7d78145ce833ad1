package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local database",
	Long: "Delete the local database: stored courses, user taxonomies, audit history,\n" +
		"and the LLM request log. Preset taxonomies are re-seeded on next use.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}

		if force, _ := cmd.Flags().GetBool("force"); !force {
			fmt.Printf("This deletes %s and everything in it.\nRe-run with --force to confirm.\n", dbPath)
			return nil
		}

		// SQLite in WAL mode leaves sidecar files next to the database.
		removed := false
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			switch err := os.Remove(p); {
			case err == nil:
				removed = true
			case !os.IsNotExist(err):
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}

		if !removed {
			fmt.Println("Nothing to delete.")
			return nil
		}
		fmt.Printf("Deleted %s\n", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Delete without confirmation")
}
