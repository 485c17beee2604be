package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"conduit/internal/store"
)

// NewInitCommand creates the init command: creates the database file and
// applies the schema. Safe to run repeatedly.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or migrate the Conduit database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DB = dbPath
			}

			s, err := store.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			if err := s.Close(); err != nil {
				return fmt.Errorf("init database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "database ready at %s\n", cfg.DB)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")

	return cmd
}
