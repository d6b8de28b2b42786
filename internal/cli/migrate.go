package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/habitvault/habitvault/internal/adapters/repository"
	"github.com/habitvault/habitvault/internal/config"
)

type migrateResult struct {
	Status   string `json:"status"`
	Driver   string `json:"driver"`
	Database string `json:"database"`
}

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		envFile string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the HabitVault tables in the configured database",
		Long:  "Reads DB_* settings from the environment (and --env-file) and applies the schema. Safe to run repeatedly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbCfg, err := config.LoadDatabase(envFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			openCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			db, err := repository.Open(openCtx, dbCfg.Driver, repository.DSN(dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.Name))
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.ApplySchema(ctx, db); err != nil {
				return err
			}

			res := migrateResult{
				Status:   "ok",
				Driver:   dbCfg.Driver,
				Database: fmt.Sprintf("%s:%s/%s", dbCfg.Host, dbCfg.Port, dbCfg.Name),
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Schema applied to %s (%s)\n", res.Database, res.Driver)
			return err
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to read before the environment")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connection timeout")

	return cmd
}
