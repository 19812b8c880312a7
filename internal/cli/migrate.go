package cli

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fekuna/omnipos-backoffice/config"
	"github.com/fekuna/omnipos-backoffice/internal/database/postgres"
)

func newMigrateCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  `Connect with the POSTGRES_* settings the service uses and apply every embedded migration not yet recorded in schema_migrations.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(envFile)
			cfg := config.LoadEnv()

			db, err := postgres.NewPostgres(&postgres.Config{
				Host:            cfg.Postgres.Host,
				Port:            cfg.Postgres.Port,
				User:            cfg.Postgres.User,
				Password:        cfg.Postgres.Password,
				DBName:          cfg.Postgres.DBName,
				SSLMode:         cfg.Postgres.SSLMode,
				MaxOpenConns:    1,
				MaxIdleConns:    1,
				ConnMaxLifetime: time.Minute,
				ConnMaxIdleTime: time.Minute,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.ApplyMigrations(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading POSTGRES_* settings")
	return cmd
}
