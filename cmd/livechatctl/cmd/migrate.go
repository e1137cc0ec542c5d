package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SARVESHVARADKAR123/livechat/internal/config"
	"github.com/SARVESHVARADKAR123/livechat/internal/store/postgres"
)

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	var databaseURL string

	dsn := func() (string, error) {
		if databaseURL != "" {
			return databaseURL, nil
		}
		if url := cfg().DatabaseURL; url != "" {
			return url, nil
		}
		return "", errors.New("DATABASE_URL or --database-url is required")
	}

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres store schema",
	}
	c.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres connection url (defaults to DATABASE_URL)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := dsn()
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := dsn()
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(url, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d step(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := dsn()
			if err != nil {
				return err
			}
			v, dirty, err := postgres.MigrationVersion(url)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
			return nil
		},
	}

	c.AddCommand(up, down, version)
	return c
}
