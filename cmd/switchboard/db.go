package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alleyops/switchboard/internal/db"
	"github.com/alleyops/switchboard/internal/store"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Switchboard database",
		Long:  "Connects to the configured backend and migrates all tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected (%s)\n", cfg.DB.Driver)

	if err := db.AutoMigrate(conn); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	// Touch the store so a fresh database is immediately usable.
	st := store.New(conn)
	channels, err := st.ListChannels()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d channel(s) configured\n", len(channels))

	fmt.Fprintln(out, "\nSwitchboard database initialized successfully.")
	return nil
}
