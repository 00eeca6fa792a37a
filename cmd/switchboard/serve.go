package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alleyops/switchboard/internal/ai"
	"github.com/alleyops/switchboard/internal/api"
	"github.com/alleyops/switchboard/internal/config"
	"github.com/alleyops/switchboard/internal/db"
	"github.com/alleyops/switchboard/internal/digest"
	"github.com/alleyops/switchboard/internal/relay"
	"github.com/alleyops/switchboard/internal/store"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Switchboard server",
		Long:  "Opens the database, loads persisted channels, and serves the REST API with the outbound queue and daily digest running.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

// loadConfig reads the YAML config, falling back to defaults when the file
// does not exist. A .env file, when present, is loaded first so the config
// can reference environment variables.
func loadConfig(path string) (*config.Config, error) {
	_ = godotenv.Load()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildResponder prefers the newest stored AI configuration; without one it
// falls back to the YAML settings and the configured API key environment
// variable. Returns nil (no error) when neither source yields an API key.
func buildResponder(st *store.Store, cfg *config.Config) (*ai.Responder, error) {
	if rows, err := st.ListAIConfigs(); err == nil && len(rows) > 0 {
		row := rows[0]
		return ai.NewResponder(ai.ResponderOpts{
			APIKey:      row.APIKey,
			Model:       row.ModelType,
			Temperature: float32(row.Temperature),
		})
	}

	apiKey := os.Getenv(cfg.AI.APIKeyEnv)
	if apiKey == "" {
		return nil, nil
	}
	return ai.NewResponder(ai.ResponderOpts{
		APIKey:      apiKey,
		Model:       cfg.AI.Model,
		Temperature: float32(cfg.AI.Temperature),
	})
}

func runServe(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(conn); err != nil {
		return err
	}
	st := store.New(conn)
	fmt.Fprintf(out, "Database ready (%s)\n", cfg.DB.Driver)

	queue := relay.NewQueue(relay.QueueOpts{
		Tick: time.Duration(cfg.Queue.TickMillis) * time.Millisecond,
	})
	manager, err := relay.NewManager(relay.ManagerOpts{
		Store: st,
		Queue: queue,
		Out:   out,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := manager.Init(ctx); err != nil {
		return err
	}
	go queue.Run()
	defer queue.Stop()

	responder, err := buildResponder(st, cfg)
	if err != nil {
		return err
	}
	if responder == nil {
		fmt.Fprintf(out, "no AI configuration and %s not set; POST /api/chat disabled\n", cfg.AI.APIKeyEnv)
	}

	if cfg.Digest.Enabled {
		dig, err := digest.New(digest.Opts{
			Store:        st,
			Cron:         cfg.Digest.Cron,
			SlackWebhook: cfg.Digest.SlackWebhook,
			Out:          out,
		})
		if err != nil {
			return err
		}
		go dig.Run(ctx)
		fmt.Fprintf(out, "Digest scheduled (%s)\n", cfg.Digest.Cron)
	}

	return api.Start(ctx, api.Opts{
		Store:     st,
		Manager:   manager,
		Responder: responder,
		Port:      cfg.Server.Port,
		Out:       out,
	})
}
