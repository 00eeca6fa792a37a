package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alleyops/switchboard/internal/db"
	"github.com/alleyops/switchboard/internal/models"
	"github.com/alleyops/switchboard/internal/relay/driver"
	"github.com/alleyops/switchboard/internal/store"
)

func newChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Channel management commands",
	}

	cmd.AddCommand(newChannelListCmd())
	cmd.AddCommand(newChannelTestCmd())
	return cmd
}

func newChannelListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChannelList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runChannelList(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}

	channels, err := store.New(conn).ListChannels()
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		fmt.Fprintln(out, "No channels configured.")
		return nil
	}

	fmt.Fprintf(out, "%-4s %-24s %-12s %s\n", "ID", "NAME", "TYPE", "STATUS")
	for _, ch := range channels {
		status := "inactive"
		if ch.IsActive {
			status = "active"
		}
		fmt.Fprintf(out, "%-4d %-24s %-12s %s\n", ch.ID, ch.Name, ch.Type, status)
	}
	return nil
}

func newChannelTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <type>",
		Short: "Validate credentials for a channel type",
		Long:  "Prompts for each credential field the platform requires (secrets without echo) and runs the driver's validation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChannelTest(cmd, args[0])
		},
	}
}

// secretField reports whether a credential field should be read without
// echo.
func secretField(name string) bool {
	lowered := strings.ToLower(name)
	for _, marker := range []string{"token", "secret", "key", "password", "sid"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func runChannelTest(cmd *cobra.Command, typ string) error {
	out := cmd.OutOrStdout()

	fields := driver.RequiredFields(typ)
	if len(fields) == 0 {
		return fmt.Errorf("unsupported channel type %q", typ)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	creds := make(map[string]string, len(fields))
	for _, field := range fields {
		fmt.Fprintf(out, "%s: ", field)

		var value string
		if secretField(field) && term.IsTerminal(int(os.Stdin.Fd())) {
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("read %s: %w", field, err)
			}
			fmt.Fprintln(out)
			value = string(raw)
		} else {
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read %s: %w", field, err)
			}
			value = strings.TrimSpace(line)
		}
		creds[field] = value
	}

	encoded, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	d, err := driver.New(&models.Channel{Type: typ, Credentials: string(encoded)})
	if err != nil {
		return err
	}
	if d.ValidateCredentials(context.Background()) {
		fmt.Fprintf(out, "Credentials for %s look valid.\n", typ)
		return nil
	}
	return fmt.Errorf("credentials for %s failed validation", typ)
}
