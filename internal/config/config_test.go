package config

import (
	"strings"
	"testing"
)

func TestParse_Minimal(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("DB.Driver default = %q, want sqlite", cfg.DB.Driver)
	}
	if cfg.DB.Path != "switchboard.db" {
		t.Errorf("DB.Path default = %q, want switchboard.db", cfg.DB.Path)
	}
	if cfg.Queue.TickMillis != 100 {
		t.Errorf("Queue.TickMillis default = %d, want 100", cfg.Queue.TickMillis)
	}
}

func TestParse_Full(t *testing.T) {
	yaml := `
server:
  port: 8181
db:
  driver: mysql
  host: db.internal
  port: 3307
  user: switchboard
  database: sb_prod
queue:
  tick_ms: 250
digest:
  enabled: true
  cron: "30 8 * * *"
  slack_webhook: https://hooks.slack.com/services/T/B/x
ai:
  model: gpt-4o
  temperature: 0.3
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DB.Driver != "mysql" || cfg.DB.Host != "db.internal" || cfg.DB.Port != 3307 {
		t.Errorf("DB config = %+v", cfg.DB)
	}
	if cfg.Queue.TickMillis != 250 {
		t.Errorf("Queue.TickMillis = %d, want 250", cfg.Queue.TickMillis)
	}
	if !cfg.Digest.Enabled || cfg.Digest.Cron != "30 8 * * *" {
		t.Errorf("Digest config = %+v", cfg.Digest)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("AI.Model = %q, want gpt-4o", cfg.AI.Model)
	}
}

func TestParse_InvalidDriver(t *testing.T) {
	_, err := Parse([]byte("db:\n  driver: postgres\n"))
	if err == nil {
		t.Fatal("Parse accepted unsupported db driver")
	}
	if !strings.Contains(err.Error(), "db.driver") {
		t.Errorf("error = %v, want mention of db.driver", err)
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("server: [not a map"))
	if err == nil {
		t.Fatal("Parse accepted malformed YAML")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.AI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("AI.APIKeyEnv = %q, want OPENAI_API_KEY", cfg.AI.APIKeyEnv)
	}
	if cfg.Digest.Cron != "0 9 * * *" {
		t.Errorf("Digest.Cron = %q", cfg.Digest.Cron)
	}
}
