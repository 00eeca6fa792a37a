package store

import (
	"errors"
	"testing"
	"time"

	"github.com/alleyops/switchboard/internal/db"
	"github.com/alleyops/switchboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testStore opens a throwaway sqlite database and migrates the schema.
func testStore(t *testing.T) *Store {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(t.TempDir()+"/store_test.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(conn)
}

func TestChannelLifecycle(t *testing.T) {
	s := testStore(t)

	ch := &models.Channel{
		Name:        "Support WhatsApp",
		Type:        models.ChannelWhatsApp,
		Credentials: `{"apiKey":"k","phoneNumberId":"p","businessAccountId":"b"}`,
		IsActive:    true, // must be ignored: channels start inactive
	}
	if err := s.CreateChannel(ch); err != nil {
		t.Fatalf("CreateChannel: %v", err)
	}
	if ch.ID == 0 {
		t.Fatal("CreateChannel did not assign an id")
	}
	if ch.IsActive {
		t.Error("CreateChannel persisted an active channel")
	}

	got, err := s.GetChannel(ch.ID)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if got.Name != "Support WhatsApp" || got.Type != models.ChannelWhatsApp {
		t.Errorf("GetChannel = %+v", got)
	}

	if err := s.UpdateChannelStatus(ch.ID, true); err != nil {
		t.Fatalf("UpdateChannelStatus: %v", err)
	}
	active, err := s.ActiveChannels()
	if err != nil {
		t.Fatalf("ActiveChannels: %v", err)
	}
	if len(active) != 1 || active[0].ID != ch.ID {
		t.Errorf("ActiveChannels = %+v", active)
	}

	if err := s.UpdateChannelStatus(ch.ID, false); err != nil {
		t.Fatalf("UpdateChannelStatus(false): %v", err)
	}
	active, _ = s.ActiveChannels()
	if len(active) != 0 {
		t.Errorf("ActiveChannels after deactivate = %+v", active)
	}
}

func TestGetChannel_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetChannel(999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChannel(999) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateChannelStatus_NotFound(t *testing.T) {
	s := testStore(t)
	err := s.UpdateChannelStatus(42, true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateChannelStatus error = %v, want ErrNotFound", err)
	}
}

func TestMessages(t *testing.T) {
	s := testStore(t)

	ch := &models.Channel{Name: "sms", Type: models.ChannelSMS, Credentials: "{}"}
	if err := s.CreateChannel(ch); err != nil {
		t.Fatalf("CreateChannel: %v", err)
	}

	first := &models.Message{
		ChannelID:     ch.ID,
		Content:       "hello",
		MessageType:   models.MessageOutgoing,
		CustomerPhone: "+15551234567",
	}
	if err := s.CreateMessage(first); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if first.Status != models.StatusNew {
		t.Errorf("CreateMessage status = %q, want new", first.Status)
	}

	second := &models.Message{
		ChannelID:   ch.ID,
		Content:     "done",
		MessageType: models.MessageOutgoing,
		Status:      models.StatusCompleted,
	}
	if err := s.CreateMessage(second); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	byChannel, err := s.MessagesByChannel(ch.ID)
	if err != nil {
		t.Fatalf("MessagesByChannel: %v", err)
	}
	if len(byChannel) != 2 {
		t.Fatalf("MessagesByChannel returned %d messages, want 2", len(byChannel))
	}

	active, err := s.ActiveMessages()
	if err != nil {
		t.Fatalf("ActiveMessages: %v", err)
	}
	if len(active) != 1 || active[0].ID != first.ID {
		t.Errorf("ActiveMessages = %+v, want only the new message", active)
	}

	n, err := s.CountMessagesSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountMessagesSince: %v", err)
	}
	if n != 2 {
		t.Errorf("CountMessagesSince = %d, want 2", n)
	}

	outgoing, err := s.CountMessagesByTypeSince(models.MessageOutgoing, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountMessagesByTypeSince: %v", err)
	}
	if outgoing != 2 {
		t.Errorf("CountMessagesByTypeSince(outgoing) = %d, want 2", outgoing)
	}
	incoming, err := s.CountMessagesByTypeSince(models.MessageIncoming, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountMessagesByTypeSince: %v", err)
	}
	if incoming != 0 {
		t.Errorf("CountMessagesByTypeSince(incoming) = %d, want 0", incoming)
	}
}

func TestMCPConfigUpsert(t *testing.T) {
	s := testStore(t)

	if _, err := s.GetMCPConfig(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetMCPConfig on empty store = %v, want ErrNotFound", err)
	}

	if err := s.UpsertMCPConfig(&models.MCPConfig{Enabled: true, Endpoint: "https://mcp.local", Protocol: "standard"}); err != nil {
		t.Fatalf("UpsertMCPConfig: %v", err)
	}
	cfg, err := s.GetMCPConfig()
	if err != nil {
		t.Fatalf("GetMCPConfig: %v", err)
	}
	if !cfg.Enabled || cfg.Endpoint != "https://mcp.local" {
		t.Errorf("GetMCPConfig = %+v", cfg)
	}

	// Second upsert replaces, not duplicates.
	if err := s.UpsertMCPConfig(&models.MCPConfig{Enabled: false, Protocol: "standard"}); err != nil {
		t.Fatalf("UpsertMCPConfig (update): %v", err)
	}
	cfg, _ = s.GetMCPConfig()
	if cfg.Enabled {
		t.Error("UpsertMCPConfig did not update the existing row")
	}
}

func TestUsers(t *testing.T) {
	s := testStore(t)

	if _, err := s.GetUserByUsername("alley"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUserByUsername = %v, want ErrNotFound", err)
	}
	if err := s.CreateUser(&models.User{Username: "alley", Password: "x"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	u, err := s.GetUserByUsername("alley")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.Username != "alley" {
		t.Errorf("Username = %q", u.Username)
	}
}
