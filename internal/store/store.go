// Package store is the persistence collaborator for Switchboard. The core
// never issues raw queries; everything goes through the named operations
// defined here.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/alleyops/switchboard/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: record not found")

// Store wraps a GORM connection with the operations the rest of the
// system is allowed to perform.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an open GORM connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Channel operations ---

// CreateChannel persists a new channel. Channels are always created
// inactive; activation is the connection manager's job.
func (s *Store) CreateChannel(ch *models.Channel) error {
	ch.IsActive = false
	if err := s.db.Create(ch).Error; err != nil {
		return fmt.Errorf("store: create channel: %w", err)
	}
	return nil
}

// GetChannel fetches a channel by id.
func (s *Store) GetChannel(id uint) (*models.Channel, error) {
	var ch models.Channel
	if err := s.db.First(&ch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: channel %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get channel %d: %w", id, err)
	}
	return &ch, nil
}

// ListChannels returns all channels ordered by creation time.
func (s *Store) ListChannels() ([]models.Channel, error) {
	var chs []models.Channel
	if err := s.db.Order("created_at ASC").Find(&chs).Error; err != nil {
		return nil, fmt.Errorf("store: list channels: %w", err)
	}
	return chs, nil
}

// ActiveChannels returns all channels currently flagged active.
func (s *Store) ActiveChannels() ([]models.Channel, error) {
	var chs []models.Channel
	if err := s.db.Where("is_active = ?", true).Order("created_at ASC").Find(&chs).Error; err != nil {
		return nil, fmt.Errorf("store: active channels: %w", err)
	}
	return chs, nil
}

// UpdateChannelStatus flips a channel's active flag.
func (s *Store) UpdateChannelStatus(id uint, isActive bool) error {
	result := s.db.Model(&models.Channel{}).Where("id = ?", id).
		Update("is_active", isActive)
	if result.Error != nil {
		return fmt.Errorf("store: update channel %d status: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store: channel %d: %w", id, ErrNotFound)
	}
	return nil
}

// --- Message operations ---

// CreateMessage persists a message and assigns its id.
func (s *Store) CreateMessage(msg *models.Message) error {
	if msg.Status == "" {
		msg.Status = models.StatusNew
	}
	if err := s.db.Create(msg).Error; err != nil {
		return fmt.Errorf("store: create message: %w", err)
	}
	return nil
}

// GetMessage fetches a message by id.
func (s *Store) GetMessage(id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: message %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get message %d: %w", id, err)
	}
	return &msg, nil
}

// MessagesByChannel returns all messages for one channel, oldest first.
func (s *Store) MessagesByChannel(channelID uint) ([]models.Message, error) {
	var msgs []models.Message
	if err := s.db.Where("channel_id = ?", channelID).
		Order("created_at ASC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("store: messages for channel %d: %w", channelID, err)
	}
	return msgs, nil
}

// ActiveMessages returns messages still in status "new", oldest first. The
// queue-status endpoint uses the count as a proxy for buffer depth.
func (s *Store) ActiveMessages() ([]models.Message, error) {
	var msgs []models.Message
	if err := s.db.Where("status = ?", models.StatusNew).
		Order("created_at ASC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("store: active messages: %w", err)
	}
	return msgs, nil
}

// CountMessagesSince returns the number of messages created at or after t.
func (s *Store) CountMessagesSince(t time.Time) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Message{}).
		Where("created_at >= ?", t).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("store: count messages: %w", err)
	}
	return n, nil
}

// CountMessagesByTypeSince returns the number of messages of one direction
// (incoming or outgoing) created at or after t.
func (s *Store) CountMessagesByTypeSince(msgType string, t time.Time) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Message{}).
		Where("message_type = ? AND created_at >= ?", msgType, t).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("store: count %s messages: %w", msgType, err)
	}
	return n, nil
}

// --- AI config operations ---

// CreateAIConfig persists a new AI configuration.
func (s *Store) CreateAIConfig(cfg *models.AIConfig) error {
	if err := s.db.Create(cfg).Error; err != nil {
		return fmt.Errorf("store: create ai config: %w", err)
	}
	return nil
}

// ListAIConfigs returns all AI configurations, newest first.
func (s *Store) ListAIConfigs() ([]models.AIConfig, error) {
	var cfgs []models.AIConfig
	if err := s.db.Order("created_at DESC").Find(&cfgs).Error; err != nil {
		return nil, fmt.Errorf("store: list ai configs: %w", err)
	}
	return cfgs, nil
}

// --- Training document operations ---

// CreateTrainingDocument persists an uploaded training document.
func (s *Store) CreateTrainingDocument(doc *models.TrainingDocument) error {
	if doc.Status == "" {
		doc.Status = "pending"
	}
	if err := s.db.Create(doc).Error; err != nil {
		return fmt.Errorf("store: create training document: %w", err)
	}
	return nil
}

// ListTrainingDocuments returns all training documents, newest first.
func (s *Store) ListTrainingDocuments() ([]models.TrainingDocument, error) {
	var docs []models.TrainingDocument
	if err := s.db.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("store: list training documents: %w", err)
	}
	return docs, nil
}

// UpdateTrainingDocumentStatus sets a training document's status.
func (s *Store) UpdateTrainingDocumentStatus(id uint, status string) error {
	result := s.db.Model(&models.TrainingDocument{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("store: update training document %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store: training document %d: %w", id, ErrNotFound)
	}
	return nil
}

// --- MCP / MAKE config operations (single-row settings) ---

// GetMCPConfig returns the MCP settings row, or ErrNotFound if unset.
func (s *Store) GetMCPConfig() (*models.MCPConfig, error) {
	var cfg models.MCPConfig
	if err := s.db.First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: mcp config: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("store: get mcp config: %w", err)
	}
	return &cfg, nil
}

// UpsertMCPConfig creates or replaces the MCP settings row.
func (s *Store) UpsertMCPConfig(cfg *models.MCPConfig) error {
	existing, err := s.GetMCPConfig()
	if err == nil {
		cfg.ID = existing.ID
		if err := s.db.Save(cfg).Error; err != nil {
			return fmt.Errorf("store: update mcp config: %w", err)
		}
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.db.Create(cfg).Error; err != nil {
		return fmt.Errorf("store: create mcp config: %w", err)
	}
	return nil
}

// GetMakeConfig returns the Make settings row, or ErrNotFound if unset.
func (s *Store) GetMakeConfig() (*models.MakeConfig, error) {
	var cfg models.MakeConfig
	if err := s.db.First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: make config: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("store: get make config: %w", err)
	}
	return &cfg, nil
}

// UpsertMakeConfig creates or replaces the Make settings row.
func (s *Store) UpsertMakeConfig(cfg *models.MakeConfig) error {
	existing, err := s.GetMakeConfig()
	if err == nil {
		cfg.ID = existing.ID
		if err := s.db.Save(cfg).Error; err != nil {
			return fmt.Errorf("store: update make config: %w", err)
		}
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.db.Create(cfg).Error; err != nil {
		return fmt.Errorf("store: create make config: %w", err)
	}
	return nil
}

// --- User operations ---

// GetUserByUsername fetches a user by username.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get user %q: %w", username, err)
	}
	return &u, nil
}

// CreateUser persists a new user.
func (s *Store) CreateUser(u *models.User) error {
	if err := s.db.Create(u).Error; err != nil {
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}
