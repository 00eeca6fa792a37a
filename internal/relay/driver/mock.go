package driver

import (
	"context"
	"sync"

	"github.com/alleyops/switchboard/internal/models"
)

// Mock implements Driver for testing. It records sent messages and lets
// tests script validation and send outcomes.
type Mock struct {
	TypeTag string
	Valid   bool  // result of ValidateCredentials
	SendErr error // returned by Send when non-nil

	mu   sync.Mutex
	sent []*models.Message
}

// NewMock creates a Mock driver that validates successfully.
func NewMock(typeTag string) *Mock {
	return &Mock{TypeTag: typeTag, Valid: true}
}

func (m *Mock) Type() string { return m.TypeTag }

func (m *Mock) ValidateCredentials(ctx context.Context) bool { return m.Valid }

func (m *Mock) FormatOutgoing(msg *models.Message) (any, error) {
	return map[string]string{"text": msg.Content, "to": msg.CustomerPhone}, nil
}

func (m *Mock) ParseIncoming(raw []byte) (*models.Message, error) {
	msg := newIncoming(0, string(raw))
	return msg, nil
}

func (m *Mock) Send(ctx context.Context, msg *models.Message) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of all messages passed to Send.
func (m *Mock) Sent() []*models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Message, len(m.sent))
	copy(out, m.sent)
	return out
}
