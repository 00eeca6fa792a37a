// Package relay is the channel connection and routing core: it tracks
// which channels are active, owns their live drivers, dispatches outbound
// messages to the right per-channel transport, and buffers sent messages
// for asynchronous post-processing.
package relay

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/alleyops/switchboard/internal/models"
	"github.com/alleyops/switchboard/internal/relay/driver"
	"github.com/alleyops/switchboard/internal/store"
)

// Manager is the connection manager: one instance per process, constructed
// at startup and passed explicitly to whatever needs it. It is the sole
// component permitted to flip a channel's active flag, and activation is
// always credential-gated.
type Manager struct {
	store     *store.Store
	queue     *Queue
	newDriver func(*models.Channel) (driver.Driver, error)
	out       io.Writer

	mu      sync.Mutex
	active  map[uint]*models.Channel
	drivers map[uint]driver.Driver
}

// ManagerOpts holds parameters for creating a Manager.
type ManagerOpts struct {
	Store *store.Store
	Queue *Queue

	// NewDriver overrides the driver factory; tests inject fakes here.
	NewDriver func(*models.Channel) (driver.Driver, error)

	Out io.Writer // defaults to os.Stdout
}

// NewManager creates a Manager. Call Init to load persisted channel state.
func NewManager(opts ManagerOpts) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("relay: store is required")
	}
	if opts.Queue == nil {
		return nil, fmt.Errorf("relay: queue is required")
	}
	newDriver := opts.NewDriver
	if newDriver == nil {
		newDriver = driver.New
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Manager{
		store:     opts.Store,
		queue:     opts.Queue,
		newDriver: newDriver,
		out:       out,
		active:    make(map[uint]*models.Channel),
		drivers:   make(map[uint]driver.Driver),
	}, nil
}

// Init loads all persisted channels and builds drivers for the ones already
// flagged active. Per-channel failures are logged and skipped; startup
// continues.
func (m *Manager) Init(ctx context.Context) error {
	channels, err := m.store.ListChannels()
	if err != nil {
		return fmt.Errorf("relay: init: %w", err)
	}

	for i := range channels {
		ch := &channels[i]
		if !ch.IsActive {
			continue
		}
		d, err := m.newDriver(ch)
		if err != nil {
			log.Printf("relay: init: channel %d (%s): %v", ch.ID, ch.Type, err)
			continue
		}
		m.mu.Lock()
		m.active[ch.ID] = ch
		m.drivers[ch.ID] = d
		m.mu.Unlock()
	}

	fmt.Fprintf(m.out, "relay: %d channel(s) active\n", m.ActiveCount())
	return nil
}

// ActivateChannel validates the channel's credentials and, on success,
// marks it active and caches its driver. This is the only path by which a
// channel becomes active.
func (m *Manager) ActivateChannel(ctx context.Context, channelID uint) error {
	ch, err := m.store.GetChannel(channelID)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrChannelNotFound, channelID)
	}

	d, err := m.newDriver(ch)
	if err != nil {
		return err
	}
	if !d.ValidateCredentials(ctx) {
		return fmt.Errorf("%w: channel %d (%s)", ErrInvalidCredentials, channelID, ch.Type)
	}

	if err := m.store.UpdateChannelStatus(channelID, true); err != nil {
		return fmt.Errorf("relay: activate channel %d: %w", channelID, err)
	}
	ch.IsActive = true

	m.mu.Lock()
	m.active[channelID] = ch
	m.drivers[channelID] = d
	m.mu.Unlock()
	return nil
}

// DeactivateChannel marks the channel inactive and discards its driver.
// Idempotent with respect to the in-memory maps.
func (m *Manager) DeactivateChannel(ctx context.Context, channelID uint) error {
	if err := m.store.UpdateChannelStatus(channelID, false); err != nil {
		return fmt.Errorf("relay: deactivate channel %d: %w", channelID, err)
	}

	m.mu.Lock()
	delete(m.active, channelID)
	delete(m.drivers, channelID)
	m.mu.Unlock()
	return nil
}

// RouteMessage dispatches an outbound message through the driver of its
// channel, then hands it to the queue for post-send bookkeeping. If the
// send fails the error propagates and the message is never enqueued.
func (m *Manager) RouteMessage(ctx context.Context, msg *models.Message) error {
	m.mu.Lock()
	d, ok := m.drivers[msg.ChannelID]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrChannelInactive, msg.ChannelID)
	}

	if err := d.Send(ctx, msg); err != nil {
		return fmt.Errorf("relay: route message for channel %d: %w", msg.ChannelID, err)
	}

	m.queue.Enqueue(*msg)
	return nil
}

// IsChannelActive reports whether the channel has a live driver.
func (m *Manager) IsChannelActive(channelID uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[channelID]
	return ok
}

// ActiveChannels returns a snapshot of the currently active channels.
func (m *Manager) ActiveChannels() []*models.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Channel, 0, len(m.active))
	for _, ch := range m.active {
		out = append(out, ch)
	}
	return out
}

// ActiveCount returns the number of active channels.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}
