package relay

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alleyops/switchboard/internal/db"
	"github.com/alleyops/switchboard/internal/models"
	"github.com/alleyops/switchboard/internal/relay/driver"
	"github.com/alleyops/switchboard/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(t.TempDir()+"/relay_test.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(conn)
}

// testManager builds a Manager whose driver factory hands out the given
// mocks keyed by channel type.
func testManager(t *testing.T, st *store.Store, mocks map[string]*driver.Mock) (*Manager, *Queue) {
	t.Helper()
	q := NewQueue(QueueOpts{Tick: time.Hour})
	m, err := NewManager(ManagerOpts{
		Store: st,
		Queue: q,
		NewDriver: func(ch *models.Channel) (driver.Driver, error) {
			mock, ok := mocks[ch.Type]
			if !ok {
				return nil, errors.New("no mock for type " + ch.Type)
			}
			return mock, nil
		},
		Out: io.Discard,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, q
}

func seedChannel(t *testing.T, st *store.Store, typ string) *models.Channel {
	t.Helper()
	ch := &models.Channel{Name: "test " + typ, Type: typ, Credentials: "{}"}
	if err := st.CreateChannel(ch); err != nil {
		t.Fatalf("create channel: %v", err)
	}
	return ch
}

func TestManager_ActivateChannel(t *testing.T) {
	st := testStore(t)
	ch := seedChannel(t, st, models.ChannelSMS)
	m, _ := testManager(t, st, map[string]*driver.Mock{
		models.ChannelSMS: driver.NewMock(models.ChannelSMS),
	})

	if err := m.ActivateChannel(context.Background(), ch.ID); err != nil {
		t.Fatalf("ActivateChannel: %v", err)
	}
	if !m.IsChannelActive(ch.ID) {
		t.Error("channel not active after activation")
	}

	persisted, err := st.GetChannel(ch.ID)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if !persisted.IsActive {
		t.Error("active flag not persisted")
	}
}

func TestManager_ActivateChannel_InvalidCredentials(t *testing.T) {
	st := testStore(t)
	ch := seedChannel(t, st, models.ChannelSMS)
	mock := driver.NewMock(models.ChannelSMS)
	mock.Valid = false
	m, _ := testManager(t, st, map[string]*driver.Mock{models.ChannelSMS: mock})

	err := m.ActivateChannel(context.Background(), ch.ID)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if m.IsChannelActive(ch.ID) {
		t.Error("channel active despite failed validation")
	}

	persisted, err := st.GetChannel(ch.ID)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if persisted.IsActive {
		t.Error("active flag persisted despite failed validation")
	}
}

func TestManager_ActivateChannel_NotFound(t *testing.T) {
	st := testStore(t)
	m, _ := testManager(t, st, nil)

	if err := m.ActivateChannel(context.Background(), 999); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("error = %v, want ErrChannelNotFound", err)
	}
}

func TestManager_DeactivateChannel(t *testing.T) {
	st := testStore(t)
	ch := seedChannel(t, st, models.ChannelSMS)
	m, q := testManager(t, st, map[string]*driver.Mock{
		models.ChannelSMS: driver.NewMock(models.ChannelSMS),
	})

	if err := m.ActivateChannel(context.Background(), ch.ID); err != nil {
		t.Fatalf("ActivateChannel: %v", err)
	}
	if err := m.DeactivateChannel(context.Background(), ch.ID); err != nil {
		t.Fatalf("DeactivateChannel: %v", err)
	}
	if m.IsChannelActive(ch.ID) {
		t.Error("channel still active after deactivation")
	}

	// routing after deactivation must fail, and nothing may be queued
	err := m.RouteMessage(context.Background(), &models.Message{ChannelID: ch.ID, Content: "x"})
	if !errors.Is(err, ErrChannelInactive) {
		t.Errorf("RouteMessage error = %v, want ErrChannelInactive", err)
	}
	if q.Len() != 0 {
		t.Errorf("queue depth = %d, want 0", q.Len())
	}

	// deactivating again is a no-op on the in-memory state
	if err := m.DeactivateChannel(context.Background(), ch.ID); err != nil {
		t.Fatalf("second DeactivateChannel: %v", err)
	}
}

func TestManager_RouteMessage(t *testing.T) {
	st := testStore(t)
	ch := seedChannel(t, st, models.ChannelSMS)
	mock := driver.NewMock(models.ChannelSMS)
	m, q := testManager(t, st, map[string]*driver.Mock{models.ChannelSMS: mock})

	if err := m.ActivateChannel(context.Background(), ch.ID); err != nil {
		t.Fatalf("ActivateChannel: %v", err)
	}

	msg := &models.Message{
		ID:            1,
		ChannelID:     ch.ID,
		Content:       "your order shipped",
		CustomerPhone: "+15551234567",
		MessageType:   models.MessageOutgoing,
	}
	if err := m.RouteMessage(context.Background(), msg); err != nil {
		t.Fatalf("RouteMessage: %v", err)
	}

	sent := mock.Sent()
	if len(sent) != 1 || sent[0].Content != "your order shipped" {
		t.Errorf("sent = %+v", sent)
	}
	if q.Len() != 1 {
		t.Errorf("queue depth = %d, want 1", q.Len())
	}
}

func TestManager_RouteMessage_SendFailureNotEnqueued(t *testing.T) {
	st := testStore(t)
	ch := seedChannel(t, st, models.ChannelSMS)
	mock := driver.NewMock(models.ChannelSMS)
	mock.SendErr = errors.New("twilio: send: unexpected status 500")
	m, q := testManager(t, st, map[string]*driver.Mock{models.ChannelSMS: mock})

	if err := m.ActivateChannel(context.Background(), ch.ID); err != nil {
		t.Fatalf("ActivateChannel: %v", err)
	}

	err := m.RouteMessage(context.Background(), &models.Message{ChannelID: ch.ID, Content: "x"})
	if err == nil {
		t.Fatal("RouteMessage succeeded despite send failure")
	}
	if q.Len() != 0 {
		t.Errorf("queue depth = %d after failed send, want 0", q.Len())
	}
}

func TestManager_Init(t *testing.T) {
	st := testStore(t)
	active := seedChannel(t, st, models.ChannelSMS)
	if err := st.UpdateChannelStatus(active.ID, true); err != nil {
		t.Fatalf("UpdateChannelStatus: %v", err)
	}
	seedChannel(t, st, models.ChannelWhatsApp) // stays inactive

	m, _ := testManager(t, st, map[string]*driver.Mock{
		models.ChannelSMS:      driver.NewMock(models.ChannelSMS),
		models.ChannelWhatsApp: driver.NewMock(models.ChannelWhatsApp),
	})
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if m.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", m.ActiveCount())
	}
	if !m.IsChannelActive(active.ID) {
		t.Error("persisted-active channel not loaded")
	}
}

func TestManager_Init_SkipsFailedDriver(t *testing.T) {
	st := testStore(t)
	broken := seedChannel(t, st, "no-such-type")
	if err := st.UpdateChannelStatus(broken.ID, true); err != nil {
		t.Fatalf("UpdateChannelStatus: %v", err)
	}

	m, _ := testManager(t, st, nil)
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if m.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", m.ActiveCount())
	}
}
