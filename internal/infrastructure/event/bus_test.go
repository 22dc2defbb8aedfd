package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu       sync.Mutex
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.received = append(h.received, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "test", uuid.New()),
	}
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers to handlers of the matching type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		submitted := &recordingHandler{types: []string{"LoanApplicationSubmitted"}}
		disbursed := &recordingHandler{types: []string{"LoanDisbursed"}}
		bus.Subscribe(submitted)
		bus.Subscribe(disbursed)

		err := bus.Publish(context.Background(), newTestEvent("LoanApplicationSubmitted"))

		require.NoError(t, err)
		assert.Equal(t, 1, submitted.count())
		assert.Equal(t, 0, disbursed.count())
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		wildcard := &recordingHandler{}
		bus.Subscribe(wildcard)

		err := bus.Publish(context.Background(),
			newTestEvent("LoanApplicationSubmitted"),
			newTestEvent("LoanDisbursed"),
		)

		require.NoError(t, err)
		assert.Equal(t, 2, wildcard.count())
	})

	t.Run("failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"LoanDisbursed"}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"LoanDisbursed"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newTestEvent("LoanDisbursed"))

		require.NoError(t, err)
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("panicking handler is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"LoanDisbursed"}, panics: true}
		healthy := &recordingHandler{types: []string{"LoanDisbursed"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("LoanDisbursed"))
		})
		assert.Equal(t, 1, healthy.count())
	})
}

func TestInMemoryEventBus_Subscribe(t *testing.T) {
	t.Run("explicit event types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"LoanApplicationSubmitted"}}
		bus.Subscribe(handler, "LoanDisbursed")

		_ = bus.Publish(context.Background(), newTestEvent("LoanApplicationSubmitted"))
		assert.Equal(t, 0, handler.count())

		_ = bus.Publish(context.Background(), newTestEvent("LoanDisbursed"))
		assert.Equal(t, 1, handler.count())
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"LoanDisbursed"}}
		bus.Subscribe(handler)

		_ = bus.Publish(context.Background(), newTestEvent("LoanDisbursed"))
		assert.Equal(t, 1, handler.count())

		bus.Unsubscribe(handler)

		_ = bus.Publish(context.Background(), newTestEvent("LoanDisbursed"))
		assert.Equal(t, 1, handler.count())
	})

	t.Run("unsubscribe removes wildcard handlers too", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		wildcard := &recordingHandler{}
		bus.Subscribe(wildcard)
		bus.Unsubscribe(wildcard)

		_ = bus.Publish(context.Background(), newTestEvent("LoanDisbursed"))
		assert.Equal(t, 0, wildcard.count())
	})
}

func TestLoggingEventHandler(t *testing.T) {
	handler := NewLoggingEventHandler(zap.NewNop())

	assert.Empty(t, handler.EventTypes())
	assert.NoError(t, handler.Handle(context.Background(), newTestEvent("LoanDisbursed")))
}
