package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/amplifier/internal/events"
)

// registerSSERoutes registers the game event stream.
func (s *Server) registerSSERoutes() {
	if s.eventBus == nil {
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Game Event Stream",
		Description: "Server-Sent Events for state changes, sequence matches and button presses. Starts with the current status.",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"state-changed":    events.StateChangedEvent{},
		"sequence-matched": events.SequenceMatchedEvent{},
		"button-pressed":   events.ButtonPressedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 32)
		unsubscribers := []func(){
			events.SubscribeToChannel[events.StateChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.SequenceMatchedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ButtonPressedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Give the client the current state before any transition arrives
		if s.options.Status != nil {
			st := s.options.Status.Status()
			if err := send.Data(events.StateChangedEvent{
				From:      string(st.State),
				To:        string(st.State),
				Reason:    events.ReasonConnected,
				Timestamp: st.Since.UTC().Format(time.RFC3339Nano),
			}); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
