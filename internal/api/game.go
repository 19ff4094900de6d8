package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/amplifier/internal/api/models"
	"github.com/smazurov/amplifier/internal/events"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Game Status",
		Description: "Current game state, frame counters and the last sequence that fired",
		Tags:        []string{"game"},
		Security:    withAuth(),
		Errors:      []int{401, 503},
	}, func(_ context.Context, _ *struct{}) (*models.StatusResponse, error) {
		if s.options.Status == nil {
			return nil, huma.Error503ServiceUnavailable("Game loop not running")
		}
		return &models.StatusResponse{Body: s.options.Status.Status()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-transitions",
		Method:      http.MethodGet,
		Path:        "/api/transitions",
		Summary:     "State Transitions",
		Description: "Most recent game state transitions, oldest first",
		Tags:        []string{"game"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.TransitionsResponse, error) {
		var list []events.StateChangedEvent
		if s.history != nil {
			list = s.history.list()
		}
		if list == nil {
			list = []events.StateChangedEvent{}
		}
		return &models.TransitionsResponse{
			Body: models.TransitionsData{Transitions: list, Count: len(list)},
		}, nil
	})
}
