package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/amplifier/internal/api/models"
)

// registerLEDRoutes registers the status LED endpoint
func (s *Server) registerLEDRoutes() {
	mgr := s.options.LEDManager
	if mgr == nil {
		s.logger.Debug("Status LED disabled, skipping LED routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-status-led",
		Method:      http.MethodGet,
		Path:        "/api/leds",
		Summary:     "Status LED",
		Description: "Board LED capabilities and the pattern currently mirroring the game state",
		Tags:        []string{"leds"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.LEDResponse, error) {
		ctrl := mgr.GetController()
		return &models.LEDResponse{
			Body: models.LEDData{
				AvailableTypes:    ctrl.Available(),
				AvailablePatterns: ctrl.Patterns(),
				Pattern:           mgr.Pattern(),
			},
		}, nil
	})
}
