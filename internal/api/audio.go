package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/amplifier/internal/api/models"
)

func (s *Server) registerAudioRoutes() {
	provider := s.options.Audio
	if provider == nil {
		s.logger.Debug("Audio disabled, skipping audio routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-audio",
		Method:      http.MethodGet,
		Path:        "/api/audio",
		Summary:     "Music",
		Description: "Song currently playing, its volume and the collections the schedule allows",
		Tags:        []string{"audio"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.AudioResponse, error) {
		return &models.AudioResponse{Body: provider.Status()}, nil
	})
}
