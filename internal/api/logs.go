package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/amplifier/internal/api/models"
	"github.com/smazurov/amplifier/internal/logging"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// registerLogRoutes registers the recent log endpoint backed by the ring buffer.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Log entries kept in memory, optionally filtered by module and minimum level",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{400, 401},
	}, func(_ context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		minLevel := slog.LevelDebug
		if input.Level != "" {
			level, ok := logLevels[strings.ToLower(input.Level)]
			if !ok {
				return nil, huma.Error400BadRequest("Unknown level " + input.Level)
			}
			minLevel = level
		}

		entries := filterLogs(logging.GetBuffer(), input.Module, minLevel, input.Limit)
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = logging.FormatLogLine(e)
		}
		return &models.LogsResponse{
			Body: models.LogsData{Entries: entries, Lines: lines, Count: len(entries)},
		}, nil
	})
}

// filterLogs returns at most limit matching entries, keeping the newest.
func filterLogs(buffer *logging.RingBuffer, module string, minLevel slog.Level, limit int) []logging.LogEntry {
	out := []logging.LogEntry{}
	if buffer == nil {
		return out
	}
	for _, e := range buffer.ReadAll() {
		if module != "" && e.Module != module {
			continue
		}
		if level, ok := logLevels[strings.ToLower(e.Level)]; ok && level < minLevel {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
