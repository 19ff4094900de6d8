package models

import (
	"github.com/smazurov/amplifier/internal/audio"
	"github.com/smazurov/amplifier/internal/events"
	"github.com/smazurov/amplifier/internal/game"
	"github.com/smazurov/amplifier/internal/logging"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"42" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Game status models
type StatusResponse struct {
	Body game.Status
}

type TransitionsData struct {
	Transitions []events.StateChangedEvent `json:"transitions" doc:"Most recent state transitions, oldest first"`
	Count       int                        `json:"count" example:"3" doc:"Number of transitions returned"`
}

type TransitionsResponse struct {
	Body TransitionsData
}

// Log models
type LogsRequest struct {
	Module string `query:"module" example:"game" doc:"Only return entries from this module"`
	Level  string `query:"level" example:"warn" doc:"Minimum level to return (debug, info, warn, error), case-insensitive"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" default:"200" doc:"Maximum entries, newest kept"`
}

type LogsData struct {
	Entries []logging.LogEntry `json:"entries" doc:"Buffered log entries, oldest first"`
	Lines   []string           `json:"lines" doc:"Entries rendered as text lines"`
	Count   int                `json:"count" example:"20" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}

// LED models
type LEDData struct {
	AvailableTypes    []string `json:"available_types" doc:"LED types available on this board"`
	AvailablePatterns []string `json:"available_patterns" doc:"Patterns supported by this board"`
	Pattern           string   `json:"pattern" example:"heartbeat" doc:"Pattern currently shown on the status LED"`
}

type LEDResponse struct {
	Body LEDData
}

// Audio models
type AudioResponse struct {
	Body audio.Status
}
