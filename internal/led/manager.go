package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/amplifier/internal/events"
	"github.com/smazurov/amplifier/internal/game"
)

// PatternFor returns the status LED pattern shown while the game is in
// state. Unknown states fall back to the idle heartbeat.
func PatternFor(state string) string {
	switch game.StateID(state) {
	case game.Amplify, game.Party:
		return PatternSolid
	case game.Test:
		return PatternBlink
	default:
		return PatternHeartbeat
	}
}

// Manager subscribes to game state changes and mirrors them on the board
// status LED.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	unsubscribe func()
	logger      *slog.Logger

	mu      sync.Mutex
	pattern string
}

// NewManager creates a new LED manager that reacts to game state changes
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Start shows the idle pattern and begins listening for state changes.
func (m *Manager) Start() {
	m.apply(string(game.Idle))
	m.unsubscribe = m.eventBus.Subscribe(func(e events.StateChangedEvent) {
		m.apply(e.GetState())
	})
	m.logger.Info("LED manager started")
}

// Stop unsubscribes and switches the status LED off.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.set(PatternOff)
	m.logger.Info("LED manager stopped")
}

// Pattern returns the pattern last written to the LED.
func (m *Manager) Pattern() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pattern
}

func (m *Manager) apply(state string) {
	pattern := PatternFor(state)
	m.logger.Debug("Game state changed", "state", state, "pattern", pattern)
	m.set(pattern)
}

// set writes pattern unless it is already showing.
func (m *Manager) set(pattern string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pattern == m.pattern {
		return
	}
	if err := m.controller.Set(StatusLED, pattern != PatternOff, pattern); err != nil {
		m.logger.Warn("Failed to set status LED", "pattern", pattern, "error", err)
		return
	}
	m.pattern = pattern
}

// GetController returns the underlying LED controller.
func (m *Manager) GetController() Controller {
	return m.controller
}
