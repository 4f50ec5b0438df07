// Package transport streams game progress to connected spectators over
// WebSocket. It is optional: the engine never depends on it, a host wires a
// Broadcaster in as the game's TurnSink when it wants live output.
package transport

import (
	"time"

	"tankbattle/pkg/engine"
)

// EventKind names the kinds of event a Broadcaster emits.
type EventKind string

const (
	EventHello    EventKind = "hello"
	EventTurn     EventKind = "turn"
	EventGameOver EventKind = "game_over"
)

// Event is one message on the spectator stream. Turn and game_over events
// set exactly the one payload pointer matching Kind; a hello event sets
// none. Session tags every event of one broadcast run so a
// reconnecting spectator can tell a restarted stream from a resumed one,
// and Seq increases by one per event within a session, so gaps reveal
// updates the broadcaster had to drop.
type Event struct {
	Kind    EventKind `json:"kind"`
	Session string    `json:"session"`
	Game    string    `json:"game"`
	Seq     uint64    `json:"seq"`
	SentAt  time.Time `json:"sent_at"`

	Turn     *TurnEvent     `json:"turn,omitempty"`
	GameOver *GameOverEvent `json:"game_over,omitempty"`
}

// TurnEvent carries one completed turn.
type TurnEvent struct {
	Outcome engine.TurnOutcome `json:"outcome"`
}

// GameOverEvent carries the final summary of a completed game.
type GameOverEvent struct {
	TurnsTotal int           `json:"turns_total"`
	FinalRanks map[uint8]int `json:"final_ranks"`
	InitialMap []string      `json:"initial_map"`
}
