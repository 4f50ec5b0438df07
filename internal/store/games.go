package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"tankbattle/pkg/engine"
)

// SavedGame is the persisted form of a completed game outcome.
type SavedGame struct {
	ID         string               `json:"id"`
	CreatedAt  time.Time            `json:"created_at"`
	InitialMap []string             `json:"initial_map"`
	Turns      []engine.TurnOutcome `json:"turns"`
	FinalRanks map[uint8]int        `json:"final_ranks"`
}

// ErrGameNotFound is returned when a game is not found.
var ErrGameNotFound = errors.New("game not found")

// SaveOutcome persists a completed game outcome. The initial map is stored
// rendered (one glyph string per row); the turn log and final ranks are
// stored as JSON columns.
func (s *Store) SaveOutcome(outcome engine.Outcome) error {
	var rendered []string
	if outcome.InitialMap != nil {
		rendered = outcome.InitialMap.Render()
	}
	mapJSON, err := json.Marshal(rendered)
	if err != nil {
		return err
	}
	turnsJSON, err := json.Marshal(outcome.Turns)
	if err != nil {
		return err
	}
	ranksJSON, err := json.Marshal(outcome.FinalRanks)
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(`
		INSERT INTO games (id, initial_map_json, turn_outcomes_json, final_ranks_json)
		VALUES (?, ?, ?, ?)
	`, outcome.GameID, string(mapJSON), string(turnsJSON), string(ranksJSON))
	return err
}

// GetGame loads a saved game by id.
func (s *Store) GetGame(id string) (*SavedGame, error) {
	var g SavedGame
	var mapJSON, turnsJSON, ranksJSON string

	err := s.conn.QueryRow(`
		SELECT id, created_at, initial_map_json, turn_outcomes_json, final_ranks_json
		FROM games WHERE id = ?
	`, id).Scan(&g.ID, &g.CreatedAt, &mapJSON, &turnsJSON, &ranksJSON)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(mapJSON), &g.InitialMap); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(turnsJSON), &g.Turns); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ranksJSON), &g.FinalRanks); err != nil {
		return nil, err
	}

	return &g, nil
}

// ListGames returns the ids of all saved games, newest first.
func (s *Store) ListGames() ([]string, error) {
	rows, err := s.conn.Query(`SELECT id FROM games ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
