package engine

import (
	"tankbattle/pkg/agent"
	"tankbattle/pkg/geometry"
	"tankbattle/pkg/worldmap"
)

// PlayerOutcome records one player's action and resulting state for a
// single turn, the per-turn audit trail a game outcome is built from.
type PlayerOutcome struct {
	PlayerID          uint8             `json:"player_id"`
	Action            agent.Action      `json:"action"`
	ResultingHealth   uint8             `json:"resulting_health"`
	ResultingPosition geometry.Position `json:"resulting_position"`
	ResultingScore    int               `json:"resulting_score"`
}

// TurnOutcome is every player's outcome for one turn.
type TurnOutcome struct {
	Turn    int             `json:"turn"`
	Players []PlayerOutcome `json:"players"`
}

// Outcome is the full record of a completed game: the map it was played on,
// a turn-by-turn log, and the final ranking. InitialMap is kept as the live
// Grid in memory; persistence layers serialize it through Grid.Render.
type Outcome struct {
	GameID     string         `json:"game_id"`
	InitialMap *worldmap.Grid `json:"-"`
	Turns      []TurnOutcome  `json:"turns"`
	FinalRanks map[uint8]int  `json:"final_ranks"` // player id -> rank, 1 is best; ties share a rank
}
