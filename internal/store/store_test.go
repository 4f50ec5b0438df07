package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"tankbattle/pkg/agent"
	"tankbattle/pkg/engine"
	"tankbattle/pkg/geometry"
	"tankbattle/pkg/worldmap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testOutcome(id string) engine.Outcome {
	grid := worldmap.NewGrid(geometry.WorldSize{X: 4, Y: 3})
	grid.Each(func(pos geometry.Position, _ worldmap.MapCell) {
		grid.Set(pos, worldmap.TerrainCell(worldmap.Field))
	})
	return engine.Outcome{
		GameID:     id,
		InitialMap: grid,
		Turns: []engine.TurnOutcome{
			{
				Turn: 1,
				Players: []engine.PlayerOutcome{
					{
						PlayerID:          1,
						Action:            agent.MoveAction(agent.Forward),
						ResultingHealth:   100,
						ResultingPosition: geometry.Position{X: 2, Y: 1},
						ResultingScore:    0,
					},
					{
						PlayerID:          2,
						Action:            agent.FireAction(agent.CardinalAim(geometry.East)),
						ResultingHealth:   75,
						ResultingPosition: geometry.Position{X: 1, Y: 1},
						ResultingScore:    2,
					},
				},
			},
		},
		FinalRanks: map[uint8]int{1: 2, 2: 1},
	}
}

func TestSaveAndGetOutcomeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	outcome := testOutcome("game-1")

	if err := s.SaveOutcome(outcome); err != nil {
		t.Fatalf("SaveOutcome failed: %v", err)
	}

	got, err := s.GetGame("game-1")
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}

	if got.ID != outcome.GameID {
		t.Errorf("expected game id %q, got %q", outcome.GameID, got.ID)
	}
	wantMap := outcome.InitialMap.Render()
	if !reflect.DeepEqual(got.InitialMap, wantMap) {
		t.Errorf("initial map mismatch: got %v, want %v", got.InitialMap, wantMap)
	}
	if !reflect.DeepEqual(got.Turns, outcome.Turns) {
		t.Errorf("turn log mismatch: got %+v, want %+v", got.Turns, outcome.Turns)
	}
	if !reflect.DeepEqual(got.FinalRanks, outcome.FinalRanks) {
		t.Errorf("final ranks mismatch: got %v, want %v", got.FinalRanks, outcome.FinalRanks)
	}
}

func TestReopenIsIdempotentAndKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := s.SaveOutcome(testOutcome("kept")); err != nil {
		t.Fatalf("SaveOutcome failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A second open must see the schema already at the current version and
	// leave existing rows alone.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s.Close()

	v, err := s.schemaVersion()
	if err != nil {
		t.Fatalf("schemaVersion failed: %v", err)
	}
	if v != len(schema) {
		t.Errorf("expected schema version %d after reopen, got %d", len(schema), v)
	}
	if _, err := s.GetGame("kept"); err != nil {
		t.Errorf("expected the saved game to survive a reopen, got %v", err)
	}
}

func TestGetGameNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetGame("missing"); err != ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestListGamesReturnsSavedIDs(t *testing.T) {
	s := openTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveOutcome(testOutcome(id)); err != nil {
			t.Fatalf("SaveOutcome(%q) failed: %v", id, err)
		}
	}

	ids, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 saved games, got %d", len(ids))
	}
}
