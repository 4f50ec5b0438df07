package transport

import (
	"encoding/json"
	"testing"
	"time"

	"tankbattle/pkg/agent"
	"tankbattle/pkg/engine"
	"tankbattle/pkg/geometry"
)

func testBroadcaster(backlog int) *Broadcaster {
	return &Broadcaster{
		gameID:  "g1",
		session: "s1",
		updates: make(chan *Event, backlog),
		clients: map[*spectator]bool{},
		done:    make(chan struct{}),
	}
}

func testTurn(n int) engine.TurnOutcome {
	return engine.TurnOutcome{
		Turn: n,
		Players: []engine.PlayerOutcome{
			{
				PlayerID:          1,
				Action:            agent.RotateAction(agent.RotateClockwise),
				ResultingHealth:   100,
				ResultingPosition: geometry.Position{X: 3, Y: 4},
			},
		},
	}
}

func TestTurnEventSurvivesTheWireFormat(t *testing.T) {
	b := testBroadcaster(updateBacklog)
	b.TurnCompleted(testTurn(7))

	ev := <-b.updates
	b.stamp(ev)

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Kind != EventTurn {
		t.Errorf("expected kind %q, got %q", EventTurn, decoded.Kind)
	}
	if decoded.Session != "s1" || decoded.Game != "g1" {
		t.Errorf("expected session s1 / game g1, got %q / %q", decoded.Session, decoded.Game)
	}
	if decoded.Seq != 1 {
		t.Errorf("expected the first event stamped seq 1, got %d", decoded.Seq)
	}
	if decoded.SentAt.IsZero() {
		t.Error("expected a non-zero sent_at")
	}
	if decoded.Turn == nil {
		t.Fatal("expected the turn payload set on a turn event")
	}
	if decoded.GameOver != nil {
		t.Error("expected the game_over payload absent on a turn event")
	}
	if decoded.Turn.Outcome.Turn != 7 {
		t.Errorf("expected turn 7, got %d", decoded.Turn.Outcome.Turn)
	}
	if got := decoded.Turn.Outcome.Players; len(got) != 1 || got[0].PlayerID != 1 {
		t.Errorf("player outcome did not survive the envelope: %+v", got)
	}
}

func TestStampAllocatesSequentialSeqs(t *testing.T) {
	b := testBroadcaster(updateBacklog)
	for want := uint64(1); want <= 3; want++ {
		ev := &Event{Kind: EventTurn}
		b.stamp(ev)
		if ev.Seq != want {
			t.Errorf("expected seq %d, got %d", want, ev.Seq)
		}
	}
}

func TestBroadcasterNeverBlocksWhenBacklogFull(t *testing.T) {
	b := testBroadcaster(1)

	completed := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.TurnCompleted(testTurn(i))
		}
		close(completed)
	}()

	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Fatal("TurnCompleted blocked on a full backlog")
	}
}

func TestGameOverEventCarriesRanks(t *testing.T) {
	b := testBroadcaster(updateBacklog)

	b.GameCompleted(engine.Outcome{
		GameID:     "g1",
		Turns:      []engine.TurnOutcome{testTurn(1), testTurn(2)},
		FinalRanks: map[uint8]int{1: 1, 2: 2},
	})

	ev := <-b.updates
	if ev.Kind != EventGameOver {
		t.Fatalf("expected %q, got %q", EventGameOver, ev.Kind)
	}
	if ev.GameOver == nil {
		t.Fatal("expected the game_over payload set")
	}
	if ev.GameOver.TurnsTotal != 2 {
		t.Errorf("expected 2 turns, got %d", ev.GameOver.TurnsTotal)
	}
	if ev.GameOver.FinalRanks[1] != 1 || ev.GameOver.FinalRanks[2] != 2 {
		t.Errorf("final ranks did not survive the envelope: %v", ev.GameOver.FinalRanks)
	}
}
