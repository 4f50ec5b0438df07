package engine

import (
	"context"
	"log"
	"time"
)

// TurnSink receives each TurnOutcome as it is produced and the final Outcome
// once the match ends. Implementations must not block: the engine calls them
// synchronously between turns, so a slow sink should buffer or drop rather
// than stall the match. internal/transport's broadcaster is the reference
// implementation.
type TurnSink interface {
	TurnCompleted(TurnOutcome)
	GameCompleted(Outcome)
}

// Game drives a World through its turn pipeline until an end condition is
// reached, then rewards survivors and assembles the final Outcome.
type Game struct {
	world *World
	sink  TurnSink
	// TurnDelay is an optional pause between turns, purely cosmetic pacing
	// for a live spectator. Zero means run flat out.
	TurnDelay time.Duration
}

// NewGame wraps a spawned world. sink may be nil.
func NewGame(world *World, sink TurnSink) *Game {
	return &Game{world: world, sink: sink}
}

// Run plays turns until the world reaches its end condition or ctx is
// cancelled. Cancellation is only observed between turns: the current turn
// always completes, matching the driver contract that there is no mid-turn
// interruption. Run returns the completed Outcome either way.
func (g *Game) Run(ctx context.Context) Outcome {
	for !g.world.IsGameOver() {
		select {
		case <-ctx.Done():
			log.Printf("game %s: interrupted at turn %d", g.world.GameID, g.world.Turn())
			return g.finish()
		default:
		}

		outcome := g.world.PlayTurn()
		if g.sink != nil {
			g.sink.TurnCompleted(outcome)
		}
		if g.TurnDelay > 0 && !g.world.IsGameOver() {
			time.Sleep(g.TurnDelay)
		}
	}
	return g.finish()
}

func (g *Game) finish() Outcome {
	g.world.RewardSurvivors()
	outcome := g.world.Outcome()
	if g.sink != nil {
		g.sink.GameCompleted(outcome)
	}
	log.Printf("game %s: finished after %d turns, %d players ranked",
		outcome.GameID, len(outcome.Turns), len(outcome.FinalRanks))
	return outcome
}
