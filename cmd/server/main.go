package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"tankbattle/internal/store"
	"tankbattle/internal/transport"
	"tankbattle/pkg/agent"
	"tankbattle/pkg/engine"
	"tankbattle/pkg/geometry"
)

func main() {
	port := flag.String("port", "", "Spectator port; empty disables the websocket broadcaster")
	dbPath := flag.String("db", "", "Outcome database path; empty disables persistence")
	width := flag.Int("width", 32, "World width")
	height := flag.Int("height", 32, "World height")
	players := flag.Int("players", 4, "Number of placeholder players to spawn")
	seed := flag.Int64("seed", 0, "RNG seed; 0 derives one from the clock")
	turnDelay := flag.Duration("turn-delay", 0, "Pause between turns, for live spectating")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	gameID := uuid.New().String()

	world, err := engine.NewWorld(gameID, geometry.WorldSize{X: *width, Y: *height}, rng)
	if err != nil {
		log.Fatalf("Failed to generate world: %v", err)
	}

	for i := 0; i < *players; i++ {
		name := fmt.Sprintf("placeholder-%d", i+1)
		if !world.Spawn(agent.NoopPlayer{PlayerName: name}) {
			log.Fatalf("Failed to spawn %s", name)
		}
	}

	var sink engine.TurnSink
	if *port != "" {
		b := transport.NewBroadcaster(gameID)
		defer b.Close()
		sink = b

		mux := http.NewServeMux()
		mux.Handle("/ws", b)
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		srv := &http.Server{Addr: ":" + *port, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Spectator server error: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		log.Printf("Spectators: ws://localhost:%s/ws", *port)
	}

	// Interrupt finishes the current turn, then ends the match.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Tank Battle Server")
	log.Printf("  Game: %s", gameID)
	log.Printf("  World: %dx%d, seed %d", *width, *height, *seed)
	log.Printf("  Players: %d", *players)

	game := engine.NewGame(world, sink)
	game.TurnDelay = *turnDelay
	outcome := game.Run(ctx)

	for id, rank := range outcome.FinalRanks {
		log.Printf("  Rank %d: player %d", rank, id)
	}

	if *dbPath != "" {
		s, err := store.Open(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open outcome store: %v", err)
		}
		defer s.Close()
		if err := s.SaveOutcome(outcome); err != nil {
			log.Fatalf("Failed to save outcome: %v", err)
		}
		log.Printf("Outcome saved to %s", *dbPath)
	}
}
