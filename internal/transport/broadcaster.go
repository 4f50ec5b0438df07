package transport

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"tankbattle/pkg/engine"
)

const (
	writeWait     = 10 * time.Second
	clientBacklog = 64
	updateBacklog = 256
)

// Broadcaster fans completed turns out to every connected spectator. It
// implements engine.TurnSink: the engine hands it each TurnOutcome between
// turns with a non-blocking enqueue, so a slow or absent spectator never
// stalls the match -- updates are dropped instead.
type Broadcaster struct {
	gameID  string
	session string
	seq     uint64
	updates chan *Event

	mu      sync.Mutex
	clients map[*spectator]bool
	done    chan struct{}
}

// spectator is one connected WebSocket client.
type spectator struct {
	conn *websocket.Conn
	send chan []byte
}

// NewBroadcaster creates a broadcaster for the given game under a fresh
// session id and starts its fan-out loop.
func NewBroadcaster(gameID string) *Broadcaster {
	b := &Broadcaster{
		gameID:  gameID,
		session: uuid.New().String(),
		updates: make(chan *Event, updateBacklog),
		clients: make(map[*spectator]bool),
		done:    make(chan struct{}),
	}
	go b.run()
	return b
}

// TurnCompleted enqueues one turn for broadcast. Never blocks.
func (b *Broadcaster) TurnCompleted(turn engine.TurnOutcome) {
	b.enqueue(&Event{Kind: EventTurn, Turn: &TurnEvent{Outcome: turn}})
}

// GameCompleted enqueues the final game summary. Never blocks.
func (b *Broadcaster) GameCompleted(outcome engine.Outcome) {
	over := &GameOverEvent{
		TurnsTotal: len(outcome.Turns),
		FinalRanks: outcome.FinalRanks,
	}
	if outcome.InitialMap != nil {
		over.InitialMap = outcome.InitialMap.Render()
	}
	b.enqueue(&Event{Kind: EventGameOver, GameOver: over})
}

// enqueue hands an event to the fan-out loop, dropping it if the backlog
// is full. The dropped event's sequence number is never allocated, which
// is what lets spectators detect drops as gaps.
func (b *Broadcaster) enqueue(ev *Event) {
	select {
	case b.updates <- ev:
	default:
		log.Printf("transport: update backlog full, dropping %s event", ev.Kind)
	}
}

// stamp fills in the per-session envelope fields. Called only from the
// fan-out goroutine, which keeps Seq allocation race-free.
func (b *Broadcaster) stamp(ev *Event) {
	b.seq++
	ev.Session = b.session
	ev.Game = b.gameID
	ev.Seq = b.seq
	ev.SentAt = time.Now()
}

// run is the fan-out loop: one event in, one copy per connected spectator
// out. A spectator whose own send buffer is full is disconnected rather
// than allowed to back the loop up.
func (b *Broadcaster) run() {
	for {
		select {
		case ev := <-b.updates:
			b.stamp(ev)
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("transport: failed to marshal %s event: %v", ev.Kind, err)
				continue
			}
			b.mu.Lock()
			for s := range b.clients {
				select {
				case s.send <- data:
				default:
					// Client too slow
					delete(b.clients, s)
					close(s.send)
				}
			}
			b.mu.Unlock()
		case <-b.done:
			return
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket and registers the new
// spectator, greeting it with a hello event so it learns the session and
// game ids before the first turn arrives.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("transport: websocket accept failed: %v", err)
		return
	}

	s := &spectator{conn: conn, send: make(chan []byte, clientBacklog)}

	hello := Event{Kind: EventHello, Session: b.session, Game: b.gameID, SentAt: time.Now()}
	if data, err := json.Marshal(hello); err == nil {
		s.send <- data
	}

	b.mu.Lock()
	b.clients[s] = true
	b.mu.Unlock()

	go s.writePump(b)
}

// writePump drains the spectator's send buffer onto the wire until the
// buffer is closed or a write fails.
func (s *spectator) writePump(b *Broadcaster) {
	defer s.conn.Close(websocket.StatusNormalClosure, "")

	for data := range s.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := s.conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			b.mu.Lock()
			if b.clients[s] {
				delete(b.clients, s)
				close(s.send)
			}
			b.mu.Unlock()
			return
		}
	}
}

// Close shuts the fan-out loop down and disconnects every spectator.
func (b *Broadcaster) Close() {
	close(b.done)
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.clients {
		delete(b.clients, s)
		close(s.send)
	}
}
