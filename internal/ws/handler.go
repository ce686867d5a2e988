package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkells/codenames-backend/internal/engine"
	"github.com/mkells/codenames-backend/internal/hub"
	"github.com/mkells/codenames-backend/internal/session"
	"github.com/mkells/codenames-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	outboxBuffer = 16
	// DefaultGameID is used when a message omits gameId.
	DefaultGameID = "main"
)

// subscription tracks which session a connection is bound to and owns
// the outbox lifecycle. Every bind allocates a fresh outbox and hands
// it to start, so a channel closed by one session (slow-consumer drop)
// is never re-joined to another; left records that the close was our
// own leave rather than a drop.
type subscription struct {
	clientID string
	buffer   int
	start    func(out chan types.ServerMessage, left *atomic.Bool)
	cur      *session.Session
	left     *atomic.Bool
}

func (sub *subscription) current() *session.Session { return sub.cur }

func (sub *subscription) bind(sess *session.Session) {
	if sub.cur == sess {
		return
	}
	sub.leave()

	out := make(chan types.ServerMessage, sub.buffer)
	left := new(atomic.Bool)
	sub.start(out, left)

	sub.cur = sess
	sub.left = left
	sess.Inbox() <- session.Join{ClientID: sub.clientID, Outbox: out}
}

// leave unsubscribes from the current session, if any. The session
// closes the outbox, which lets the writer started for it exit.
func (sub *subscription) leave() {
	if sub.cur == nil {
		return
	}
	sub.left.Store(true)
	sub.cur.Inbox() <- session.Leave{ClientID: sub.clientID}
	sub.cur = nil
}

// Handler accepts a websocket connection and bridges it to the hub.
// A connection has no session at accept time; it binds to whichever
// session its messages name, and broadcasts only reach subscribers of
// that session.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		clog := log.With(zap.String("client", clientID))
		clog.Info("client connected")

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()

		// One writer per bind; it lives until its outbox is closed,
		// either by our own leave or by the session dropping us.
		startWriter := func(out chan types.ServerMessage, left *atomic.Bool) {
			go func() {
				for msg := range out {
					writeMessage(writeCtx, conn, msg)
				}
				if !left.Load() {
					// The session closed the outbox: dropped as a slow
					// consumer. Tear the connection down so the reader
					// unblocks too.
					conn.Close(websocket.StatusPolicyViolation, "slow consumer")
				}
			}()
		}

		sub := &subscription{clientID: clientID, buffer: outboxBuffer, start: startWriter}
		defer func() {
			sub.leave()
			clog.Info("client disconnected")
		}()

		// Direct writes from the reader side (greeting, protocol
		// errors) bypass the outbox; conn.Write serializes internally.
		writeMessage(r.Context(), conn, types.ServerMessage{
			Type: types.MsgConnectionResponse,
			Data: types.ConnectionResponse{Status: "connected"},
		})

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			switch cm.Type {
			case "request_game_state":
				id := gameID(cm)
				sess := getSession(h, id)
				if sess == nil {
					writeError(r.Context(), conn, "No game found with ID: "+id)
					continue
				}
				sub.bind(sess)
				sess.Inbox() <- session.RequestState{ClientID: clientID}

			case "reveal_card", "give_clue", "end_turn":
				id := gameID(cm)
				sess := getSession(h, id)
				if sess == nil {
					// Writes against unknown games are dropped.
					clog.Debug("action for unknown game",
						zap.String("type", cm.Type), zap.String("game", id))
					continue
				}
				sub.bind(sess)
				sess.Inbox() <- session.FromClient{ClientID: clientID, Cmd: toCommand(cm)}

			case "cursor_position":
				if sub.current() == nil {
					continue
				}
				sub.current().Inbox() <- session.CursorUpdate{PlayerID: cm.PlayerID, X: cm.X, Y: cm.Y}

			case "cursor_move":
				// Observed only; no state effect.
				clog.Debug("cursor over card",
					zap.String("player", cm.PlayerID),
					zap.Int("card", cm.CardIndex),
					zap.String("word", cm.Word))

			default:
				writeError(r.Context(), conn, "unknown type")
			}
		}
	}
}

func toCommand(m types.ClientMessage) engine.Command {
	switch m.Type {
	case "reveal_card":
		return engine.Command{Type: engine.CmdRevealCard, CardIndex: m.CardIndex}
	case "give_clue":
		return engine.Command{Type: engine.CmdGiveClue, Clue: m.Clue, Number: m.Number}
	default:
		return engine.Command{Type: engine.CmdEndTurn}
	}
}

func gameID(m types.ClientMessage) string {
	if m.GameID == "" {
		return DefaultGameID
	}
	return m.GameID
}

func getSession(h *hub.Hub, id string) *session.Session {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{ID: id, Reply: reply}
	return <-reply
}

func writeMessage(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}

func writeError(ctx context.Context, conn *websocket.Conn, message string) {
	writeMessage(ctx, conn, types.ServerMessage{
		Type: types.MsgError,
		Data: types.ErrorPayload{Message: message},
	})
}
