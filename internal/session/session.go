// Package session owns one game's authoritative state and its
// subscribers. All reads and writes flow through a single goroutine,
// so every transition is atomic and no snapshot can be torn.
package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mkells/codenames-backend/internal/engine"
	"github.com/mkells/codenames-backend/internal/types"
)

type Msg interface{ isSessionMsg() }

// FromClient carries a state-machine command. ClientID identifies the
// sender so validation errors can be answered without broadcasting.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan types.ServerMessage
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// RequestState asks for a full snapshot, unicast to the requester.
type RequestState struct{ ClientID string }

func (RequestState) isSessionMsg() {}

// CursorUpdate records a player's pointer position and fans it out.
// Cursors are presentational; they never touch the engine state.
type CursorUpdate struct {
	PlayerID string
	X, Y     float64
}

func (CursorUpdate) isSessionMsg() {}

// Reset swaps in a freshly generated state and announces game_reset so
// clients re-request the full snapshot.
type Reset struct{ State engine.State }

func (Reset) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isSessionMsg() {}

// View reflects internal state without data races; used by tests.
type View struct {
	Version    int
	NumClients int
	State      engine.State
	Cursors    map[string]Cursor
}

type Cursor struct {
	X, Y float64
}

type Session struct {
	id      string
	inbox   chan Msg
	state   engine.State
	version int
	cursors map[string]Cursor
	clients map[string]chan types.ServerMessage
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, id string, initial engine.State, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		id:      id,
		inbox:   make(chan Msg, 64),
		state:   initial,
		cursors: make(map[string]Cursor),
		clients: make(map[string]chan types.ServerMessage),
		log:     log.With(zap.String("game", id)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go s.loop()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox

			case Leave:
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}

			case RequestState:
				s.unicast(msg.ClientID, types.ServerMessage{
					Type: types.MsgGameState,
					Data: types.NewGameState(s.state),
				})

			case FromClient:
				s.apply(msg)

			case CursorUpdate:
				s.cursors[msg.PlayerID] = Cursor{X: msg.X, Y: msg.Y}
				s.broadcast(types.ServerMessage{
					Type: types.MsgPlayerCursor,
					Data: types.PlayerCursor{PlayerID: msg.PlayerID, X: msg.X, Y: msg.Y},
				})

			case Reset:
				s.state = msg.State
				s.version++
				clear(s.cursors)
				s.log.Info("game reset")
				s.broadcast(types.ServerMessage{
					Type: types.MsgGameReset,
					Data: types.GameReset{GameID: s.id},
				})

			case GetView:
				cursors := make(map[string]Cursor, len(s.cursors))
				for id, c := range s.cursors {
					cursors[id] = c
				}
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
					Cursors:    cursors,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// apply runs one command through the engine and routes the outcome.
// Invalid clues are answered to the sender only; every other rejected
// command (revealed card, bad index, finished game) is dropped without
// a reply, matching what clients already expect.
func (s *Session) apply(msg FromClient) {
	events, newState, err := engine.Apply(s.state, msg.Cmd)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidClue) {
			s.unicast(msg.ClientID, types.ServerMessage{
				Type: types.MsgError,
				Data: types.ErrorPayload{Message: "Invalid clue or number"},
			})
			return
		}
		s.log.Debug("command ignored",
			zap.String("cmd", string(msg.Cmd.Type)),
			zap.Error(err))
		return
	}

	s.state = newState
	s.version++

	for _, ev := range events {
		switch ev.Type {
		case engine.EvtCardRevealed:
			s.log.Info("card revealed",
				zap.Int("card", ev.CardIndex),
				zap.String("team", string(ev.CardTeam)))
			s.broadcast(types.ServerMessage{
				Type: types.MsgGameStateUpdate,
				Data: types.NewGameStateUpdate(s.state, ev.CardIndex, ev.CardTeam),
			})

		case engine.EvtClueGiven:
			s.log.Info("clue given",
				zap.String("clue", ev.Clue),
				zap.Int("number", ev.Number),
				zap.String("team", string(ev.Team)))
			s.broadcast(types.ServerMessage{
				Type: types.MsgClueGiven,
				Data: types.ClueGiven{
					Clue:           ev.Clue,
					Number:         ev.Number,
					Team:           ev.Team,
					GuessesAllowed: ev.GuessesAllowed,
				},
			})

		case engine.EvtTurnEnded:
			s.log.Info("turn ended", zap.String("now", string(ev.Team)))
			s.broadcast(types.ServerMessage{
				Type: types.MsgTurnEnded,
				Data: types.TurnEnded{CurrentTurn: ev.Team},
			})

		case engine.EvtGameCompleted:
			s.log.Info("game completed", zap.String("winner", string(ev.Winner)))
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) unicast(clientID string, msg types.ServerMessage) {
	ch, ok := s.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		close(ch)
		delete(s.clients, clientID)
	}
}

// broadcast fans out to every subscriber of this session. A client
// whose outbox is full is dropped on the spot rather than allowed to
// stall the loop.
func (s *Session) broadcast(msg types.ServerMessage) {
	for id, ch := range s.clients {
		select {
		case ch <- msg:
		default:
			close(ch)
			delete(s.clients, id)
		}
	}
}
