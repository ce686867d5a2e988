package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/mkells/codenames-backend/internal/engine"
	"github.com/mkells/codenames-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

// EnsureSession returns the session for ID, generating a fresh board
// on first reference. If the state factory fails nothing is stored and
// the error is handed back to the caller that triggered creation.
type EnsureSession struct {
	ID    string
	Reply chan EnsureReply
}

// GetSession replies with the session or nil; it never creates.
type GetSession struct {
	ID    string
	Reply chan *session.Session
}

// ResetSession replaces the session's state with a freshly generated
// one, creating the session first if it does not exist.
type ResetSession struct {
	ID    string
	Reply chan EnsureReply
}

type ShutdownHub struct{}

func (EnsureSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (ResetSession) isHubMsg()  {}
func (ShutdownHub) isHubMsg()   {}

type EnsureReply struct {
	Session *session.Session
	Err     error
}

// StateFactory builds a fresh game state; it fails when the word
// source cannot fill a board.
type StateFactory func() (engine.State, error)

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	newState StateFactory
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, newState StateFactory, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		newState: newState,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureSession:
				if sess := h.sessions[msg.ID]; sess != nil {
					msg.Reply <- EnsureReply{Session: sess}
					break
				}
				state, err := h.newState()
				if err != nil {
					msg.Reply <- EnsureReply{Err: err}
					break
				}
				sess := session.New(h.ctx, msg.ID, state, h.log)
				h.sessions[msg.ID] = sess
				h.log.Info("created game", zap.String("game", msg.ID))
				msg.Reply <- EnsureReply{Session: sess}

			case GetSession:
				msg.Reply <- h.sessions[msg.ID] // may be nil

			case ResetSession:
				state, err := h.newState()
				if err != nil {
					msg.Reply <- EnsureReply{Err: err}
					break
				}
				sess := h.sessions[msg.ID]
				if sess == nil {
					sess = session.New(h.ctx, msg.ID, state, h.log)
					h.sessions[msg.ID] = sess
					h.log.Info("created game", zap.String("game", msg.ID))
				}
				sess.Inbox() <- session.Reset{State: state}
				msg.Reply <- EnsureReply{Session: sess}

			case ShutdownHub:
				for _, sess := range h.sessions {
					sess.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}
