package session

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mkells/codenames-backend/internal/engine"
	"github.com/mkells/codenames-backend/internal/types"
)

// testState mirrors the engine test layout: 0-8 red, 9-16 blue,
// 17-23 neutral, 24 assassin, red on turn.
func testState() engine.State {
	grid := make([]engine.Card, engine.GridSize)
	for i := range grid {
		var team engine.CardTeam
		switch {
		case i < 9:
			team = engine.CardRed
		case i < 17:
			team = engine.CardBlue
		case i < 24:
			team = engine.CardNeutral
		default:
			team = engine.CardAssassin
		}
		grid[i] = engine.Card{Word: "word", Team: team}
	}
	return engine.State{
		Grid:          grid,
		CurrentTurn:   engine.TeamRed,
		RedRemaining:  engine.RedCards,
		BlueRemaining: engine.BlueCards,
	}
}

// helper: receive one message with a timeout so tests never hang
func recvMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) types.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{} // unreachable
	}
}

func recvNoMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			return // closed is fine; no further messages possible
		}
		t.Fatalf("expected no message within %v, but got: %+v", within, msg)
	case <-time.After(within):
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func newTestSession(t *testing.T, initial engine.State) *Session {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, "test-game", initial, zap.NewNop())
}

func join(t *testing.T, s *Session, id string) chan types.ServerMessage {
	t.Helper()
	out := make(chan types.ServerMessage, 8)
	s.Inbox() <- Join{ClientID: id, Outbox: out}
	return out
}

func TestSession_RequestStateIsUnicast(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")

	s.Inbox() <- RequestState{ClientID: "c1"}

	msg := recvMsg(t, c1, 100*time.Millisecond)
	if msg.Type != types.MsgGameState {
		t.Fatalf("want game_state, got %q", msg.Type)
	}
	snap, ok := msg.Data.(types.GameState)
	if !ok {
		t.Fatalf("unexpected payload %T", msg.Data)
	}
	if len(snap.Grid) != engine.GridSize {
		t.Fatalf("want 25 cards, got %d", len(snap.Grid))
	}
	if snap.CurrentTurn != engine.TeamRed || snap.RedRemaining != 9 || snap.BlueRemaining != 8 {
		t.Fatalf("bad snapshot: %+v", snap)
	}
	if snap.CurrentClue != nil || snap.Winner != nil {
		t.Fatalf("fresh game should have null clue and winner: %+v", snap)
	}

	recvNoMsg(t, c2, 100*time.Millisecond)
}

func TestSession_RevealBroadcastsUpdate(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")

	s.Inbox() <- FromClient{ClientID: "c1", Cmd: engine.Command{Type: engine.CmdRevealCard, CardIndex: 9}}

	for _, ch := range []chan types.ServerMessage{c1, c2} {
		msg := recvMsg(t, ch, 100*time.Millisecond)
		if msg.Type != types.MsgGameStateUpdate {
			t.Fatalf("want game_state_update, got %q", msg.Type)
		}
		upd := msg.Data.(types.GameStateUpdate)
		if upd.CardIndex != 9 || upd.Team != engine.CardBlue {
			t.Fatalf("bad update: %+v", upd)
		}
		if upd.BlueRemaining != 7 {
			t.Fatalf("want blue_remaining=7, got %d", upd.BlueRemaining)
		}
		// Red revealed blue's card, so the turn flipped.
		if upd.CurrentTurn != engine.TeamBlue {
			t.Fatalf("want current_turn=blue, got %v", upd.CurrentTurn)
		}
	}
}

func TestSession_ClueGivenBroadcast(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")

	s.Inbox() <- FromClient{ClientID: "c1", Cmd: engine.Command{Type: engine.CmdGiveClue, Clue: "ocean", Number: 2}}

	for _, ch := range []chan types.ServerMessage{c1, c2} {
		msg := recvMsg(t, ch, 100*time.Millisecond)
		if msg.Type != types.MsgClueGiven {
			t.Fatalf("want clue_given, got %q", msg.Type)
		}
		clue := msg.Data.(types.ClueGiven)
		if clue.Clue != "ocean" || clue.Number != 2 || clue.Team != engine.TeamRed || clue.GuessesAllowed != 3 {
			t.Fatalf("bad clue payload: %+v", clue)
		}
	}
}

func TestSession_InvalidClueErrorGoesToSenderOnly(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")

	s.Inbox() <- FromClient{ClientID: "c1", Cmd: engine.Command{Type: engine.CmdGiveClue, Clue: "x", Number: 11}}

	msg := recvMsg(t, c1, 100*time.Millisecond)
	if msg.Type != types.MsgError {
		t.Fatalf("want error, got %q", msg.Type)
	}
	if msg.Data.(types.ErrorPayload).Message != "Invalid clue or number" {
		t.Fatalf("bad error payload: %+v", msg.Data)
	}
	recvNoMsg(t, c2, 100*time.Millisecond)

	// State untouched.
	reply := make(chan View, 1)
	s.Inbox() <- GetView{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.State.CurrentClue != "" || view.Version != 0 {
		t.Fatalf("rejected clue should not change state: %+v", view)
	}
}

func TestSession_RejectedRevealIsSilent(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")

	s.Inbox() <- FromClient{ClientID: "c1", Cmd: engine.Command{Type: engine.CmdRevealCard, CardIndex: 99}}
	recvNoMsg(t, c1, 100*time.Millisecond)

	reply := make(chan View, 1)
	s.Inbox() <- GetView{Reply: reply}
	if view := recvView(t, reply, 100*time.Millisecond); view.Version != 0 {
		t.Fatalf("rejected reveal bumped version: %+v", view)
	}
}

func TestSession_EndTurnBroadcast(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")

	s.Inbox() <- FromClient{ClientID: "c1", Cmd: engine.Command{Type: engine.CmdEndTurn}}

	msg := recvMsg(t, c1, 100*time.Millisecond)
	if msg.Type != types.MsgTurnEnded {
		t.Fatalf("want turn_ended, got %q", msg.Type)
	}
	if msg.Data.(types.TurnEnded).CurrentTurn != engine.TeamBlue {
		t.Fatalf("bad payload: %+v", msg.Data)
	}
}

func TestSession_CursorFanOut(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")
	c2 := join(t, s, "c2")

	s.Inbox() <- CursorUpdate{PlayerID: "p1", X: 10, Y: 20}

	for _, ch := range []chan types.ServerMessage{c1, c2} {
		msg := recvMsg(t, ch, 100*time.Millisecond)
		if msg.Type != types.MsgPlayerCursor {
			t.Fatalf("want player_cursor, got %q", msg.Type)
		}
		cursor := msg.Data.(types.PlayerCursor)
		if cursor.PlayerID != "p1" || cursor.X != 10 || cursor.Y != 20 {
			t.Fatalf("bad cursor payload: %+v", cursor)
		}
	}

	reply := make(chan View, 1)
	s.Inbox() <- GetView{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.Cursors["p1"] != (Cursor{X: 10, Y: 20}) {
		t.Fatalf("cursor not recorded: %+v", view.Cursors)
	}
}

func TestSession_ResetBroadcastsGameReset(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")

	s.Inbox() <- CursorUpdate{PlayerID: "p1", X: 1, Y: 2}
	_ = recvMsg(t, c1, 100*time.Millisecond) // drain player_cursor

	fresh := testState()
	fresh.Grid[0].Word = "replacement"
	s.Inbox() <- Reset{State: fresh}

	msg := recvMsg(t, c1, 100*time.Millisecond)
	if msg.Type != types.MsgGameReset {
		t.Fatalf("want game_reset, got %q", msg.Type)
	}
	if msg.Data.(types.GameReset).GameID != "test-game" {
		t.Fatalf("bad payload: %+v", msg.Data)
	}

	reply := make(chan View, 1)
	s.Inbox() <- GetView{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.State.Grid[0].Word != "replacement" {
		t.Fatalf("state not replaced")
	}
	if len(view.Cursors) != 0 {
		t.Fatalf("cursors should be cleared on reset: %+v", view.Cursors)
	}
}

func TestSession_DropSlowClient(t *testing.T) {
	s := newTestSession(t, testState())

	// Unbuffered outbox that nobody reads: the first broadcast drops it.
	out := make(chan types.ServerMessage)
	s.Inbox() <- Join{ClientID: "slow", Outbox: out}

	s.Inbox() <- FromClient{ClientID: "slow", Cmd: engine.Command{Type: engine.CmdEndTurn}}

	reply := make(chan View, 1)
	s.Inbox() <- GetView{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.NumClients != 0 {
		t.Fatalf("expected slow client to be dropped; NumClients=%d", view.NumClients)
	}
}

func TestSession_LeaveClosesOutbox(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")

	s.Inbox() <- Leave{ClientID: "c1"}

	select {
	case _, ok := <-c1:
		if ok {
			t.Fatalf("expected closed channel, got message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("outbox not closed after leave")
	}
}

// A snapshot requested right after a mutation reflects exactly that
// mutation; the actor serializes both, so no torn reads are possible.
func TestSession_SnapshotAfterMutationIsConsistent(t *testing.T) {
	s := newTestSession(t, testState())
	c1 := join(t, s, "c1")

	s.Inbox() <- FromClient{ClientID: "c1", Cmd: engine.Command{Type: engine.CmdRevealCard, CardIndex: 0}}
	s.Inbox() <- RequestState{ClientID: "c1"}

	_ = recvMsg(t, c1, 100*time.Millisecond) // game_state_update
	msg := recvMsg(t, c1, 100*time.Millisecond)
	if msg.Type != types.MsgGameState {
		t.Fatalf("want game_state, got %q", msg.Type)
	}
	snap := msg.Data.(types.GameState)
	if !snap.Grid[0].Revealed || snap.RedRemaining != 8 || snap.GuessesMade != 1 {
		t.Fatalf("snapshot does not reflect the reveal: %+v", snap)
	}
}
