package types

import "github.com/mkells/codenames-backend/internal/engine"

// ClientMessage is the single inbound shape; Type selects which of the
// optional fields matter.
type ClientMessage struct {
	Type      string  `json:"type"`
	GameID    string  `json:"gameId,omitempty"`
	CardIndex int     `json:"cardIndex,omitempty"`
	Clue      string  `json:"clue,omitempty"`
	Number    int     `json:"number,omitempty"`
	PlayerID  string  `json:"playerId,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Word      string  `json:"word,omitempty"`
}

// ServerMessage is the outbound envelope: an event name plus its
// payload (one of the structs below).
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	MsgConnectionResponse = "connection_response"
	MsgGameState          = "game_state"
	MsgGameStateUpdate    = "game_state_update"
	MsgClueGiven          = "clue_given"
	MsgTurnEnded          = "turn_ended"
	MsgPlayerCursor       = "player_cursor"
	MsgGameReset          = "game_reset"
	MsgError              = "error"
)

type ConnectionResponse struct {
	Status string `json:"status"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// GameState is the full snapshot sent in reply to request_game_state.
// Team is present for every card, revealed or not; role-aware
// filtering is the display layer's job.
type GameState struct {
	Grid           []engine.Card `json:"grid"`
	CurrentTurn    engine.Team   `json:"current_turn"`
	CurrentClue    *string       `json:"current_clue"`
	ClueNumber     int           `json:"clue_number"`
	GuessesMade    int           `json:"guesses_made"`
	GuessesAllowed int           `json:"guesses_allowed"`
	RedRemaining   int           `json:"red_remaining"`
	BlueRemaining  int           `json:"blue_remaining"`
	GameOver       bool          `json:"game_over"`
	Winner         *engine.Team  `json:"winner"`
}

// GameStateUpdate is the delta broadcast after a reveal: the flipped
// card plus the full counter block.
type GameStateUpdate struct {
	CardIndex      int             `json:"cardIndex"`
	Team           engine.CardTeam `json:"team"`
	CurrentTurn    engine.Team     `json:"current_turn"`
	CurrentClue    *string         `json:"current_clue"`
	ClueNumber     int             `json:"clue_number"`
	GuessesMade    int             `json:"guesses_made"`
	GuessesAllowed int             `json:"guesses_allowed"`
	RedRemaining   int             `json:"red_remaining"`
	BlueRemaining  int             `json:"blue_remaining"`
	GameOver       bool            `json:"game_over"`
	Winner         *engine.Team    `json:"winner"`
}

type ClueGiven struct {
	Clue           string      `json:"clue"`
	Number         int         `json:"number"`
	Team           engine.Team `json:"team"`
	GuessesAllowed int         `json:"guesses_allowed"`
}

type TurnEnded struct {
	CurrentTurn engine.Team `json:"current_turn"`
}

type PlayerCursor struct {
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type GameReset struct {
	GameID string `json:"gameId"`
}

// NewGameState copies s into its wire shape. The grid slice is copied
// so later transitions cannot show through a snapshot already handed
// to a writer.
func NewGameState(s engine.State) GameState {
	return GameState{
		Grid:           append([]engine.Card(nil), s.Grid...),
		CurrentTurn:    s.CurrentTurn,
		CurrentClue:    nullableClue(s),
		ClueNumber:     s.ClueNumber,
		GuessesMade:    s.GuessesMade,
		GuessesAllowed: s.GuessesAllowed,
		RedRemaining:   s.RedRemaining,
		BlueRemaining:  s.BlueRemaining,
		GameOver:       s.GameOver,
		Winner:         nullableWinner(s),
	}
}

func NewGameStateUpdate(s engine.State, cardIndex int, team engine.CardTeam) GameStateUpdate {
	return GameStateUpdate{
		CardIndex:      cardIndex,
		Team:           team,
		CurrentTurn:    s.CurrentTurn,
		CurrentClue:    nullableClue(s),
		ClueNumber:     s.ClueNumber,
		GuessesMade:    s.GuessesMade,
		GuessesAllowed: s.GuessesAllowed,
		RedRemaining:   s.RedRemaining,
		BlueRemaining:  s.BlueRemaining,
		GameOver:       s.GameOver,
		Winner:         nullableWinner(s),
	}
}

// Clients expect JSON null, not "", when no clue or winner is set.
func nullableClue(s engine.State) *string {
	if s.CurrentClue == "" {
		return nil
	}
	clue := s.CurrentClue
	return &clue
}

func nullableWinner(s engine.State) *engine.Team {
	if s.Winner == "" {
		return nil
	}
	winner := s.Winner
	return &winner
}
