package engine

import (
	"errors"
	"strings"
)

var ErrGameCompleted = errors.New("game already completed")
var ErrBadCardIndex = errors.New("card index out of range")
var ErrCardRevealed = errors.New("card already revealed")
var ErrInvalidClue = errors.New("invalid clue or number")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

type CardTeam string

const (
	CardRed      CardTeam = "red"
	CardBlue     CardTeam = "blue"
	CardNeutral  CardTeam = "neutral"
	CardAssassin CardTeam = "assassin"
)

type Card struct {
	Word     string   `json:"word"`
	Team     CardTeam `json:"team"`
	Revealed bool     `json:"revealed"`
}

type State struct {
	Grid           []Card
	CurrentTurn    Team
	CurrentClue    string // "" means no active clue
	ClueNumber     int
	GuessesMade    int
	GuessesAllowed int
	RedRemaining   int
	BlueRemaining  int
	GameOver       bool
	Winner         Team // "" until GameOver
}

type CommandType string

const (
	CmdRevealCard CommandType = "RevealCard"
	CmdGiveClue   CommandType = "GiveClue"
	CmdEndTurn    CommandType = "EndTurn"
)

type Command struct {
	Type      CommandType
	CardIndex int
	Clue      string
	Number    int
}

type EventType string

const (
	EvtCardRevealed  EventType = "CardRevealed"
	EvtClueGiven     EventType = "ClueGiven"
	EvtTurnEnded     EventType = "TurnEnded"
	EvtGameCompleted EventType = "GameCompleted"
)

type Event struct {
	Type           EventType
	CardIndex      int
	CardTeam       CardTeam
	Clue           string
	Number         int
	Team           Team
	GuessesAllowed int
	Winner         Team
}

// Apply validates cmd against s and returns the events it produced plus
// the successor state. s itself is never mutated; on error the returned
// state is s unchanged. Once GameOver is set every mutating command
// fails with ErrGameCompleted.
func Apply(s State, cmd Command) ([]Event, State, error) {

	if s.GameOver {
		return nil, s, ErrGameCompleted
	}

	switch cmd.Type {
	case CmdRevealCard:
		return applyReveal(s, cmd.CardIndex)

	case CmdGiveClue:
		return applyClue(s, cmd.Clue, cmd.Number)

	case CmdEndTurn:
		newState := endTurn(s)
		return []Event{{Type: EvtTurnEnded, Team: newState.CurrentTurn}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyReveal(s State, idx int) ([]Event, State, error) {
	if idx < 0 || idx >= GridSize {
		return nil, s, ErrBadCardIndex
	}
	if s.Grid[idx].Revealed {
		return nil, s, ErrCardRevealed
	}

	newState := s
	newState.Grid = append([]Card(nil), s.Grid...)
	newState.Grid[idx].Revealed = true
	newState.GuessesMade++

	card := newState.Grid[idx]
	events := []Event{{Type: EvtCardRevealed, CardIndex: idx, CardTeam: card.Team}}
	endsTurn := false

	switch card.Team {
	case CardAssassin:
		// Instant loss for the team on turn.
		newState.GameOver = true
		newState.Winner = newState.CurrentTurn.Opponent()

	case CardRed, CardBlue:
		team := TeamRed
		remaining := &newState.RedRemaining
		if card.Team == CardBlue {
			team = TeamBlue
			remaining = &newState.BlueRemaining
		}
		*remaining--

		switch {
		case *remaining == 0:
			// The last card wins for its team no matter who revealed it.
			newState.GameOver = true
			newState.Winner = team
		case newState.CurrentTurn != team:
			// Opponent's card always costs the turn.
			endsTurn = true
		case newState.GuessesMade > newState.GuessesAllowed:
			// Strictly > rather than >=: a team gets GuessesAllowed+1
			// own-color reveals before the budget expires. Existing
			// clients count on this, so it stays.
			endsTurn = true
		}

	case CardNeutral:
		endsTurn = true
	}

	if newState.GameOver {
		events = append(events, Event{Type: EvtGameCompleted, Winner: newState.Winner})
		return events, newState, nil
	}

	if endsTurn {
		newState = endTurn(newState)
	}
	return events, newState, nil
}

func applyClue(s State, clue string, number int) ([]Event, State, error) {
	clue = strings.TrimSpace(clue)
	if clue == "" || number < 0 || number > 9 {
		return nil, s, ErrInvalidClue
	}

	newState := s
	newState.CurrentClue = clue
	newState.ClueNumber = number
	newState.GuessesAllowed = number + 1
	newState.GuessesMade = 0

	events := []Event{{
		Type:           EvtClueGiven,
		Clue:           clue,
		Number:         number,
		Team:           newState.CurrentTurn,
		GuessesAllowed: newState.GuessesAllowed,
	}}
	return events, newState, nil
}

// endTurn flips the active team and clears the clue and guess budget.
func endTurn(s State) State {
	s.CurrentTurn = s.CurrentTurn.Opponent()
	s.CurrentClue = ""
	s.ClueNumber = 0
	s.GuessesMade = 0
	s.GuessesAllowed = 0
	return s
}
