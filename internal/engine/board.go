package engine

import (
	"errors"
	"math/rand"
	"time"
)

const (
	GridSize      = 25
	RedCards      = 9
	BlueCards     = 8
	NeutralCards  = 7
	AssassinCards = 1
)

var ErrInsufficientWords = errors.New("word source has fewer than 25 words")

// NewBoard draws 25 distinct words from the source and assigns the
// 9/8/7/1 team quota by an independent shuffle. Pass rng for a
// deterministic layout; nil uses a time-seeded source.
func NewBoard(words []string, rng *rand.Rand) ([]Card, error) {
	if len(words) < GridSize {
		return nil, ErrInsufficientWords
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pool := append([]string(nil), words...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	labels := make([]CardTeam, 0, GridSize)
	for i := 0; i < RedCards; i++ {
		labels = append(labels, CardRed)
	}
	for i := 0; i < BlueCards; i++ {
		labels = append(labels, CardBlue)
	}
	for i := 0; i < NeutralCards; i++ {
		labels = append(labels, CardNeutral)
	}
	for i := 0; i < AssassinCards; i++ {
		labels = append(labels, CardAssassin)
	}
	rng.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })

	grid := make([]Card, GridSize)
	for i := range grid {
		grid[i] = Card{Word: pool[i], Team: labels[i]}
	}
	return grid, nil
}

// NewState builds a fresh session state over a newly generated board.
// Red holds the 9-card quota and always opens; that pairing is a rule
// of the game, not an outcome of the shuffle.
func NewState(words []string, rng *rand.Rand) (State, error) {
	grid, err := NewBoard(words, rng)
	if err != nil {
		return State{}, err
	}
	return State{
		Grid:          grid,
		CurrentTurn:   TeamRed,
		RedRemaining:  RedCards,
		BlueRemaining: BlueCards,
	}, nil
}
