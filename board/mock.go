package board

import (
	"context"
	"sync"
)

type Comment struct {
	CardID string
	Text   string
}

type Move struct {
	CardID string
	ListID string
}

// Mock records calls instead of sending them.
type Mock struct {
	mu        sync.Mutex
	cards     []Card
	errs      map[string]error
	listCalls int
	comments  []Comment
	moves     []Move
}

func NewMock() *Mock {
	return &Mock{errs: make(map[string]error)}
}

func (m *Mock) SetCards(cards ...Card) *Mock {
	m.cards = cards
	return m
}

// SetError makes calls for cardID fail with err. An empty cardID applies to
// ListCards.
func (m *Mock) SetError(cardID string, err error) *Mock {
	m.errs[cardID] = err
	return m
}

func (m *Mock) ListCards(ctx context.Context) ([]Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if err := m.errs[""]; err != nil {
		return nil, err
	}
	cards := make([]Card, len(m.cards))
	copy(cards, m.cards)
	return cards, nil
}

func (m *Mock) PostComment(ctx context.Context, cardID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[cardID]; err != nil {
		return err
	}
	m.comments = append(m.comments, Comment{CardID: cardID, Text: text})
	return nil
}

func (m *Mock) MoveCard(ctx context.Context, cardID, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[cardID]; err != nil {
		return err
	}
	m.moves = append(m.moves, Move{CardID: cardID, ListID: listID})
	return nil
}

func (m *Mock) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func (m *Mock) Comments() []Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Comment, len(m.comments))
	copy(res, m.comments)
	return res
}

func (m *Mock) Moves() []Move {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Move, len(m.moves))
	copy(res, m.moves)
	return res
}
