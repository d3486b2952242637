// Package board abstracts the project board cards are tracked on. Currently
// just Trello.
package board

import (
	"context"
	"fmt"
)

// Card is a single card on a board.
type Card struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortLink string `json:"shortLink"`
	IDList    string `json:"idList"`
	Closed    bool   `json:"closed"`
}

// StatusError is returned when the board API responds with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("board: %s %s: %s", e.Method, e.Path, e.Status)
}

type Interface interface {
	// ListCards returns every card on the configured board.
	ListCards(ctx context.Context) ([]Card, error)
	// PostComment appends a comment to a card.
	PostComment(ctx context.Context, cardID, text string) error
	// MoveCard moves a card to another list.
	MoveCard(ctx context.Context, cardID, listID string) error
}
