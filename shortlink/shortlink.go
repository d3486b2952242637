// Package shortlink maps deployment environments to board cards by shortlink
// and remembers the answer.
package shortlink

import (
	"context"

	"golang.org/x/text/cases"

	"github.com/jeffrom/cardhook/board"
	"github.com/jeffrom/cardhook/config"
	"github.com/jeffrom/cardhook/store"
)

// Cache resolves environment names to card shortlinks. A result, including
// "no card", is stored the first time it is found and trusted from then on.
type Cache struct {
	cfg   config.Config
	store store.Interface
	board board.Interface
}

func New(cfg config.Config, s store.Interface, b board.Interface) *Cache {
	return &Cache{
		cfg:   cfg,
		store: s,
		board: b,
	}
}

// Resolve returns the shortlink of the card named after env. ok is false when
// no card matches. Board API errors are logged and reported as a miss
// without caching it.
func (c *Cache) Resolve(ctx context.Context, env string) (string, bool, error) {
	cached, found, err := c.store.Read(env)
	if err != nil {
		return "", false, err
	}
	if found {
		c.cfg.Printf(" * cached shortLink: %s", cached)
		return cached, cached != "", nil
	}

	cards, err := c.board.ListCards(ctx)
	if err != nil {
		c.cfg.Errorf(" * failed to list cards: %v", err)
		return "", false, nil
	}

	shortlink := Match(env, cards)
	if shortlink != "" {
		c.cfg.Printf(" * api returned shortLink: %s", shortlink)
	}
	if c.cfg.Dryrun {
		c.cfg.Printf(" * would cache shortLink %q for %s (dryrun)", shortlink, env)
		return shortlink, shortlink != "", nil
	}
	if err := c.store.Write(env, shortlink); err != nil {
		return "", false, err
	}
	return shortlink, shortlink != "", nil
}

// Match returns the shortlink of the first card whose shortlink equals env,
// ignoring case, or an empty string.
func Match(env string, cards []board.Card) string {
	fold := cases.Fold()
	want := fold.String(env)
	for _, card := range cards {
		if card.ShortLink == "" {
			continue
		}
		if fold.String(card.ShortLink) == want {
			return card.ShortLink
		}
	}
	return ""
}
