package card

import (
	"sort"

	"github.com/jeffrom/cardhook/model"
)

// Group maps card identifiers to the commits that reference them. Messages
// and Authors hold the details of every commit in Cards, keyed by commit id.
type Group struct {
	Cards    map[string]map[string]struct{}
	Messages map[string]string
	Authors  map[string]string
	order    []string
}

func NewGroup() *Group {
	return &Group{
		Cards:    make(map[string]map[string]struct{}),
		Messages: make(map[string]string),
		Authors:  make(map[string]string),
	}
}

// Add associates commit with cardID. Adding the same pair twice is a no-op.
func (g *Group) Add(cardID string, commit *model.Commit) {
	ids, ok := g.Cards[cardID]
	if !ok {
		ids = make(map[string]struct{})
		g.Cards[cardID] = ids
	}
	ids[commit.ID] = struct{}{}
	if _, ok := g.Messages[commit.ID]; !ok {
		g.order = append(g.order, commit.ID)
	}
	g.Messages[commit.ID] = commit.Message
	g.Authors[commit.ID] = commit.Author
}

// CardIDs returns the card identifiers in the group, sorted.
func (g *Group) CardIDs() []string {
	ids := make([]string, 0, len(g.Cards))
	for id := range g.Cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CommitIDs returns the ids of the commits referencing cardID, in the order
// they were first added.
func (g *Group) CommitIDs(cardID string) []string {
	commits := g.Cards[cardID]
	ids := make([]string, 0, len(commits))
	for _, id := range g.order {
		if _, ok := commits[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Commit returns the stored details of commit id.
func (g *Group) Commit(id string) *model.Commit {
	return &model.Commit{
		ID:      id,
		Message: g.Messages[id],
		Author:  g.Authors[id],
	}
}

// Len returns the number of (card, commit) pairs in the group.
func (g *Group) Len() int {
	n := 0
	for _, commits := range g.Cards {
		n += len(commits)
	}
	return n
}

func (g *Group) Empty() bool {
	return len(g.Cards) == 0
}
