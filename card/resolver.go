package card

import (
	"context"
	"fmt"

	"github.com/jeffrom/cardhook/config"
	"github.com/jeffrom/cardhook/model"
)

// Strategy selects how commits are mapped to card identifiers.
type Strategy int

const (
	_ Strategy = iota

	// ByTag maps each commit to every card tagged in its message.
	ByTag
	// ByEnvName maps every commit to the single card whose shortlink matches
	// the environment name.
	ByEnvName
)

func (s Strategy) String() string {
	switch s {
	case ByTag:
		return "by-tag"
	case ByEnvName:
		return "by-env-name"
	case 0:
		return "<INVALID>"
	default:
		return "<UNKNOWN>"
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "by-tag":
		return ByTag, nil
	case "by-env-name":
		return ByEnvName, nil
	}
	return 0, fmt.Errorf("card: unknown strategy %q", s)
}

// ShortlinkResolver maps an environment name to a board shortlink. ok is
// false when no card matches.
type ShortlinkResolver interface {
	Resolve(ctx context.Context, env string) (shortlink string, ok bool, err error)
}

type Resolver struct {
	cfg        config.Config
	strategy   Strategy
	primary    string
	shortlinks ShortlinkResolver
}

// NewResolver returns a Resolver using strategy for every environment except
// primary, which always resolves by tag.
func NewResolver(cfg config.Config, strategy Strategy, primary string, shortlinks ShortlinkResolver) *Resolver {
	return &Resolver{
		cfg:        cfg,
		strategy:   strategy,
		primary:    primary,
		shortlinks: shortlinks,
	}
}

// NewResolverFromConfig builds a Resolver from cfg.Strategy and
// cfg.PrimaryEnvironment.
func NewResolverFromConfig(cfg config.Config, shortlinks ShortlinkResolver) (*Resolver, error) {
	strategy, err := ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return NewResolver(cfg, strategy, cfg.PrimaryEnvironment, shortlinks), nil
}

func (r *Resolver) StrategyFor(env string) Strategy {
	if env == r.primary {
		return ByTag
	}
	return r.strategy
}

// Resolve groups commits by card for env.
func (r *Resolver) Resolve(ctx context.Context, env string, commits []*model.Commit) (*Group, error) {
	switch strategy := r.StrategyFor(env); strategy {
	case ByTag:
		return GroupByTag(commits), nil
	case ByEnvName:
		if r.shortlinks == nil {
			return nil, fmt.Errorf("card: %s strategy requires a shortlink resolver", strategy)
		}
		shortlink, ok, err := r.shortlinks.Resolve(ctx, env)
		if err != nil {
			return nil, err
		}
		if !ok {
			// TODO: a miss here is silent and permanent once cached; decide
			// whether it should warn on every run.
			r.cfg.Debugf(" * no shortlink for environment %q, skipping", env)
			return NewGroup(), nil
		}
		return GroupByCard(shortlink, commits), nil
	default:
		return nil, fmt.Errorf("card: unsupported strategy %s", strategy)
	}
}

// GroupByTag associates each commit with every distinct card tagged in its
// message. Commits without tags are left out.
func GroupByTag(commits []*model.Commit) *Group {
	g := NewGroup()
	for _, c := range commits {
		for _, id := range ParseIDs(c.Message) {
			g.Add(id, c)
		}
	}
	return g
}

// GroupByCard associates every commit with cardID.
func GroupByCard(cardID string, commits []*model.Commit) *Group {
	g := NewGroup()
	for _, c := range commits {
		g.Add(cardID, c)
	}
	return g
}
