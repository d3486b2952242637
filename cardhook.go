// Package cardhook keeps project board cards in sync with deploys. It scans
// newly deployed commits for card tags such as "[AbCd1234]", comments on the
// referenced cards, and moves cards tagged in a deploy message to a
// configured list.
//
// Related packages: config, card, runner, shortlink, store, secrets, model,
// board, board/trello, vcs, vcs/gitcli
package cardhook

import "github.com/jeffrom/cardhook/config"

// Config holds the configuration for a single hook run.
//
// See "go doc github.com/jeffrom/cardhook/config Config" for more
// information.
type Config = config.Config
