package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/jeffrom/cardhook/board/trello"
	"github.com/jeffrom/cardhook/card"
	"github.com/jeffrom/cardhook/config"
	"github.com/jeffrom/cardhook/runner"
	"github.com/jeffrom/cardhook/secrets"
	"github.com/jeffrom/cardhook/shortlink"
	"github.com/jeffrom/cardhook/store"
	"github.com/jeffrom/cardhook/vcs/gitcli"
)

var (
	// overridden by go build -X
	Version string
)

const configFileName = "cardhook.yaml"

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rawArgs []string) error {
	flagCfg := &config.Config{}

	var help bool
	var version bool
	var cfgFile string
	var repoDir string
	var deployMessage string
	var printConfig bool
	var printSummary bool
	flags := pflag.NewFlagSet("cardhook", pflag.ContinueOnError)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.BoolVarP(&flagCfg.Dryrun, "dry-run", "n", false, "Don't post comments or move cards")
	flags.StringVarP(&flagCfg.Environment, "env", "e", "", "deployment environment `name` (default $PANTHEON_ENVIRONMENT)")
	flags.StringVarP(&flagCfg.PublicURL, "url", "u", "", "public `host` of the environment (default $DRUSH_OPTIONS_URI)")
	flags.StringVar(&flagCfg.PrimaryEnvironment, "primary-env", "", "environment `name` that always resolves cards by tag (default \"dev\")")
	flags.StringVar(&flagCfg.Strategy, "strategy", "", "card resolution `strategy` for other environments: by-tag or by-env-name")
	flags.StringVar(&flagCfg.StateDir, "state-dir", "", "`dir`ectory for checkpoint and shortlink files (default $HOME/files)")
	flags.StringVar(&flagCfg.CommentTemplate, "comment-template", "", "go text/template comment `format`")
	flags.StringVar(&flagCfg.Timeout, "timeout", "", "per-call `duration` limit (default 5s)")
	flags.StringVar(&flagCfg.BoardURL, "board-url", "", "board API base `url`")
	flags.StringVar(&flagCfg.SecretsFile, "secrets-file", "", "read secrets from yaml `file`")
	flags.StringVar(&flagCfg.SecretsPrefix, "secrets-prefix", "", "environment variable `prefix` for secrets")
	flags.StringVarP(&deployMessage, "message", "m", "", "deploy `message` for move (\"-\" reads stdin)")
	flags.StringVarP(&repoDir, "dir", "C", "", "run git in `dir`")
	flags.BoolVarP(&flagCfg.Debug, "verbose", "v", false, "print additional debugging info")
	flags.BoolVarP(&flagCfg.Quiet, "quiet", "q", false, "print as little as necessary")
	flags.BoolVarP(&printSummary, "summary", "S", false, "print a summary of the run")
	flags.StringVarP(&cfgFile, "config", "c", "", "specify config `file`")
	flags.BoolVar(&printConfig, "print-config", false, "Print configuration and exit")

	if err := flags.Parse(rawArgs); err != nil {
		return err
	}
	args := flags.Args()
	if len(args) > 0 {
		args = args[1:]
	}

	cfg := config.New(nil)
	if help {
		usage(cfg, flags)
		return nil
	}
	if version {
		cfg.Printf("%s", versionString())
		return nil
	}

	fileCfg, err := readConfigYAML(cfgFile)
	if err != nil {
		return err
	}
	if fileCfg != nil {
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return err
		}
	}
	if err := mergo.Merge(&cfg, flagCfg, mergo.WithOverride); err != nil {
		return err
	}
	if cfg.Environment == "" {
		cfg.Environment = os.Getenv("PANTHEON_ENVIRONMENT")
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = os.Getenv("DRUSH_OPTIONS_URI")
	}
	if cfg.Debug {
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		cfg.Debugf("config: %s", string(b))
	}

	if printConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		cfg.Printf("%s", string(b))
		return nil
	}
	// done setting up config

	if len(args) != 1 {
		usage(cfg, flags)
		return errors.New("expected exactly one command: comment or move")
	}
	cmd := args[0]
	if cmd != "comment" && cmd != "move" {
		return fmt.Errorf("unknown command %q (want comment or move)", cmd)
	}
	provider, err := secretsProvider(cfg)
	if err != nil {
		return err
	}
	required := []string{secrets.Key, secrets.Token, secrets.BoardID}
	if cmd == "move" {
		required = []string{secrets.Key, secrets.Token, secrets.ListID}
	}
	creds, ok := secrets.Require(provider, required...)
	if !ok {
		cfg.Printf(" * %s must be set, nothing to do", strings.Join(required, ", "))
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	client := newClient(cfg, creds)
	var summary *runner.Summary
	switch cmd {
	case "comment":
		resolver, err := card.NewResolverFromConfig(cfg, shortlink.New(cfg, store.NewFile(cfg.StateDir, store.ShortlinkSuffix), client))
		if err != nil {
			return err
		}
		git := gitcli.New(cfg, repoDir)
		rnr, err := runner.New(cfg, git, client, store.NewFile(cfg.StateDir, store.CheckpointSuffix), resolver)
		if err != nil {
			return err
		}
		summary, err = rnr.Comment(ctx, runner.NewRunContext(cfg, ""))
		if err != nil {
			return err
		}

	case "move":
		msg, err := readDeployMessage(cfg, deployMessage)
		if err != nil {
			return err
		}
		if strings.TrimSpace(msg) == "" {
			cfg.Debugf(" * empty deploy message, nothing to do")
			return nil
		}

		rnr, err := runner.New(cfg, nil, client, nil, nil)
		if err != nil {
			return err
		}
		summary = rnr.Move(ctx, runner.NewRunContext(cfg, msg), creds[secrets.ListID])
	}

	if printSummary && summary != nil {
		return summary.TextSummary(cfg.Term.Stdout)
	}
	return nil
}

func newClient(cfg config.Config, creds map[string]string) *trello.Client {
	client := trello.New(cfg, trello.Credentials{
		Key:     creds[secrets.Key],
		Token:   creds[secrets.Token],
		BoardID: creds[secrets.BoardID],
	})
	client.UserAgent = "cardhook/" + versionString()
	return client
}

func secretsProvider(cfg config.Config) (secrets.Provider, error) {
	chain := secrets.Chain{}
	if cfg.SecretsFile != "" {
		f, err := secrets.LoadFile(cfg.SecretsFile)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}
	chain = append(chain, secrets.Env{Prefix: cfg.SecretsPrefix})
	return chain, nil
}

// readDeployMessage returns msg, or all of stdin when msg is "-" and stdin
// is not a terminal.
func readDeployMessage(cfg config.Config, msg string) (string, error) {
	if msg != "-" {
		return msg, nil
	}
	if f, ok := cfg.Term.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", errors.New("--message - requires a deploy message on stdin")
	}
	b, err := io.ReadAll(cfg.Term.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func versionString() string {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return "0.0.0-dev"
	}
	return v.String()
}

func usage(cfg config.Config, flags *pflag.FlagSet) {
	cfg.Printf(`%s [flags] comment|move

Keeps Trello cards in sync with deploys.

comment  posts a comment on each card referenced by a commit deployed since
         the last run. Cards are referenced with an 8 character tag, ie
         "Fix login [AbCd1234]". Environments other than the primary one can
         instead comment every commit on the card whose shortlink matches the
         environment name.
move     moves each card referenced in the deploy message to the list in
         trello_listid.

Secrets (trello_key, trello_token, trello_boardid, trello_listid) are read
from --secrets-file and from TRELLO_KEY style environment variables. If any
required secret is missing, the command does nothing.

FLAGS
%s
EXAMPLES

# comment on cards referenced since the last deploy to dev
$ cardhook --env dev --url dev-mysite.example.com comment

# move cards referenced in the deploy message
$ cardhook --env test --message "Release [mNbVcXz1]" move

# same, reading the deploy message from stdin
$ echo "Release [mNbVcXz1]" | cardhook --env test --message - move
`, os.Args[0], flags.FlagUsages())
}

func readConfigYAML(p string) (*config.Config, error) {
	if p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	for {
		candPath := filepath.Join(wd, configFileName)
		b, err := os.ReadFile(candPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				parent := filepath.Dir(wd)
				if parent == wd {
					break
				}
				wd = parent
				continue
			}
			return nil, err
		}

		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, nil
}
