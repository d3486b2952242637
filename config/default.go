package config

import (
	"os"
	"path/filepath"
	"time"
)

const DefaultTimeout = 5 * time.Second

const DefaultCommentTemplate = `**{{ .Author }}** {{ .Message }} on [{{ .Environment }}](https://{{ .URL }})`

func GetDefault() Config {
	return Config{
		PrimaryEnvironment: "dev",
		Strategy:           "by-env-name",
		StateDir:           defaultStateDir(),
		CommentTemplate:    DefaultCommentTemplate,
		Timeout:            DefaultTimeout.String(),
		BoardURL:           "https://api.trello.com",
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "files"
	}
	return filepath.Join(home, "files")
}
