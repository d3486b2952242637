// Package model contains abstract data models.
package model

// Commit is a single entry read from version control history. Commits are
// never modified after being read.
type Commit struct {
	ID      string `json:"commit"`
	Message string `json:"message"`
	Author  string `json:"author"`
}
