// Package secrets looks up the credentials and settings the hooks need.
package secrets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
)

// Names of the secrets read by the hooks.
const (
	Key     = "trello_key"
	Token   = "trello_token"
	BoardID = "trello_boardid"
	ListID  = "trello_listid"
)

type Provider interface {
	// Get returns the secret called name. ok is false if it is not set.
	Get(name string) (value string, ok bool)
}

// Require looks up every named secret. ok is false if any of them is missing
// or blank.
func Require(p Provider, names ...string) (map[string]string, bool) {
	res := make(map[string]string, len(names))
	for _, name := range names {
		v, ok := p.Get(name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil, false
		}
		res[name] = strings.TrimSpace(v)
	}
	return res, true
}

// Map is a fixed set of secrets.
type Map map[string]string

func (m Map) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Env reads secrets from environment variables named after the upper-cased
// secret, ie trello_key is read from TRELLO_KEY, or PREFIX_TRELLO_KEY if a
// prefix is set.
type Env struct {
	Prefix string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (e Env) Get(name string) (string, bool) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return lookup(e.VarName(name))
}

func (e Env) VarName(name string) string {
	v := strings.ToUpper(name)
	if e.Prefix != "" {
		v = strings.ToUpper(strings.TrimSuffix(e.Prefix, "_")) + "_" + v
	}
	return v
}

// File holds secrets loaded from a YAML or JSON document mapping names to
// values.
type File struct {
	Path   string
	values map[string]string
}

func LoadFile(p string) (*File, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	jb, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, fmt.Errorf("secrets: parse %s: %w", p, err)
	}
	values := make(map[string]interface{})
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("secrets: parse %s: %w", p, err)
	}

	f := &File{Path: p, values: make(map[string]string, len(values))}
	for k, v := range values {
		switch val := v.(type) {
		case string:
			f.values[k] = val
		case nil:
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("secrets: %s: value for %q must be a scalar", p, k)
		default:
			f.values[k] = fmt.Sprint(val)
		}
	}
	return f, nil
}

func (f *File) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Chain returns the first non-blank value from its providers.
type Chain []Provider

func (c Chain) Get(name string) (string, bool) {
	found := false
	for _, p := range c {
		v, ok := p.Get(name)
		if !ok {
			continue
		}
		found = true
		if strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", found
}
