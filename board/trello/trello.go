// Package trello implements board.Interface using the Trello REST API.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jeffrom/cardhook/board"
	"github.com/jeffrom/cardhook/config"
)

const DefaultBaseURL = "https://api.trello.com"

// Credentials authenticate every request. BoardID is only needed to list
// cards.
type Credentials struct {
	Key     string
	Token   string
	BoardID string
}

// Client implements board.Interface using the Trello REST API.
type Client struct {
	cfg       config.Config
	creds     Credentials
	baseURL   string
	http      *http.Client
	UserAgent string
}

func New(cfg config.Config, creds Credentials) *Client {
	baseURL := strings.TrimSuffix(cfg.BoardURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		cfg:       cfg,
		creds:     creds,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: cfg.GetTimeout()},
		UserAgent: "cardhook",
	}
}

func (c *Client) ListCards(ctx context.Context) ([]board.Card, error) {
	if c.creds.BoardID == "" {
		return nil, errors.New("trello: board id is required to list cards")
	}
	p := "/1/boards/" + url.PathEscape(c.creds.BoardID) + "/cards"
	q := c.auth()
	q.Set("fields", "id,name,shortLink,idList,closed")

	req, err := c.newRequest(ctx, http.MethodGet, p, q, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req, p)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cards []board.Card
	if err := json.NewDecoder(resp.Body).Decode(&cards); err != nil {
		return nil, fmt.Errorf("trello: decode cards: %w", err)
	}
	return cards, nil
}

func (c *Client) PostComment(ctx context.Context, cardID, text string) error {
	p := "/1/cards/" + url.PathEscape(cardID) + "/actions/comments"
	if c.cfg.Dryrun {
		c.cfg.Printf("+ POST %s (dryrun): %s", p, text)
		return nil
	}

	form := c.auth()
	form.Set("text", text)
	req, err := c.newRequest(ctx, http.MethodPost, p, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req, p)
	if err != nil {
		return err
	}
	return drain(resp)
}

func (c *Client) MoveCard(ctx context.Context, cardID, listID string) error {
	p := "/1/cards/" + url.PathEscape(cardID)
	if c.cfg.Dryrun {
		c.cfg.Printf("+ PUT %s idList=%s (dryrun)", p, listID)
		return nil
	}

	q := c.auth()
	q.Set("idList", listID)
	req, err := c.newRequest(ctx, http.MethodPut, p, q, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req, p)
	if err != nil {
		return err
	}
	return drain(resp)
}

func (c *Client) auth() url.Values {
	v := url.Values{}
	v.Set("key", c.creds.Key)
	v.Set("token", c.creds.Token)
	return v
}

func (c *Client) newRequest(ctx context.Context, method, p string, q url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + p
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("trello: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return req, nil
}

// do sends req. Errors mention only the path so credentials in the query
// string never reach the logs.
func (c *Client) do(req *http.Request, p string) (*http.Response, error) {
	c.cfg.Debugf("+ %s %s", req.Method, p)
	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("trello: %s %s: %w", req.Method, p, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = drain(resp)
		return nil, board.StatusError{
			Method: req.Method,
			Path:   p,
			Code:   resp.StatusCode,
			Status: resp.Status,
		}
	}
	return resp, nil
}

func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, err := io.Copy(io.Discard, resp.Body)
	return err
}
