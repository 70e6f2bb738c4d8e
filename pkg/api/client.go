// Package api is the client half of the task-assignment system: thin typed
// wrappers over the REST contract, with the bearer credential sourced from an
// injected session store.
package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// GenericServerError is surfaced whenever the server's error body is absent,
// empty or unparseable.
const GenericServerError = "Erreur serveur"

// SessionStore holds the authenticated identity between invocations. Token
// and user are observable together or not at all.
type SessionStore interface {
	Token() (string, bool)
	CurrentUser() (User, bool)
	Save(token string, user User) error
	Clear() error
}

type Client struct {
	http    *resty.Client
	session SessionStore
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

func New(baseURL string, session SessionStore, opts ...Option) *Client {
	client := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		session: session,
	}

	// The credential header is attached per request, and only when the
	// session holds a token; an anonymous request carries no header at all.
	client.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token, ok := session.Token(); ok {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Error is a server-reported failure, normalized: the body's error field when
// one parses, the generic fallback otherwise.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func serverError(resp *resty.Response) error {
	message := GenericServerError
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		message = body.Error
	}
	return &Error{StatusCode: resp.StatusCode(), Message: message}
}

func transportError(err error) error {
	return fmt.Errorf("requête impossible: %w", err)
}
