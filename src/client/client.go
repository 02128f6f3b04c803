// Package client talks to the MovieNest API and owns the local session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTransport wraps every failure to reach the server or read its reply.
	ErrTransport = errors.New("movienest: transport error")

	ErrNotAuthenticated = errors.New("movienest: not signed in")
	ErrAdminRequired    = errors.New("movienest: administrator role required")
)

type FieldError struct {
	PropertyName string `json:"propertyName"`
	ErrorMessage string `json:"errorMessage"`
}

// APIError is a non-2xx reply decoded from the server's error body.
type APIError struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors,omitempty"`
	Status     string       `json:"status"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s (%d): %s", e.Status, e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.PropertyName+": "+fe.ErrorMessage)
	}
	return fmt.Sprintf("%s (%d): %s [%s]", e.Status, e.StatusCode, e.Message, strings.Join(parts, "; "))
}

// HasStatus reports whether err is an APIError with the given status kind,
// e.g. "DuplicateRelation".
func HasStatus(err error, status string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for baseURL, e.g. "http://localhost:8080". The session
// store is expected to be loaded already.
func New(baseURL string, session *SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *SessionStore {
	return c.session
}

type RegisterInput struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName string  `json:"fullName,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type authReply struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login signs in and persists the session.
func (c *Client) Login(ctx context.Context, username, password string) (Principal, error) {
	var reply authReply
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/login", nil, body, &reply, false); err != nil {
		return Principal{}, err
	}
	return c.remember(reply)
}

// Register creates an account, signs in as it and persists the session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (Principal, error) {
	var reply authReply
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/register", nil, in, &reply, false); err != nil {
		return Principal{}, err
	}
	return c.remember(reply)
}

func (c *Client) remember(reply authReply) (Principal, error) {
	p := Principal{
		UserID:   reply.User.UserID,
		Username: reply.User.Username,
		FullName: reply.User.FullName,
		Role:     reply.User.Role,
		Token:    reply.Token,
	}
	if reply.User.Email != nil {
		p.Email = *reply.User.Email
	}
	if err := c.session.Save(p); err != nil {
		return Principal{}, err
	}
	return p, nil
}

// Logout drops the local session. The server keeps no session state.
func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var out []Movie
	err := c.do(ctx, http.MethodGet, "/api/v1/movies", nil, nil, &out, false)
	return out, err
}

func (c *Client) Movie(ctx context.Context, id uint) (*Movie, error) {
	var out Movie
	if err := c.do(ctx, http.MethodGet, "/api/v1/movies/"+idString(id), nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

type MovieFilter struct {
	Title string
	Genre string
	Year  int
}

func (c *Client) SearchMovies(ctx context.Context, f MovieFilter) ([]Movie, error) {
	q := url.Values{}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	var out []Movie
	err := c.do(ctx, http.MethodGet, "/api/v1/movies/search", q, nil, &out, false)
	return out, err
}

func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/api/v1/movies/genres", nil, nil, &out, false)
	return out, err
}

func (c *Client) CreateMovie(ctx context.Context, in MovieInput) (*Movie, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	var out Movie
	if err := c.do(ctx, http.MethodPost, "/api/v1/movies", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMovie(ctx context.Context, id uint) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/movies/"+idString(id), nil, nil, nil, true)
}

func (c *Client) Recommended(ctx context.Context) ([]Recommendation, error) {
	var out []Recommendation
	err := c.do(ctx, http.MethodGet, "/api/v1/recommended", nil, nil, &out, false)
	return out, err
}

func (c *Client) TopTrending(ctx context.Context, count int) ([]Trending, error) {
	q := url.Values{}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	var out []Trending
	err := c.do(ctx, http.MethodGet, "/api/v1/trending/top", q, nil, &out, false)
	return out, err
}

func (c *Client) ReleasingSoon(ctx context.Context) ([]Upcoming, error) {
	var out []Upcoming
	err := c.do(ctx, http.MethodGet, "/api/v1/upcoming-movies/upcoming", nil, nil, &out, false)
	return out, err
}

// ListKind selects the watchlist or the favorites relation.
type ListKind string

const (
	Watchlist ListKind = "watchlist"
	Favorites ListKind = "favorites"
)

// List returns the signed-in user's entries of kind.
func (c *Client) List(ctx context.Context, kind ListKind) ([]ListEntry, error) {
	var out []ListEntry
	err := c.do(ctx, http.MethodGet, "/api/v1/"+string(kind), nil, nil, &out, true)
	return out, err
}

func (c *Client) AddToList(ctx context.Context, kind ListKind, movieID uint) (*ListEntry, error) {
	var out ListEntry
	body := map[string]uint{"movieId": movieID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/"+string(kind), nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFromList deletes the signed-in user's (user, movie) pair.
func (c *Client) RemoveFromList(ctx context.Context, kind ListKind, movieID uint) error {
	q := url.Values{"movieId": {idString(movieID)}}
	return c.do(ctx, http.MethodDelete, "/api/v1/"+string(kind), q, nil, nil, true)
}

func (c *Client) requireAdmin() error {
	p, ok := c.session.Current()
	if !ok {
		return ErrNotAuthenticated
	}
	if !p.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// do sends one request. When authed is set the stored token is attached, and
// a 401 reply clears the session.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, authed bool) error {
	var token string
	if authed {
		p, ok := c.session.Current()
		if !ok {
			return ErrNotAuthenticated
		}
		token = p.Token
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Status == "" {
			apiErr.Status = http.StatusText(resp.StatusCode)
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		if authed && resp.StatusCode == http.StatusUnauthorized {
			_ = c.session.Clear()
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode reply: %v", ErrTransport, err)
	}
	return nil
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
