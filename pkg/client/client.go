package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/naveenspark/eventdesk/pkg/domain"
)

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() (string, bool)
}

// CreateEventRequest is the payload for POST /events/create.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	MaxParticipants int       `json:"maxParticipants"`
	CreatedBy       string    `json:"createdBy"`
}

// Client is the events API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new API client. tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Users ---

// Signup registers a new account. The returned token may be empty.
func (c *Client) Signup(ctx context.Context, form domain.SignupForm) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/users/register", form, &resp); err != nil {
		return "", fmt.Errorf("client.Signup: %w", err)
	}
	return resp.Token, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, form domain.LoginForm) (domain.Session, error) {
	var resp struct {
		User struct {
			ID string `json:"_id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/users/login", form, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("client.Login: %w", err)
	}
	return domain.Session{Token: resp.Token, UserID: resp.User.ID}, nil
}

// --- Events ---

// ListEvents fetches one page of events matching search.
func (c *Client) ListEvents(ctx context.Context, page, limit int, search string) (*domain.EventPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("search", search)

	var resp struct {
		Events     []domain.Event `json:"events"`
		TotalPages int            `json:"totalPages"`
	}
	if err := c.get(ctx, "/events?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("client.ListEvents: %w", err)
	}
	return &domain.EventPage{Items: resp.Events, Page: page, TotalPages: resp.TotalPages}, nil
}

// CreateEvent creates a new event.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	var created domain.Event
	if err := c.post(ctx, "/events/create", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateEvent: %w", err)
	}
	return &created, nil
}

// RegisterForEvent registers userID for the event.
func (c *Client) RegisterForEvent(ctx context.Context, eventID, userID string) error {
	body := map[string]string{"userId": userID}
	if err := c.post(ctx, "/events/"+url.PathEscape(eventID)+"/register", body, nil); err != nil {
		return fmt.Errorf("client.RegisterForEvent: %w", err)
	}
	return nil
}

// RegisteredUsers returns the members registered for an event.
func (c *Client) RegisteredUsers(ctx context.Context, eventID string) ([]domain.Member, error) {
	var resp struct {
		Users []domain.Member `json:"users"`
	}
	if err := c.get(ctx, "/events/"+url.PathEscape(eventID)+"/registered-users", &resp); err != nil {
		return nil, fmt.Errorf("client.RegisteredUsers: %w", err)
	}
	return resp.Users, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message, Server: true}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error, Server: true}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
