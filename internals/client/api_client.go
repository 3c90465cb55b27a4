// Package client is the typed HTTP client for the review API, used by the
// review session state machine. It mirrors the server wire shapes exactly.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"soalklinis_backend/internals/features/questions/dto"
	"soalklinis_backend/internals/features/questions/model"
	systemDTO "soalklinis_backend/internals/features/systems/dto"
)

// APIError is any non-2xx response, decoded from the {error, message} body.
type APIError struct {
	Status       int
	Title        string
	Message      string
	AttemptsLeft *int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// NotFound lets callers branch on 404 without importing net/http.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpc = c
		}
	}
}

func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	cl := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cl)
		}
	}
	return cl
}

// SetToken installs the bearer token for all subsequent calls.
func (cl *Client) SetToken(token string) { cl.token = token }

// Login exchanges the admin credential for a session token and installs it.
func (cl *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := cl.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return "", err
	}
	cl.token = out.Token
	return out.Token, nil
}

func (cl *Client) FetchSystems(ctx context.Context) ([]systemDTO.SystemItem, error) {
	var out []systemDTO.SystemItem
	err := cl.do(ctx, http.MethodGet, "/api/systems", nil, &out)
	return out, err
}

func (cl *Client) FetchQuestions(ctx context.Context, systemID int64, page int) ([]dto.QuestionListItem, error) {
	path := fmt.Sprintf("/api/questions?systemId=%d&page=%d&limit=50", systemID, page)
	var out []dto.QuestionListItem
	err := cl.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (cl *Client) FetchQuestionByID(ctx context.Context, id int64) (*model.QuestionModel, error) {
	var out model.QuestionModel
	if err := cl.do(ctx, http.MethodGet, "/api/questions/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) FetchQuestionBefore(ctx context.Context, id int64) (*model.QuestionModel, error) {
	var out model.QuestionModel
	if err := cl.do(ctx, http.MethodGet, fmt.Sprintf("/api/questions/%d/before", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateQuestion asks the server for a fresh draft; the result arrives
// wrapped in {result: {...}}.
func (cl *Client) GenerateQuestion(ctx context.Context, id int64) (*dto.DraftQuestion, error) {
	var out struct {
		Result *dto.DraftQuestion `json:"result"`
	}
	path := fmt.Sprintf("/api/questions/%d/generate", id)
	if err := cl.do(ctx, http.MethodPost, path, map[string]any{}, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, &APIError{Status: http.StatusBadGateway, Title: "Grok API error", Message: "empty generation result"}
	}
	return out.Result, nil
}

func (cl *Client) UpdateQuestion(ctx context.Context, id int64, draft dto.DraftQuestion) error {
	return cl.do(ctx, http.MethodPatch, "/api/questions/"+strconv.FormatInt(id, 10), draft, nil)
}

func (cl *Client) UpdateIsAccepted(ctx context.Context, id int64, accepted bool) error {
	body := map[string]bool{"is_accepted": accepted}
	return cl.do(ctx, http.MethodPatch, fmt.Sprintf("/api/questions/%d/accept", id), body, nil)
}

func (cl *Client) FetchProgress(ctx context.Context) (updated, total int64, err error) {
	var out struct {
		UpdatedCount int64 `json:"updatedCount"`
		TotalCount   int64 `json:"totalCount"`
	}
	if err := cl.do(ctx, http.MethodGet, "/api/progress", nil, &out); err != nil {
		return 0, 0, err
	}
	return out.UpdatedCount, out.TotalCount, nil
}

func (cl *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := sonic.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, cl.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := cl.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var decoded struct {
			Error        string `json:"error"`
			Message      string `json:"message"`
			AttemptsLeft *int   `json:"attemptsLeft"`
		}
		if err := sonic.Unmarshal(raw, &decoded); err == nil {
			apiErr.Title = decoded.Error
			apiErr.Message = decoded.Message
			apiErr.AttemptsLeft = decoded.AttemptsLeft
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return sonic.Unmarshal(raw, out)
}
