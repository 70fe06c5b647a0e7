// Package requester is a small HTTP client for the Neutron backend API. It
// mirrors the server's DTOs one to one so callers work with typed requests
// and responses instead of raw JSON.
package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/N7ghtm4r3/Neutron/internal/dto"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to one Neutron backend. The zero value is not usable, build it
// with NewClient. Authenticated calls require SetToken (or the token returned
// by SignUp / SignIn) to have been applied first.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	userID     string
}

// NewClient creates a client for the backend at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetSession attaches the session token and owning user to subsequent calls.
func (c *Client) SetSession(userID, token string) {
	c.userID = userID
	c.token = token
}

// UserID returns the user the current session belongs to.
func (c *Client) UserID() string {
	return c.userID
}

// do performs one round trip: body is JSON-encoded when non-nil, and a 2xx
// response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil || envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) userPath(suffix string) string {
	return "/api/v1/users/" + url.PathEscape(c.userID) + suffix
}

// --- Authentication ---

// SignUp registers a new account and stores the returned session.
func (c *Client) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", req, &resp); err != nil {
		return nil, err
	}
	c.SetSession(resp.ID, resp.Token)
	return &resp, nil
}

// SignIn authenticates an existing account and stores the returned session.
func (c *Client) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/session", req, &resp); err != nil {
		return nil, err
	}
	c.SetSession(resp.ID, resp.Token)
	return &resp, nil
}

// --- Account ---

func (c *Client) GetProfile(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, c.userPath(""), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChangeEmail(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPatch, c.userPath("/email"), dto.ChangeEmailRequest{Email: email}, nil)
}

func (c *Client) ChangePassword(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPatch, c.userPath("/password"), dto.ChangePasswordRequest{Password: password}, nil)
}

func (c *Client) ChangeCurrency(ctx context.Context, currency string) error {
	return c.do(ctx, http.MethodPatch, c.userPath("/currency"), dto.ChangeCurrencyRequest{Currency: currency}, nil)
}

func (c *Client) ChangeLanguage(ctx context.Context, language string) error {
	return c.do(ctx, http.MethodPatch, c.userPath("/language"), dto.ChangeLanguageRequest{Language: language}, nil)
}

// DeleteAccount removes the account and every revenue it owns.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, c.userPath(""), nil, nil)
}

// --- Wallet ---

func (c *Client) GetWalletStatus(ctx context.Context, params dto.WalletParams) (*dto.WalletStatusResponse, error) {
	q := url.Values{}
	if params.Period != "" {
		q.Set("period", params.Period)
	}
	q.Set("general_revenues", strconv.FormatBool(params.GeneralRevenues))
	q.Set("project_revenues", strconv.FormatBool(params.ProjectRevenues))
	for _, label := range params.Labels {
		q.Add("labels", label)
	}

	var resp dto.WalletStatusResponse
	if err := c.do(ctx, http.MethodGet, c.userPath("/wallet")+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Revenues ---

func (c *Client) CreateRevenue(ctx context.Context, req dto.CreateRevenueRequest) (string, error) {
	var resp dto.CreatedResponse
	if err := c.do(ctx, http.MethodPost, c.userPath("/revenues"), req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) ListRevenues(ctx context.Context, params dto.ListRevenuesParams) (*dto.PaginatedRevenues, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	if params.Period != "" {
		q.Set("period", params.Period)
	}
	q.Set("general_revenues", strconv.FormatBool(params.GeneralRevenues))
	q.Set("project_revenues", strconv.FormatBool(params.ProjectRevenues))
	for _, label := range params.Labels {
		q.Add("labels", label)
	}

	var resp dto.PaginatedRevenues
	if err := c.do(ctx, http.MethodGet, c.userPath("/revenues")+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetRevenue(ctx context.Context, revenueID string) (*dto.RevenueResponse, error) {
	var resp dto.RevenueResponse
	if err := c.do(ctx, http.MethodGet, c.userPath("/revenues/"+url.PathEscape(revenueID)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) EditRevenue(ctx context.Context, revenueID string, req dto.CreateRevenueRequest) error {
	return c.do(ctx, http.MethodPatch, c.userPath("/revenues/"+url.PathEscape(revenueID)), req, nil)
}

func (c *Client) DeleteRevenue(ctx context.Context, revenueID string) error {
	return c.do(ctx, http.MethodDelete, c.userPath("/revenues/"+url.PathEscape(revenueID)), nil, nil)
}

func (c *Client) ListLabels(ctx context.Context) ([]dto.RevenueLabelResponse, error) {
	var resp []dto.RevenueLabelResponse
	if err := c.do(ctx, http.MethodGet, c.userPath("/revenues/labels"), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// --- Projects and tickets ---

func (c *Client) projectPath(projectID, suffix string) string {
	return c.userPath("/revenues/projects/" + url.PathEscape(projectID) + suffix)
}

func (c *Client) GetProjectRevenue(ctx context.Context, projectID string) (*dto.RevenueResponse, error) {
	var resp dto.RevenueResponse
	if err := c.do(ctx, http.MethodGet, c.projectPath(projectID, ""), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetProjectBalance(ctx context.Context, projectID string, params dto.ProjectBalanceParams) (*dto.ProjectBalanceResponse, error) {
	q := url.Values{}
	if params.Period != "" {
		q.Set("period", params.Period)
	}
	q.Set("closed_tickets", strconv.FormatBool(params.ClosedTickets))

	var resp dto.ProjectBalanceResponse
	if err := c.do(ctx, http.MethodGet, c.projectPath(projectID, "/balance")+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddTicket(ctx context.Context, projectID string, req dto.CreateTicketRequest) (string, error) {
	var resp dto.CreatedResponse
	if err := c.do(ctx, http.MethodPost, c.projectPath(projectID, "/tickets"), req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) ListTickets(ctx context.Context, projectID string, params dto.ListTicketsParams) (*dto.PaginatedTickets, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	if params.Period != "" {
		q.Set("period", params.Period)
	}
	q.Set("pending_tickets", strconv.FormatBool(params.PendingTickets))
	q.Set("closed_tickets", strconv.FormatBool(params.ClosedTickets))

	var resp dto.PaginatedTickets
	if err := c.do(ctx, http.MethodGet, c.projectPath(projectID, "/tickets")+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) EditTicket(ctx context.Context, projectID, ticketID string, req dto.CreateTicketRequest) error {
	return c.do(ctx, http.MethodPatch, c.projectPath(projectID, "/tickets/"+url.PathEscape(ticketID)), req, nil)
}

func (c *Client) CloseTicket(ctx context.Context, projectID, ticketID string) error {
	return c.do(ctx, http.MethodPut, c.projectPath(projectID, "/tickets/"+url.PathEscape(ticketID)), nil, nil)
}

func (c *Client) DeleteTicket(ctx context.Context, projectID, ticketID string) error {
	return c.do(ctx, http.MethodDelete, c.projectPath(projectID, "/tickets/"+url.PathEscape(ticketID)), nil, nil)
}
