package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is an application-level rejection: the server answered, but said no.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// Client calls the lobby REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API served at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateRoomRequest asks the server to open a room for the given code.
type CreateRoomRequest struct {
	GameID    string `json:"game_id"`
	GameState string `json:"game_state"`
	PlayerID  string `json:"player_id"`
	RequestID string `json:"request_id,omitempty"`
}

// CreateRoomResponse is the server's acknowledgment of a created room.
type CreateRoomResponse struct {
	Message string `json:"message"`
}

// JoinRoomRequest asks the server to admit a second player to a room.
type JoinRoomRequest struct {
	GameID    string `json:"game_id"`
	PlayerID  string `json:"player_id"`
	RequestID string `json:"request_id,omitempty"`
}

// JoinRoomResponse reports whether the join was accepted.
type JoinRoomResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeleteRoomRequest asks the server to remove a room.
type DeleteRoomRequest struct {
	GameID    string `json:"game_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// DeleteRoomResponse reports whether the deletion was allowed.
type DeleteRoomResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateRoom creates a room on the server.
func (c *Client) CreateRoom(ctx context.Context, req CreateRoomRequest) (*CreateRoomResponse, error) {
	var resp CreateRoomResponse
	if err := c.apiCall(ctx, http.MethodPost, "/api/create-room", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JoinRoom joins an existing room on the server.
func (c *Client) JoinRoom(ctx context.Context, req JoinRoomRequest) (*JoinRoomResponse, error) {
	var resp JoinRoomResponse
	if err := c.apiCall(ctx, http.MethodPost, "/api/join-room", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteRoom deletes a room on the server.
func (c *Client) DeleteRoom(ctx context.Context, req DeleteRoomRequest) (*DeleteRoomResponse, error) {
	var resp DeleteRoomResponse
	if err := c.apiCall(ctx, http.MethodPost, "/api/delete-room", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Healthcheck probes server liveness. Any error, including a context deadline,
// means the server is not usable right now.
func (c *Client) Healthcheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("healthcheck status: %d", resp.StatusCode)
	}

	return nil
}

// apiCall issues one JSON request/response round trip against the API.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)

		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}
