package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lmoreno/duolobby/metrics"
	"github.com/lmoreno/duolobby/storage"
	"github.com/lmoreno/duolobby/transport/realtime"
	"github.com/lmoreno/duolobby/transport/rest"
)

// Player roles and the room state the client sends at creation.
const (
	RolePlayer1 = "player_1"
	RolePlayer2 = "player_2"
	StateOpen   = "open"
)

// SessionKeyGameID is the session-store key holding the local session handle.
const SessionKeyGameID = "game_id"

// User-facing messages.
const (
	msgEnterCode    = "Please enter a game code."
	msgJoinFailed   = "An error occurred while joining the room."
	msgCloseFailed  = "An error occurred while closing the room."
	msgAlreadyJoin  = "You have already joined this room."
	msgRoomRejected = "The room could not be created."
)

// API is the REST surface the coordinator needs.
type API interface {
	CreateRoom(ctx context.Context, req rest.CreateRoomRequest) (*rest.CreateRoomResponse, error)
	JoinRoom(ctx context.Context, req rest.JoinRoomRequest) (*rest.JoinRoomResponse, error)
	DeleteRoom(ctx context.Context, req rest.DeleteRoomRequest) (*rest.DeleteRoomResponse, error)
}

// EventChannel is the realtime surface the coordinator needs.
type EventChannel interface {
	On(event string, h realtime.Handler) error
	EmitJoin(join realtime.JoinGame) error
}

// Coordinator orchestrates the create/join/close/redirect lifecycle of a
// two-player session.
type Coordinator struct {
	api       API
	channel   EventChannel
	sessions  *storage.SessionStore
	ui        UI
	view      *ViewState
	lobbyPage string
	log       *logrus.Entry

	// newRequestID generates the per-request idempotency key.
	newRequestID func() string
}

// New creates a coordinator and arms the redirect listener. The listener must
// be in place before any request goes out, so registration happens here and
// fails if the channel is already connected.
func New(api API, channel EventChannel, sessions *storage.SessionStore, ui UI, lobbyPage string) (*Coordinator, error) {
	c := &Coordinator{
		api:          api,
		channel:      channel,
		sessions:     sessions,
		ui:           ui,
		view:         &ViewState{},
		lobbyPage:    lobbyPage,
		log:          logrus.WithField("component", "lobby"),
		newRequestID: uuid.NewString,
	}

	if err := channel.On(realtime.EventRedirect, c.onRedirect); err != nil {
		return nil, err
	}

	return c, nil
}

// View exposes the coordinator's page flags, read-only for callers.
func (c *Coordinator) View() *ViewState {
	return c.view
}

// onRedirect navigates to the URL the server pushed once the match is ready.
func (c *Coordinator) onRedirect(data json.RawMessage) {
	var redirect realtime.Redirect
	if err := json.Unmarshal(data, &redirect); err != nil {
		c.log.WithError(err).Warn("Malformed redirect event")
		return
	}
	if redirect.URL == "" {
		c.log.Warn("Redirect event without URL")
		return
	}

	c.log.WithField("url", redirect.URL).Info("Received redirect event")
	c.ui.Navigate(redirect.URL)
}

// CreateRoom generates a room code, shows the room view, persists the local
// session handle, and registers the room with the server. The room view is
// shown before the request resolves and is not rolled back on failure; the
// outcome tells the caller what actually happened.
func (c *Coordinator) CreateRoom(ctx context.Context) (string, Outcome) {
	code := GenerateRoomCode()

	c.ui.ShowRoomCode(code)
	c.ui.OpenRoomView()
	c.view.openRoomView()

	c.sessions.Set(SessionKeyGameID, code)

	resp, err := c.api.CreateRoom(ctx, rest.CreateRoomRequest{
		GameID:    code,
		GameState: StateOpen,
		PlayerID:  RolePlayer1,
		RequestID: c.newRequestID(),
	})
	if err != nil {
		kind, msg := classify(err, msgRoomRejected)
		metrics.RequestFailures.WithLabelValues("create", string(kind)).Inc()
		c.log.WithError(err).WithField("game_id", code).Error("Error creating game room")
		return code, failure(kind, msg)
	}

	c.log.WithFields(logrus.Fields{
		"game_id": code,
		"message": resp.Message,
	}).Info("Room created")
	metrics.RoomsCreated.Inc()

	if err := c.channel.EmitJoin(realtime.JoinGame{GameID: code, PlayerID: RolePlayer1}); err != nil {
		c.log.WithError(err).Warn("Failed to announce room on channel")
	}

	return code, success()
}

// JoinRoom validates and upper-cases the typed code, then asks the server to
// admit this client as player_2. An empty code never reaches the network. A
// successful join disables the join control for the rest of the run.
func (c *Coordinator) JoinRoom(ctx context.Context, input string) Outcome {
	code := SanitizeCode(input)
	if code == "" {
		c.ui.ShowMessage(msgEnterCode)
		return failure(FailInput, msgEnterCode)
	}

	if c.view.JoinDisabled() {
		c.log.WithField("game_id", code).Debug("Join already completed, ignoring")
		return failure(FailInput, msgAlreadyJoin)
	}

	resp, err := c.api.JoinRoom(ctx, rest.JoinRoomRequest{
		GameID:    code,
		PlayerID:  RolePlayer2,
		RequestID: c.newRequestID(),
	})
	if err != nil {
		kind, msg := classify(err, msgJoinFailed)
		metrics.RequestFailures.WithLabelValues("join", string(kind)).Inc()
		c.log.WithError(err).WithField("game_id", code).Error("Error joining game room")
		c.ui.ShowMessage(msg)
		return failure(kind, msg)
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = msgJoinFailed
		}
		metrics.RequestFailures.WithLabelValues("join", string(FailRejected)).Inc()
		c.log.WithFields(logrus.Fields{
			"game_id": code,
			"message": resp.Message,
		}).Info("Failed to join room")
		c.ui.ShowMessage(msg)
		return failure(FailRejected, msg)
	}

	c.log.WithField("game_id", code).Info("Joined the room successfully")
	metrics.RoomsJoined.Inc()

	if err := c.channel.EmitJoin(realtime.JoinGame{GameID: code, PlayerID: RolePlayer2}); err != nil {
		c.log.WithError(err).Warn("Failed to announce join on channel")
	}

	c.ui.DisableJoin()
	c.view.disableJoin()

	return success()
}

// CloseRoom closes the room view and deletes the current room. On success the
// page navigates back to the lobby entry; on failure the server's message is
// surfaced and the user may retry.
func (c *Coordinator) CloseRoom(ctx context.Context) Outcome {
	c.ui.CloseRoomView()
	c.view.closeRoomView()

	req := rest.DeleteRoomRequest{RequestID: c.newRequestID()}
	if code, ok := c.sessions.Get(SessionKeyGameID); ok {
		req.GameID = code
	}

	resp, err := c.api.DeleteRoom(ctx, req)
	if err != nil {
		kind, msg := classify(err, msgCloseFailed)
		metrics.RequestFailures.WithLabelValues("close", string(kind)).Inc()
		c.log.WithError(err).Error("Error deleting game room")
		c.ui.ShowMessage(msg)
		return failure(kind, msg)
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = msgCloseFailed
		}
		metrics.RequestFailures.WithLabelValues("close", string(FailRejected)).Inc()
		c.log.WithField("message", resp.Message).Error("Room deletion rejected")
		c.ui.ShowMessage(msg)
		return failure(FailRejected, msg)
	}

	c.log.WithField("message", resp.Message).Info("Room closed")
	c.ui.Navigate(c.lobbyPage)

	return success()
}

// CleanupOnExit issues one best-effort delete for the locally held room, if
// any. Failures are only logged; there is no UI left to tell. The server is
// expected to reap stale rooms on its own as the second line of defense.
func (c *Coordinator) CleanupOnExit(ctx context.Context) {
	code, ok := c.sessions.Get(SessionKeyGameID)
	if !ok {
		return
	}

	resp, err := c.api.DeleteRoom(ctx, rest.DeleteRoomRequest{
		GameID:    code,
		RequestID: c.newRequestID(),
	})
	if err != nil {
		c.log.WithError(err).WithField("game_id", code).Warn("Error deleting game room on exit")
		return
	}

	c.log.WithFields(logrus.Fields{
		"game_id": code,
		"message": resp.Message,
	}).Info("Cleaned up room on exit")
}

// SanitizeCode strips everything that is not a letter and upper-cases the
// rest, mirroring the input filter on the join field.
func SanitizeCode(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// classify maps a request error to a failure kind and a user-facing message.
// Application-level rejections keep the server's own message; transport
// failures get the generic fallback.
func classify(err error, fallback string) (FailureKind, string) {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return FailRejected, msg
	}
	return FailTransport, fallback
}
