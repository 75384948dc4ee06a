package lobbytest_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lmoreno/duolobby/lobby"
	"github.com/lmoreno/duolobby/lobbytest"
	"github.com/lmoreno/duolobby/storage"
	"github.com/lmoreno/duolobby/transport/realtime"
	"github.com/lmoreno/duolobby/transport/rest"
	"github.com/lmoreno/duolobby/ui"
)

// client bundles one full lobby client stack against the test server.
type client struct {
	coord   *lobby.Coordinator
	channel *realtime.Channel
	console *ui.Console
}

func newClient(t *testing.T, baseURL string) *client {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"

	api := rest.NewClient(baseURL, 5*time.Second)
	channel := realtime.NewChannel(wsURL, realtime.Options{
		ReconnectMin: 50 * time.Millisecond,
		ReconnectMax: 200 * time.Millisecond,
	})
	console := ui.NewConsole(&bytes.Buffer{})

	coord, err := lobby.New(api, channel, storage.NewSessionStore(), console, "menu.html")
	if err != nil {
		t.Fatalf("Failed to build coordinator: %v", err)
	}

	if err := channel.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect channel: %v", err)
	}
	t.Cleanup(func() { channel.Close() })

	return &client{coord: coord, channel: channel, console: console}
}

func awaitNavigation(t *testing.T, c *client) string {
	t.Helper()
	select {
	case url := <-c.console.Navigated():
		return url
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the redirect navigation")
		return ""
	}
}

func TestFullMatchFlow(t *testing.T) {
	fake := lobbytest.NewServer("")
	server := httptest.NewServer(fake)
	defer server.Close()

	host := newClient(t, server.URL)
	guest := newClient(t, server.URL)

	code, outcome := host.coord.CreateRoom(context.Background())
	if !outcome.OK {
		t.Fatalf("CreateRoom failed: %+v", outcome)
	}

	room := fake.Room(code)
	if room == nil {
		t.Fatalf("Room %s not tracked by the server", code)
	}
	if room.State != "open" {
		t.Errorf("Expected open room, got %s", room.State)
	}
	if !room.Players["player_1"] {
		t.Errorf("Expected player_1 registered, got %v", room.Players)
	}

	// Guest types the code lowercase; the join path upper-cases it.
	outcome = guest.coord.JoinRoom(context.Background(), strings.ToLower(code))
	if !outcome.OK {
		t.Fatalf("JoinRoom failed: %+v", outcome)
	}

	// Both sides get pushed to the same match URL.
	want := "/game.html?id=" + code
	if got := awaitNavigation(t, host); got != want {
		t.Errorf("Host navigated to %q, want %q", got, want)
	}
	if got := awaitNavigation(t, guest); got != want {
		t.Errorf("Guest navigated to %q, want %q", got, want)
	}

	room = fake.Room(code)
	if room == nil || room.State != "in_progress" {
		t.Errorf("Expected the room flipped to in_progress, got %+v", room)
	}
}

func TestJoinRejections(t *testing.T) {
	fake := lobbytest.NewServer("")
	server := httptest.NewServer(fake)
	defer server.Close()

	guest := newClient(t, server.URL)

	outcome := guest.coord.JoinRoom(context.Background(), "AAAAA")
	if outcome.OK || outcome.Kind != lobby.FailRejected {
		t.Errorf("Expected rejection for an unknown room, got %+v", outcome)
	}
	if outcome.Message != "Room not found" {
		t.Errorf("Expected the server's message, got %q", outcome.Message)
	}
}

func TestCloseRoomRemovesIt(t *testing.T) {
	fake := lobbytest.NewServer("")
	server := httptest.NewServer(fake)
	defer server.Close()

	host := newClient(t, server.URL)

	code, outcome := host.coord.CreateRoom(context.Background())
	if !outcome.OK {
		t.Fatalf("CreateRoom failed: %+v", outcome)
	}
	if fake.RoomCount() != 1 {
		t.Fatalf("Expected 1 room, got %d", fake.RoomCount())
	}

	outcome = host.coord.CloseRoom(context.Background())
	if !outcome.OK {
		t.Fatalf("CloseRoom failed: %+v", outcome)
	}
	if fake.Room(code) != nil {
		t.Error("Expected the room gone after close")
	}

	// Closing navigates back to the lobby entry page.
	if got := awaitNavigation(t, host); got != "menu.html" {
		t.Errorf("Expected navigation to menu.html, got %q", got)
	}
}

func TestCleanupOnExitDeletesRoom(t *testing.T) {
	fake := lobbytest.NewServer("")
	server := httptest.NewServer(fake)
	defer server.Close()

	host := newClient(t, server.URL)

	_, outcome := host.coord.CreateRoom(context.Background())
	if !outcome.OK {
		t.Fatalf("CreateRoom failed: %+v", outcome)
	}

	host.coord.CleanupOnExit(context.Background())

	if fake.RoomCount() != 0 {
		t.Errorf("Expected no rooms after exit cleanup, got %d", fake.RoomCount())
	}
}

func TestHealthcheckEndpoint(t *testing.T) {
	fake := lobbytest.NewServer("")
	server := httptest.NewServer(fake)
	defer server.Close()

	api := rest.NewClient(server.URL, time.Second)
	if err := api.Healthcheck(context.Background()); err != nil {
		t.Errorf("Expected healthy test server, got %v", err)
	}
}

func TestReap(t *testing.T) {
	fake := lobbytest.NewServer("")
	server := httptest.NewServer(fake)
	defer server.Close()

	host := newClient(t, server.URL)

	code, outcome := host.coord.CreateRoom(context.Background())
	if !outcome.OK {
		t.Fatalf("CreateRoom failed: %+v", outcome)
	}

	// Fresh open rooms survive.
	if removed := fake.Reap(time.Minute); removed != 0 {
		t.Errorf("Expected no rooms reaped, got %d", removed)
	}

	// With a zero age every open room is stale.
	if removed := fake.Reap(0); removed != 1 {
		t.Errorf("Expected 1 room reaped, got %d", removed)
	}
	if fake.Room(code) != nil {
		t.Error("Expected the room gone after reaping")
	}
}
