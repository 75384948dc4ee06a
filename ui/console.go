// Package ui provides console implementations of the notification interfaces
// the coordinator and the connectivity monitor drive.
package ui

import (
	"fmt"
	"io"
	"sync"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// Console renders lobby and connectivity notifications as terminal output.
// It satisfies both lobby.UI and health.Affordance.
type Console struct {
	out       io.Writer
	navigated chan string

	mu            sync.Mutex
	onlineEnabled bool
	hint          string
	lastIndicator string
}

// NewConsole creates a console UI writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:       out,
		navigated: make(chan string, 1),
	}
}

// Navigated delivers the navigation target once the redirect arrives.
func (c *Console) Navigated() <-chan string {
	return c.navigated
}

// OnlinePlayEnabled reports whether the online-play entry point is enabled.
func (c *Console) OnlinePlayEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onlineEnabled
}

// ShowRoomCode renders the generated room code.
func (c *Console) ShowRoomCode(code string) {
	fmt.Fprintf(c.out, "\n  Room code: %s\n\n", code)
}

// OpenRoomView opens the "room created" view.
func (c *Console) OpenRoomView() {
	fmt.Fprintln(c.out, "Room created. Waiting for a second player...")
}

// CloseRoomView closes the "room created" view.
func (c *Console) CloseRoomView() {
	fmt.Fprintln(c.out, "Room view closed.")
}

// DisableJoin marks the join control as spent.
func (c *Console) DisableJoin() {
	fmt.Fprintln(c.out, "Joined. Waiting for the game to start...")
}

// ShowMessage surfaces a user-facing message.
func (c *Console) ShowMessage(msg string) {
	fmt.Fprintf(c.out, "! %s\n", msg)
}

// Navigate announces the navigation target and hands it to whoever is
// waiting on Navigated.
func (c *Console) Navigate(url string) {
	fmt.Fprintf(c.out, "Match ready, heading to %s\n", url)

	select {
	case c.navigated <- url:
	default:
	}
}

// SetOnlinePlay enables or disables the online-play entry point.
func (c *Console) SetOnlinePlay(enabled bool, hint string) {
	c.mu.Lock()
	changed := c.onlineEnabled != enabled || c.hint != hint
	c.onlineEnabled = enabled
	c.hint = hint
	c.mu.Unlock()

	if changed {
		fmt.Fprintf(c.out, "Online play: %v (%s)\n", enabled, hint)
	}
}

// CollapseOnlineOptions closes the online options panel.
func (c *Console) CollapseOnlineOptions() {
	// Nothing expanded to collapse on a console; the hint update covers it.
}

// SetIndicator updates the persistent status line, green for online and red
// for offline.
func (c *Console) SetIndicator(text string, online bool) {
	c.mu.Lock()
	changed := c.lastIndicator != text
	c.lastIndicator = text
	c.mu.Unlock()

	if !changed {
		return
	}

	color := colorRed
	if online {
		color = colorGreen
	}
	fmt.Fprintf(c.out, "%s%s%s\n", color, text, colorReset)
}
