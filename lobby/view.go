package lobby

import "sync"

// UI is the page surface the coordinator drives. Implementations render
// however they like; the coordinator only says what happened.
type UI interface {
	// ShowRoomCode renders a freshly generated code on the room display.
	ShowRoomCode(code string)

	// OpenRoomView opens the "room created" view.
	OpenRoomView()

	// CloseRoomView closes the "room created" view.
	CloseRoomView()

	// DisableJoin disables the join control after a successful join. Nothing
	// in the coordinator re-enables it; only a restart does.
	DisableJoin()

	// ShowMessage surfaces a user-facing message (the blocking alert analog).
	ShowMessage(msg string)

	// Navigate points the page at url. Called when the server pushes the
	// redirect event or after a successful room close.
	Navigate(url string)
}

// ViewState holds the mutable page flags the coordinator owns. It exists so
// the flags travel with the coordinator instead of living as ambient globals.
type ViewState struct {
	mu           sync.Mutex
	menuBlurred  bool
	roomViewOpen bool
	joinDisabled bool
}

func (v *ViewState) openRoomView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.roomViewOpen = true
	v.menuBlurred = true
}

func (v *ViewState) closeRoomView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.roomViewOpen = false
	v.menuBlurred = false
}

func (v *ViewState) disableJoin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.joinDisabled = true
}

// RoomViewOpen reports whether the "room created" view is showing.
func (v *ViewState) RoomViewOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.roomViewOpen
}

// JoinDisabled reports whether the join control has been disabled.
func (v *ViewState) JoinDisabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.joinDisabled
}

// MenuBlurred reports whether the menu behind an overlay is blurred.
func (v *ViewState) MenuBlurred() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.menuBlurred
}
