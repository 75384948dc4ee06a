// Package lobby implements the session coordinator for the game lobby.
//
// The coordinator drives the lifecycle of a two-player session: it generates
// room codes, creates and joins rooms through the REST API, announces the
// connection's room/role pair on the realtime channel, and navigates away
// when the server pushes the redirect event.
//
// Room Codes:
//
// A room code is five uppercase letters drawn uniformly from A-Z, generated
// client-side by the creator. The client never checks uniqueness; the server
// is authoritative and rejects collisions.
//
// Roles:
//
// The creator of a room is player_1, a joiner is player_2. The creator's room
// code is persisted as the local session handle and used at shutdown to issue
// a best-effort delete, so abandoned rooms do not pile up server-side.
//
// UI Collaboration:
//
// The coordinator never touches rendering directly. It drives the page
// through the UI interface (show code, open/close views, disable the join
// control, surface messages, navigate) and keeps the mutable page flags in an
// explicit ViewState record instead of ambient globals.
//
// Ordering:
//
// The redirect listener is armed in New, before any operation can issue a
// request. There is no ordering guarantee between a REST acknowledgment and
// the server's redirect push, so arming late could miss a fast push.
package lobby
