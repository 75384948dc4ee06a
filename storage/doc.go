// Package storage provides the two client-side stores the lobby page relies on.
//
// SessionStore is the per-run equivalent of the browser's sessionStorage: it
// holds the local session handle (the creator's room code) for the lifetime of
// the process and is discarded on exit.
//
// LocalStore is the durable equivalent of localStorage: a directory of small
// JSON files, one per key. The connectivity monitor caches its last known
// status there. Values are advisory; consumers always re-derive them.
//
// Usage:
//
//	session := storage.NewSessionStore()
//	session.Set("game_id", "ABCXY")
//
//	local, err := storage.NewLocalStore(".duolobby")
//	if err != nil {
//		log.Fatal(err)
//	}
//	local.Set("onlineStatus", "online")
package storage
