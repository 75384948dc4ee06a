// Package lobbytest provides an in-process lobby server implementing the
// contract the client expects: the create/join/delete REST endpoints, the
// healthcheck probe, and the realtime channel with its join_game and
// redirect_to_game events.
//
// It exists for tests and the local demo mode. It is not the production
// server; it implements just enough of the protocol to exercise every client
// flow, including pushing redirect_to_game to both connections once both
// players have announced themselves, and reaping stale open rooms the way a
// real server is assumed to.
package lobbytest
