// Package rest implements the client for the lobby REST API.
//
// The client covers the four endpoints the lobby page consumes:
//
//	POST /api/create-room  {game_id, game_state, player_id}
//	POST /api/join-room    {game_id, player_id}
//	POST /api/delete-room  {game_id}
//	GET  /healthcheck
//
// Failures split into two kinds. Transport failures (connection refused,
// timeouts, cancelled contexts) surface as plain errors. Application-level
// rejections (room not found, room full) surface as *APIError carrying the
// server's message, so callers can show it to the user verbatim.
package rest
