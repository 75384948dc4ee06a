// Package realtime implements the client side of the lobby's persistent
// event channel.
//
// The channel carries two events:
//   - join_game (client to server): announce which room and role this
//     connection belongs to
//   - redirect_to_game (server to client): the match is ready, navigate to
//     the URL in the payload
//
// Messages are JSON envelopes: {"event": "...", "data": {...}}.
//
// Handler registration is deliberately one-way: all handlers must be in place
// before Connect is called, and registration is rejected afterwards. The
// server may push redirect_to_game at any moment after a join completes, so a
// listener armed late could miss a fast push.
//
// The connection redials automatically with jittered backoff when the read
// loop fails. After a successful redial the last announced join is re-emitted
// so the server can re-associate the connection with its room.
//
// Usage:
//
//	ch := realtime.NewChannel("ws://localhost:8080/ws", realtime.Options{})
//	ch.On(realtime.EventRedirect, func(data json.RawMessage) { ... })
//	if err := ch.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer ch.Close()
//
//	ch.EmitJoin(realtime.JoinGame{GameID: "ABCXY", PlayerID: "player_1"})
package realtime
