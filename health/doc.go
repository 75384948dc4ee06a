// Package health implements the connectivity monitor that gates online play.
//
// The monitor maintains a two-valued status, online or offline, derived from
// the local link state and a timeout-bounded liveness probe against the
// server. It re-evaluates on start, whenever it is poked (the analog of the
// browser's online/offline transitions), and on a fixed interval re-armed
// after each evaluation.
//
// There is no portable link-change event source, so nothing in this module
// pokes the monitor itself; the fixed interval bounds staleness at one period
// and subsumes the transition trigger. Poke exists for front-ends that do
// have a platform notifier to hook up.
//
// Every evaluation ends in apply: the status is cached in durable local
// storage, the online-play affordance is enabled or disabled, and the status
// indicator is updated. When the status goes offline, the expanded online
// options panel is collapsed as well, since its actions would be invalid.
//
// The monitor never panics past its own boundary, and it does not cancel a
// slow in-flight probe when a new tick fires; both converge on the same
// storage/UI writes within one interval, so the last write simply wins.
package health
