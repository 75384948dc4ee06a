package lobby

// FailureKind classifies why an operation did not succeed.
type FailureKind string

const (
	// FailInput means the operation was stopped locally before any request
	// was issued (empty code, join already completed).
	FailInput FailureKind = "input"

	// FailTransport means the request never produced a usable response:
	// network error, timeout, or an unparseable reply.
	FailTransport FailureKind = "transport"

	// FailRejected means the server answered but declined the operation
	// (room not found, room full, deletion disallowed).
	FailRejected FailureKind = "rejected"
)

// Outcome is the structured result of a coordinator operation.
type Outcome struct {
	OK      bool
	Kind    FailureKind
	Message string
}

func success() Outcome {
	return Outcome{OK: true}
}

func failure(kind FailureKind, message string) Outcome {
	return Outcome{Kind: kind, Message: message}
}
