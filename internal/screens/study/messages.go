package study

import (
	"github.com/abhisek/recall/internal/session"
)

// runnerReadyMsg is sent when the session has been composed and its start recorded.
type runnerReadyMsg struct {
	Runner *session.Runner
	Err    error
}

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}
