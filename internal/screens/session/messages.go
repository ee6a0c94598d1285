package session

import (
	sess "github.com/abhisek/quizmaster/internal/session"
)

// sessionInitMsg is sent when the category load (or a reset) finishes.
type sessionInitMsg struct {
	Err error
}

// autoAdvanceMsg carries a fired auto-advance token into the update loop.
type autoAdvanceMsg struct {
	Token sess.Token
}
