// Package message defines the canonical conversation types and utilities used
// across the codebase. All packages import from here to avoid circular
// dependencies.
package message

import (
	"fmt"
	"time"
)

// Role represents the role of a message participant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Input is the caller-supplied payload for a new user message.
// ImageURI is the URL sent to the model (hosted URL or data URI);
// OriginalURI is what the UI renders, which may differ.
type Input struct {
	Text        string
	ImageURI    string
	OriginalURI string
}

// Message is one concrete version occupying a turn. Messages are immutable
// once created; "editing" appends a new message to the same turn.
type Message struct {
	ID          string `json:"id"`
	Role        Role   `json:"role"`
	Content     string `json:"content,omitempty"`
	ImageURI    string `json:"imageUri,omitempty"`
	OriginalURI string `json:"originalUri,omitempty"`
	Timestamp   int64  `json:"timestamp"`
	Turn        int    `json:"turn"`
	Version     int    `json:"version"`
}

// Turn is one logical position in a conversation. It holds the ordered
// message ids of its versions and the index of the active one.
// Role is fixed at creation; version appends must carry the same role.
type Turn struct {
	Index   int      `json:"turn"`
	Role    Role     `json:"role"`
	IDs     []string `json:"messages"`
	Version int      `json:"version"`
}

// ActiveID returns the message id of the turn's active version.
func (t *Turn) ActiveID() string {
	return t.IDs[t.Version]
}

// Session is the persisted record of one conversation. ID is assigned on the
// first persisted mutation and never reassigned. Seq is the per-session
// message counter; it only grows, so message ids are never reused even after
// a truncation.
type Session struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Turns     []Turn `json:"turns"`
	Timestamp int64  `json:"timestamp"`
	Seq       int    `json:"seq"`
}

// Now returns the current time in milliseconds since the epoch, the unit all
// persisted timestamps use.
func Now() int64 {
	return time.Now().UnixMilli()
}

// Project flattens a session into its current view: for each turn, the
// message at the active version. The result always has one entry per turn;
// a missing message id means a corrupt store and is reported as an error.
func Project(s *Session, msgs map[string]*Message) ([]*Message, error) {
	current := make([]*Message, len(s.Turns))
	for i := range s.Turns {
		t := &s.Turns[i]
		if t.Version < 0 || t.Version >= len(t.IDs) {
			return nil, fmt.Errorf("turn %d: active version %d out of range [0,%d)", t.Index, t.Version, len(t.IDs))
		}
		m, ok := msgs[t.ActiveID()]
		if !ok {
			return nil, fmt.Errorf("turn %d: message %s not loaded", t.Index, t.ActiveID())
		}
		current[i] = m
	}
	return current, nil
}
