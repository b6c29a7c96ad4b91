package domain

import "time"

// DocumentID is the canonical path or URI of a document buffer.
type DocumentID string

// DocumentState is the authoritative replica of one document.
// Version strictly increases on every accepted, non identical update.
type DocumentState struct {
	ID          DocumentID
	Content     string
	Version     uint64
	LastWriter  ParticipantID
	LastWriteAt time.Time
}

// ApplyResult reports what happened to a content update.
type ApplyResult struct {
	State DocumentState
	// NoOp is true when the content was identical to the current state.
	NoOp bool
	// Stale is true when the writer had not observed the previous version.
	Stale bool
}

// DocumentInfo describes a document without exposing its content.
type DocumentInfo struct {
	ID          DocumentID
	Version     uint64
	LastWriter  ParticipantID
	LastWriteAt time.Time
	Size        int
	MimeType    string
}
