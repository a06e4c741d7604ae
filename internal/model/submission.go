// Package model contains simple struct definitions shared across packages.
package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned by every Store implementation when no submission
// matches the requested id. Callers compare with errors.Is.
var ErrNotFound = errors.New("submission not found")

// Status describes the triage lifecycle of a submission. A type declared via
// "type X string" gives us a named type that still marshals as plain text.
type Status string

const (
	StatusPending                Status = "pending"
	StatusAccepted               Status = "accepted"
	StatusAcceptedWithConditions Status = "acceptedWithConditions"
	StatusRejected               Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusAcceptedWithConditions, StatusRejected:
		return true
	}
	return false
}

// Attachment is a stored file. Exactly one of Content (inline data URI) or
// URL (object storage) is populated.
type Attachment struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
	// Key is the object key backing URL; needed to remove the object later.
	Key string `json:"key,omitempty"`
}

// Inline reports whether the attachment bytes live inside the document.
func (a Attachment) Inline() bool {
	return a.Content != ""
}

// Upload is a file received from a client before it is stored.
type Upload struct {
	Name string
	Type string
	Data []byte
}

// Size returns the number of bytes received.
func (u Upload) Size() int64 {
	return int64(len(u.Data))
}

// Submission is a client's project-intake request. time.Time marshals to
// RFC 3339, so SubmittedAt always reaches clients as an ISO-8601 string.
type Submission struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Email                string       `json:"email"`
	Phone                string       `json:"phone,omitempty"`
	ProjectTitle         string       `json:"projectTitle"`
	ProjectDescription   string       `json:"projectDescription"`
	Files                []Attachment `json:"files,omitempty"`
	Status               Status       `json:"status"`
	AcceptanceConditions string       `json:"acceptanceConditions,omitempty"`
	RejectionReason      string       `json:"rejectionReason,omitempty"`
	SubmittedAt          time.Time    `json:"submittedAt"`
	// A nil pointer is dropped by omitempty; zero time.Time values are not.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no slices with s.
func (s *Submission) Clone() *Submission {
	out := *s
	if s.Files != nil {
		out.Files = make([]Attachment, len(s.Files))
		copy(out.Files, s.Files)
	}
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

// StatusUpdate carries every column a status transition writes. Empty
// strings clear the corresponding column; nothing else is modified.
type StatusUpdate struct {
	Status               Status
	AcceptanceConditions string
	RejectionReason      string
	UpdatedAt            time.Time
}

// Apply copies the update onto s.
func (u StatusUpdate) Apply(s *Submission) {
	s.Status = u.Status
	s.AcceptanceConditions = u.AcceptanceConditions
	s.RejectionReason = u.RejectionReason
	at := u.UpdatedAt
	s.UpdatedAt = &at
}
