package models

import (
	"slices"
	"strings"
)

// Role is the author of a request-log entry as the completion API sees it
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	// RoleSystem is only ever sent on the wire to prime the model, it is
	// never stored in a request log.
	RoleSystem Role = "system"
)

// Content is one entry of the history sent to the completion API
type Content struct {
	Role  Role     `json:"role"`
	Parts []string `json:"parts"`
}

func NewContent(role Role, parts ...string) Content {
	return Content{Role: role, Parts: parts}
}

// Text joins the parts into a single message body
func (c Content) Text() string {
	return strings.Join(c.Parts, "\n")
}

// Clone returns a copy that shares no memory with c
func (c Content) Clone() Content {
	return Content{Role: c.Role, Parts: slices.Clone(c.Parts)}
}

// Message is a new message sent after the history in a completion call
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
