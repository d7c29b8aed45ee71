// Package domain holds faq core types independent of transport or storage
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SystemAuthor is the sentinel identity used when the mutator is unknown
var SystemAuthor = uuid.Nil

// Pos is a topic's placement. The zero value means automatic flow layout;
// any other Line pins the topic to that display row at the given column.
type Pos struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Auto reports whether the placement is automatic
func (p Pos) Auto() bool { return p.Line == 0 && p.Col == 0 }

// Tuple renders the "(line,col)" form used in audit records
func (p Pos) Tuple() string { return fmt.Sprintf("(%d,%d)", p.Line, p.Col) }

// Topic is one catalogued question/answer entry
type Topic struct {
	ID      int      `json:"id"`
	Topic   string   `json:"topic"`
	Content string   `json:"content"`
	Preface string   `json:"preface"`
	Alias   []string `json:"alias"`
	Group   string   `json:"group"`
	Pos     Pos      `json:"pos"`

	Author    uuid.UUID `json:"author"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Incomplete reports whether the topic has no body yet. Incomplete topics
// stay out of lookups and layout.
func (t Topic) Incomplete() bool { return strings.TrimSpace(t.Content) == "" }

// Keys returns the topic's name plus all aliases, the full lookup key set
func (t Topic) Keys() []string {
	return append([]string{t.Topic}, t.Alias...)
}

// NewTopic is the insert body for a freshly created topic
type NewTopic struct {
	Topic   string    `json:"topic"`
	Content string    `json:"content"`
	Author  uuid.UUID `json:"author"`
}

// Method is the audit verb
type Method string

const (
	// MethodCreate marks a topic creation
	MethodCreate Method = "POST"

	// MethodPatch marks a single-field edit
	MethodPatch Method = "PATCH"

	// MethodDelete marks a soft delete
	MethodDelete Method = "DELETE"
)

// Field identifies which topic attribute an audit record touched
type Field string

const (
	// FieldTopic is the topic's name
	FieldTopic Field = "TOPIC"

	// FieldContent is the main body text
	FieldContent Field = "CONTENT"

	// FieldPreface is the short-form excerpt
	FieldPreface Field = "PREFACE"

	// FieldAlias is the alias set
	FieldAlias Field = "ALIAS"

	// FieldGroup is the visibility partition
	FieldGroup Field = "GROUP"

	// FieldPos is the layout placement
	FieldPos Field = "POS"
)

// Change captures one field transition in that field's own audit encoding.
// Constructors below are the only way a handler or service should build one,
// so the encoding rules live in exactly one place per field.
type Change struct {
	Field  Field
	Before *string
	After  string
}

// TextChange encodes a plain string field transition (name, content, preface, group)
func TextChange(f Field, before, after string) Change {
	return Change{Field: f, Before: &before, After: after}
}

// AliasAdded encodes an alias addition: no prior value, the single new element after
func AliasAdded(alias string) Change {
	return Change{Field: FieldAlias, After: alias}
}

// AliasRemoved encodes an alias removal: the single dropped element before, empty after
func AliasRemoved(alias string) Change {
	return Change{Field: FieldAlias, Before: &alias, After: ""}
}

// PosChange encodes a placement transition as "(line,col)" tuples
func PosChange(before, after Pos) Change {
	b := before.Tuple()
	return Change{Field: FieldPos, Before: &b, After: after.Tuple()}
}

// History is one immutable audit record
type History struct {
	ID        int       `json:"id"`
	FAQ       int       `json:"faq"`
	Author    uuid.UUID `json:"author"`
	Method    Method    `json:"method"`
	Field     Field     `json:"field"`
	Before    *string   `json:"before"`
	After     string    `json:"after"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHistory is the insert body for an audit record; id and timestamp are
// assigned by the repository
type NewHistory struct {
	FAQ    int       `json:"faq"`
	Author uuid.UUID `json:"author"`
	Method Method    `json:"method"`
	Field  Field     `json:"field"`
	Before *string   `json:"before"`
	After  string    `json:"after"`
}

// Entry builds the insert body for one change on one topic
func Entry(faq int, author uuid.UUID, method Method, ch Change) NewHistory {
	return NewHistory{
		FAQ:    faq,
		Author: author,
		Method: method,
		Field:  ch.Field,
		Before: ch.Before,
		After:  ch.After,
	}
}
