// Package domain holds DTOs for faq http and service contracts
package domain

// CreateInput asks the store to mint a new, empty topic under the given name
type CreateInput struct {
	Topic string `json:"topic" validate:"required,min=1,max=100" example:"rules"`
}

// RenameInput changes a topic's name; the new name must not collide with any
// existing name or alias
type RenameInput struct {
	Topic string `json:"topic" validate:"required,min=1,max=100" example:"server-rules"`
}

// SetTextInput carries the replacement value for a free-text field.
// Empty is allowed: clearing content makes the topic incomplete again.
type SetTextInput struct {
	Value string `json:"value" validate:"max=10000" example:"Be kind.\nNo griefing."`
}

// SetGroupInput moves a topic to another visibility partition
type SetGroupInput struct {
	Group string `json:"group" validate:"required,min=1,max=50" example:"staff"`
}

// AliasInput names one alias to add or remove
type AliasInput struct {
	Alias string `json:"alias" validate:"required,min=1,max=100" example:"regeln"`
}

// SetPosInput pins a topic to an explicit placement; (0,0) returns it to
// automatic flow
type SetPosInput struct {
	Line int `json:"line" validate:"min=0" example:"1"`
	Col  int `json:"col"  validate:"min=0" example:"2"`
}

// EditorStartOutput is the handle for an opened remote editing session
type EditorStartOutput struct {
	Token string `json:"token" example:"b4b1f6c9"`
	URL   string `json:"url"   example:"https://editor.example.com?token=b4b1f6c9"`
}

// EditorSubmitInput retrieves a finished session and applies its text
type EditorSubmitInput struct {
	Token string `json:"token" validate:"required,min=1" example:"b4b1f6c9"`
}
