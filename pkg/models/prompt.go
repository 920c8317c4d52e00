package models

import "time"

// MaxGeneratedPrompts is the number of history records kept per user.
const MaxGeneratedPrompts = 10

// GeneratedPrompt is a snapshot of a compiled prompt kept in a user's history.
type GeneratedPrompt struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	ID              string    `json:"id" required:"false"`
	TemplateID      string    `json:"templateId" doc:"Owning persona id" required:"false"`
	ConfigName      string    `json:"configName" required:"false"`
	PromptText      string    `json:"promptText" required:"false"`
	Variation       int       `json:"variation" required:"false"`
	TotalVariations int       `json:"totalVariations" required:"false"`
	Timestamp       time.Time `json:"timestamp" required:"false"`
	PublishedURL    string    `json:"publishedUrl,omitempty" required:"false"`
}

// PublishedPrompt is the JSON envelope stored for page-style publication.
type PublishedPrompt struct {
	PromptID    string    `json:"promptId" required:"false"`
	PromptText  string    `json:"promptText" required:"false"`
	ConfigName  string    `json:"configName" required:"false"`
	PublishedAt time.Time `json:"publishedAt" required:"false"`
}

// Sample is one scenario completion. Error is set instead of Content when the call failed.
type Sample struct {
	Scenario string `json:"scenario" required:"false"`
	Prompt   string `json:"prompt" required:"false"`
	Content  string `json:"content,omitempty" required:"false"`
	Error    string `json:"error,omitempty" required:"false"`
}
