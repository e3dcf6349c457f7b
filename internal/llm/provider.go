package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/legal-assistant/internal/domain"
)

// ErrNotConfigured is returned by providers missing credentials or a host
var ErrNotConfigured = errors.New("provider not configured")

// Turn is one entry of the transcript sent to a provider
type Turn struct {
	Role domain.MessageRole
	Text string
}

// Request contains generation parameters
type Request struct {
	// SystemInstruction carries the document context and answering rules.
	SystemInstruction string
	Turns             []Turn

	Temperature *float32
	TopP        *float32
	TopK        *int32

	// ResponseSchema switches the provider to structured JSON output.
	ResponseSchema *Schema
}

// SchemaType is a JSON Schema primitive type
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is the subset of JSON Schema the providers understand
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Error is a failure reported by the inference service itself
type Error struct {
	Provider   string
	StatusCode int
	Message    string
	// Details holds any structured detail the service attached.
	Details string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate runs one completion over the transcript in req
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}

// Float32 and Int32 build the optional sampling fields of a Request
func Float32(v float32) *float32 { return &v }

func Int32(v int32) *int32 { return &v }
