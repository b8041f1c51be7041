// Package normalize is the boundary between loose voice-agent payloads and
// the typed request models the rest of the service works with. Voice
// platforms nest tool arguments inconsistently: directly in the body, under
// "args" or "parameters", or inside a "toolCallList" batch. Everything past
// this package is strongly typed.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrEmptyPayload  = errors.New("normalize: empty payload")
	ErrBadPayload    = errors.New("normalize: payload is not a JSON object")
	ErrNoArguments   = errors.New("normalize: no tool arguments found in payload")
	ErrInvalidPhone  = errors.New("normalize: invalid phone number")
	ErrMissingPhone  = errors.New("normalize: phone number is required")
)

// DefaultRegion is assumed for phone numbers given without a country code.
const DefaultRegion = "US"

type envelope struct {
	Args         json.RawMessage `json:"args"`
	Parameters   json.RawMessage `json:"parameters"`
	ToolCallList []toolCall      `json:"toolCallList"`
}

type toolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Args      json.RawMessage `json:"args"`
}

// Arguments unwraps a request body to the single JSON object holding the
// tool arguments. A flat object passes through unchanged; the nested shapes
// are unwrapped; a toolCallList resolves to its first call's arguments.
func Arguments(body []byte) (json.RawMessage, error) {
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if args := pickObject(env.Args); args != nil {
		return args, nil
	}
	if params := pickObject(env.Parameters); params != nil {
		return params, nil
	}
	for _, call := range env.ToolCallList {
		if args := pickObject(call.Arguments); args != nil {
			return args, nil
		}
		if args := pickObject(call.Args); args != nil {
			return args, nil
		}
	}

	// No recognized wrapper: treat the body itself as the arguments.
	if flat := pickObject(body); flat != nil {
		return flat, nil
	}
	return nil, ErrNoArguments
}

// pickObject returns raw when it is a non-empty JSON object.
func pickObject(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if len(trimmed) < 2 || trimmed[0] != '{' {
		return nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe) == 0 {
		return nil
	}
	return raw
}

// Phone canonicalizes a spoken or typed phone number to E.164, so the same
// customer always resolves to the same record regardless of how the number
// was dictated.
func Phone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrMissingPhone
	}
	parsed, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPhone, trimmed)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
