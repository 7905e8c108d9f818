package service

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kaptinlin/jsonschema"

	"github.com/forgo/ems/api/internal/model"
)

//go:embed schemas/session_draft.json
var sessionDraftSchema []byte

// DraftValidator checks session drafts before they are sent upstream
type DraftValidator struct {
	schema *jsonschema.Schema
}

// NewDraftValidator compiles the embedded session draft schema
func NewDraftValidator() (*DraftValidator, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(sessionDraftSchema)
	if err != nil {
		return nil, fmt.Errorf("compile session draft schema: %w", err)
	}
	return &DraftValidator{schema: schema}, nil
}

// Validate returns a validation failure for a draft the upstream would
// reject, or nil. op names the operation in the returned error.
func (v *DraftValidator) Validate(op string, draft model.SessionDraft) error {
	fields := draft.Validate()

	if v != nil && v.schema != nil {
		data, err := json.Marshal(draft)
		if err != nil {
			return fmt.Errorf("encode draft: %w", err)
		}
		result := v.schema.ValidateJSON(data)
		if !result.IsValid() {
			keys := make([]string, 0, len(result.Errors))
			for k := range result.Errors {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fields = append(fields, model.FieldError{Field: k, Message: fmt.Sprint(result.Errors[k])})
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &model.RemoteError{
		Op:     op,
		Detail: fields[0].Message,
		Fields: fields,
		Kind:   model.ErrValidation,
	}
}
