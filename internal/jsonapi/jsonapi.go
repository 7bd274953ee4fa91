// Package jsonapi unwraps JSON:API response documents into resources whose
// attributes and relationships can be handed to the application decoders.
package jsonapi

import (
	"encoding/json"
	"strings"

	apperrors "unit-client/internal/common/errors"
	"unit-client/internal/common/validation"
	"unit-client/internal/models"
)

// MediaType is the JSON:API content type.
const MediaType = "application/vnd.api+json"

type Resource struct {
	ID            string               `json:"id,omitempty"`
	Type          string               `json:"type"`
	Attributes    models.Attributes    `json:"attributes"`
	Relationships models.Relationships `json:"relationships,omitempty"`
}

// Document is a single-resource response: {"data": {...}}.
type Document struct {
	Data     Resource   `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

// ListDocument is a collection response: {"data": [...]}.
type ListDocument struct {
	Data []Resource            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// Decode validates body against the single-resource envelope and unmarshals it.
func Decode(body []byte) (*Document, error) {
	if err := check(documentSchema, body); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.NewEnvelopeInvalidError(err.Error())
	}
	return &doc, nil
}

// DecodeList validates body against the collection envelope and unmarshals it.
// An empty "data" array yields an empty, non-nil slice.
func DecodeList(body []byte) (*ListDocument, error) {
	if err := check(listDocumentSchema, body); err != nil {
		return nil, err
	}
	var doc ListDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.NewEnvelopeInvalidError(err.Error())
	}
	if doc.Data == nil {
		doc.Data = []Resource{}
	}
	return &doc, nil
}

// ValidateRequest checks an outgoing document built in memory, such as the
// result of a request's ToJSONAPI.
func ValidateRequest(doc interface{}) error {
	result, err := requestDocumentSchema.ValidateInput(doc)
	if err != nil {
		return apperrors.NewRequestValidationFailedError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewRequestValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func check(schema *validation.Schema, body []byte) error {
	result, err := schema.ValidateBytes(body)
	if err != nil {
		return apperrors.NewEnvelopeInvalidError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewEnvelopeInvalidError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
