package jsonapi

import "unit-client/internal/common/validation"

const resourceSchema = `{
	"type": "object",
	"required": ["type", "id", "attributes"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"type": {"type": "string", "minLength": 1},
		"attributes": {"type": "object"},
		"relationships": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["data"],
				"properties": {
					"data": {
						"oneOf": [
							{"type": "null"},
							{"$ref": "#/definitions/identifier"},
							{"type": "array", "items": {"$ref": "#/definitions/identifier"}}
						]
					}
				}
			}
		}
	}
}`

const identifierSchema = `{
	"type": "object",
	"required": ["type", "id"],
	"properties": {
		"type": {"type": "string"},
		"id": {"type": "string"}
	}
}`

var (
	documentSchema = validation.MustCompile(`{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {"$ref": "#/definitions/resource"},
			"included": {"type": "array", "items": {"$ref": "#/definitions/resource"}}
		},
		"definitions": {
			"resource": ` + resourceSchema + `,
			"identifier": ` + identifierSchema + `
		}
	}`)

	listDocumentSchema = validation.MustCompile(`{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {"type": "array", "items": {"$ref": "#/definitions/resource"}},
			"meta": {"type": "object"}
		},
		"definitions": {
			"resource": ` + resourceSchema + `,
			"identifier": ` + identifierSchema + `
		}
	}`)

	// Outgoing documents carry no id; the API assigns it.
	requestDocumentSchema = validation.MustCompile(`{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {
				"type": "object",
				"required": ["type", "attributes"],
				"properties": {
					"type": {"type": "string", "minLength": 1},
					"attributes": {"type": "object", "minProperties": 1}
				}
			}
		}
	}`)
)
