// internal/models/relationship.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResourceIdentifier points at another JSON:API resource.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is a to-one ({"data": {...}}) or to-many ({"data": [...]}) link.
type Relationship struct {
	One  *ResourceIdentifier
	Many []ResourceIdentifier
}

// Relationships is keyed by relationship name, e.g. "org" or "customer".
type Relationships map[string]Relationship

func NewToOne(resourceType, id string) Relationship {
	return Relationship{One: &ResourceIdentifier{Type: resourceType, ID: id}}
}

func NewToMany(ids ...ResourceIdentifier) Relationship {
	if ids == nil {
		ids = []ResourceIdentifier{}
	}
	return Relationship{Many: ids}
}

func (r Relationship) IsToMany() bool {
	return r.Many != nil
}

func (r Relationship) MarshalJSON() ([]byte, error) {
	if r.IsToMany() {
		return json.Marshal(struct {
			Data []ResourceIdentifier `json:"data"`
		}{r.Many})
	}
	return json.Marshal(struct {
		Data *ResourceIdentifier `json:"data"`
	}{r.One})
}

func (r *Relationship) UnmarshalJSON(b []byte) error {
	var wire struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("relationship: %w", err)
	}

	data := bytes.TrimSpace(wire.Data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Relationship{}
	case data[0] == '[':
		many := []ResourceIdentifier{}
		if err := json.Unmarshal(data, &many); err != nil {
			return fmt.Errorf("relationship data: %w", err)
		}
		*r = Relationship{Many: many}
	default:
		var one ResourceIdentifier
		if err := json.Unmarshal(data, &one); err != nil {
			return fmt.Errorf("relationship data: %w", err)
		}
		*r = Relationship{One: &one}
	}
	return nil
}
