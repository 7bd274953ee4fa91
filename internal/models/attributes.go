// internal/models/attributes.go
package models

import (
	"github.com/guregu/null/v5"

	apperrors "unit-client/internal/common/errors"
)

// Attributes is the decoded "attributes" object of a JSON:API resource.
type Attributes map[string]interface{}

// Parser builds a T from its decoded wire value. Every nested DTO exposes one.
type Parser[T any] func(raw interface{}) (T, error)

// lookup treats JSON null the same as an absent key.
func (a Attributes) lookup(key string) (interface{}, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Require returns the raw value of a required key.
func (a Attributes) Require(resource, key string) (interface{}, error) {
	v, ok := a.lookup(key)
	if !ok {
		return nil, apperrors.NewMissingFieldError(resource, key)
	}
	return v, nil
}

func (a Attributes) RequireString(resource, key string) (string, error) {
	v, err := a.Require(resource, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.NewTypeMismatchError(resource, key, "string", v)
	}
	return s, nil
}

func (a Attributes) OptionalString(resource, key string) (null.String, error) {
	v, ok := a.lookup(key)
	if !ok {
		return null.String{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return null.String{}, apperrors.NewTypeMismatchError(resource, key, "string", v)
	}
	return null.StringFrom(s), nil
}

func (a Attributes) OptionalBool(resource, key string) (null.Bool, error) {
	v, ok := a.lookup(key)
	if !ok {
		return null.Bool{}, nil
	}
	b, ok := v.(bool)
	if !ok {
		return null.Bool{}, apperrors.NewTypeMismatchError(resource, key, "boolean", v)
	}
	return null.BoolFrom(b), nil
}

// OptionalInt accepts any JSON number with an integral value.
func (a Attributes) OptionalInt(resource, key string) (null.Int, error) {
	v, ok := a.lookup(key)
	if !ok {
		return null.Int{}, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return null.Int{}, apperrors.NewTypeMismatchError(resource, key, "integer", v)
		}
		return null.IntFrom(int64(n)), nil
	case int:
		return null.IntFrom(int64(n)), nil
	case int64:
		return null.IntFrom(n), nil
	default:
		return null.Int{}, apperrors.NewTypeMismatchError(resource, key, "integer", v)
	}
}

// OptionalStringMap decodes an object whose values are all strings, such as "tags".
func (a Attributes) OptionalStringMap(resource, key string) (null.Value[map[string]string], error) {
	v, ok := a.lookup(key)
	if !ok {
		return null.Value[map[string]string]{}, nil
	}
	switch m := v.(type) {
	case map[string]string:
		return null.ValueFrom(m), nil
	case map[string]interface{}:
		out := make(map[string]string, len(m))
		for k, item := range m {
			s, ok := item.(string)
			if !ok {
				return null.Value[map[string]string]{}, apperrors.NewTypeMismatchError(resource, key+"."+k, "string", item)
			}
			out[k] = s
		}
		return null.ValueFrom(out), nil
	default:
		return null.Value[map[string]string]{}, apperrors.NewTypeMismatchError(resource, key, "object", v)
	}
}

// RequireNested hands the value of a required key to parse.
func RequireNested[T any](a Attributes, resource, key string, parse Parser[T]) (T, error) {
	var zero T
	v, err := a.Require(resource, key)
	if err != nil {
		return zero, err
	}
	return parse(v)
}

// OptionalNested hands the value of key to parse only when it is present.
func OptionalNested[T any](a Attributes, resource, key string, parse Parser[T]) (null.Value[T], error) {
	v, ok := a.lookup(key)
	if !ok {
		return null.Value[T]{}, nil
	}
	parsed, err := parse(v)
	if err != nil {
		return null.Value[T]{}, err
	}
	return null.ValueFrom(parsed), nil
}

// ParseList calls parse once per array element, preserving order.
// An empty array yields an empty, non-nil slice.
func ParseList[T any](resource, key string, raw interface{}, parse Parser[T]) ([]T, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, apperrors.NewTypeMismatchError(resource, key, "array", raw)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		parsed, err := parse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

// ObjectOf asserts that raw is a JSON object.
func ObjectOf(resource string, raw interface{}) (Attributes, error) {
	switch m := raw.(type) {
	case Attributes:
		return m, nil
	case map[string]interface{}:
		return Attributes(m), nil
	default:
		return nil, apperrors.NewTypeMismatchError(resource, "", "object", raw)
	}
}
