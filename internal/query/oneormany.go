package query

import (
	"bytes"
	"encoding/json"
)

// OneOrMany holds either a single value or a list of values as accepted by
// request bodies, e.g. "topics": "id" or "topics": ["id1", "id2"].
type OneOrMany[T any] struct {
	items []T
}

func One[T any](v T) OneOrMany[T] {
	return OneOrMany[T]{items: []T{v}}
}

func Many[T any](vs ...T) OneOrMany[T] {
	items := make([]T, len(vs))
	copy(items, vs)
	return OneOrMany[T]{items: items}
}

// ToList returns the values as a list; a single value becomes a one-element list.
func (o OneOrMany[T]) ToList() []T {
	out := make([]T, len(o.items))
	copy(out, o.items)
	return out
}

func (o OneOrMany[T]) Len() int {
	return len(o.items)
}

func (o *OneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		o.items = nil
		return nil
	}

	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		o.items = items
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.items = []T{v}
	return nil
}

func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	if o.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.items)
}
