package query_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_hub/internal/query"
)

func TestOneOrMany_Unmarshal(t *testing.T) {
	a := uuid.MustParse("0b6b2a6e-59a1-4d6c-9a0a-0f1d3c1e2a01")
	b := uuid.MustParse("0b6b2a6e-59a1-4d6c-9a0a-0f1d3c1e2a02")

	var body struct {
		Topics     query.OneOrMany[uuid.UUID] `json:"topics"`
		Categories query.OneOrMany[uuid.UUID] `json:"categories"`
		Users      query.OneOrMany[uuid.UUID] `json:"users"`
	}

	raw := `{"topics":"` + a.String() + `","categories":["` + a.String() + `","` + b.String() + `"],"users":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &body))

	assert.Equal(t, []uuid.UUID{a}, body.Topics.ToList())
	assert.Equal(t, []uuid.UUID{a, b}, body.Categories.ToList())
	assert.Empty(t, body.Users.ToList())
	assert.Zero(t, body.Users.Len())
}

func TestOneOrMany_UnmarshalRejectsWrongType(t *testing.T) {
	var ids query.OneOrMany[uuid.UUID]
	assert.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &ids))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &ids))
}

func TestOneOrMany_ToListIsACopy(t *testing.T) {
	ids := query.Many("a", "b")
	list := ids.ToList()
	list[0] = "z"

	assert.Equal(t, []string{"a", "b"}, ids.ToList())
	assert.Equal(t, []string{"x"}, query.One("x").ToList())
}
