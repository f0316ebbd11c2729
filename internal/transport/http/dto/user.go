package dto

import (
	"encoding/json"

	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/query"
)

// UserInput is the body of user create and update calls. An empty password
// on update keeps the current one.
type UserInput struct {
	Firstname string                     `json:"firstname"`
	Lastname  *string                    `json:"lastname"`
	Email     string                     `json:"email" validate:"omitempty,email"`
	Password  string                     `json:"password" validate:"omitempty,min=8,max=72"`
	Status    models.UserStatus          `json:"status" validate:"omitempty,oneof=blocked active pending"`
	Role      models.Role                `json:"role" validate:"omitempty,oneof=admin editor"`
	Topics    query.OneOrMany[uuid.UUID] `json:"topics"`
}

func (input UserInput) ToDomain(passwordHash []byte) models.User {
	return models.User{
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Email:     input.Email,
		Password:  passwordHash,
		Status:    input.Status,
		Role:      input.Role,
	}
}

type OptionInput struct {
	Value json.RawMessage `json:"value"`
}

type OptionDeleteInput struct {
	Names query.OneOrMany[string] `json:"names"`
}
