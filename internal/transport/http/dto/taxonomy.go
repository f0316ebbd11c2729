package dto

import (
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/query"
)

// TopicInput is the body of topic create and update calls. Updates replace
// every field, association lists included.
type TopicInput struct {
	Title       string                     `json:"title"`
	Slug        string                     `json:"slug"`
	Image       *string                    `json:"image"`
	Description *string                    `json:"description"`
	Status      models.TopicStatus         `json:"status" validate:"omitempty,oneof=active inactive"`
	Content     models.TopicContent        `json:"content" validate:"omitempty,oneof=page posts"`
	ParentID    *uuid.UUID                 `json:"parent_id"`
	Users       query.OneOrMany[uuid.UUID] `json:"users"`
	Categories  query.OneOrMany[uuid.UUID] `json:"categories"`
}

func (input TopicInput) ToDomain() models.Topic {
	return models.Topic{
		Title:       input.Title,
		Slug:        input.Slug,
		Image:       input.Image,
		Description: input.Description,
		Status:      input.Status,
		Content:     input.Content,
		ParentID:    input.ParentID,
	}
}

type CategoryInput struct {
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (input CategoryInput) ToDomain() models.Category {
	return models.Category{
		Name:     input.Name,
		Slug:     input.Slug,
		ParentID: input.ParentID,
	}
}
