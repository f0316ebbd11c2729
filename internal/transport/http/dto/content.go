package dto

import (
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/query"
)

// PostInput is the body of post create and update calls. UserID falls back
// to the authenticated user.
type PostInput struct {
	Title      string                     `json:"title"`
	Excerpt    string                     `json:"excerpt"`
	Content    string                     `json:"content"`
	Slug       string                     `json:"slug"`
	Status     models.ContentStatus       `json:"status" validate:"omitempty,oneof=draft published"`
	UserID     uuid.UUID                  `json:"user_id"`
	Topics     query.OneOrMany[uuid.UUID] `json:"topics"`
	Categories query.OneOrMany[uuid.UUID] `json:"categories"`
}

func (input PostInput) ToDomain() models.Post {
	return models.Post{
		Title:   input.Title,
		Excerpt: input.Excerpt,
		Content: input.Content,
		Slug:    input.Slug,
		Status:  input.Status,
		UserID:  input.UserID,
	}
}

type PageInput struct {
	Title   string               `json:"title"`
	Content string               `json:"content"`
	Slug    string               `json:"slug"`
	Status  models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published"`
	UserID  uuid.UUID            `json:"user_id"`
	TopicID *uuid.UUID           `json:"topic_id"`
}

func (input PageInput) ToDomain() models.Page {
	return models.Page{
		Title:   input.Title,
		Content: input.Content,
		Slug:    input.Slug,
		Status:  input.Status,
		UserID:  input.UserID,
		TopicID: input.TopicID,
	}
}

// DeleteInput carries one id or a list of ids.
type DeleteInput struct {
	IDs query.OneOrMany[uuid.UUID] `json:"ids"`
}
