package models

import (
	"time"

	"github.com/google/uuid"
)

type TopicStatus string

const (
	TopicActive   TopicStatus = "active"
	TopicInactive TopicStatus = "inactive"
)

// TopicContent decides whether a topic renders a single page or a post listing.
type TopicContent string

const (
	TopicContentPage  TopicContent = "page"
	TopicContentPosts TopicContent = "posts"
)

type TopicField string

const (
	TopicID          TopicField = "id"
	TopicTitle       TopicField = "title"
	TopicSlug        TopicField = "slug"
	TopicImage       TopicField = "image"
	TopicDescription TopicField = "description"
	TopicStatusField TopicField = "status"
	TopicContentKind TopicField = "content"
	TopicParentID    TopicField = "parent_id"
	TopicCreatedAt   TopicField = "created_at"
	TopicUpdatedAt   TopicField = "updated_at"
)

type Topic struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Title       string       `db:"title" json:"title" validate:"required"`
	Slug        string       `db:"slug" json:"slug" validate:"required"`
	Image       *string      `db:"image" json:"image"`
	Description *string      `db:"description" json:"description"`
	Status      TopicStatus  `db:"status" json:"status" validate:"oneof=active inactive"`
	Content     TopicContent `db:"content" json:"content" validate:"oneof=page posts"`
	ParentID    *uuid.UUID   `db:"parent_id" json:"parent_id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`

	Users      []User     `json:"users,omitempty"`
	Posts      []Post     `json:"posts,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	Page       *Page      `json:"page,omitempty"`
	Parent     *Topic     `json:"parent,omitempty"`
}

type CategoryField string

const (
	CategoryID        CategoryField = "id"
	CategoryName      CategoryField = "name"
	CategorySlug      CategoryField = "slug"
	CategoryParentID  CategoryField = "parent_id"
	CategoryCreatedAt CategoryField = "created_at"
	CategoryUpdatedAt CategoryField = "updated_at"
)

// Category is a node of the category tree. Assigning a category to content
// also assigns its direct children.
type Category struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name" validate:"required"`
	Slug      string     `db:"slug" json:"slug" validate:"required"`
	ParentID  *uuid.UUID `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`

	Parent   *Category  `json:"parent,omitempty"`
	Children []Category `json:"children,omitempty"`
	Topics   []Topic    `json:"topics,omitempty"`
	Posts    []Post     `json:"posts,omitempty"`
}
