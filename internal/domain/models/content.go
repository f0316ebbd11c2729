package models

import (
	"time"

	"github.com/google/uuid"
)

type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// Relation names accepted in include lists.
const (
	RelationAuthor     = "author"
	RelationTopics     = "topics"
	RelationTopic      = "topic"
	RelationCategories = "categories"
	RelationUsers      = "users"
	RelationPosts      = "posts"
	RelationPage       = "page"
	RelationParent     = "parent"
	RelationChildren   = "children"
)

type PostField string

const (
	PostID        PostField = "id"
	PostTitle     PostField = "title"
	PostExcerpt   PostField = "excerpt"
	PostContent   PostField = "content"
	PostSlug      PostField = "slug"
	PostStatus    PostField = "status"
	PostUserID    PostField = "user_id"
	PostCreatedAt PostField = "created_at"
	PostUpdatedAt PostField = "updated_at"
)

type Post struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Title     string        `db:"title" json:"title" validate:"required"`
	Excerpt   string        `db:"excerpt" json:"excerpt" validate:"required"`
	Content   string        `db:"content" json:"content"`
	Slug      string        `db:"slug" json:"slug" validate:"required"`
	Status    ContentStatus `db:"status" json:"status" validate:"oneof=draft published"`
	UserID    uuid.UUID     `db:"user_id" json:"user_id" validate:"required"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`

	Author     *User      `json:"author,omitempty"`
	Topics     []Topic    `json:"topics,omitempty"`
	Categories []Category `json:"categories,omitempty"`
}

type PageField string

const (
	PageID        PageField = "id"
	PageTitle     PageField = "title"
	PageContent   PageField = "content"
	PageSlug      PageField = "slug"
	PageStatus    PageField = "status"
	PageUserID    PageField = "user_id"
	PageTopicID   PageField = "topic_id"
	PageCreatedAt PageField = "created_at"
	PageUpdatedAt PageField = "updated_at"
)

// Page is a standalone content item, optionally rendered by a topic.
type Page struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Title     string        `db:"title" json:"title" validate:"required"`
	Content   string        `db:"content" json:"content"`
	Slug      string        `db:"slug" json:"slug" validate:"required"`
	Status    ContentStatus `db:"status" json:"status" validate:"oneof=draft published"`
	UserID    uuid.UUID     `db:"user_id" json:"user_id" validate:"required"`
	TopicID   *uuid.UUID    `db:"topic_id" json:"topic_id"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`

	Author *User  `json:"author,omitempty"`
	Topic  *Topic `json:"topic,omitempty"`
}
