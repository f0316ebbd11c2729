package repository

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
)

var usersTable = newTable("users",
	[]string{"id", "firstname", "lastname", "email", "password", "status", "role", "created_at", "updated_at", "deleted_at"},
	[]string{"firstname", "lastname", "email", "password", "status", "role"},
	func(u *models.User) []any {
		return []any{&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.Password, &u.Status, &u.Role, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt}
	},
).scoped(sq.Eq{"deleted_at": nil})

var topicsTable = newTable("topics",
	[]string{"id", "title", "slug", "image", "description", "status", "content", "parent_id", "created_at", "updated_at"},
	[]string{"title", "slug", "image", "description", "status", "content", "parent_id"},
	func(t *models.Topic) []any {
		return []any{&t.ID, &t.Title, &t.Slug, &t.Image, &t.Description, &t.Status, &t.Content, &t.ParentID, &t.CreatedAt, &t.UpdatedAt}
	},
)

var categoriesTable = newTable("categories",
	[]string{"id", "name", "slug", "parent_id", "created_at", "updated_at"},
	[]string{"name", "slug", "parent_id"},
	func(c *models.Category) []any {
		return []any{&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt}
	},
)

var postsTable = newTable("posts",
	[]string{"id", "title", "excerpt", "content", "slug", "status", "user_id", "created_at", "updated_at"},
	[]string{"title", "excerpt", "content", "slug", "status", "user_id"},
	func(p *models.Post) []any {
		return []any{&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.Slug, &p.Status, &p.UserID, &p.CreatedAt, &p.UpdatedAt}
	},
)

var pagesTable = newTable("pages",
	[]string{"id", "title", "content", "slug", "status", "user_id", "topic_id", "created_at", "updated_at"},
	[]string{"title", "content", "slug", "status", "user_id", "topic_id"},
	func(p *models.Page) []any {
		return []any{&p.ID, &p.Title, &p.Content, &p.Slug, &p.Status, &p.UserID, &p.TopicID, &p.CreatedAt, &p.UpdatedAt}
	},
)

var optionsTable = newTable("options",
	[]string{"name", "value", "created_at", "updated_at"},
	[]string{"name", "value"},
	func(o *models.Option) []any {
		return []any{&o.Name, &o.Value, &o.CreatedAt, &o.UpdatedAt}
	},
)

func userID(u models.User) uuid.UUID { return u.ID }
func topicID(t models.Topic) uuid.UUID { return t.ID }
func categoryID(c models.Category) uuid.UUID { return c.ID }
func postID(p models.Post) uuid.UUID { return p.ID }
func pageID(p models.Page) uuid.UUID { return p.ID }
