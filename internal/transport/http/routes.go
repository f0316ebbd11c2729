package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"content_hub/internal/domain/models"
	"content_hub/internal/middleware"
	"content_hub/internal/transport/http/dto"
)

// Register mounts every route on e. Reads are public, writes need a token
// and user management needs an admin.
func (r *Routers) Register(e *echo.Echo, authn middleware.Authenticator) {
	requireAuth := middleware.Auth(authn)

	e.GET("/health", r.Healthz)

	api := e.Group("/api/v1")

	api.POST("/auth/login", r.Login)
	api.POST("/auth/logout", r.Logout, requireAuth)

	topics := entityHandlers[models.Topic, dto.TopicInput]{r: r, name: "Topic", svc: r.TopicService}
	mount(api.Group("/topics"), topics, requireAuth)
	api.PUT("/topics/:id/image", r.UploadTopicImage, requireAuth)

	posts := entityHandlers[models.Post, dto.PostInput]{
		r:       r,
		name:    "Post",
		svc:     r.PostService,
		prepare: authorOf(func(in *dto.PostInput) *uuid.UUID { return &in.UserID }),
	}
	mount(api.Group("/posts"), posts, requireAuth)

	categories := entityHandlers[models.Category, dto.CategoryInput]{r: r, name: "Category", svc: r.CategoryService}
	mount(api.Group("/categories"), categories, requireAuth)

	pages := entityHandlers[models.Page, dto.PageInput]{
		r:       r,
		name:    "Page",
		svc:     r.PageService,
		prepare: authorOf(func(in *dto.PageInput) *uuid.UUID { return &in.UserID }),
	}
	mount(api.Group("/pages"), pages, requireAuth)

	users := entityHandlers[models.User, dto.UserInput]{r: r, name: "User", svc: r.UserService}
	mount(api.Group("/users", requireAuth, middleware.AdminOnly), users)

	options := api.Group("/options")
	options.GET("", r.ListOptions)
	options.GET("/:name", r.GetOption)
	options.PUT("/:name", r.SetOption, requireAuth, middleware.AdminOnly)
	options.DELETE("/:name", r.DeleteOptions, requireAuth, middleware.AdminOnly)
	options.DELETE("", r.DeleteOptions, requireAuth, middleware.AdminOnly)
}

func mount[T, I any](g *echo.Group, h entityHandlers[T, I], write ...echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, write...)
	g.PUT("/:id", h.Update, write...)
	g.DELETE("/:id", h.Delete, write...)
	g.DELETE("", h.Delete, write...)
}

// authorOf fills an unset author id from the token.
func authorOf[I any](field func(*I) *uuid.UUID) func(echo.Context, *I) {
	return func(c echo.Context, input *I) {
		id := field(input)
		if *id != uuid.Nil {
			return
		}
		if claims, ok := middleware.Claims(c); ok {
			*id = claims.UserID
		}
	}
}
