package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"content_hub/internal/query"
	"content_hub/internal/transport/http/dto"
	"content_hub/internal/transport/http/dto/response"
)

// entityHandlers wires one EntityService to echo. prepare, when set, fills
// input fields derived from the request, e.g. the author.
type entityHandlers[T, I any] struct {
	r       *Routers
	name    string
	svc     EntityService[T, I]
	prepare func(c echo.Context, input *I)
}

func (h entityHandlers[T, I]) List(c echo.Context) error {
	op := "http.routers.List" + h.name

	p, err := h.r.listParams(c)
	if err != nil {
		return h.r.badRequest(c, op, err)
	}

	page, err := h.svc.List(c.Request().Context(), p)
	if err != nil {
		return h.r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.List(page.Count, page.Rows))
}

func (h entityHandlers[T, I]) Get(c echo.Context) error {
	op := "http.routers.Get" + h.name

	id, err := pathID(c)
	if err != nil {
		return h.r.badRequest(c, op, err)
	}

	row, err := h.svc.Get(c.Request().Context(), id, c.QueryParam("include"))
	if err != nil {
		return h.r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(row))
}

func (h entityHandlers[T, I]) Create(c echo.Context) error {
	op := "http.routers.Create" + h.name

	var input I
	if err := h.r.bind(c, &input); err != nil {
		return h.r.badRequest(c, op, err)
	}
	if h.prepare != nil {
		h.prepare(c, &input)
	}

	row, err := h.svc.Create(c.Request().Context(), input)
	if err != nil {
		return h.r.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(row))
}

func (h entityHandlers[T, I]) Update(c echo.Context) error {
	op := "http.routers.Update" + h.name

	id, err := pathID(c)
	if err != nil {
		return h.r.badRequest(c, op, err)
	}

	var input I
	if err := h.r.bind(c, &input); err != nil {
		return h.r.badRequest(c, op, err)
	}
	if h.prepare != nil {
		h.prepare(c, &input)
	}

	row, err := h.svc.Update(c.Request().Context(), id, input)
	if err != nil {
		return h.r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(row))
}

// Delete accepts the id in the path or one or many ids in the body.
func (h entityHandlers[T, I]) Delete(c echo.Context) error {
	op := "http.routers.Delete" + h.name

	var ids query.OneOrMany[uuid.UUID]
	if c.Param("id") != "" {
		id, err := pathID(c)
		if err != nil {
			return h.r.badRequest(c, op, err)
		}
		ids = query.One(id)
	} else {
		var input dto.DeleteInput
		if err := c.Bind(&input); err != nil {
			return h.r.badRequest(c, op, err)
		}
		ids = input.IDs
	}

	if ids.Len() == 0 {
		return c.JSON(http.StatusBadRequest, response.InvalidRequest("ids are required"))
	}

	res, err := h.svc.Delete(c.Request().Context(), ids)
	if err != nil {
		return h.r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Deleted(res.DeletedCount))
}
