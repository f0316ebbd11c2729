package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"content_hub/internal/query"
	"content_hub/internal/transport/http/dto"
	"content_hub/internal/transport/http/dto/response"
)

func (r *Routers) ListOptions(c echo.Context) error {
	const op = "http.routers.ListOptions"

	options, err := r.OptionService.List(c.Request().Context())
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(options))
}

func (r *Routers) GetOption(c echo.Context) error {
	const op = "http.routers.GetOption"

	option, err := r.OptionService.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(option))
}

func (r *Routers) SetOption(c echo.Context) error {
	const op = "http.routers.SetOption"

	var input dto.OptionInput
	if err := r.bind(c, &input); err != nil {
		return r.badRequest(c, op, err)
	}
	if len(input.Value) == 0 {
		return c.JSON(http.StatusBadRequest, response.InvalidRequest("value is required"))
	}

	option, err := r.OptionService.Set(c.Request().Context(), c.Param("name"), input.Value)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(option))
}

func (r *Routers) DeleteOptions(c echo.Context) error {
	const op = "http.routers.DeleteOptions"

	var names query.OneOrMany[string]
	if name := c.Param("name"); name != "" {
		names = query.One(name)
	} else {
		var input dto.OptionDeleteInput
		if err := c.Bind(&input); err != nil {
			return r.badRequest(c, op, err)
		}
		names = input.Names
	}

	if names.Len() == 0 {
		return c.JSON(http.StatusBadRequest, response.InvalidRequest("names are required"))
	}

	res, err := r.OptionService.Delete(c.Request().Context(), names)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Deleted(res.DeletedCount))
}
