package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"content_hub/internal/transport/http/dto/response"
)

// UploadTopicImage replaces the image of a topic with the multipart "image"
// field.
func (r *Routers) UploadTopicImage(c echo.Context) error {
	const op = "http.routers.UploadTopicImage"

	id, err := pathID(c)
	if err != nil {
		return r.badRequest(c, op, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.InvalidRequest("image file is required"))
	}

	topic, err := r.TopicService.SetImage(c.Request().Context(), id, file)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(topic))
}
