package files

import (
	"context"
	files "movienest/src/modules/files/services"
	movies "movienest/src/modules/movies/models"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MovieStore is the part of the movie service poster uploads need.
type MovieStore interface {
	Get(ctx context.Context, id uint) (*movies.Movie, error)
	SetPoster(ctx context.Context, id uint, url string) (*movies.Movie, error)
}

type Controller struct {
	service  *files.Service
	movies   MovieStore
	notifier utils.Notifier
}

func NewController(service *files.Service, movies MovieStore, notifier utils.Notifier) *Controller {
	return &Controller{service: service, movies: movies, notifier: notifier}
}

func (h *Controller) FileController(c *gin.Context) {
	filepath := c.Param("filepath")
	if filepath == "" || filepath == "/" {
		_ = c.Error(utils.BadRequest("Invalid file path"))
		return
	}

	reader, size, contentType, err := h.service.Open(c.Request.Context(), filepath)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if closer, ok := reader.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	c.DataFromReader(http.StatusOK, size, contentType, reader, map[string]string{
		"Cache-Control": "public, max-age=21600",
	})
}

func (h *Controller) UploadPoster(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(utils.Validation(utils.FieldError{PropertyName: "file", ErrorMessage: "File is required"}))
		return
	}
	if _, err := h.movies.Get(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	file, err := header.Open()
	if err != nil {
		_ = c.Error(utils.BadRequest("Could not read upload"))
		return
	}
	defer file.Close()

	url, err := h.service.UploadPoster(c.Request.Context(), id, header.Filename, file, header.Size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.movies.SetPoster(c.Request.Context(), id, url)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("movie.updated", id)
	c.JSON(http.StatusOK, res)
}
