package movies

import (
	lib "movienest/src/modules/movies/lib"
	movies "movienest/src/modules/movies/services"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service  *movies.Service
	notifier utils.Notifier
}

func NewController(service *movies.Service, notifier utils.Notifier) *Controller {
	return &Controller{service: service, notifier: notifier}
}

func (h *Controller) ListMovies(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) GetMovie(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) CreateMovie(c *gin.Context) {
	var req lib.MovieRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("movie.created", res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Controller) UpdateMovie(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req lib.MovieRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("movie.updated", res.ID)
	c.JSON(http.StatusOK, res)
}

func (h *Controller) DeleteMovie(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("movie.deleted", id)
	c.Status(http.StatusNoContent)
}
