package upcoming

import (
	catalog "movienest/src/modules/movies/lib"
	lib "movienest/src/modules/upcoming/lib"
	upcoming "movienest/src/modules/upcoming/services"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service  *upcoming.Service
	notifier utils.Notifier
}

func NewController(service *upcoming.Service, notifier utils.Notifier) *Controller {
	return &Controller{service: service, notifier: notifier}
}

func (h *Controller) ListUpcoming(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) GetUpcoming(c *gin.Context) {
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

func (h *Controller) CreateUpcoming(c *gin.Context) {
	var req lib.UpcomingRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("upcoming.created", res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Controller) UpdateUpcoming(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req lib.UpcomingRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("upcoming.updated", id)
	c.JSON(http.StatusOK, res)
}

func (h *Controller) DeleteUpcoming(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("upcoming.deleted", id)
	c.Status(http.StatusNoContent)
}

func (h *Controller) SearchUpcoming(c *gin.Context) {
	filter, err := catalog.FilterFromQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) ListGenres(c *gin.Context) {
	res, err := h.service.Genres(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) ListYears(c *gin.Context) {
	res, err := h.service.Years(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) ListReleasingSoon(c *gin.Context) {
	res, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
