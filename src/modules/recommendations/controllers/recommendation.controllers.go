package recommendations

import (
	lib "movienest/src/modules/recommendations/lib"
	recommendations "movienest/src/modules/recommendations/services"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service  *recommendations.Service
	notifier utils.Notifier
}

func NewController(service *recommendations.Service, notifier utils.Notifier) *Controller {
	return &Controller{service: service, notifier: notifier}
}

func (h *Controller) ListRecommended(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) GetRecommended(c *gin.Context) {
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

func (h *Controller) AddRecommended(c *gin.Context) {
	var req lib.RecommendationRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Add(c.Request.Context(), req.MovieID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("recommended.created", res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Controller) UpdateRecommended(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req lib.RecommendationRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("recommended.updated", id)
	c.JSON(http.StatusOK, res)
}

func (h *Controller) RemoveRecommended(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("recommended.deleted", id)
	c.Status(http.StatusNoContent)
}

func (h *Controller) SearchRecommended(c *gin.Context) {
	movieID, err := utils.QueryUint(c, "movieId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.SearchByMovie(c.Request.Context(), movieID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
