package trending

import (
	lib "movienest/src/modules/trending/lib"
	trending "movienest/src/modules/trending/services"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service  *trending.Service
	notifier utils.Notifier
}

func NewController(service *trending.Service, notifier utils.Notifier) *Controller {
	return &Controller{service: service, notifier: notifier}
}

func (h *Controller) ListTrending(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) GetTrending(c *gin.Context) {
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

func (h *Controller) CreateTrending(c *gin.Context) {
	var req lib.TrendingRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("trending.created", res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Controller) UpdateTrending(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req lib.TrendingRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("trending.updated", id)
	c.JSON(http.StatusOK, res)
}

func (h *Controller) DeleteTrending(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("trending.deleted", id)
	c.Status(http.StatusNoContent)
}

func (h *Controller) SearchTrending(c *gin.Context) {
	var (
		f   lib.Filter
		err error
	)
	if f.MovieID, err = utils.QueryUint(c, "movieId"); err != nil {
		_ = c.Error(err)
		return
	}
	if f.MinScore, err = utils.QueryFloat(c, "minScore"); err != nil {
		_ = c.Error(err)
		return
	}
	if f.MaxScore, err = utils.QueryFloat(c, "maxScore"); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Search(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) TopTrending(c *gin.Context) {
	count, err := utils.QueryInt(c, "count")
	if err != nil {
		_ = c.Error(err)
		return
	}
	n := trending.DefaultTopCount
	if count != nil {
		n = *count
	}
	res, err := h.service.Top(c.Request.Context(), n)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) ScoreRange(c *gin.Context) {
	res, err := h.service.ScoreRange(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
