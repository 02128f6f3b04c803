package movies

import (
	lib "movienest/src/modules/movies/lib"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Controller) SearchMovies(c *gin.Context) {
	filter, err := lib.FilterFromQuery(c)
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

func (h *Controller) Dropdown(c *gin.Context) {
	res, err := h.service.Dropdown(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
