package users

import (
	"movienest/src/auth"
	listmodels "movienest/src/modules/lists/models"
	lists "movienest/src/modules/lists/services"
	lib "movienest/src/modules/users/lib"
	users "movienest/src/modules/users/services"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type Controller struct {
	service   *users.Service
	watchlist *lists.WatchlistService
	favorites *lists.FavoriteService
	notifier  utils.Notifier
}

func NewController(service *users.Service, watchlist *lists.WatchlistService, favorites *lists.FavoriteService, notifier utils.Notifier) *Controller {
	return &Controller{service: service, watchlist: watchlist, favorites: favorites, notifier: notifier}
}

func (h *Controller) Register(c *gin.Context) {
	var req lib.RegisterRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("user.created", res.User.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Controller) Login(c *gin.Context) {
	var req lib.LoginRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) ListUsers(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) GetUser(c *gin.Context) {
	id, ok := h.self(c)
	if !ok {
		return
	}
	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller) UpdateUser(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req lib.UpdateRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	actor, _ := auth.Current(c)
	res, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("user.updated", id)
	c.JSON(http.StatusOK, res)
}

func (h *Controller) UpdateRole(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req lib.RoleRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.service.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("user.updated", id)
	c.JSON(http.StatusOK, res)
}

func (h *Controller) DeleteUser(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish("user.deleted", id)
	c.Status(http.StatusNoContent)
}

func (h *Controller) SearchUsers(c *gin.Context) {
	res, err := h.service.Search(c.Request.Context(), lib.Filter{
		Username: c.Query("username"),
		Email:    c.Query("email"),
		FullName: c.Query("fullName"),
	})
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

// UserLists returns the watchlist and favorites of one user in one call.
func (h *Controller) UserLists(c *gin.Context) {
	id, ok := h.self(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.service.Get(ctx, id); err != nil {
		_ = c.Error(err)
		return
	}

	var (
		watchlist []listmodels.WatchlistEntry
		favorites []listmodels.FavoriteEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		watchlist, err = h.watchlist.ListByUser(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		favorites, err = h.favorites.ListByUser(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": id, "watchlist": watchlist, "favorites": favorites})
}

func (h *Controller) self(c *gin.Context) (uint, bool) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return 0, false
	}
	if err := auth.ActFor(c, id); err != nil {
		_ = c.Error(err)
		return 0, false
	}
	return id, true
}
