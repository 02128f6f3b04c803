package lists

import (
	"movienest/src/auth"
	lib "movienest/src/modules/lists/lib"
	models "movienest/src/modules/lists/models"
	lists "movienest/src/modules/lists/services"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller serves one per-user list. Regular users only ever see and
// change their own entries.
type Controller[E any, P lists.Entry[E]] struct {
	service  *lists.Service[E, P]
	notifier utils.Notifier
}

type (
	WatchlistController = Controller[models.WatchlistEntry, *models.WatchlistEntry]
	FavoriteController  = Controller[models.FavoriteEntry, *models.FavoriteEntry]
)

func NewController[E any, P lists.Entry[E]](service *lists.Service[E, P], notifier utils.Notifier) *Controller[E, P] {
	return &Controller[E, P]{service: service, notifier: notifier}
}

func (h *Controller[E, P]) ListEntries(c *gin.Context) {
	h.search(c, nil)
}

func (h *Controller[E, P]) SearchEntries(c *gin.Context) {
	movieID, err := utils.QueryUint(c, "movieId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.search(c, movieID)
}

func (h *Controller[E, P]) search(c *gin.Context, movieID *uint) {
	userID, err := utils.QueryUint(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	p, _ := auth.Current(c)
	if !p.IsAdmin() {
		if userID != nil && *userID != p.UserID {
			_ = c.Error(utils.Forbidden("You can only manage your own lists"))
			return
		}
		userID = &p.UserID
	}

	res, err := h.service.Search(c.Request.Context(), userID, movieID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Controller[E, P]) GetEntry(c *gin.Context) {
	item, ok := h.owned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Controller[E, P]) AddEntry(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	item, err := h.service.Add(c.Request.Context(), req.UserID, req.MovieID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish(h.service.Noun()+".created", P(item).EntryID())
	c.JSON(http.StatusCreated, item)
}

func (h *Controller[E, P]) UpdateEntry(c *gin.Context) {
	current, ok := h.owned(c)
	if !ok {
		return
	}
	req, ok := h.bind(c)
	if !ok {
		return
	}
	id := P(current).EntryID()
	item, err := h.service.Update(c.Request.Context(), id, req.UserID, req.MovieID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish(h.service.Noun()+".updated", id)
	c.JSON(http.StatusOK, item)
}

func (h *Controller[E, P]) RemoveEntry(c *gin.Context) {
	current, ok := h.owned(c)
	if !ok {
		return
	}
	id := P(current).EntryID()
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish(h.service.Noun()+".deleted", id)
	c.Status(http.StatusNoContent)
}

// RemoveByPair handles DELETE ?userId=&movieId=.
func (h *Controller[E, P]) RemoveByPair(c *gin.Context) {
	userID, err := utils.QueryUint(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	movieID, err := utils.QueryUint(c, "movieId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if movieID == nil {
		_ = c.Error(utils.Validation(utils.FieldError{PropertyName: "movieId", ErrorMessage: "Movie ID is required"}))
		return
	}
	if userID == nil {
		p, _ := auth.Current(c)
		userID = &p.UserID
	}
	if err := auth.ActFor(c, *userID); err != nil {
		_ = c.Error(err)
		return
	}
	id, err := h.service.RemoveByPair(c.Request.Context(), *userID, *movieID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.notifier.Publish(h.service.Noun()+".deleted", id)
	c.Status(http.StatusNoContent)
}

// owned loads the entry named by the path and checks the caller may see it.
func (h *Controller[E, P]) owned(c *gin.Context) (*E, bool) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	owner, _ := P(item).Pair()
	if err := auth.ActFor(c, owner); err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return item, true
}

func (h *Controller[E, P]) bind(c *gin.Context) (lib.EntryRequest, bool) {
	var req lib.EntryRequest
	if err := utils.BindJson(c, &req); err != nil {
		_ = c.Error(err)
		return req, false
	}
	if req.UserID == 0 {
		p, _ := auth.Current(c)
		req.UserID = p.UserID
	}
	if err := auth.ActFor(c, req.UserID); err != nil {
		_ = c.Error(err)
		return req, false
	}
	return req, true
}
