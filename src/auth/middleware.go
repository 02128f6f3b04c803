package auth

import (
	"context"
	users "movienest/src/modules/users/models"
	"movienest/src/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Accounts resolves a token's subject to its current account. Get returns a
// NotFound ServiceError for deleted users.
type Accounts interface {
	Get(ctx context.Context, id uint) (*users.User, error)
}

// RequireAuth rejects requests without a valid bearer token. The role and
// username come from the stored account, not the token, so a demotion or a
// deletion applies to tokens already issued.
func RequireAuth(issuer *Issuer, accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := bearer(c, issuer)
		if !ok {
			_ = c.Error(utils.Unauthorized("Authentication required"))
			c.Abort()
			return
		}
		user, err := accounts.Get(c.Request.Context(), p.UserID)
		if err != nil {
			if utils.IsKind(err, utils.KindNotFound) {
				err = utils.Unauthorized("Authentication required")
			}
			_ = c.Error(err)
			c.Abort()
			return
		}
		p.Username, p.Role = user.Username, user.Role
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := Current(c)
		if !ok {
			_ = c.Error(utils.Unauthorized("Authentication required"))
			c.Abort()
			return
		}
		if !p.IsAdmin() {
			_ = c.Error(utils.Forbidden("Administrator role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Current returns the principal attached by RequireAuth.
func Current(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// ActFor fails unless the caller is userID or an admin.
func ActFor(c *gin.Context, userID uint) error {
	p, ok := Current(c)
	if !ok {
		return utils.Unauthorized("Authentication required")
	}
	if !p.CanActFor(userID) {
		return utils.Forbidden("You can only manage your own lists")
	}
	return nil
}

func bearer(c *gin.Context, issuer *Issuer) (Principal, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return Principal{}, false
	}
	p, err := issuer.Parse(strings.TrimSpace(token))
	if err != nil {
		return Principal{}, false
	}
	return p, true
}
