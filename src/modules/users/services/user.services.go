package users

import (
	"context"
	"errors"
	"movienest/src/auth"
	lists "movienest/src/modules/lists/services"
	lib "movienest/src/modules/users/lib"
	users "movienest/src/modules/users/models"
	"movienest/src/utils"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentials = "Invalid credentials."

type Service struct {
	db        *gorm.DB
	issuer    *auth.Issuer
	watchlist *lists.WatchlistService
	favorites *lists.FavoriteService
}

func NewService(db *gorm.DB, issuer *auth.Issuer) *Service {
	return &Service{
		db:        db,
		issuer:    issuer,
		watchlist: lists.NewWatchlistService(db),
		favorites: lists.NewFavoriteService(db),
	}
}

// Register creates a regular user. Admins are only made through UpdateRole
// or SeedAdmin.
func (s *Service) Register(ctx context.Context, req lib.RegisterRequest) (*lib.AuthResponse, error) {
	user, err := s.create(ctx, req, users.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.authenticate(user)
}

func (s *Service) create(ctx context.Context, req lib.RegisterRequest, role string) (*users.User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if err := s.checkUnique(ctx, username, email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Internal("Could not hash password", err)
	}

	user := users.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Age:          req.Age,
		Email:        email,
		Role:         role,
		Version:      1,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, utils.Duplicate("Username or email already exists")
		}
		return nil, err
	}
	return &user, nil
}

// Login never says which of username or password was wrong.
func (s *Service) Login(ctx context.Context, req lib.LoginRequest) (*lib.AuthResponse, error) {
	var user users.User
	err := s.db.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(req.Username))).First(&user).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.Unauthorized(invalidCredentials)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, utils.Unauthorized(invalidCredentials)
	}
	return s.authenticate(&user)
}

func (s *Service) authenticate(user *users.User) (*lib.AuthResponse, error) {
	token, err := s.issuer.Issue(auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		return nil, utils.Internal("Could not issue token", err)
	}
	return &lib.AuthResponse{User: user, Token: token}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*users.User, error) {
	var user users.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("User %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) List(ctx context.Context) ([]users.User, error) {
	return s.Search(ctx, lib.Filter{})
}

func (s *Service) Search(ctx context.Context, f lib.Filter) ([]users.User, error) {
	q := s.db.WithContext(ctx).Model(&users.User{})
	contains := func(column, value string) {
		if value = strings.TrimSpace(value); value != "" {
			q = q.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", "%"+utils.EscapeLike(strings.ToLower(value))+"%")
		}
	}
	contains("username", f.Username)
	contains("email", f.Email)
	contains("full_name", f.FullName)

	out := []users.User{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the profile of user id on behalf of actor.
func (s *Service) Update(ctx context.Context, actor auth.Principal, id uint, req lib.UpdateRequest) (*users.User, error) {
	if req.UserID != 0 && req.UserID != id {
		return nil, utils.BadRequest("User ID mismatch")
	}
	if !actor.CanActFor(id) {
		return nil, utils.Forbidden("You can only update your own profile")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if err := s.checkUnique(ctx, username, email, id); err != nil {
		return nil, err
	}

	changes := map[string]any{
		"username":  username,
		"full_name": strings.TrimSpace(req.FullName),
		"age":       req.Age,
		"email":     email,
		"version":   gorm.Expr("version + 1"),
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, utils.Internal("Could not hash password", err)
		}
		changes["password_hash"] = string(hash)
	}
	if req.Role != "" && req.Role != current.Role {
		if !actor.IsAdmin() {
			return nil, utils.Forbidden("Only administrators can change roles")
		}
		changes["role"] = req.Role
	}

	q := s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", id)
	if req.Version != nil {
		q = q.Where("version = ?", *req.Version)
	}
	res := q.Updates(changes)
	if res.Error != nil {
		if utils.IsDuplicateKey(res.Error) {
			return nil, utils.Duplicate("Username or email already exists")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.EditConflict("User %d was modified by another request", id)
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, id uint, role string) (*users.User, error) {
	if role != users.RoleUser && role != users.RoleAdmin {
		return nil, utils.Validation(utils.FieldError{PropertyName: "role", ErrorMessage: "Role must be either 'user' or 'admin'"})
	}
	res := s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).
		Updates(map[string]any{"role": role, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.NotFound("User %d not found", id)
	}
	return s.Get(ctx, id)
}

// Delete removes the user and their watchlist and favorites.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		watched, err := s.watchlist.DeleteByUser(tx, id)
		if err != nil {
			return err
		}
		favs, err := s.favorites.DeleteByUser(tx, id)
		if err != nil {
			return err
		}
		res := tx.Delete(&users.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NotFound("User %d not found", id)
		}
		log.Info().Uint("user_id", id).Int64("watchlist", watched).Int64("favorites", favs).Msg("[Users] deleted user")
		return nil
	})
}

func (s *Service) Dropdown(ctx context.Context) ([]lib.UserOption, error) {
	options := []lib.UserOption{}
	err := s.db.WithContext(ctx).Model(&users.User{}).
		Select("id AS user_id", "username").
		Order("username").
		Scan(&options).Error
	return options, err
}

// SeedAdmin makes sure an admin account named username exists. An existing
// account keeps its password.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) (*users.User, error) {
	var existing users.User
	err := s.db.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(username)).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return &existing, nil
		}
		return s.UpdateRole(ctx, existing.ID, users.RoleAdmin)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return s.create(ctx, lib.RegisterRequest{Username: username, Password: password}, users.RoleAdmin)
}

func (s *Service) checkUnique(ctx context.Context, username string, email *string, exceptID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&users.User{}).Where("LOWER(username) = ?", strings.ToLower(username))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.Duplicate("Username '%s' already exists", username)
	}

	if email == nil {
		return nil
	}
	q = s.db.WithContext(ctx).Model(&users.User{}).Where("LOWER(email) = ?", strings.ToLower(*email))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.Duplicate("Email '%s' already exists", *email)
	}
	return nil
}

// normalizeEmail maps blank emails to NULL so they never collide on the
// unique index.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
