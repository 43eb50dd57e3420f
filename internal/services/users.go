package services

import (
	"context"
	"fmt"

	"blogicum/internal/cache"
	"blogicum/internal/forms"
	"blogicum/internal/models"
	"blogicum/internal/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewUserService(db *gorm.DB, c cache.Cache) *UserService {
	if c == nil {
		c = cache.Nop{}
	}
	return &UserService{db: db, cache: c}
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound("load user", err)
	}
	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound("load user", err)
	}
	return &user, nil
}

func (s *UserService) usernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check username %s: %w", username, err)
	}
	return count > 0, nil
}

func usernameTakenError() forms.Errors {
	return forms.Errors{"username": "A user with that username already exists."}
}

// Register creates an account with a hashed password.
func (s *UserService) Register(ctx context.Context, form *forms.RegistrationForm) (*models.User, error) {
	taken, err := s.usernameTaken(ctx, form.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, usernameTakenError()
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// a concurrent sign-up may have claimed the name after the check
		if taken, _ := s.usernameTaken(ctx, form.Username, 0); taken {
			return nil, usernameTakenError()
		}
		return nil, fmt.Errorf("create user %s: %w", form.Username, err)
	}
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err == ErrNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile edits the actor's own record; there is no way to target
// another user.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, form *forms.ProfileForm) (*models.User, error) {
	taken, err := s.usernameTaken(ctx, form.Username, actor.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, usernameTakenError()
	}

	updates := map[string]interface{}{
		"username":   form.Username,
		"first_name": form.FirstName,
		"last_name":  form.LastName,
		"email":      form.Email,
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", actor.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile of user %d: %w", actor.ID, err)
	}
	// listings embed author names
	s.cache.Invalidate(ctx)
	return s.Get(ctx, actor.ID)
}
