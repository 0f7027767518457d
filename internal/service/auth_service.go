package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"
	"github.com/justinong00/mern-dormguru-sub000/internal/sanitize"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users  *repository.UserRepository
	tokens *TokenIssuer
	log    *zap.Logger
}

type RegisterUserData struct {
	Name       string `json:"name" validate:"required,min=2,max=60"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Country    string `json:"country" validate:"max=60"`
	ProfilePic string `json:"profilePic" validate:"omitempty,url"`
}

// UpdateUserData holds the optional fields of a profile update. Changing the
// password requires OldPassword to match the stored hash.
type UpdateUserData struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=60"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Country     *string `json:"country" validate:"omitempty,max=60"`
	ProfilePic  *string `json:"profilePic" validate:"omitempty,url"`
	OldPassword string  `json:"oldPassword"`
	NewPassword *string `json:"newPassword" validate:"omitempty,min=6"`
}

// UserStatusData is what an admin may change on another account.
type UserStatusData struct {
	IsActive *bool `json:"isActive"`
	IsAdmin  *bool `json:"isAdmin"`
}

func NewAuthService(users *repository.UserRepository, tokens *TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// ================== REGISTER & LOGIN ==================

// Register creates an active, non-admin account.
func (s *AuthService) Register(ctx context.Context, data RegisterUserData) (*models.User, error) {
	data.Email = normalizeEmail(data.Email)
	data.Name = sanitize.Text(data.Name)
	if err := validateStruct(data); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &models.User{
		Name:       data.Name,
		Email:      data.Email,
		Password:   string(hash),
		Country:    sanitize.Text(data.Country),
		IsAdmin:    false,
		IsActive:   true,
		ProfilePic: data.ProfilePic,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("user registered", zap.String("userID", u.ID.Hex()))
	return u, nil
}

// Login checks the credentials and returns a signed token. An unknown email
// and a wrong password fail with different messages.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, validationErr("email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrUnknownEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidPassword
	}
	if !u.IsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ================== CURRENT USER ==================

// GetUserByID returns the user or ErrUserNotFound.
func (s *AuthService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateCurrent applies a profile update to the caller's own account.
func (s *AuthService) UpdateCurrent(ctx context.Context, id primitive.ObjectID, data UpdateUserData) (*models.User, error) {
	if data.Email != nil {
		e := normalizeEmail(*data.Email)
		data.Email = &e
	}
	data.Name = cleanText(data.Name)
	data.Country = cleanText(data.Country)
	if err := validateStruct(data); err != nil {
		return nil, err
	}

	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if data.Name != nil {
		if *data.Name == "" {
			return nil, validationErr("name cannot be empty")
		}
		set["name"] = *data.Name
	}
	if data.Email != nil && *data.Email != u.Email {
		other, err := s.users.FindByEmail(ctx, *data.Email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrEmailTaken
		}
		set["email"] = *data.Email
	}
	if data.Country != nil {
		set["country"] = *data.Country
	}
	if data.ProfilePic != nil {
		set["profilePic"] = *data.ProfilePic
	}
	if data.NewPassword != nil {
		if data.OldPassword == "" {
			return nil, validationErr("oldPassword is required to set a new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(data.OldPassword)); err != nil {
			return nil, ErrWrongOldPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*data.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		set["password"] = string(hash)
	}

	if len(set) == 0 {
		return u, nil
	}
	set["updatedAt"] = time.Now().UTC()

	updated, err := s.users.UpdateByID(ctx, id, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// ================== ADMIN ==================

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// SetUserStatus activates/deactivates an account or changes its admin flag.
// Admins cannot change their own status.
func (s *AuthService) SetUserStatus(ctx context.Context, actor, target primitive.ObjectID, data UserStatusData) (*models.User, error) {
	if data.IsActive == nil && data.IsAdmin == nil {
		return nil, validationErr("isActive or isAdmin is required")
	}
	if actor == target {
		return nil, validationErr("cannot change your own status")
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if data.IsActive != nil {
		set["isActive"] = *data.IsActive
	}
	if data.IsAdmin != nil {
		set["isAdmin"] = *data.IsAdmin
	}

	u, err := s.users.UpdateByID(ctx, target, set)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	s.log.Info("user status changed",
		zap.String("actor", actor.Hex()),
		zap.String("userID", target.Hex()),
		zap.Bool("isActive", u.IsActive),
		zap.Bool("isAdmin", u.IsAdmin),
	)
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
