package service

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-desk/internal/model"
	"service-desk/internal/password"
	"service-desk/internal/token"
	"service-desk/pkg/apierror"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type AuthService struct {
	users  userStore
	tokens *token.Service
}

func NewAuthService(tokens *token.Service, users userStore) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Register creates an account and immediately issues a session token
// for it.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.PublicUser, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	if _, err := mail.ParseAddress(email); err != nil {
		return model.PublicUser{}, "", apierror.New("BAD_REQUEST", "invalid email address", "email", http.StatusBadRequest)
	}
	if len(req.Password) < 6 {
		return model.PublicUser{}, "", apierror.New("BAD_REQUEST", "password must be at least 6 characters", "password", http.StatusBadRequest)
	}
	if fullName == "" {
		return model.PublicUser{}, "", apierror.New("BAD_REQUEST", "full name is required", "full_name", http.StatusBadRequest)
	}

	role := model.RoleCustomer
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := model.ParseRole(strings.TrimSpace(req.Role))
		if !ok {
			return model.PublicUser{}, "", apierror.New("BAD_REQUEST", "invalid role", req.Role, http.StatusBadRequest)
		}
		role = parsed
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, "", err
	}
	if exists {
		return model.PublicUser{}, "", apierror.New("BAD_REQUEST", "email already registered", "", http.StatusBadRequest)
	}

	digest, err := password.Hash(req.Password)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: digest,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.PublicUser{}, "", err
	}

	sessionToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	return user.Public(), sessionToken, nil
}

// Login checks credentials and issues a session token. Unknown email,
// wrong password and inactive account all fail with the same error so
// responses cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email string, plainPassword string) (model.PublicUser, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return model.PublicUser{}, "", model.ErrInvalidCredentials
	}
	if !user.IsActive {
		return model.PublicUser{}, "", model.ErrInvalidCredentials
	}
	if !password.Verify(plainPassword, user.PasswordHash) {
		return model.PublicUser{}, "", model.ErrInvalidCredentials
	}

	sessionToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	return user.Public(), sessionToken, nil
}

// ResolvePrincipal turns a raw session token into the acting user. It
// runs before every protected operation and has no side effects beyond
// the user read. The returned error keeps the real failure reason for
// logging; callers answer with a generic 401 either way.
func (s *AuthService) ResolvePrincipal(ctx context.Context, rawToken string) (model.User, error) {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		return model.User{}, model.ErrUnauthorized
	}
	if !user.IsActive {
		return model.User{}, model.ErrUnauthorized
	}

	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}
