package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stayhub/internal/domain"
)

const bcryptCost = 10

// AuthService handles accounts and sessions: registration, login,
// password changes and admin-only user management. User records share the
// whole-collection store model with hotels.
type AuthService struct {
	mu     sync.Mutex
	users  domain.UserStore
	tokens domain.TokenIssuer
}

func NewAuthService(s domain.UserStore, t domain.TokenIssuer) *AuthService {
	return &AuthService{users: s, tokens: t}
}

type RegisterInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	RealName string      `json:"realName"`
	Role     domain.Role `json:"role"`
	Phone    string      `json:"phone"`
	Email    string      `json:"email"`
}

type UpdateUserInput struct {
	RealName *string `json:"realName"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
}

func newUserID() string { return "user-" + uuid.NewString() }

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.SafeUser, string, error) {
	switch {
	case in.Username == "":
		return domain.SafeUser{}, "", fmt.Errorf("%w: username is required", domain.ErrValidation)
	case in.Password == "":
		return domain.SafeUser{}, "", fmt.Errorf("%w: password is required", domain.ErrValidation)
	case in.RealName == "":
		return domain.SafeUser{}, "", fmt.Errorf("%w: realName is required", domain.ErrValidation)
	case !in.Role.Valid():
		return domain.SafeUser{}, "", fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return domain.SafeUser{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return domain.SafeUser{}, "", err
	}
	for _, u := range users {
		if u.Username == in.Username {
			return domain.SafeUser{}, "", fmt.Errorf("%w: username %q is taken", domain.ErrConflict, in.Username)
		}
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           newUserID(),
		Username:     in.Username,
		PasswordHash: string(hash),
		RealName:     in.RealName,
		Role:         in.Role,
		Phone:        in.Phone,
		Email:        in.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	users = append(users, u)
	if err := s.users.WriteAll(ctx, users); err != nil {
		return domain.SafeUser{}, "", err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return domain.SafeUser{}, "", err
	}
	return u.Safe(), token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.SafeUser, string, error) {
	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return domain.SafeUser{}, "", err
	}
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			break
		}
		token, err := s.tokens.Issue(u.ID)
		if err != nil {
			return domain.SafeUser{}, "", err
		}
		return u.Safe(), token, nil
	}
	// Same answer for unknown user and wrong password.
	return domain.SafeUser{}, "", fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
}

// Authenticate resolves a bearer token into the acting identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
	}
	return domain.Actor{ID: u.ID, Role: u.Role}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (domain.SafeUser, error) {
	u, err := s.findByID(ctx, id)
	if err != nil {
		return domain.SafeUser{}, err
	}
	return u.Safe(), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actorID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID != actorID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(oldPassword)) != nil {
			return fmt.Errorf("%w: old password is incorrect", domain.ErrUnauthorized)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
		if err != nil {
			return err
		}
		users[i].PasswordHash = string(hash)
		users[i].UpdatedAt = time.Now().UTC()
		return s.users.WriteAll(ctx, users)
	}
	return fmt.Errorf("%w: user %s", domain.ErrNotFound, actorID)
}

func (s *AuthService) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.SafeUser, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: listing users requires the admin role", domain.ErrForbidden)
	}
	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SafeUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Safe())
	}
	return out, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, actor domain.Actor, id string, in UpdateUserInput) (domain.SafeUser, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return domain.SafeUser{}, fmt.Errorf("%w: cannot edit another user", domain.ErrForbidden)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return domain.SafeUser{}, err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if in.RealName != nil {
			users[i].RealName = *in.RealName
		}
		if in.Phone != nil {
			users[i].Phone = *in.Phone
		}
		if in.Email != nil {
			users[i].Email = *in.Email
		}
		if in.Avatar != nil {
			users[i].Avatar = *in.Avatar
		}
		users[i].UpdatedAt = time.Now().UTC()
		if err := s.users.WriteAll(ctx, users); err != nil {
			return domain.SafeUser{}, err
		}
		return users[i].Safe(), nil
	}
	return domain.SafeUser{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
}

func (s *AuthService) DeleteUser(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: deleting users requires the admin role", domain.ErrForbidden)
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return err
	}
	kept := users[:0:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return s.users.WriteAll(ctx, kept)
}

func (s *AuthService) findByID(ctx context.Context, id string) (domain.User, error) {
	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
}
