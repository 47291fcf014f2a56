package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type fakeUserStore struct {
	users []domain.User
}

func (f *fakeUserStore) ReadAll(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeUserStore) WriteAll(ctx context.Context, users []domain.User) error {
	f.users = make([]domain.User, len(users))
	copy(f.users, users)
	return nil
}

// fakeIssuer mints reversible tokens so tests can assert on sessions without
// real signing.
type fakeIssuer struct{}

func (fakeIssuer) Issue(userID string) (string, error) { return "tok:" + userID, nil }

func (fakeIssuer) Verify(token string) (string, error) {
	if len(token) > 4 && token[:4] == "tok:" {
		return token[4:], nil
	}
	return "", fmt.Errorf("malformed token")
}

func newAuth(t *testing.T) (*app.AuthService, *fakeUserStore) {
	t.Helper()
	store := &fakeUserStore{}
	return app.NewAuthService(store, fakeIssuer{}), store
}

func register(t *testing.T, svc *app.AuthService, username string, role domain.Role) domain.SafeUser {
	t.Helper()
	u, _, err := svc.Register(context.Background(), app.RegisterInput{
		Username: username,
		Password: "secret123",
		RealName: "Test " + username,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store := newAuth(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, app.RegisterInput{
		Username: "alice", Password: "secret123", RealName: "Alice", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" || u.ID == "" || u.Role != domain.RoleUser {
		t.Fatalf("session: token=%q user=%+v", token, u)
	}
	if store.users[0].PasswordHash == "secret123" {
		t.Fatal("password must be stored hashed")
	}

	got, token2, err := svc.Login(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || token2 == "" {
		t.Fatalf("login session: %+v", got)
	}

	if _, _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "secret123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown user: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	cases := []app.RegisterInput{
		{Password: "x", RealName: "X", Role: domain.RoleUser},
		{Username: "x", RealName: "X", Role: domain.RoleUser},
		{Username: "x", Password: "x", Role: domain.RoleUser},
		{Username: "x", Password: "x", RealName: "X", Role: "superuser"},
	}
	for i, in := range cases {
		if _, _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: %v", i, err)
		}
	}

	register(t, svc, "bob", domain.RoleUser)
	_, _, err := svc.Register(ctx, app.RegisterInput{
		Username: "bob", Password: "other", RealName: "Bob 2", Role: domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate username: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	u := register(t, svc, "carol", domain.RoleHotelAdmin)

	actor, err := svc.Authenticate(ctx, "tok:"+u.ID)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if actor.ID != u.ID || actor.Role != domain.RoleHotelAdmin {
		t.Fatalf("actor: %+v", actor)
	}

	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("bad token: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "tok:user-deleted"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("token for unknown user: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	u := register(t, svc, "dave", domain.RoleUser)

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "newpass"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong old password: %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "secret123", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty new password: %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "secret123", "newpass"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "dave", "newpass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "dave", "secret123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("old password must stop working: %v", err)
	}
}

func TestUserAdmin(t *testing.T) {
	svc, store := newAuth(t)
	ctx := context.Background()

	adminUser := register(t, svc, "root", domain.RoleAdmin)
	plain := register(t, svc, "erin", domain.RoleUser)

	adminActor := domain.Actor{ID: adminUser.ID, Role: adminUser.Role}
	plainActor := domain.Actor{ID: plain.ID, Role: plain.Role}

	if _, err := svc.ListUsers(ctx, plainActor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin list: %v", err)
	}
	users, err := svc.ListUsers(ctx, adminActor)
	if err != nil || len(users) != 2 {
		t.Fatalf("admin list: %v, %d users", err, len(users))
	}

	name := "Erin Updated"
	if _, err := svc.UpdateUser(ctx, plainActor, adminUser.ID, app.UpdateUserInput{RealName: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("editing another user: %v", err)
	}
	got, err := svc.UpdateUser(ctx, plainActor, plain.ID, app.UpdateUserInput{RealName: &name})
	if err != nil || got.RealName != name {
		t.Fatalf("self edit: %v, %+v", err, got)
	}

	if err := svc.DeleteUser(ctx, plainActor, adminUser.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin delete: %v", err)
	}
	if err := svc.DeleteUser(ctx, adminActor, adminUser.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self delete: %v", err)
	}
	if err := svc.DeleteUser(ctx, adminActor, plain.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("store after delete: %d users", len(store.users))
	}
}
