package users

import (
	"context"
	"errors"
	"testing"

	"adopthub/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byEmail map[string]User
	nextID  int64
}

func newTestRepo() *testRepo {
	return &testRepo{byEmail: map[string]User{}, nextID: 1}
}

func (r *testRepo) Insert(ctx context.Context, u User) (int64, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return 0, ErrEmailTaken
	}
	u.ID = r.nextID
	r.nextID++
	r.byEmail[u.Email] = u
	return u.ID, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, errRepoNotFound
	}
	return u, nil
}

// -------------------------
// Register
// -------------------------

func TestRegister_HashesPasswordAndClampsRole(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Password: "supersecret",
		Role:     "superadmin", // cualquier cosa rara termina siendo user
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if u.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Role != auth.RoleUser {
		t.Fatalf("expected role clamped to user, got %q", u.Role)
	}
	if u.PasswordHash == "supersecret" || u.PasswordHash == "" {
		t.Fatal("expected bcrypt hash, not the plain password")
	}

	admin, err := svc.Register(ctx, RegisterInput{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "supersecret",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if admin.Role != auth.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "longenough"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing name, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	in := RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "supersecret"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// -------------------------
// Login
// -------------------------

func TestLogin(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.Login(ctx, "ANA@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("unexpected user %q", u.Email)
	}

	// password incorrecta y email inexistente: mismo error, sin distinguir
	if _, err := svc.Login(ctx, "ana@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
