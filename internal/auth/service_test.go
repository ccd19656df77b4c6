package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

type staticStore struct {
	rec *CredentialRecord
	err error

	calls int
}

func (s *staticStore) FindByEmail(ctx context.Context, email string) (*CredentialRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

func newTestService(t *testing.T, store Store, opts ...ServiceOption) *Service {
	t.Helper()
	svc, err := NewService(store, []byte("test-secret"), opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(&staticStore{}, nil); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestLoginIssuesTokenWithSourceTableRole(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &staticStore{rec: &CredentialRecord{
		ID:           42,
		Email:        "prof@example.edu",
		PasswordHash: hash,
		Role:         RoleProfessor,
	}}
	svc := newTestService(t, store)

	token, identity, expiresAt, err := svc.Login(context.Background(), "Prof@Example.edu ", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if identity.UserID != 42 || identity.Role != RoleProfessor {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	decoded, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if decoded != identity {
		t.Fatalf("decoded identity %+v differs from issued %+v", decoded, identity)
	}
}

func TestLoginRejectsMissingInputBeforeStorage(t *testing.T) {
	store := &staticStore{err: errors.New("store must not be reached")}
	svc := newTestService(t, store)

	for _, tc := range []struct{ email, password string }{
		{"", "secret"},
		{"user@example.edu", ""},
		{"", ""},
	} {
		if _, _, _, err := svc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, ErrMissingInput) {
			t.Fatalf("Login(%q,%q): expected ErrMissingInput, got %v", tc.email, tc.password, err)
		}
	}
	if store.calls != 0 {
		t.Fatalf("store was queried %d times for missing input", store.calls)
	}
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	hash, _ := HashPassword("right-password")

	unknown := newTestService(t, &staticStore{err: ErrNotFound})
	_, _, _, errUnknown := unknown.Login(context.Background(), "ghost@example.edu", "whatever")

	mismatch := newTestService(t, &staticStore{rec: &CredentialRecord{
		ID: 7, Email: "real@example.edu", PasswordHash: hash, Role: RoleStudent,
	}})
	_, _, _, errMismatch := mismatch.Login(context.Background(), "real@example.edu", "wrong-password")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errMismatch, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errUnknown, errMismatch)
	}
	if errUnknown.Error() != errMismatch.Error() {
		t.Fatalf("error text differs: %q vs %q", errUnknown, errMismatch)
	}
}

func TestLoginStoreFailureIsNotACredentialError(t *testing.T) {
	svc := newTestService(t, &staticStore{err: errors.New("connection refused")})
	_, _, _, err := svc.Login(context.Background(), "user@example.edu", "secret")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrMissingInput) {
		t.Fatalf("infrastructure failure leaked as client error: %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	store := &staticStore{}
	issued := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, store, WithClock(func() time.Time { return issued }))

	token, _, err := svc.IssueToken(Identity{UserID: 5, Role: RoleStudent})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Same secret, clock moved past the expiry window.
	late := newTestService(t, store, WithClock(func() time.Time { return issued.Add(2 * time.Hour) }))
	if _, err := late.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	// Just inside the window it still verifies.
	fresh := newTestService(t, store, WithClock(func() time.Time { return issued.Add(59 * time.Minute) }))
	if _, err := fresh.VerifyToken(token); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	store := &staticStore{}
	svc := newTestService(t, store)

	other, err := NewService(store, []byte("different-secret"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, _, err := other.IssueToken(Identity{UserID: 9, Role: RoleProfessor})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t, &staticStore{})
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("VerifyToken(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestPGStoreFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := NewPGStore(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password", "role"}).
		AddRow(int64(3), "student@example.edu", "$2a$10$hash", "student")
	mock.ExpectQuery("select id, email, password, 'student' as role from students").
		WithArgs("student@example.edu").
		WillReturnRows(rows)

	rec, err := store.FindByEmail(context.Background(), "student@example.edu")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if rec.ID != 3 || rec.Role != RoleStudent {
		t.Fatalf("unexpected record: %+v", rec)
	}

	mock.ExpectQuery("select id, email, password, 'student' as role from students").
		WithArgs("ghost@example.edu").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.FindByEmail(context.Background(), "ghost@example.edu"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityContextRoundtrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatal("identity found on empty context")
	}
	want := Identity{UserID: 11, Role: RoleProfessor}
	ctx = ContextWithIdentity(ctx, want)
	got, ok := IdentityFromContext(ctx)
	if !ok || got != want {
		t.Fatalf("unexpected identity: %+v, ok=%v", got, ok)
	}
}
