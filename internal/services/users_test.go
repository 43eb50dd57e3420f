package services

import (
	"testing"

	"blogicum/internal/forms"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(ctx, &forms.RegistrationForm{Username: "alice", Email: "a@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Error("Expected password to be hashed")
	}

	if _, err := f.users.Register(ctx, &forms.RegistrationForm{Username: "alice", Password: "another-pass"}); err == nil {
		t.Error("Expected duplicate username to be rejected")
	} else if fe, ok := forms.AsErrors(err); !ok || fe["username"] == "" {
		t.Errorf("Expected username field error, got %v", err)
	}

	got, err := f.users.Authenticate(ctx, "alice", "s3cret-pass")
	if err != nil || got.ID != user.ID {
		t.Errorf("Expected authentication to succeed, got %v", err)
	}
	if _, err := f.users.Authenticate(ctx, "alice", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.users.Authenticate(ctx, "nobody", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.user(t, "bob")

	updated, err := f.users.UpdateProfile(ctx, alice, &forms.ProfileForm{
		Username: "alice2", FirstName: "Alice", LastName: "Liddell", Email: "alice@wonder.land",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Username != "alice2" || updated.FullName() != "Alice Liddell" || updated.Email != "alice@wonder.land" {
		t.Errorf("Unexpected profile %+v", updated)
	}

	if _, err := f.users.UpdateProfile(ctx, alice, &forms.ProfileForm{Username: "bob"}); err == nil {
		t.Error("Expected taken username to be rejected")
	}

	// keeping one's own username is fine
	if _, err := f.users.UpdateProfile(ctx, updated, &forms.ProfileForm{Username: "alice2"}); err != nil {
		t.Errorf("Expected unchanged username to be accepted, got %v", err)
	}
}

func TestRegisterLosingARaceReportsTakenUsername(t *testing.T) {
	f := newFixture(t)

	// another sign-up for the same name lands between the check and the insert
	raced := false
	err := f.db.Callback().Create().Before("gorm:begin_transaction").Register("test:concurrent_signup", func(tx *gorm.DB) {
		u, ok := tx.Statement.Dest.(*models.User)
		if !ok || raced || u.Username != "alice" {
			return
		}
		raced = true
		other := &models.User{Username: "alice", Password: "x"}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(other).Error; err != nil {
			t.Errorf("concurrent insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = f.users.Register(ctx, &forms.RegistrationForm{Username: "alice", Password: "s3cret-pass"})
	if !raced {
		t.Fatal("Expected the concurrent insert to run")
	}
	if fe, ok := forms.AsErrors(err); !ok || fe["username"] == "" {
		t.Errorf("Expected username field error, got %v", err)
	}
}

func TestUserQueriesSurfaceDatabaseErrors(t *testing.T) {
	f := newFixture(t)
	sqlDB, err := f.db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	_, err = f.users.Register(ctx, &forms.RegistrationForm{Username: "alice", Password: "s3cret-pass"})
	if err == nil {
		t.Fatal("Expected an error from a closed database")
	}
	if _, ok := forms.AsErrors(err); ok {
		t.Errorf("Expected a database error, not a field error: %v", err)
	}
}
