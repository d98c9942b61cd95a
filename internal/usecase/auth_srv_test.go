package usecase

import (
	"context"
	"testing"
	"time"

	"fleet-booking/internal/data/entity"
	"fleet-booking/internal/dto/request"
	"fleet-booking/pkg/apperr"
	"fleet-booking/pkg/utils"

	"github.com/google/uuid"
)

func newAuthService(f *fixture) AuthService {
	config := &utils.Config{}
	config.Session.ExpiryHours = 24
	return NewAuthService(f.repo(), config, testLogger(), func() time.Time { return testNow })
}

func TestLogin(t *testing.T) {
	f := newFixture()
	hash, err := utils.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	f.users = append(f.users, &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Name:         "pat",
		Email:        "pat@fleet.test",
		PasswordHash: hash,
		Role:         entity.RoleRequester,
		IsActive:     true,
	})
	svc := newAuthService(f)

	resp, err := svc.Login(context.Background(), &request.LoginRequest{Email: "pat@fleet.test", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected a session token")
	}
	if len(f.sessions) != 1 {
		t.Fatalf("expected a stored session")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture()
	hash, _ := utils.HashPassword("s3cret-pass")
	f.users = append(f.users, &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Email:        "pat@fleet.test",
		PasswordHash: hash,
		IsActive:     true,
	})
	svc := newAuthService(f)

	_, err := svc.Login(context.Background(), &request.LoginRequest{Email: "pat@fleet.test", Password: "wrong"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newFixture()
	hash, _ := utils.HashPassword("s3cret-pass")
	f.users = append(f.users, &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Email:        "pat@fleet.test",
		PasswordHash: hash,
		IsActive:     false,
	})
	svc := newAuthService(f)

	_, err := svc.Login(context.Background(), &request.LoginRequest{Email: "pat@fleet.test", Password: "s3cret-pass"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for disabled account, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	f := newFixture()
	hash, _ := utils.HashPassword("s3cret-pass")
	f.users = append(f.users, &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Email:        "pat@fleet.test",
		PasswordHash: hash,
		IsActive:     true,
	})
	svc := newAuthService(f)

	resp, err := svc.Login(context.Background(), &request.LoginRequest{Email: "pat@fleet.test", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(context.Background(), resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if f.sessions[0].RevokedAt == nil {
		t.Fatalf("expected session revoked")
	}
}
