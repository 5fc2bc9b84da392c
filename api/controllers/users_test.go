package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	userssvc "github.com/graamkart/graamkart-backend/internal/users"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

type stubUserService struct {
	result  *userssvc.AuthResult
	profile *userssvc.ProfileView
	err     error

	lastLogin    *userssvc.LoginInput
	lastRegister *userssvc.RegisterInput
}

func (s *stubUserService) List(ctx context.Context) ([]models.User, error) {
	return []models.User{}, s.err
}

func (s *stubUserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, s.err
}

func (s *stubUserService) Register(ctx context.Context, input userssvc.RegisterInput) (*userssvc.AuthResult, error) {
	s.lastRegister = &input
	return s.result, s.err
}

func (s *stubUserService) Login(ctx context.Context, input userssvc.LoginInput) (*userssvc.AuthResult, error) {
	s.lastLogin = &input
	return s.result, s.err
}

func (s *stubUserService) Profile(ctx context.Context, userID uuid.UUID) (*userssvc.ProfileView, error) {
	return s.profile, s.err
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input userssvc.UpdateProfileInput) (*models.User, error) {
	return nil, s.err
}

func (s *stubUserService) ChangePassword(ctx context.Context, userID uuid.UUID, input userssvc.ChangePasswordInput) error {
	return s.err
}

func (s *stubUserService) UpdateFCMToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.err
}

func (s *stubUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func TestUserLoginNormalizesEmail(t *testing.T) {
	svc := &stubUserService{result: &userssvc.AuthResult{
		User:  &models.User{ID: uuid.New()},
		Token: "token",
	}}
	handler := UserLogin(svc, nil)

	body := `{"email":"  Asha@Example.COM ","password":"secret1"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/users/login", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastLogin == nil || svc.lastLogin.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %+v", svc.lastLogin)
	}
	var envelope struct {
		Data userssvc.AuthResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "token" {
		t.Fatal("expected token in response")
	}
}

func TestUserLoginRejected(t *testing.T) {
	handler := UserLogin(&stubUserService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/users/login", `{"email":"a@b.com","password":"wrong"}`))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestUserRegisterJSON(t *testing.T) {
	svc := &stubUserService{result: &userssvc.AuthResult{
		User:  &models.User{ID: uuid.New()},
		Token: "token",
	}}
	handler := UserRegister(svc, nil)

	body := `{"name":"Asha","email":"asha@example.com","password":"secret1"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/users/register", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastRegister == nil || svc.lastRegister.Name != "Asha" {
		t.Fatalf("register input not forwarded: %+v", svc.lastRegister)
	}
}

func TestUserRegisterNormalizesPaddedEmail(t *testing.T) {
	svc := &stubUserService{result: &userssvc.AuthResult{
		User:  &models.User{ID: uuid.New()},
		Token: "token",
	}}
	handler := UserRegister(svc, nil)

	body := `{"name":"Asha","email":"  Asha@Example.COM ","password":"secret1"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/users/register", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastRegister == nil || svc.lastRegister.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %+v", svc.lastRegister)
	}
}

func TestUserRegisterShortPassword(t *testing.T) {
	handler := UserRegister(&stubUserService{}, nil)

	body := `{"name":"Asha","email":"asha@example.com","password":"abc"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/users/register", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUserProfileRequiresIdentity(t *testing.T) {
	handler := UserProfile(&stubUserService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/users/profile", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestUserProfileAggregates(t *testing.T) {
	profile := &userssvc.ProfileView{User: &models.User{ID: uuid.New(), Name: "Asha"}}
	handler := UserProfile(&stubUserService{profile: profile}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/users/profile", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
