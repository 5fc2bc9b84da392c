package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

type stubFavoritesService struct {
	favorite  *models.Favorite
	favorited bool
	err       error
}

func (s stubFavoritesService) List(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Favorite{}, nil
}

func (s stubFavoritesService) Add(ctx context.Context, userID, productID uuid.UUID) (*models.Favorite, error) {
	return s.favorite, s.err
}

func (s stubFavoritesService) IsFavorited(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return s.favorited, s.err
}

func (s stubFavoritesService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return s.err
}

func TestFavoriteAddDuplicateConflict(t *testing.T) {
	handler := FavoriteAdd(stubFavoritesService{err: pkgerrors.New(pkgerrors.CodeConflict, "already favorited")}, nil)

	body := `{"productId":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/favorites", body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestFavoriteAddCreated(t *testing.T) {
	fav := &models.Favorite{ID: uuid.New()}
	handler := FavoriteAdd(stubFavoritesService{favorite: fav}, nil)

	body := `{"productId":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/favorites", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestFavoriteCheckReportsStatus(t *testing.T) {
	handler := FavoriteCheck(stubFavoritesService{favorited: true}, nil)

	req := authedRequest(http.MethodGet, "/favorites/check/x", "")
	req = withChiParam(req, "productId", uuid.NewString())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data["isFavorited"] {
		t.Fatal("expected isFavorited true")
	}
}

func TestFavoriteRemoveMissing(t *testing.T) {
	handler := FavoriteRemove(stubFavoritesService{err: pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")}, nil)

	req := authedRequest(http.MethodDelete, "/favorites/x", "")
	req = withChiParam(req, "productId", uuid.NewString())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
