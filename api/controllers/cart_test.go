package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/graamkart/graamkart-backend/api/middleware"
	cartsvc "github.com/graamkart/graamkart-backend/internal/cart"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

type stubCartService struct {
	dto cartsvc.CartDTO
	err error

	added *cartsvc.AddItemInput
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (cartsvc.CartDTO, error) {
	s.added = &input
	return s.dto, s.err
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID uuid.UUID, input cartsvc.UpdateItemInput) (cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) (cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartGetSuccess(t *testing.T) {
	cartID := uuid.New()
	handler := CartGet(&stubCartService{dto: cartsvc.CartDTO{ID: cartID, Items: []cartsvc.ItemDTO{}}}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != cartID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
}

func TestCartGetWithoutIdentity(t *testing.T) {
	handler := CartGet(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddForwardsPayload(t *testing.T) {
	svc := &stubCartService{}
	handler := CartAdd(svc, nil)

	productID := uuid.New()
	body := `{"productId":"` + productID.String() + `","quantity":3,"variant":"1kg"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/cart/add", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.added == nil {
		t.Fatal("expected AddItem to be called")
	}
	if svc.added.ProductID != productID || svc.added.Quantity != 3 {
		t.Fatalf("unexpected input: %+v", svc.added)
	}
	if svc.added.Variant == nil || *svc.added.Variant != "1kg" {
		t.Fatalf("variant not forwarded: %+v", svc.added.Variant)
	}
}

func TestCartAddRejectsBadProductID(t *testing.T) {
	handler := CartAdd(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/cart/add", `{"productId":"nope","quantity":1}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveNotFound(t *testing.T) {
	handler := CartRemove(&stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "missing")}, nil)

	req := authedRequest(http.MethodDelete, "/cart/remove/"+uuid.NewString(), "")
	req = withChiParam(req, "productId", uuid.NewString())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
