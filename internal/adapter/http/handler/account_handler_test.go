package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankrecon/internal/adapter/http/dto"
	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, companyID, number string) (*domain.Account, error)
	listFn   func(ctx context.Context, companyID string) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, companyID, number string) (*domain.Account, error) {
	return s.getFn(ctx, companyID, number)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, companyID string) ([]*domain.Account, error) {
	return s.listFn(ctx, companyID)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{ID: "acc-1", CompanyID: "co-1", Number: "606", Name: "Supplies"}

	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Number: "606", Name: "Supplies"})
	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/accounts", bytes.NewReader(body))
	req = setChiURLParams(req, "companyID", "co-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.CompanyID != "co-1" || captured.Number != "606" || captured.Name != "Supplies" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Number != "606" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate number", domain.ErrAccountExists, http.StatusConflict},
		{"invalid number", domain.ErrInvalidAccountNumber, http.StatusBadRequest},
		{"db error", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.CreateAccountRequest{Number: "606", Name: "Supplies"})
			req := httptest.NewRequest(http.MethodPost, "/companies/co-1/accounts", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, companyID, number string) (*domain.Account, error) {
			if companyID != "co-1" || number != "512" {
				t.Fatalf("expected co-1/512, got %s/%s", companyID, number)
			}
			return &domain.Account{ID: "acc-1", Number: "512"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/companies/co-1/accounts/512", nil)
	req = setChiURLParams(req, "companyID", "co-1", "number", "512")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, companyID, number string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/companies/co-1/accounts/999", nil)
	req = setChiURLParams(req, "companyID", "co-1", "number", "999")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, companyID string) ([]*domain.Account, error) {
			if companyID != "co-1" {
				t.Fatalf("expected company co-1, got %s", companyID)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/companies/co-1/accounts", nil)
	req = setChiURLParams(req, "companyID", "co-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}

// setChiURLParams sets route parameters given as key, value pairs.
func setChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
