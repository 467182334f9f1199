package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/bankrecon/internal/domain"
	"github.com/iho/bankrecon/internal/usecase"
	"github.com/iho/bankrecon/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		setupMocks  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator)
		expectedErr error
	}{
		{
			name: "successful account creation",
			input: usecase.CreateAccountInput{
				CompanyID: "company-1",
				Number:    "601",
				Name:      "  Achats  ",
			},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, account *domain.Account) error {
						if account.Name != "Achats" {
							t.Errorf("expected trimmed name, got %q", account.Name)
						}
						return nil
					})
			},
		},
		{
			name:        "invalid account number",
			input:       usecase.CreateAccountInput{CompanyID: "company-1", Number: "6 01", Name: "Achats"},
			setupMocks:  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator) {},
			expectedErr: domain.ErrInvalidAccountNumber,
		},
		{
			name:        "missing name",
			input:       usecase.CreateAccountInput{CompanyID: "company-1", Number: "601"},
			setupMocks:  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator) {},
			expectedErr: domain.ErrInvalidAccountName,
		},
		{
			name:        "missing company",
			input:       usecase.CreateAccountInput{Number: "601", Name: "Achats"},
			setupMocks:  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator) {},
			expectedErr: domain.ErrInvalidFiscalContext,
		},
		{
			name:  "create with repository error",
			input: usecase.CreateAccountInput{CompanyID: "company-1", Number: "601", Name: "Achats"},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("duplicate"))
			},
			expectedErr: errors.New("duplicate"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockAccountRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)
			tt.setupMocks(repo, idGen)

			uc := usecase.NewAccountUseCase(repo, idGen)
			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectedErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.expectedErr)
				}
				if !errors.Is(err, tt.expectedErr) && err.Error() != tt.expectedErr.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID != "acc-1" || account.Number != "601" || account.CompanyID != "company-1" {
				t.Errorf("unexpected account %+v", account)
			}
		})
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockAccountRepository(ctrl)
	repo.EXPECT().ListByCompany(gomock.Any(), "company-1").Return([]*domain.Account{
		{ID: "a1", Number: "512"},
		{ID: "a2", Number: "601"},
	}, nil)

	uc := usecase.NewAccountUseCase(repo, mocks.NewMockIDGenerator(ctrl))

	accounts, err := uc.ListAccounts(context.Background(), "company-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}

	if _, err := uc.ListAccounts(context.Background(), ""); !errors.Is(err, domain.ErrInvalidFiscalContext) {
		t.Errorf("expected ErrInvalidFiscalContext, got %v", err)
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockAccountRepository(ctrl)
	repo.EXPECT().GetByNumber(gomock.Any(), "company-1", "999").Return(nil, domain.ErrAccountNotFound)

	uc := usecase.NewAccountUseCase(repo, mocks.NewMockIDGenerator(ctrl))

	_, err := uc.GetAccount(context.Background(), "company-1", "999")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
