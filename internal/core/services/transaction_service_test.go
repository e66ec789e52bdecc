package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/core/services"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryWithTx interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, ownerID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	args := m.Called(ctx, tx, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepository interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListEntriesForAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) SumChangesForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) DetachEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	args := m.Called(ctx, tx, transactionID)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	args := m.Called(ctx, tx, transactionID)
	return args.Error(0)
}

// MockLedgerEngine is a mock type for the LedgerEngineFacade interface
type MockLedgerEngine struct {
	mock.Mock
}

func (m *MockLedgerEngine) Apply(ctx context.Context, tx pgx.Tx, txn domain.Transaction) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, txn)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerEngine) Reverse(ctx context.Context, tx pgx.Tx, txn domain.Transaction) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, txn)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockLedgerRepo *MockLedgerRepository
	mockEngine     *MockLedgerEngine
	ownerID        string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockEngine = new(MockLedgerEngine)
	suite.ownerID = uuid.NewString()
}

func (suite *TransactionServiceTestSuite) service(retainLedgerOnDelete bool) portssvc.TransactionSvcFacade {
	return services.NewTransactionService(suite.mockTxnRepo, suite.mockLedgerRepo, suite.mockEngine, retainLedgerOnDelete)
}

func (suite *TransactionServiceTestSuite) expectTx() {
	suite.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func existingExpense(ownerID string) *domain.Transaction {
	now := time.Now().UTC().Add(-time.Hour)
	return &domain.Transaction{
		TransactionID:   uuid.NewString(),
		OwnerID:         ownerID,
		TransactionType: domain.Expense,
		Amount:          decimal.RequireFromString("40.00"),
		TransactionDate: now,
		Description:     "groceries",
		AccountID:       uuid.NewString(),
		CategoryID:      uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
}

// --- Create ---

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TransactionType: domain.Expense,
		Amount:          decimal.RequireFromString("25.50"),
		TransactionDate: time.Now().UTC(),
		AccountID:       uuid.NewString(),
		CategoryID:      uuid.NewString(),
	}

	suite.expectTx()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockEngine.On("Apply", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return([]domain.LedgerEntry{{}}, nil).Once()

	txn, err := suite.service(true).CreateTransaction(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(suite.ownerID, txn.OwnerID)
	suite.Equal(domain.Expense, txn.TransactionType)
	suite.Equal(suite.ownerID, txn.CreatedBy)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockEngine.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ZeroAmountStillApplies() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TransactionType: domain.Expense,
		Amount:          decimal.Zero,
		TransactionDate: time.Now().UTC(),
		AccountID:       uuid.NewString(),
		CategoryID:      uuid.NewString(),
	}

	suite.expectTx()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockEngine.On("Apply", mock.Anything, mock.Anything, mock.Anything).Return([]domain.LedgerEntry{{}}, nil).Once()

	_, err := suite.service(true).CreateTransaction(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.mockEngine.AssertNumberOfCalls(suite.T(), "Apply", 1)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InvalidShapeRejectedBeforeAnyWrite() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TransactionType: domain.Transfer,
		Amount:          decimal.RequireFromString("10"),
		TransactionDate: time.Now().UTC(),
		FromAccountID:   "only-one-side",
	}

	_, err := suite.service(true).CreateTransaction(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Begin")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
	suite.mockEngine.AssertNotCalled(suite.T(), "Apply")
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ApplyFailureRollsBack() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TransactionType: domain.Income,
		Amount:          decimal.RequireFromString("99"),
		TransactionDate: time.Now().UTC(),
		AccountID:       uuid.NewString(),
		CategoryID:      uuid.NewString(),
	}

	suite.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockEngine.On("Apply", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
	suite.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	_, err := suite.service(true).CreateTransaction(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Commit")
}

// --- Update ---

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_MetadataOnlySkipsLedger() {
	ctx := context.Background()
	existing := existingExpense(suite.ownerID)
	newDescription := "weekly groceries"

	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.ownerID, existing.TransactionID).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockTxnRepo.On("UpdateTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Description == newDescription
	})).Return(nil).Once()

	updated, err := suite.service(true).UpdateTransaction(ctx, suite.ownerID, existing.TransactionID, dto.UpdateTransactionRequest{
		Description: &newDescription,
	})

	suite.Require().NoError(err)
	suite.Equal(newDescription, updated.Description)
	suite.mockEngine.AssertNotCalled(suite.T(), "Reverse")
	suite.mockEngine.AssertNotCalled(suite.T(), "Apply")
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_AmountChangeReversesThenReapplies() {
	ctx := context.Background()
	existing := existingExpense(suite.ownerID)
	newAmount := decimal.RequireFromString("60.00")

	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.ownerID, existing.TransactionID).Return(existing, nil).Once()
	suite.expectTx()

	// Reversal must use the OLD values, apply the NEW ones.
	suite.mockEngine.On("Reverse", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Amount.Equal(existing.Amount)
	})).Return([]domain.LedgerEntry{{}}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockEngine.On("Apply", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Amount.Equal(newAmount)
	})).Return([]domain.LedgerEntry{{}}, nil).Once()

	updated, err := suite.service(true).UpdateTransaction(ctx, suite.ownerID, existing.TransactionID, dto.UpdateTransactionRequest{
		Amount: &newAmount,
	})

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(newAmount))
	suite.mockEngine.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_TypeSwitchClearsOldShape() {
	ctx := context.Background()
	existing := existingExpense(suite.ownerID)
	transferType := domain.Transfer
	fromID := uuid.NewString()
	toID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.ownerID, existing.TransactionID).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockEngine.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return([]domain.LedgerEntry{{}}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.AccountID == "" && txn.CategoryID == "" && txn.FromAccountID == fromID && txn.ToAccountID == toID
	})).Return(nil).Once()
	suite.mockEngine.On("Apply", mock.Anything, mock.Anything, mock.Anything).Return([]domain.LedgerEntry{{}}, nil).Once()

	updated, err := suite.service(true).UpdateTransaction(ctx, suite.ownerID, existing.TransactionID, dto.UpdateTransactionRequest{
		TransactionType: &transferType,
		FromAccountID:   &fromID,
		ToAccountID:     &toID,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.Transfer, updated.TransactionType)
	suite.Empty(updated.AccountID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_NotFound() {
	ctx := context.Background()
	transactionID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.ownerID, transactionID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service(true).UpdateTransaction(ctx, suite.ownerID, transactionID, dto.UpdateTransactionRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockEngine.AssertNotCalled(suite.T(), "Reverse")
}

// --- Delete ---

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_RetainPolicyDetachesEntries() {
	ctx := context.Background()
	existing := existingExpense(suite.ownerID)

	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.ownerID, existing.TransactionID).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockEngine.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return([]domain.LedgerEntry{{}}, nil).Once()
	suite.mockLedgerRepo.On("DetachEntriesForTransaction", mock.Anything, mock.Anything, existing.TransactionID).Return(nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", mock.Anything, mock.Anything, existing.TransactionID).Return(nil).Once()

	err := suite.service(true).DeleteTransaction(ctx, suite.ownerID, existing.TransactionID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "DeleteEntriesForTransaction")
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_CascadePolicyDeletesEntries() {
	ctx := context.Background()
	existing := existingExpense(suite.ownerID)

	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.ownerID, existing.TransactionID).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockEngine.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return([]domain.LedgerEntry{{}}, nil).Once()
	suite.mockLedgerRepo.On("DeleteEntriesForTransaction", mock.Anything, mock.Anything, existing.TransactionID).Return(nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", mock.Anything, mock.Anything, existing.TransactionID).Return(nil).Once()

	err := suite.service(false).DeleteTransaction(ctx, suite.ownerID, existing.TransactionID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "DetachEntriesForTransaction")
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReverseFailureKeepsRow() {
	ctx := context.Background()
	existing := existingExpense(suite.ownerID)

	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, suite.ownerID, existing.TransactionID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
	suite.mockEngine.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

	err := suite.service(true).DeleteTransaction(ctx, suite.ownerID, existing.TransactionID)

	suite.Require().Error(err)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Commit")
}

// --- List ---

func (suite *TransactionServiceTestSuite) TestListTransactions_PassesTokenThrough() {
	ctx := context.Background()
	token := "opaque-token"
	nextToken := "next-token"
	txns := []domain.Transaction{*existingExpense(suite.ownerID)}

	suite.mockTxnRepo.On("ListTransactionsByOwner", mock.Anything, suite.ownerID, 20, &token).Return(txns, &nextToken, nil).Once()

	resp, err := suite.service(true).ListTransactions(ctx, suite.ownerID, dto.ListTransactionsParams{NextToken: &token})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(nextToken, *resp.NextToken)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
