package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// fakeAccountRepo keeps balances in memory and applies deltas with plain
// arithmetic, standing in for the SQL-side balance update.
type fakeAccountRepo struct {
	balances      map[string]decimal.Decimal
	failOnAccount string
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{balances: map[string]decimal.Decimal{}}
}

func (f *fakeAccountRepo) SaveAccount(ctx context.Context, account domain.Account) error {
	f.balances[account.AccountID] = account.CurrentBalance
	return nil
}

func (f *fakeAccountRepo) FindAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	balance, ok := f.balances[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &domain.Account{AccountID: accountID, OwnerID: ownerID, CurrentBalance: balance}, nil
}

func (f *fakeAccountRepo) ListAccounts(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	return nil
}

func (f *fakeAccountRepo) DeactivateAccount(ctx context.Context, ownerID string, accountID string, userID string, now time.Time) error {
	return nil
}

func (f *fakeAccountRepo) ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if accountID == f.failOnAccount {
		return decimal.Zero, errors.New("simulated balance write failure")
	}
	balance, ok := f.balances[accountID]
	if !ok {
		return decimal.Zero, apperrors.ErrNotFound
	}
	newBalance := balance.Add(delta)
	f.balances[accountID] = newBalance
	return newBalance, nil
}

// fakeLedgerRepo collects appended entries in order.
type fakeLedgerRepo struct {
	entries    []domain.LedgerEntry
	failAppend bool
}

func (f *fakeLedgerRepo) AppendEntry(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	if f.failAppend {
		return errors.New("simulated append failure")
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) ListEntriesForAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	return f.entries, nil, nil
}

func (f *fakeLedgerRepo) SumChangesForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range f.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.ChangeAmount)
		}
	}
	return sum, nil
}

func (f *fakeLedgerRepo) DetachEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	return nil
}

func (f *fakeLedgerRepo) DeleteEntriesForTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	return nil
}

// --- Test Suite Setup ---

type LedgerEngineTestSuite struct {
	suite.Suite
	accountRepo *fakeAccountRepo
	ledgerRepo  *fakeLedgerRepo
	engine      portssvc.LedgerEngineFacade
}

func (suite *LedgerEngineTestSuite) SetupTest() {
	suite.accountRepo = newFakeAccountRepo()
	suite.ledgerRepo = &fakeLedgerRepo{}
	suite.engine = services.NewLedgerEngine(suite.accountRepo, suite.ledgerRepo)
}

func (suite *LedgerEngineTestSuite) seedAccount(balance string) string {
	accountID := uuid.NewString()
	suite.accountRepo.balances[accountID] = decimal.RequireFromString(balance)
	return accountID
}

func (suite *LedgerEngineTestSuite) balance(accountID string) decimal.Decimal {
	return suite.accountRepo.balances[accountID]
}

func expenseTxn(accountID, amount string) domain.Transaction {
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Expense,
		Amount:          decimal.RequireFromString(amount),
		AccountID:       accountID,
		CategoryID:      uuid.NewString(),
	}
}

func incomeTxn(accountID, amount string) domain.Transaction {
	txn := expenseTxn(accountID, amount)
	txn.TransactionType = domain.Income
	return txn
}

func transferTxn(fromID, toID, amount string) domain.Transaction {
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Transfer,
		Amount:          decimal.RequireFromString(amount),
		FromAccountID:   fromID,
		ToAccountID:     toID,
	}
}

// --- ComputeEffects ---

func (suite *LedgerEngineTestSuite) TestComputeEffects_ExpenseAddsAmount() {
	txn := expenseTxn("acc-1", "100")

	effects, err := services.ComputeEffects(txn)

	suite.Require().NoError(err)
	suite.Require().Len(effects, 1)
	suite.Equal("acc-1", effects[0].AccountID)
	suite.True(effects[0].Delta.Equal(decimal.RequireFromString("100")))
}

func (suite *LedgerEngineTestSuite) TestComputeEffects_IncomeSubtractsAmount() {
	txn := incomeTxn("acc-1", "200")

	effects, err := services.ComputeEffects(txn)

	suite.Require().NoError(err)
	suite.Require().Len(effects, 1)
	suite.True(effects[0].Delta.Equal(decimal.RequireFromString("-200")))
}

func (suite *LedgerEngineTestSuite) TestComputeEffects_TransferIsSourceThenDestination() {
	txn := transferTxn("from-1", "to-1", "150")

	effects, err := services.ComputeEffects(txn)

	suite.Require().NoError(err)
	suite.Require().Len(effects, 2)
	suite.Equal("from-1", effects[0].AccountID)
	suite.True(effects[0].Delta.Equal(decimal.RequireFromString("-150")))
	suite.Equal("to-1", effects[1].AccountID)
	suite.True(effects[1].Delta.Equal(decimal.RequireFromString("150")))
}

func (suite *LedgerEngineTestSuite) TestComputeEffects_UnknownTypeFails() {
	txn := domain.Transaction{TransactionType: "DIVIDEND", Amount: decimal.NewFromInt(10)}

	_, err := services.ComputeEffects(txn)

	suite.Require().Error(err)
	suite.ErrorIs(err, domain.ErrUnknownTransactionType)
}

func (suite *LedgerEngineTestSuite) TestNegateEffects_InvertsPreservingOrder() {
	effects := []domain.BalanceEffect{
		{AccountID: "a", Delta: decimal.NewFromInt(-5)},
		{AccountID: "b", Delta: decimal.NewFromInt(5)},
	}

	negated := services.NegateEffects(effects)

	suite.Require().Len(negated, 2)
	suite.Equal("a", negated[0].AccountID)
	suite.True(negated[0].Delta.Equal(decimal.NewFromInt(5)))
	suite.Equal("b", negated[1].AccountID)
	suite.True(negated[1].Delta.Equal(decimal.NewFromInt(-5)))
}

// --- Concrete balance scenarios ---

func (suite *LedgerEngineTestSuite) TestApply_ExpenseOnFreshCreditCard() {
	cardID := suite.seedAccount("0")

	entries, err := suite.engine.Apply(context.Background(), nil, expenseTxn(cardID, "100.00"))

	suite.Require().NoError(err)
	suite.True(suite.balance(cardID).Equal(decimal.RequireFromString("100.00")))
	suite.Require().Len(entries, 1)
	suite.True(entries[0].BalanceBefore.Equal(decimal.Zero))
	suite.True(entries[0].BalanceAfter.Equal(decimal.RequireFromString("100.00")))
	suite.True(entries[0].ChangeAmount.Equal(decimal.RequireFromString("100.00")))
}

func (suite *LedgerEngineTestSuite) TestApply_IncomePaymentReducesBalance() {
	cardID := suite.seedAccount("500.00")

	entries, err := suite.engine.Apply(context.Background(), nil, incomeTxn(cardID, "200.00"))

	suite.Require().NoError(err)
	suite.True(suite.balance(cardID).Equal(decimal.RequireFromString("300.00")))
	suite.Require().Len(entries, 1)
	suite.True(entries[0].ChangeAmount.Equal(decimal.RequireFromString("-200.00")))
}

func (suite *LedgerEngineTestSuite) TestApply_NegativeExpenseIsRefund() {
	cardID := suite.seedAccount("200.00")

	_, err := suite.engine.Apply(context.Background(), nil, expenseTxn(cardID, "-50.00"))

	suite.Require().NoError(err)
	suite.True(suite.balance(cardID).Equal(decimal.RequireFromString("150.00")))
}

func (suite *LedgerEngineTestSuite) TestApply_LargeRefundGoesNegative() {
	cardID := suite.seedAccount("100.00")

	_, err := suite.engine.Apply(context.Background(), nil, expenseTxn(cardID, "-150.00"))

	suite.Require().NoError(err)
	suite.True(suite.balance(cardID).Equal(decimal.RequireFromString("-50.00")))
}

func (suite *LedgerEngineTestSuite) TestApply_TransferMovesAmountBetweenAccounts() {
	bankID := suite.seedAccount("1000.00")
	cardID := suite.seedAccount("400.00")
	combinedBefore := suite.balance(bankID).Add(suite.balance(cardID))

	entries, err := suite.engine.Apply(context.Background(), nil, transferTxn(bankID, cardID, "150.00"))

	suite.Require().NoError(err)
	suite.True(suite.balance(bankID).Equal(decimal.RequireFromString("850.00")))
	suite.True(suite.balance(cardID).Equal(decimal.RequireFromString("550.00")))
	suite.Require().Len(entries, 2)

	// Net change across both accounts is zero.
	combinedAfter := suite.balance(bankID).Add(suite.balance(cardID))
	suite.True(combinedBefore.Equal(combinedAfter))
	suite.True(entries[0].ChangeAmount.Add(entries[1].ChangeAmount).Equal(decimal.Zero))
}

func (suite *LedgerEngineTestSuite) TestApply_SequenceKeepsRunningBalancesChained() {
	cardID := suite.seedAccount("0")
	ctx := context.Background()

	steps := []domain.Transaction{
		expenseTxn(cardID, "250"),
		expenseTxn(cardID, "75"),
		incomeTxn(cardID, "100"),
		expenseTxn(cardID, "-25"),
		incomeTxn(cardID, "50"),
	}
	wantBalances := []string{"250", "325", "225", "200", "150"}

	for i, txn := range steps {
		_, err := suite.engine.Apply(ctx, nil, txn)
		suite.Require().NoError(err)
		suite.True(suite.balance(cardID).Equal(decimal.RequireFromString(wantBalances[i])),
			"after step %d want balance %s got %s", i, wantBalances[i], suite.balance(cardID))
	}

	// Entries ordered by append form a chain: each balance_before equals the
	// previous entry's balance_after.
	entries := suite.ledgerRepo.entries
	suite.Require().Len(entries, len(steps))
	for i := 1; i < len(entries); i++ {
		suite.True(entries[i].BalanceBefore.Equal(entries[i-1].BalanceAfter),
			"entry %d balance_before should chain to prior balance_after", i)
	}
}

func (suite *LedgerEngineTestSuite) TestApply_ZeroAmountProducesZeroChangeEntry() {
	accountID := suite.seedAccount("75.00")

	entries, err := suite.engine.Apply(context.Background(), nil, expenseTxn(accountID, "0"))

	suite.Require().NoError(err)
	suite.True(suite.balance(accountID).Equal(decimal.RequireFromString("75.00")))
	suite.Require().Len(entries, 1)
	suite.True(entries[0].ChangeAmount.Equal(decimal.Zero))
	suite.True(entries[0].BalanceBefore.Equal(entries[0].BalanceAfter))
}

// --- Round-trip properties ---

func (suite *LedgerEngineTestSuite) TestReverse_RestoresPreApplyBalances() {
	bankID := suite.seedAccount("1000.00")
	cardID := suite.seedAccount("400.00")
	txn := transferTxn(bankID, cardID, "150.00")
	ctx := context.Background()

	_, err := suite.engine.Apply(ctx, nil, txn)
	suite.Require().NoError(err)
	_, err = suite.engine.Reverse(ctx, nil, txn)
	suite.Require().NoError(err)

	suite.True(suite.balance(bankID).Equal(decimal.RequireFromString("1000.00")))
	suite.True(suite.balance(cardID).Equal(decimal.RequireFromString("400.00")))

	// The apply and reverse entries for each account net to zero.
	bankSum, _ := suite.ledgerRepo.SumChangesForAccount(ctx, bankID)
	cardSum, _ := suite.ledgerRepo.SumChangesForAccount(ctx, cardID)
	suite.True(bankSum.Equal(decimal.Zero))
	suite.True(cardSum.Equal(decimal.Zero))

	// Reversal appends new entries rather than editing history.
	suite.Len(suite.ledgerRepo.entries, 4)
}

func (suite *LedgerEngineTestSuite) TestApplyReverseApply_MatchesSingleApply() {
	ctx := context.Background()

	singleID := suite.seedAccount("500.00")
	txn := incomeTxn(singleID, "120.00")
	_, err := suite.engine.Apply(ctx, nil, txn)
	suite.Require().NoError(err)
	wantBalance := suite.balance(singleID)

	tripleID := suite.seedAccount("500.00")
	txn2 := incomeTxn(tripleID, "120.00")
	_, err = suite.engine.Apply(ctx, nil, txn2)
	suite.Require().NoError(err)
	_, err = suite.engine.Reverse(ctx, nil, txn2)
	suite.Require().NoError(err)
	_, err = suite.engine.Apply(ctx, nil, txn2)
	suite.Require().NoError(err)

	suite.True(suite.balance(tripleID).Equal(wantBalance))
}

// --- Partial application ---

func (suite *LedgerEngineTestSuite) TestApply_SecondTransferLegFailureIsPartial() {
	bankID := suite.seedAccount("1000.00")
	cardID := suite.seedAccount("400.00")
	suite.accountRepo.failOnAccount = cardID

	_, err := suite.engine.Apply(context.Background(), nil, transferTxn(bankID, cardID, "150.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialApplication)

	var partial *apperrors.PartialApplicationError
	suite.Require().ErrorAs(err, &partial)
	suite.Require().Len(partial.Applied, 1)
	suite.Equal(bankID, partial.Applied[0].AccountID)
	suite.Equal("-150.00", partial.Applied[0].Delta)
	suite.Equal(cardID, partial.Failed.AccountID)
}

func (suite *LedgerEngineTestSuite) TestApply_FirstEffectFailureIsNotPartial() {
	bankID := suite.seedAccount("1000.00")
	cardID := suite.seedAccount("400.00")
	suite.accountRepo.failOnAccount = bankID

	_, err := suite.engine.Apply(context.Background(), nil, transferTxn(bankID, cardID, "150.00"))

	suite.Require().Error(err)
	suite.NotErrorIs(err, apperrors.ErrPartialApplication)
	suite.True(suite.balance(cardID).Equal(decimal.RequireFromString("400.00")))
}

func (suite *LedgerEngineTestSuite) TestApply_AppendFailureAfterBalanceWriteIsPartial() {
	accountID := suite.seedAccount("100.00")
	suite.ledgerRepo.failAppend = true

	_, err := suite.engine.Apply(context.Background(), nil, expenseTxn(accountID, "40.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialApplication)

	var partial *apperrors.PartialApplicationError
	suite.Require().ErrorAs(err, &partial)
	suite.Require().Len(partial.Applied, 1)
	suite.Equal(accountID, partial.Applied[0].AccountID)
}

func TestLedgerEngineTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerEngineTestSuite))
}
