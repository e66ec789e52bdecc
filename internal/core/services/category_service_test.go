package services_test

import (
	"context"
	"testing"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	"github.com/fintrack/fintrack_backend/internal/core/domain"
	"github.com/fintrack/fintrack_backend/internal/core/services"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockCategoryRepository is a mock type for the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, ownerID string, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, ownerID string, categoryID string) error {
	args := m.Called(ctx, ownerID, categoryID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type CategoryServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCategoryRepository
	ownerID  string
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCategoryRepository)
	suite.ownerID = uuid.NewString()
}

// --- Test Cases ---

func (suite *CategoryServiceTestSuite) TestCreateCategory_Success() {
	ctx := context.Background()
	req := dto.CreateCategoryRequest{Name: "Groceries", Kind: domain.ExpenseCategory}

	suite.mockRepo.On("SaveCategory", ctx, mock.AnythingOfType("domain.Category")).Return(nil).Once()

	category, err := services.NewCategoryService(suite.mockRepo).CreateCategory(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(category)
	suite.NotEmpty(category.CategoryID)
	suite.Equal(req.Name, category.Name)
	suite.Equal(domain.ExpenseCategory, category.Kind)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_UnknownKindRejected() {
	ctx := context.Background()
	req := dto.CreateCategoryRequest{Name: "Oddball", Kind: "GAMBLING"}

	_, err := services.NewCategoryService(suite.mockRepo).CreateCategory(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCategory")
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_RenameOnly() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	existing := &domain.Category{CategoryID: categoryID, OwnerID: suite.ownerID, Name: "Food", Kind: domain.ExpenseCategory}
	newName := "Dining"

	suite.mockRepo.On("FindCategoryByID", ctx, suite.ownerID, categoryID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(cat domain.Category) bool {
		return cat.Name == newName && cat.Kind == domain.ExpenseCategory
	})).Return(nil).Once()

	updated, err := services.NewCategoryService(suite.mockRepo).UpdateCategory(ctx, suite.ownerID, categoryID, dto.UpdateCategoryRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_NotFound() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockRepo.On("DeleteCategory", ctx, suite.ownerID, categoryID).Return(apperrors.ErrNotFound).Once()

	err := services.NewCategoryService(suite.mockRepo).DeleteCategory(ctx, suite.ownerID, categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
