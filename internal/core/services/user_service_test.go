package services_test

import (
	"context"
	"testing"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/core/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.SignUpRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Password: "s3cret-password",
	}

	suite.mockRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return len(u.UserID) == 32 &&
			u.Email == req.Email &&
			u.Currency == domain.Dollar &&
			u.Language == domain.DefaultLanguage &&
			u.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("Ada", user.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.SignUpRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Password: "s3cret-password",
	}

	suite.mockRepo.On("FindUserByEmail", ctx, req.Email).Return(&domain.User{UserID: "other"}, nil).Once()

	_, err := suite.service.RegisterUser(ctx, req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_PasswordTooShort() {
	ctx := context.Background()
	req := dto.SignUpRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Password: "short",
	}

	_, err := suite.service.RegisterUser(ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByEmail", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_BadEmail() {
	ctx := context.Background()
	req := dto.SignUpRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "not-an-email",
		Password: "s3cret-password",
	}

	_, err := suite.service.RegisterUser(ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-password")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Email: "ada@example.com", PasswordHash: hash}

	suite.mockRepo.On("FindUserByEmail", ctx, "ada@example.com").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, dto.SignInRequest{
		Email:    "ada@example.com",
		Password: "s3cret-password",
	})

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-password")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Email: "ada@example.com", PasswordHash: hash}

	suite.mockRepo.On("FindUserByEmail", ctx, "ada@example.com").Return(stored, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, dto.SignInRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmail() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, dto.SignInRequest{
		Email:    "ghost@example.com",
		Password: "s3cret-password",
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestChangeEmail_DuplicateEmail() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "taken@example.com").Return(&domain.User{UserID: "other"}, nil).Once()

	err := suite.service.ChangeEmail(ctx, "user-1", "taken@example.com")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestChangeEmail_Success() {
	ctx := context.Background()
	stored := &domain.User{UserID: "user-1", Email: "old@example.com"}

	suite.mockRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindUserByID", ctx, "user-1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == "user-1" && u.Email == "new@example.com"
	})).Return(nil).Once()

	err := suite.service.ChangeEmail(ctx, "user-1", "new@example.com")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangeCurrency_Unsupported() {
	ctx := context.Background()

	err := suite.service.ChangeCurrency(ctx, "user-1", "DOGECOIN")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestChangeCurrency_Success() {
	ctx := context.Background()
	stored := &domain.User{UserID: "user-1", Currency: domain.Dollar}

	suite.mockRepo.On("FindUserByID", ctx, "user-1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Currency == domain.Euro
	})).Return(nil).Once()

	err := suite.service.ChangeCurrency(ctx, "user-1", "EURO")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangeLanguage_Unsupported() {
	ctx := context.Background()

	err := suite.service.ChangeLanguage(ctx, "user-1", "klingon")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestDeleteUser_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteUser", ctx, "missing").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteUser(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
