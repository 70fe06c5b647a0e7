package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/handlers"
	"github.com/N7ghtm4r3/Neutron/internal/utils"
	"github.com/N7ghtm4r3/Neutron/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RevenueService ---
type MockRevenueService struct {
	mock.Mock
}

func (m *MockRevenueService) CreateRevenue(ctx context.Context, userID string, req dto.CreateRevenueRequest) (string, error) {
	args := m.Called(ctx, userID, req)
	return args.String(0), args.Error(1)
}
func (m *MockRevenueService) EditRevenue(ctx context.Context, userID, revenueID string, req dto.CreateRevenueRequest) error {
	args := m.Called(ctx, userID, revenueID, req)
	return args.Error(0)
}
func (m *MockRevenueService) ListRevenues(ctx context.Context, userID string, params dto.ListRevenuesParams) (*dto.PaginatedRevenues, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedRevenues), args.Error(1)
}
func (m *MockRevenueService) GetRevenue(ctx context.Context, userID, revenueID string) (*dto.RevenueResponse, error) {
	args := m.Called(ctx, userID, revenueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RevenueResponse), args.Error(1)
}
func (m *MockRevenueService) DeleteRevenue(ctx context.Context, userID, revenueID string) error {
	args := m.Called(ctx, userID, revenueID)
	return args.Error(0)
}
func (m *MockRevenueService) ListLabels(ctx context.Context, userID string) ([]domain.RevenueLabel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RevenueLabel), args.Error(1)
}
func (m *MockRevenueService) GetProjectRevenue(ctx context.Context, userID, projectID string) (*domain.ProjectRevenue, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectRevenue), args.Error(1)
}
func (m *MockRevenueService) GetProjectBalance(ctx context.Context, userID, projectID string, params dto.ProjectBalanceParams) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, projectID, params)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockRevenueService) AddTicket(ctx context.Context, userID, projectID string, req dto.CreateTicketRequest) (string, error) {
	args := m.Called(ctx, userID, projectID, req)
	return args.String(0), args.Error(1)
}
func (m *MockRevenueService) EditTicket(ctx context.Context, userID, projectID, ticketID string, req dto.CreateTicketRequest) error {
	args := m.Called(ctx, userID, projectID, ticketID, req)
	return args.Error(0)
}
func (m *MockRevenueService) ListTickets(ctx context.Context, userID, projectID string, params dto.ListTicketsParams) (*dto.PaginatedTickets, error) {
	args := m.Called(ctx, userID, projectID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedTickets), args.Error(1)
}
func (m *MockRevenueService) CloseTicket(ctx context.Context, userID, projectID, ticketID string) error {
	args := m.Called(ctx, userID, projectID, ticketID)
	return args.Error(0)
}
func (m *MockRevenueService) DeleteTicket(ctx context.Context, userID, projectID, ticketID string) error {
	args := m.Called(ctx, userID, projectID, ticketID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.RevenueSvcFacade = (*MockRevenueService)(nil)

// --- Mock WalletService ---
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetWalletStatus(ctx context.Context, userID string, params dto.WalletParams) (*domain.WalletStatus, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletStatus), args.Error(1)
}

var _ portssvc.WalletSvcFacade = (*MockWalletService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.SignUpRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, req dto.SignInRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) ChangeEmail(ctx context.Context, userID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}
func (m *MockUserService) ChangePassword(ctx context.Context, userID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}
func (m *MockUserService) ChangeCurrency(ctx context.Context, userID, currency string) error {
	args := m.Called(ctx, userID, currency)
	return args.Error(0)
}
func (m *MockUserService) ChangeLanguage(ctx context.Context, userID, language string) error {
	args := m.Called(ctx, userID, language)
	return args.Error(0)
}
func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Test Suite ---
type RevenueHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockRevenueService *MockRevenueService
	mockWalletService  *MockWalletService
	mockUserService    *MockUserService
	cfg                *config.Config
}

func (suite *RevenueHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "neutron-test",
	}

	suite.mockRevenueService = new(MockRevenueService)
	suite.mockWalletService = new(MockWalletService)
	suite.mockUserService = new(MockUserService)

	services := &portssvc.ServiceContainer{
		Revenue: suite.mockRevenueService,
		Wallet:  suite.mockWalletService,
		User:    suite.mockUserService,
	}

	handlers.RegisterRoutes(suite.router, suite.cfg, services)
}

// generateTestToken creates a signed JWT whose subject is the given user.
func (suite *RevenueHandlerTestSuite) generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, suite.cfg.JWTSecret, suite.cfg.JWTExpiryDuration, suite.cfg.JWTIssuer)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *RevenueHandlerTestSuite) doRequest(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *RevenueHandlerTestSuite) TestCreateRevenue_Success() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"
	req := dto.CreateRevenueRequest{
		Title:       "Consulting",
		Value:       decimal.NewFromInt(1200),
		RevenueDate: time.Now().UnixMilli(),
		Description: "September invoice",
	}

	suite.mockRevenueService.On("CreateRevenue",
		mock.Anything,
		userID,
		mock.MatchedBy(func(r dto.CreateRevenueRequest) bool {
			return r.Title == req.Title && r.Value.Equal(req.Value)
		}),
	).Return("new-revenue-id", nil).Once()

	token := suite.generateTestToken(userID)
	w := suite.doRequest(http.MethodPost, "/api/v1/users/"+userID+"/revenues", token, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.CreatedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("new-revenue-id", resp.ID)
	suite.mockRevenueService.AssertExpectations(suite.T())
}

func (suite *RevenueHandlerTestSuite) TestCreateRevenue_ValidationError() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"
	req := dto.CreateRevenueRequest{
		Title:       "Way too long title that exceeds every limit",
		Value:       decimal.NewFromInt(10),
		RevenueDate: time.Now().UnixMilli(),
	}

	suite.mockRevenueService.On("CreateRevenue", mock.Anything, userID, mock.Anything).
		Return("", apperrors.NewValidationError("title", "must be at most 30 characters")).Once()

	token := suite.generateTestToken(userID)
	w := suite.doRequest(http.MethodPost, "/api/v1/users/"+userID+"/revenues", token, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RevenueHandlerTestSuite) TestCreateRevenue_MissingToken() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"
	req := dto.CreateRevenueRequest{
		Title:       "Consulting",
		Value:       decimal.NewFromInt(1200),
		RevenueDate: time.Now().UnixMilli(),
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/users/"+userID+"/revenues", "", req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRevenueService.AssertNotCalled(suite.T(), "CreateRevenue")
}

func (suite *RevenueHandlerTestSuite) TestCreateRevenue_ExpiredToken() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"

	expired, err := utils.GenerateJWT(userID, suite.cfg.JWTSecret, -time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	w := suite.doRequest(http.MethodGet, "/api/v1/users/"+userID+"/revenues", expired, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Token has expired", resp["error"])
	suite.mockRevenueService.AssertNotCalled(suite.T(), "ListRevenues")
}

func (suite *RevenueHandlerTestSuite) TestCreateRevenue_ForeignUser() {
	ownerID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"
	intruderID := "ffffffffffffffffffffffffffffffff"
	req := dto.CreateRevenueRequest{
		Title:       "Consulting",
		Value:       decimal.NewFromInt(1200),
		RevenueDate: time.Now().UnixMilli(),
	}

	token := suite.generateTestToken(intruderID)
	w := suite.doRequest(http.MethodPost, "/api/v1/users/"+ownerID+"/revenues", token, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockRevenueService.AssertNotCalled(suite.T(), "CreateRevenue")
}

func (suite *RevenueHandlerTestSuite) TestListRevenues_Success() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"
	expected := &dto.PaginatedRevenues{
		Data: []dto.RevenueResponse{
			{ID: "rev-1", Title: "Consulting", Value: decimal.NewFromInt(1200)},
		},
		Page:     0,
		PageSize: 10,
		Total:    1,
	}

	suite.mockRevenueService.On("ListRevenues",
		mock.Anything,
		userID,
		mock.MatchedBy(func(p dto.ListRevenuesParams) bool {
			return p.Page == 0 && p.PageSize == 10 && p.Period == "LAST_MONTH" &&
				p.GeneralRevenues && p.ProjectRevenues
		}),
	).Return(expected, nil).Once()

	token := suite.generateTestToken(userID)
	url := fmt.Sprintf("/api/v1/users/%s/revenues?period=LAST_MONTH", userID)
	w := suite.doRequest(http.MethodGet, url, token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PaginatedRevenues
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Data, 1)
	suite.Equal("rev-1", resp.Data[0].ID)
	suite.EqualValues(1, resp.Total)
	suite.mockRevenueService.AssertExpectations(suite.T())
}

func (suite *RevenueHandlerTestSuite) TestGetRevenue_NotFound() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"

	suite.mockRevenueService.On("GetRevenue", mock.Anything, userID, "missing-id").
		Return(nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken(userID)
	w := suite.doRequest(http.MethodGet, "/api/v1/users/"+userID+"/revenues/missing-id", token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RevenueHandlerTestSuite) TestDeleteRevenue_Success() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"

	suite.mockRevenueService.On("DeleteRevenue", mock.Anything, userID, "rev-1").
		Return(nil).Once()

	token := suite.generateTestToken(userID)
	w := suite.doRequest(http.MethodDelete, "/api/v1/users/"+userID+"/revenues/rev-1", token, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockRevenueService.AssertExpectations(suite.T())
}

func (suite *RevenueHandlerTestSuite) TestAddTicket_DuplicateTitle() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"
	req := dto.CreateTicketRequest{
		Title:       "Late fee",
		Value:       decimal.NewFromInt(25),
		Description: "Second reminder",
		RevenueDate: time.Now().UnixMilli(),
	}

	suite.mockRevenueService.On("AddTicket", mock.Anything, userID, "proj-1", mock.Anything).
		Return("", apperrors.ErrDuplicate).Once()

	token := suite.generateTestToken(userID)
	url := "/api/v1/users/" + userID + "/revenues/projects/proj-1/tickets"
	w := suite.doRequest(http.MethodPost, url, token, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RevenueHandlerTestSuite) TestCloseTicket_Success() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"

	suite.mockRevenueService.On("CloseTicket", mock.Anything, userID, "proj-1", "tick-1").
		Return(nil).Once()

	token := suite.generateTestToken(userID)
	url := "/api/v1/users/" + userID + "/revenues/projects/proj-1/tickets/tick-1"
	w := suite.doRequest(http.MethodPut, url, token, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockRevenueService.AssertExpectations(suite.T())
}

func (suite *RevenueHandlerTestSuite) TestCloseTicket_AlreadyClosed() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"

	suite.mockRevenueService.On("CloseTicket", mock.Anything, userID, "proj-1", "tick-1").
		Return(apperrors.ErrConflict).Once()

	token := suite.generateTestToken(userID)
	url := "/api/v1/users/" + userID + "/revenues/projects/proj-1/tickets/tick-1"
	w := suite.doRequest(http.MethodPut, url, token, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RevenueHandlerTestSuite) TestGetProjectBalance_Success() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"

	suite.mockRevenueService.On("GetProjectBalance",
		mock.Anything,
		userID,
		"proj-1",
		mock.MatchedBy(func(p dto.ProjectBalanceParams) bool {
			return p.Period == "LAST_YEAR" && !p.ClosedTickets
		}),
	).Return(decimal.NewFromFloat(525.50), nil).Once()

	token := suite.generateTestToken(userID)
	url := fmt.Sprintf("/api/v1/users/%s/revenues/projects/proj-1/balance?period=LAST_YEAR&closed_tickets=false", userID)
	w := suite.doRequest(http.MethodGet, url, token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ProjectBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.NewFromFloat(525.50)))
}

func (suite *RevenueHandlerTestSuite) TestGetWallet_Success() {
	userID := "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4"
	status := &domain.WalletStatus{
		TotalEarnings: decimal.NewFromInt(200),
		Trend:         decimal.NewFromInt(100),
	}

	suite.mockWalletService.On("GetWalletStatus",
		mock.Anything,
		userID,
		mock.MatchedBy(func(p dto.WalletParams) bool {
			return p.Period == "LAST_MONTH" && p.GeneralRevenues && p.ProjectRevenues
		}),
	).Return(status, nil).Once()

	token := suite.generateTestToken(userID)
	url := fmt.Sprintf("/api/v1/users/%s/wallet?period=LAST_MONTH", userID)
	w := suite.doRequest(http.MethodGet, url, token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.WalletStatusResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.TotalEarnings.Equal(decimal.NewFromInt(200)))
	suite.True(resp.Trend.Equal(decimal.NewFromInt(100)))
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *RevenueHandlerTestSuite) TestSignIn_InvalidCredentials() {
	req := dto.SignInRequest{Email: "nobody@example.com", Password: "wrong-password"}

	suite.mockUserService.On("AuthenticateUser", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("authenticating: %w", apperrors.ErrNotFound)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/users/session", "", req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Invalid credentials", resp["error"])
}

func (suite *RevenueHandlerTestSuite) TestSignUp_Success() {
	req := dto.SignUpRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Password: "S3curePass!",
	}
	registered := &domain.User{
		UserID:   "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4",
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Currency: domain.Dollar,
		Language: "en",
	}

	suite.mockUserService.On("RegisterUser", mock.Anything, mock.Anything).
		Return(registered, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/users", "", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(registered.UserID, resp.ID)
	suite.NotEmpty(resp.Token)
}

func TestRevenueHandler(t *testing.T) {
	suite.Run(t, new(RevenueHandlerTestSuite))
}
