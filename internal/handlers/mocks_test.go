package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) VerifyAccessToken(token string) (*domain.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenClaims), args.Error(1)
}
func (m *MockTokenService) IssueAccessToken(user *domain.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) IssueRefreshToken(user *domain.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) VerifyRefreshToken(token string) (*domain.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenClaims), args.Error(1)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock SessionService ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockSessionService) Login(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.TokenPair), args.Error(2)
}
func (m *MockSessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}
func (m *MockSessionService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}
func (m *MockSessionService) IssueSession(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Mock PasswordResetService ---
type MockPasswordResetService struct {
	mock.Mock
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *MockPasswordResetService) PerformReset(ctx context.Context, token string, userID string, newPassword string) error {
	return m.Called(ctx, token, userID, newPassword).Error(0)
}

var _ portssvc.PasswordResetSvcFacade = (*MockPasswordResetService)(nil)

// --- Mock OAuthService ---
type MockOAuthService struct {
	mock.Mock
}

func (m *MockOAuthService) LoginURL(ctx context.Context, provider domain.AuthProviderName) (string, string, error) {
	args := m.Called(ctx, provider)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *MockOAuthService) HandleCallback(ctx context.Context, provider domain.AuthProviderName, code string) (*domain.OAuthResult, error) {
	args := m.Called(ctx, provider, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OAuthResult), args.Error(1)
}

var _ portssvc.OAuthSvcFacade = (*MockOAuthService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	return m.Called(ctx, userID, requestingUserID).Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock ExerciseService ---
type MockExerciseService struct {
	mock.Mock
}

func (m *MockExerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Exercise), args.Error(1)
}
func (m *MockExerciseService) GetExercise(ctx context.Context, exerciseID int64) (*domain.Exercise, error) {
	args := m.Called(ctx, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}
func (m *MockExerciseService) CreateExercise(ctx context.Context, req dto.CreateExerciseRequest) (*domain.Exercise, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}
func (m *MockExerciseService) DeleteExercise(ctx context.Context, exerciseID int64) error {
	return m.Called(ctx, exerciseID).Error(0)
}

var _ portssvc.ExerciseSvcFacade = (*MockExerciseService)(nil)

// --- Mock SubExerciseService ---
type MockSubExerciseService struct {
	mock.Mock
}

func (m *MockSubExerciseService) ListSubExercises(ctx context.Context) ([]domain.SubExercise, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubExercise), args.Error(1)
}
func (m *MockSubExerciseService) GetSubExercise(ctx context.Context, subExerciseID int64) (*domain.SubExercise, error) {
	args := m.Called(ctx, subExerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubExercise), args.Error(1)
}
func (m *MockSubExerciseService) ListSubExercisesByExercise(ctx context.Context, exerciseID int64) ([]domain.SubExercise, error) {
	args := m.Called(ctx, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubExercise), args.Error(1)
}

var _ portssvc.SubExerciseSvcFacade = (*MockSubExerciseService)(nil)

// --- Mock CompletedExerciseService ---
type MockCompletedExerciseService struct {
	mock.Mock
}

func (m *MockCompletedExerciseService) ListCompletedExercises(ctx context.Context, userID string, params dto.ListCompletedExercisesParams) (*dto.ListCompletedExercisesResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListCompletedExercisesResponse), args.Error(1)
}
func (m *MockCompletedExerciseService) GetLatestCompletedExercise(ctx context.Context, userID string) (*domain.CompletedExercise, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedExercise), args.Error(1)
}
func (m *MockCompletedExerciseService) CreateCompletedExercise(ctx context.Context, userID string, req dto.CreateCompletedExerciseRequest) (*domain.CompletedExercise, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedExercise), args.Error(1)
}
func (m *MockCompletedExerciseService) DeleteCompletedExercise(ctx context.Context, userID string, completedExerciseID int64) error {
	return m.Called(ctx, userID, completedExerciseID).Error(0)
}

var _ portssvc.CompletedExerciseSvcFacade = (*MockCompletedExerciseService)(nil)
