package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/SscSPs/lingua_app/internal/handlers"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const goodToken = "good-access-token"

func testConfig() *config.Config {
	return &config.Config{
		IsProduction:               true,
		AccessTokenExpiryDuration:  15 * time.Minute,
		RefreshTokenExpiryDuration: 7 * 24 * time.Hour,
		CookieSecure:               true,
		LoginRateLimit:             "100-M",
		PostLoginRedirectURL:       "http://app.test/dashboard",
	}
}

type HandlersTestSuite struct {
	suite.Suite
	router        *gin.Engine
	tokens        *MockTokenService
	sessions      *MockSessionService
	passwordReset *MockPasswordResetService
	oauth         *MockOAuthService
	users         *MockUserService
	exercises     *MockExerciseService
	subExercises  *MockSubExerciseService
	completed     *MockCompletedExerciseService
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.tokens = new(MockTokenService)
	s.sessions = new(MockSessionService)
	s.passwordReset = new(MockPasswordResetService)
	s.oauth = new(MockOAuthService)
	s.users = new(MockUserService)
	s.exercises = new(MockExerciseService)
	s.subExercises = new(MockSubExerciseService)
	s.completed = new(MockCompletedExerciseService)

	s.tokens.On("VerifyAccessToken", goodToken).Return(&domain.TokenClaims{UserID: "user-1", Email: "ana@example.com"}, nil)
	s.tokens.On("VerifyAccessToken", mock.Anything).Return(nil, apperrors.ErrTokenInvalid)

	s.router = s.newRouter(testConfig())
}

func (s *HandlersTestSuite) newRouter(cfg *config.Config) *gin.Engine {
	container := &portssvc.ServiceContainer{
		Token:             s.tokens,
		Session:           s.sessions,
		PasswordReset:     s.passwordReset,
		OAuth:             s.oauth,
		User:              s.users,
		Exercise:          s.exercises,
		SubExercise:       s.subExercises,
		CompletedExercise: s.completed,
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	s.Require().NoError(handlers.RegisterRoutes(r, cfg, container, &utils.PosthogClientWrapper{}))
	return r
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) serve(method, target, body string, authed bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+goodToken)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](s *HandlersTestSuite, w *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func strPtr(v string) *string { return &v }

func (s *HandlersTestSuite) tokenPair() *domain.TokenPair {
	return &domain.TokenPair{
		AccessToken:           "access-jwt",
		AccessTokenExpiresAt:  time.Date(2024, 5, 1, 12, 15, 0, 0, time.UTC),
		RefreshToken:          "refresh-jwt",
		RefreshTokenExpiresAt: time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC),
	}
}

// --- auth ---

func (s *HandlersTestSuite) TestRegister() {
	req := dto.RegisterRequest{Username: "ana", Email: "ana@example.com", Firstname: "Ana", Lastname: "Lopes", Password: "p1"}
	s.sessions.On("Register", mock.Anything, req).Return(&domain.User{UserID: "user-1"}, nil).Once()

	w := s.serve(http.MethodPost, "/auth/register",
		`{"username":"ana","email":"ana@example.com","firstname":"Ana","lastname":"Lopes","password":"p1"}`, false)

	s.Equal(http.StatusOK, w.Code)
	resp := decode[dto.RegisterResponse](s, w)
	s.True(resp.OK)
	s.Equal("user-1", resp.UserID)
	s.sessions.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestRegisterWithoutNames() {
	req := dto.RegisterRequest{Username: "ana", Email: "ana@x.com", Password: "p1"}
	s.sessions.On("Register", mock.Anything, req).Return(&domain.User{UserID: "user-2"}, nil).Once()

	w := s.serve(http.MethodPost, "/auth/register", `{"username":"ana","email":"ana@x.com","password":"p1"}`, false)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("user-2", decode[dto.RegisterResponse](s, w).UserID)
	s.sessions.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestRegisterMissingFields() {
	w := s.serve(http.MethodPost, "/auth/register", `{"username":"ana","firstname":"Ana"}`, false)

	s.Equal(http.StatusBadRequest, w.Code)
	resp := decode[dto.MessageResponse](s, w)
	s.False(resp.OK)
	s.Equal("Missing required fields: email, password", resp.Message)
	s.sessions.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestRegisterDuplicates() {
	s.sessions.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateUsername).Once()
	w := s.serve(http.MethodPost, "/auth/register",
		`{"username":"ana","email":"ana@example.com","firstname":"Ana","lastname":"Lopes","password":"p1"}`, false)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Username already in use", decode[dto.MessageResponse](s, w).Message)

	s.sessions.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateEmail).Once()
	w = s.serve(http.MethodPost, "/auth/register",
		`{"username":"ana2","email":"ana@example.com","firstname":"Ana","lastname":"Lopes","password":"p1"}`, false)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Email already in use", decode[dto.MessageResponse](s, w).Message)
}

func (s *HandlersTestSuite) TestLoginSetsCookies() {
	user := &domain.User{UserID: "user-1", Username: strPtr("ana")}
	s.sessions.On("Login", mock.Anything, "ana", "p1").Return(user, s.tokenPair(), nil).Once()

	w := s.serve(http.MethodPost, "/auth/login", `{"username":"ana","password":"p1"}`, false)

	s.Require().Equal(http.StatusOK, w.Code)
	resp := decode[dto.LoginResponse](s, w)
	s.True(resp.OK)
	s.Equal("access-jwt", resp.AccessToken)
	s.Equal("user-1", resp.User.UserID)
	s.NotContains(w.Body.String(), "refresh-jwt")

	access := cookieByName(w, middleware.AccessTokenCookie)
	s.Require().NotNil(access)
	s.Equal("access-jwt", access.Value)
	s.True(access.HttpOnly)
	s.True(access.Secure)
	s.Equal(http.SameSiteStrictMode, access.SameSite)
	s.Equal(15*60, access.MaxAge)

	refresh := cookieByName(w, "refreshToken")
	s.Require().NotNil(refresh)
	s.Equal("refresh-jwt", refresh.Value)
	s.Equal(7*24*60*60, refresh.MaxAge)
}

func (s *HandlersTestSuite) TestLoginInvalidCredentials() {
	s.sessions.On("Login", mock.Anything, "ana", "wrong").Return(nil, nil, apperrors.ErrInvalidCredentials).Once()

	w := s.serve(http.MethodPost, "/auth/login", `{"username":"ana","password":"wrong"}`, false)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid username or password", decode[dto.MessageResponse](s, w).Message)
	s.Nil(cookieByName(w, middleware.AccessTokenCookie))
}

func (s *HandlersTestSuite) TestLoginRateLimited() {
	cfg := testConfig()
	cfg.LoginRateLimit = "1-M"
	s.router = s.newRouter(cfg)
	s.sessions.On("Login", mock.Anything, "ana", "wrong").Return(nil, nil, apperrors.ErrInvalidCredentials)

	first := s.serve(http.MethodPost, "/auth/login", `{"username":"ana","password":"wrong"}`, false)
	second := s.serve(http.MethodPost, "/auth/login", `{"username":"ana","password":"wrong"}`, false)

	s.Equal(http.StatusUnauthorized, first.Code)
	s.Equal(http.StatusTooManyRequests, second.Code)
	s.sessions.AssertNumberOfCalls(s.T(), "Login", 1)
}

func (s *HandlersTestSuite) TestInvalidRateLimitConfig() {
	cfg := testConfig()
	cfg.LoginRateLimit = "often"
	err := handlers.RegisterRoutes(gin.New(), cfg, &portssvc.ServiceContainer{Token: s.tokens}, &utils.PosthogClientWrapper{})
	s.Error(err)
}

func (s *HandlersTestSuite) TestRefresh() {
	pair := &domain.TokenPair{AccessToken: "new-access", AccessTokenExpiresAt: time.Now().Add(15 * time.Minute)}
	s.sessions.On("Refresh", mock.Anything, "refresh-jwt").Return(pair, nil).Once()

	w := s.serve(http.MethodPost, "/auth/refresh", "", false, &http.Cookie{Name: "refreshToken", Value: "refresh-jwt"})

	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("new-access", decode[dto.RefreshTokenResponse](s, w).AccessToken)
	s.Equal("new-access", cookieByName(w, middleware.AccessTokenCookie).Value)
	s.Nil(cookieByName(w, "refreshToken"), "the refresh cookie is not rewritten")
}

func (s *HandlersTestSuite) TestRefreshFromBody() {
	pair := &domain.TokenPair{AccessToken: "new-access"}
	s.sessions.On("Refresh", mock.Anything, "body-token").Return(pair, nil).Once()

	w := s.serve(http.MethodPost, "/auth/refresh", `{"refreshToken":"body-token"}`, false)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestRefreshRejected() {
	w := s.serve(http.MethodPost, "/auth/refresh", "", false)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Refresh token required", decode[dto.MessageResponse](s, w).Message)

	s.sessions.On("Refresh", mock.Anything, "stale").Return(nil, apperrors.ErrInvalidOrExpiredToken).Once()
	w = s.serve(http.MethodPost, "/auth/refresh", "", false, &http.Cookie{Name: "refreshToken", Value: "stale"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestLogoutClearsCookies() {
	s.sessions.On("Logout", mock.Anything, "refresh-jwt").Return(errors.New("db down")).Once()

	w := s.serve(http.MethodPost, "/auth/logout", "", false, &http.Cookie{Name: "refreshToken", Value: "refresh-jwt"})

	s.Equal(http.StatusOK, w.Code, "logout always succeeds for the client")
	s.True(decode[dto.MessageResponse](s, w).OK)
	access := cookieByName(w, middleware.AccessTokenCookie)
	s.Require().NotNil(access)
	s.Negative(access.MaxAge)
	s.Negative(cookieByName(w, "refreshToken").MaxAge)
	s.sessions.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestForgotPassword() {
	s.passwordReset.On("RequestReset", mock.Anything, "nobody@example.com").Return(nil).Once()

	w := s.serve(http.MethodPost, "/auth/forgot-password", `{"email":"nobody@example.com"}`, false)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("Please check your email", decode[dto.MessageResponse](s, w).Message)
}

func (s *HandlersTestSuite) TestResetPasswordVariants() {
	s.passwordReset.On("PerformReset", mock.Anything, "tok", "", "n3w").Return(nil).Once()
	w := s.serve(http.MethodPost, "/auth/reset-password/tok", `{"newPassword":"n3w"}`, false)
	s.Equal(http.StatusOK, w.Code)

	s.passwordReset.On("PerformReset", mock.Anything, "tok2", "user-1", "n3w").Return(nil).Once()
	w = s.serve(http.MethodPost, "/auth/forgot-password/user-1/tok2", `{"newPassword":"n3w"}`, false)
	s.Equal(http.StatusOK, w.Code)

	s.passwordReset.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestResetPasswordErrors() {
	s.passwordReset.On("PerformReset", mock.Anything, "tok", "", "same").Return(apperrors.ErrPasswordReuse).Once()
	w := s.serve(http.MethodPost, "/auth/reset-password/tok", `{"newPassword":"same"}`, false)
	s.Equal(http.StatusBadRequest, w.Code)

	s.passwordReset.On("PerformReset", mock.Anything, "used", "", "n3w").Return(apperrors.ErrInvalidOrExpiredToken).Once()
	w = s.serve(http.MethodPost, "/auth/reset-password/used", `{"newPassword":"n3w"}`, false)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid or expired reset token", decode[dto.MessageResponse](s, w).Message)

	s.passwordReset.On("PerformReset", mock.Anything, "used", "user-1", "n3w").Return(apperrors.ErrInvalidOrExpiredToken).Once()
	w = s.serve(http.MethodPost, "/auth/forgot-password/user-1/used", `{"newPassword":"n3w"}`, false)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Nil(cookieByName(w, middleware.AccessTokenCookie), "a failed reset leaves the session alone")

	w = s.serve(http.MethodPost, "/auth/reset-password/tok", `{}`, false)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Missing required fields: newPassword", decode[dto.MessageResponse](s, w).Message)
}

// --- oauth ---

func (s *HandlersTestSuite) TestOAuthLoginRedirects() {
	s.oauth.On("LoginURL", mock.Anything, domain.ProviderGitHub).
		Return("https://github.com/login/oauth/authorize?state=st4te", "st4te", nil).Once()

	w := s.serve(http.MethodGet, "/auth/github/login", "", false)

	s.Equal(http.StatusFound, w.Code)
	s.Equal("https://github.com/login/oauth/authorize?state=st4te", w.Header().Get("Location"))
	state := cookieByName(w, "oauthState")
	s.Require().NotNil(state)
	s.Equal("st4te", state.Value)
	s.Equal(http.SameSiteLaxMode, state.SameSite)
}

func (s *HandlersTestSuite) TestOAuthLoginUnconfiguredProvider() {
	s.oauth.On("LoginURL", mock.Anything, domain.ProviderGoogle).
		Return("", "", apperrors.NewNotFoundError("Login provider not configured")).Once()

	w := s.serve(http.MethodGet, "/auth/google/login", "", false)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestOAuthCallback() {
	result := &domain.OAuthResult{User: &domain.User{UserID: "user-9"}, Tokens: s.tokenPair(), Outcome: domain.OAuthAccountCreated}
	s.oauth.On("HandleCallback", mock.Anything, domain.ProviderGoogle, "the-code").Return(result, nil).Once()

	w := s.serve(http.MethodGet, "/auth/google/callback?code=the-code&state=st4te", "", false,
		&http.Cookie{Name: "oauthState", Value: "st4te"})

	s.Require().Equal(http.StatusFound, w.Code)
	s.Equal("http://app.test/dashboard", w.Header().Get("Location"))
	s.Equal("access-jwt", cookieByName(w, middleware.AccessTokenCookie).Value)
	s.Equal("refresh-jwt", cookieByName(w, "refreshToken").Value)
	s.Negative(cookieByName(w, "oauthState").MaxAge)
}

func (s *HandlersTestSuite) TestOAuthCallbackWithoutStateCookie() {
	w := s.serve(http.MethodGet, "/auth/github/callback?code=attacker-code&state=anything", "", false)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid OAuth state", decode[dto.MessageResponse](s, w).Message)
	s.Nil(cookieByName(w, middleware.AccessTokenCookie))
	s.oauth.AssertNotCalled(s.T(), "HandleCallback", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestOAuthCallbackStateMismatch() {
	w := s.serve(http.MethodGet, "/auth/google/callback?code=the-code&state=forged", "", false,
		&http.Cookie{Name: "oauthState", Value: "st4te"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid OAuth state", decode[dto.MessageResponse](s, w).Message)
	s.oauth.AssertNotCalled(s.T(), "HandleCallback", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestOAuthCallbackErrors() {
	state := &http.Cookie{Name: "oauthState", Value: "st4te"}

	s.oauth.On("HandleCallback", mock.Anything, domain.ProviderGoogle, "").Return(nil, apperrors.ErrMissingCode).Once()
	w := s.serve(http.MethodGet, "/auth/google/callback?state=st4te", "", false, state)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("No authorization code provided", decode[dto.MessageResponse](s, w).Message)

	upstream := errors.Join(apperrors.ErrUpstreamProvider, errors.New("google said 503 with secret details"))
	s.oauth.On("HandleCallback", mock.Anything, domain.ProviderGoogle, "x").Return(nil, upstream).Once()
	w = s.serve(http.MethodGet, "/auth/google/callback?code=x&state=st4te", "", false, state)
	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "secret details")

	w = s.serve(http.MethodGet, "/auth/google/callback?error=access_denied", "", false)
	s.Equal(http.StatusBadRequest, w.Code)
}

// --- protected routes ---

func (s *HandlersTestSuite) TestProtectedRoutesRequireToken() {
	for _, target := range []string{"/users/me", "/exercises", "/sub-exercises", "/completed-exercises"} {
		w := s.serve(http.MethodGet, target, "", false)
		s.Equal(http.StatusUnauthorized, w.Code, target)
	}
}

func (s *HandlersTestSuite) TestGetMe() {
	s.users.On("GetUserByID", mock.Anything, "user-1").
		Return(&domain.User{UserID: "user-1", Username: strPtr("ana"), PasswordHash: strPtr("$2a$hash")}, nil).Once()

	w := s.serve(http.MethodGet, "/users/me", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("user-1", decode[dto.UserResponse](s, w).UserID)
	s.NotContains(w.Body.String(), "$2a$hash")
}

func (s *HandlersTestSuite) TestListUsersDefaults() {
	s.users.On("ListUsers", mock.Anything, 20, 0).Return([]domain.User{{UserID: "user-1"}, {UserID: "user-2"}}, nil).Once()

	w := s.serve(http.MethodGet, "/users", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.Len(decode[dto.ListUsersResponse](s, w).Users, 2)
}

func (s *HandlersTestSuite) TestUpdateUser() {
	req := dto.UpdateUserRequest{Lastname: strPtr("Lovelace")}
	s.users.On("UpdateUser", mock.Anything, "user-1", req, "user-1").
		Return(&domain.User{UserID: "user-1", Lastname: strPtr("Lovelace")}, nil).Once()

	w := s.serve(http.MethodPatch, "/users/user-1", `{"lastname":"Lovelace"}`, true)
	s.Equal(http.StatusOK, w.Code)

	s.users.On("UpdateUser", mock.Anything, "user-2", mock.Anything, "user-1").
		Return(nil, apperrors.NewForbiddenError("You can only update your own profile")).Once()
	w = s.serve(http.MethodPatch, "/users/user-2", `{"lastname":"X"}`, true)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.serve(http.MethodPatch, "/users/user-1", `{"email":"not-an-email"}`, true)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid fields: email", decode[dto.MessageResponse](s, w).Message)
}

func (s *HandlersTestSuite) TestDeleteUser() {
	s.users.On("DeleteUser", mock.Anything, "user-1", "user-1").Return(nil).Once()

	w := s.serve(http.MethodDelete, "/users/user-1", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.Negative(cookieByName(w, middleware.AccessTokenCookie).MaxAge)
}

func (s *HandlersTestSuite) TestExercises() {
	created := &domain.Exercise{ExerciseID: 7, Name: "Verbs"}
	s.exercises.On("CreateExercise", mock.Anything, dto.CreateExerciseRequest{Name: "Verbs", Description: "Irregular"}).Return(created, nil).Once()
	w := s.serve(http.MethodPost, "/exercises", `{"name":"Verbs","description":"Irregular"}`, true)
	s.Equal(http.StatusCreated, w.Code)
	s.Equal(int64(7), decode[dto.CreatedResponse](s, w).ID)

	s.exercises.On("GetExercise", mock.Anything, int64(8)).Return(nil, apperrors.ErrNotFound).Once()
	w = s.serve(http.MethodGet, "/exercises/8", "", true)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.serve(http.MethodGet, "/exercises/abc", "", true)
	s.Equal(http.StatusBadRequest, w.Code)

	s.exercises.On("ListExercises", mock.Anything).Return([]domain.Exercise{*created}, nil).Once()
	w = s.serve(http.MethodGet, "/exercises", "", true)
	s.Equal(http.StatusOK, w.Code)
	s.Len(decode[dto.ListExercisesResponse](s, w).Exercises, 1)

	s.exercises.On("DeleteExercise", mock.Anything, int64(7)).Return(nil).Once()
	w = s.serve(http.MethodDelete, "/exercises/7", "", true)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestSubExercises() {
	s.subExercises.On("ListSubExercisesByExercise", mock.Anything, int64(3)).
		Return(nil, apperrors.NewNotFoundError("No sub-exercises found for this exercise")).Once()
	w := s.serve(http.MethodGet, "/sub-exercises/exercise-id/3", "", true)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("No sub-exercises found for this exercise", decode[dto.MessageResponse](s, w).Message)

	s.subExercises.On("GetSubExercise", mock.Anything, int64(4)).
		Return(&domain.SubExercise{SubExerciseID: 4, Content: json.RawMessage(`{"items":[1]}`)}, nil).Once()
	w = s.serve(http.MethodGet, "/sub-exercises/4", "", true)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"content":{"items":[1]}`)
}

func (s *HandlersTestSuite) TestCompletedExercises() {
	next := "tok-2"
	page := &dto.ListCompletedExercisesResponse{CompletedExercises: []domain.CompletedExercise{{CompletedExerciseID: 1}}, NextToken: &next}
	s.completed.On("ListCompletedExercises", mock.Anything, "user-1", dto.ListCompletedExercisesParams{Limit: 10, NextToken: "tok-1"}).
		Return(page, nil).Once()

	w := s.serve(http.MethodGet, "/completed-exercises?"+url.Values{"limit": {"10"}, "nextToken": {"tok-1"}}.Encode(), "", true)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("tok-2", *decode[dto.ListCompletedExercisesResponse](s, w).NextToken)

	req := dto.CreateCompletedExerciseRequest{SubExerciseID: 4, Difficulty: "hard", Shuffled: true}
	s.completed.On("CreateCompletedExercise", mock.Anything, "user-1", req).
		Return(&domain.CompletedExercise{CompletedExerciseID: 12}, nil).Once()
	w = s.serve(http.MethodPost, "/completed-exercises", `{"sub_exercise_id":4,"difficulty":"hard","shuffled":true}`, true)
	s.Equal(http.StatusCreated, w.Code)

	w = s.serve(http.MethodPost, "/completed-exercises", `{"shuffled":true}`, true)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Missing required fields: sub_exercise_id, difficulty", decode[dto.MessageResponse](s, w).Message)

	s.completed.On("DeleteCompletedExercise", mock.Anything, "user-1", int64(99)).Return(apperrors.ErrNotFound).Once()
	w = s.serve(http.MethodDelete, "/completed-exercises/99", "", true)
	s.Equal(http.StatusNotFound, w.Code)

	s.completed.On("GetLatestCompletedExercise", mock.Anything, "user-1").
		Return(&domain.CompletedExercise{CompletedExerciseID: 12}, nil).Once()
	w = s.serve(http.MethodGet, "/completed-exercises/get-completed", "", true)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestInternalErrorsStayGeneric() {
	s.exercises.On("ListExercises", mock.Anything).Return(nil, errors.New(`pq: relation "exercises" does not exist`)).Once()

	w := s.serve(http.MethodGet, "/exercises", "", true)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Internal server error", decode[dto.MessageResponse](s, w).Message)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, handlers.RegisterRoutes(r, testConfig(), &portssvc.ServiceContainer{Token: new(MockTokenService)}, &utils.PosthogClientWrapper{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
