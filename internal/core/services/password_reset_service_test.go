package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/core/services"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var resetLinkPattern = regexp.MustCompile(`http://app\.test/auth/forgot-password/([^/]+)/([0-9a-f]{64})`)

func syncDispatch(job func()) { job() }

type PasswordResetServiceTestSuite struct {
	suite.Suite
	store  *memStore
	mailer *MockEmailSender
	now    time.Time
	svc    portssvc.PasswordResetSvcFacade
	ctx    context.Context
}

func (s *PasswordResetServiceTestSuite) SetupTest() {
	s.store = newMemStore()
	s.mailer = new(MockEmailSender)
	s.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = s.serviceAt(s.now)
	s.ctx = context.Background()

	s.Require().NoError(s.store.SaveUser(s.ctx, userWithPassword("u-1", "ada@example.com", "old password")))
	s.Require().NoError(s.store.UpdateRefreshToken(s.ctx, "u-1", "some-hash", s.now.Add(time.Hour)))
}

func (s *PasswordResetServiceTestSuite) serviceAt(now time.Time) portssvc.PasswordResetSvcFacade {
	return services.NewPasswordResetService(s.store, s.store, s.mailer, testConfig(),
		services.WithResetClock(fixedClock(now)),
		services.WithEmailDispatcher(syncDispatch))
}

// requestToken runs RequestReset and returns the token carried by the emailed link.
func (s *PasswordResetServiceTestSuite) requestToken(email string) string {
	var body string
	s.mailer.On("SendEmail", mock.Anything, "ada@example.com", "Reset your password", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { body = args.String(3) }).
		Return(nil).Once()

	s.Require().NoError(s.svc.RequestReset(s.ctx, email))
	match := resetLinkPattern.FindStringSubmatch(body)
	s.Require().Len(match, 3, "reset link not found in %q", body)
	s.Equal("u-1", match[1])
	return match[2]
}

func TestPasswordResetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordResetServiceTestSuite))
}

func (s *PasswordResetServiceTestSuite) TestRequestAndPerformReset() {
	token := s.requestToken(" ADA@example.com ")

	record := s.store.resets["u-1"]
	s.Equal(utils.HashToken(token), record.TokenHash)
	s.NotEqual(token, record.TokenHash)
	s.Equal(s.now.Add(time.Hour), record.ExpiresAt)

	s.Require().NoError(s.svc.PerformReset(s.ctx, token, "u-1", "new password"))

	user, _ := s.store.FindUserByID(s.ctx, "u-1")
	s.True(utils.CheckPasswordHash("new password", *user.PasswordHash))
	s.Nil(user.RefreshTokenHash, "a reset must end the existing session")

	err := s.svc.PerformReset(s.ctx, token, "u-1", "another password")
	s.ErrorIs(err, apperrors.ErrInvalidOrExpiredToken)
}

func (s *PasswordResetServiceTestSuite) TestPerformReset_WithoutUserID() {
	token := s.requestToken("ada@example.com")
	s.NoError(s.svc.PerformReset(s.ctx, token, "", "new password"))
}

func (s *PasswordResetServiceTestSuite) TestRequestReset_UnknownEmailIsSilent() {
	s.NoError(s.svc.RequestReset(s.ctx, "nobody@example.com"))
	s.mailer.AssertNotCalled(s.T(), "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.Empty(s.store.resets)
}

func (s *PasswordResetServiceTestSuite) TestRequestReset_EmptyEmail() {
	err := s.svc.RequestReset(s.ctx, "  ")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PasswordResetServiceTestSuite) TestRequestReset_MailFailureIsNotReported() {
	s.mailer.On("SendEmail", mock.Anything, "ada@example.com", mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()

	s.NoError(s.svc.RequestReset(s.ctx, "ada@example.com"))
	s.Contains(s.store.resets, "u-1")
	s.mailer.AssertExpectations(s.T())
}

func (s *PasswordResetServiceTestSuite) TestPerformReset_Expired() {
	token := s.requestToken("ada@example.com")

	late := s.serviceAt(s.now.Add(time.Hour))
	err := late.PerformReset(s.ctx, token, "u-1", "new password")
	s.ErrorIs(err, apperrors.ErrInvalidOrExpiredToken)

	user, _ := s.store.FindUserByID(s.ctx, "u-1")
	s.True(utils.CheckPasswordHash("old password", *user.PasswordHash))
}

func (s *PasswordResetServiceTestSuite) TestPerformReset_NewRequestSupersedesOld() {
	first := s.requestToken("ada@example.com")
	second := s.requestToken("ada@example.com")
	s.NotEqual(first, second)

	s.ErrorIs(s.svc.PerformReset(s.ctx, first, "u-1", "new password"), apperrors.ErrInvalidOrExpiredToken)
	s.NoError(s.svc.PerformReset(s.ctx, second, "u-1", "new password"))
}

func (s *PasswordResetServiceTestSuite) TestPerformReset_Rejections() {
	token := s.requestToken("ada@example.com")

	s.ErrorIs(s.svc.PerformReset(s.ctx, "", "u-1", "new password"), apperrors.ErrInvalidOrExpiredToken)
	s.ErrorIs(s.svc.PerformReset(s.ctx, "deadbeef", "u-1", "new password"), apperrors.ErrInvalidOrExpiredToken)
	s.ErrorIs(s.svc.PerformReset(s.ctx, token, "u-2", "new password"), apperrors.ErrInvalidOrExpiredToken)
	s.ErrorIs(s.svc.PerformReset(s.ctx, token, "u-1", ""), apperrors.ErrValidation)
	s.ErrorIs(s.svc.PerformReset(s.ctx, token, "u-1", "old password"), apperrors.ErrPasswordReuse)

	// None of the rejections consumed the token.
	s.NoError(s.svc.PerformReset(s.ctx, token, "u-1", "new password"))
}
