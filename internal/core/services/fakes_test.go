package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTIssuer:                  "lingua-test",
		AccessTokenSecret:          "access-secret-for-tests",
		AccessTokenExpiryDuration:  15 * time.Minute,
		RefreshTokenSecret:         "refresh-secret-for-tests",
		RefreshTokenExpiryDuration: 24 * time.Hour,
		PasswordHashCost:           bcrypt.MinCost,
		ResetTokenExpiryDuration:   time.Hour,
		EmailSendTimeout:           time.Second,
		FrontendBaseURL:            "http://app.test",
	}
}

// memStore is an in-memory stand-in for the user, provider link and password
// reset tables. It enforces the same uniqueness rules as the database.
type memStore struct {
	mu     sync.Mutex
	users  map[string]domain.User
	links  map[string]string
	resets map[string]domain.PasswordResetRecord

	// lostLinkRace makes the next LinkProvider behave as if a concurrent
	// request stored the same link first.
	lostLinkRace bool
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]domain.User{},
		links:  map[string]string{},
		resets: map[string]domain.PasswordResetRecord{},
	}
}

var (
	_ portsrepo.UserRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.AuthProviderRepository  = (*memStore)(nil)
	_ portsrepo.PasswordResetRepository = (*memStore)(nil)
)

func linkKey(provider domain.AuthProviderName, providerUserID string) string {
	return string(provider) + "|" + providerUserID
}

func strEq(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (m *memStore) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strEq(u.Username, &username) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strEq(u.Email, &email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) FindUsers(_ context.Context, limit int, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memStore) uniqueLocked(user domain.User) error {
	for id, u := range m.users {
		if id == user.UserID {
			continue
		}
		if strEq(u.Username, user.Username) {
			return apperrors.ErrDuplicateUsername
		}
		if strEq(u.Email, user.Email) {
			return apperrors.ErrDuplicateEmail
		}
	}
	return nil
}

func (m *memStore) SaveUser(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.UserID]; ok {
		return apperrors.ErrDuplicate
	}
	if err := m.uniqueLocked(user); err != nil {
		return err
	}
	m.users[user.UserID] = user
	return nil
}

func (m *memStore) UpdateUser(_ context.Context, userID string, patch domain.UserPatch, updatedAt time.Time) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if patch.Email != nil {
		u.Email = patch.Email
	}
	if patch.Firstname != nil {
		u.Firstname = patch.Firstname
	}
	if patch.Lastname != nil {
		u.Lastname = patch.Lastname
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = patch.PasswordHash
		u.RefreshTokenHash = nil
		u.RefreshTokenExpiresAt = nil
	}
	if err := m.uniqueLocked(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = updatedAt
	m.users[userID] = u
	return &u, nil
}

func (m *memStore) UpdateRefreshToken(_ context.Context, userID string, hash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.RefreshTokenHash = &hash
	u.RefreshTokenExpiresAt = &expiresAt
	m.users[userID] = u
	return nil
}

func (m *memStore) ClearRefreshToken(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.RefreshTokenHash = nil
	u.RefreshTokenExpiresAt = nil
	m.users[userID] = u
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.users, userID)
	delete(m.resets, userID)
	for k, v := range m.links {
		if v == userID {
			delete(m.links, k)
		}
	}
	return nil
}

func (m *memStore) FindUserByProvider(_ context.Context, provider domain.AuthProviderName, providerUserID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.links[linkKey(provider, providerUserID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u := m.users[userID]
	return &u, nil
}

func (m *memStore) LinkProvider(_ context.Context, link domain.AuthProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := linkKey(link.Provider, link.ProviderUserID)
	if m.lostLinkRace {
		m.lostLinkRace = false
		m.links[key] = link.UserID
		return apperrors.ErrDuplicate
	}
	if _, ok := m.links[key]; ok {
		return apperrors.ErrDuplicate
	}
	m.links[key] = link.UserID
	return nil
}

func (m *memStore) CreateUserWithProvider(_ context.Context, user domain.User, link domain.AuthProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := linkKey(link.Provider, link.ProviderUserID)
	if _, ok := m.links[key]; ok {
		return apperrors.ErrDuplicate
	}
	if err := m.uniqueLocked(user); err != nil {
		return err
	}
	m.users[user.UserID] = user
	m.links[key] = user.UserID
	return nil
}

func (m *memStore) UpsertPasswordReset(_ context.Context, record domain.PasswordResetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[record.UserID] = record
	return nil
}

func (m *memStore) FindActivePasswordReset(_ context.Context, tokenHash string, now time.Time) (*domain.PasswordResetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.resets {
		if r.TokenHash == tokenHash && !r.IsExpired(now) {
			return &r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) CompletePasswordReset(_ context.Context, tokenHash string, newPasswordHash string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, r := range m.resets {
		if r.TokenHash != tokenHash || r.IsExpired(now) {
			continue
		}
		delete(m.resets, userID)
		u := m.users[userID]
		u.PasswordHash = &newPasswordHash
		u.RefreshTokenHash = nil
		u.RefreshTokenExpiresAt = nil
		u.UpdatedAt = now
		m.users[userID] = u
		return userID, nil
	}
	return "", apperrors.ErrNotFound
}

// MockEmailSender records every email it is asked to send.
type MockEmailSender struct {
	mock.Mock
}

var _ portssvc.EmailSender = (*MockEmailSender)(nil)

func (m *MockEmailSender) SendEmail(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

// stubProvider is an OAuthProvider that returns a fixed identity.
type stubProvider struct {
	name     domain.AuthProviderName
	identity *domain.ExternalIdentity
	err      error
	codes    []string
}

var _ portssvc.OAuthProvider = (*stubProvider)(nil)

func (p *stubProvider) Name() domain.AuthProviderName { return p.name }

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + state
}

func (p *stubProvider) Exchange(_ context.Context, code string) (*domain.ExternalIdentity, error) {
	p.codes = append(p.codes, code)
	if p.err != nil {
		return nil, p.err
	}
	identity := *p.identity
	return &identity, nil
}

// MockExerciseRepository mocks portsrepo.ExerciseRepository.
type MockExerciseRepository struct {
	mock.Mock
}

var _ portsrepo.ExerciseRepository = (*MockExerciseRepository)(nil)

func (m *MockExerciseRepository) FindExercises(ctx context.Context) ([]domain.Exercise, error) {
	args := m.Called(ctx)
	var out []domain.Exercise
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.Exercise)
	}
	return out, args.Error(1)
}

func (m *MockExerciseRepository) FindExerciseByID(ctx context.Context, exerciseID int64) (*domain.Exercise, error) {
	args := m.Called(ctx, exerciseID)
	var out *domain.Exercise
	if args.Get(0) != nil {
		out = args.Get(0).(*domain.Exercise)
	}
	return out, args.Error(1)
}

func (m *MockExerciseRepository) SaveExercise(ctx context.Context, exercise *domain.Exercise) error {
	args := m.Called(ctx, exercise)
	return args.Error(0)
}

func (m *MockExerciseRepository) DeleteExercise(ctx context.Context, exerciseID int64) error {
	args := m.Called(ctx, exerciseID)
	return args.Error(0)
}

// MockSubExerciseRepository mocks portsrepo.SubExerciseRepository.
type MockSubExerciseRepository struct {
	mock.Mock
}

var _ portsrepo.SubExerciseRepository = (*MockSubExerciseRepository)(nil)

func (m *MockSubExerciseRepository) FindSubExercises(ctx context.Context) ([]domain.SubExercise, error) {
	args := m.Called(ctx)
	var out []domain.SubExercise
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.SubExercise)
	}
	return out, args.Error(1)
}

func (m *MockSubExerciseRepository) FindSubExerciseByID(ctx context.Context, subExerciseID int64) (*domain.SubExercise, error) {
	args := m.Called(ctx, subExerciseID)
	var out *domain.SubExercise
	if args.Get(0) != nil {
		out = args.Get(0).(*domain.SubExercise)
	}
	return out, args.Error(1)
}

func (m *MockSubExerciseRepository) FindSubExercisesByExerciseID(ctx context.Context, exerciseID int64) ([]domain.SubExercise, error) {
	args := m.Called(ctx, exerciseID)
	var out []domain.SubExercise
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.SubExercise)
	}
	return out, args.Error(1)
}

// MockCompletedExerciseRepository mocks portsrepo.CompletedExerciseRepository.
type MockCompletedExerciseRepository struct {
	mock.Mock
}

var _ portsrepo.CompletedExerciseRepository = (*MockCompletedExerciseRepository)(nil)

func (m *MockCompletedExerciseRepository) FindCompletedExercisesByUser(ctx context.Context, userID string, limit int, afterCompletedAt *time.Time, afterID int64) ([]domain.CompletedExercise, error) {
	args := m.Called(ctx, userID, limit, afterCompletedAt, afterID)
	var out []domain.CompletedExercise
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.CompletedExercise)
	}
	return out, args.Error(1)
}

func (m *MockCompletedExerciseRepository) FindLatestCompletedExercise(ctx context.Context, userID string) (*domain.CompletedExercise, error) {
	args := m.Called(ctx, userID)
	var out *domain.CompletedExercise
	if args.Get(0) != nil {
		out = args.Get(0).(*domain.CompletedExercise)
	}
	return out, args.Error(1)
}

func (m *MockCompletedExerciseRepository) SaveCompletedExercise(ctx context.Context, completed *domain.CompletedExercise) error {
	args := m.Called(ctx, completed)
	return args.Error(0)
}

func (m *MockCompletedExerciseRepository) DeleteCompletedExercise(ctx context.Context, userID string, completedExerciseID int64) error {
	args := m.Called(ctx, userID, completedExerciseID)
	return args.Error(0)
}

func userWithUsername(userID, username string) domain.User {
	return domain.User{UserID: userID, Username: &username}
}

func userWithPassword(userID, email, password string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	h := string(hash)
	first := "Ada"
	return domain.User{UserID: userID, Email: &email, Firstname: &first, PasswordHash: &h}
}
