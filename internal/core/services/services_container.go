package services

import (
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	mailer portssvc.EmailSender,
	providers ...portssvc.OAuthProvider,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Tokens first: sessions and OAuth both mint through it.
	container.Token = NewTokenService(cfg)
	container.Session = NewSessionService(repos.UserRepo, container.Token, cfg.PasswordHashCost)
	container.PasswordReset = NewPasswordResetService(repos.UserRepo, repos.PasswordResetRepo, mailer, cfg)
	container.OAuth = NewOAuthService(repos.UserRepo, repos.AuthProviderRepo, container.Session, providers...)

	container.User = NewUserService(repos.UserRepo, cfg.PasswordHashCost)
	container.Exercise = NewExerciseService(repos.ExerciseRepo)
	container.SubExercise = NewSubExerciseService(repos.SubExerciseRepo)
	container.CompletedExercise = NewCompletedExerciseService(repos.CompletedExerciseRepo, repos.SubExerciseRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TokenSvcFacade             = (*tokenService)(nil)
	_ portssvc.SessionSvcFacade           = (*sessionService)(nil)
	_ portssvc.PasswordResetSvcFacade     = (*passwordResetService)(nil)
	_ portssvc.OAuthSvcFacade             = (*oauthService)(nil)
	_ portssvc.UserSvcFacade              = (*userService)(nil)
	_ portssvc.ExerciseSvcFacade          = (*exerciseService)(nil)
	_ portssvc.SubExerciseSvcFacade       = (*subExerciseService)(nil)
	_ portssvc.CompletedExerciseSvcFacade = (*completedExerciseService)(nil)
)
