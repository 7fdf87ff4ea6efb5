package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/token"
	"github.com/yukikurage/todo-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("could not allocate a unique username")
	ErrInvalidCredentials   = errors.New("invalid email, username or password")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// maxUsernameAttempts bounds the jane, jane2, ... search
const maxUsernameAttempts = 100

// AuthResult is a user together with a freshly issued token pair
type AuthResult struct {
	User   *models.User
	Tokens token.Pair
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	cost     int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		cost:     bcrypt.DefaultCost,
	}
}

// Register creates a new user with a username derived from the email.
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (*models.User, error) {
	email := cmd.Email.String()

	taken, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.cost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	base := utils.DeriveUsername(email)
	for attempt := 1; attempt <= maxUsernameAttempts; attempt++ {
		username := utils.UsernameCandidate(base, attempt)

		exists, err := s.userRepo.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			continue
		}

		user, err := s.userRepo.Create(ctx, &models.User{
			FirstName:    cmd.FirstName.String(),
			LastName:     cmd.LastName.String(),
			Email:        email,
			Username:     username,
			PasswordHash: string(hashedPassword),
		})
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		// Lost a race: either the email or this username was just taken.
		if taken, err := s.userRepo.EmailExists(ctx, email); err == nil && taken {
			return nil, ErrEmailTaken
		}
	}

	return nil, ErrUsernameTaken
}

// Login verifies credentials and issues a token pair. An identifier
// containing @ is looked up as an email, anything else as a username.
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	var (
		user *models.User
		err  error
	)
	identifier := strings.ToLower(strings.TrimSpace(cmd.Identifier))
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
