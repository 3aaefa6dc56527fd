package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toUserResponse(u user.User) auth.UserResponse {
	return auth.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		Active:   u.Active,
	}
}

func (a *AuthServiceImpl) issueTokens(u user.User) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	tokenResponse.TokenType = "Bearer"
	tokenResponse.User = toUserResponse(u)
	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !userData.Active {
		return auth.TokenResponse{}, auth.ErrUserInactive
	}

	return a.issueTokens(userData)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if !userData.Active {
		return auth.TokenResponse{}, auth.ErrUserInactive
	}

	return a.issueTokens(userData)
}

// Validate implements auth.AuthService.
func (a *AuthServiceImpl) Validate(ctx context.Context) (auth.UserResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.UserResponse{}, auth.ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != jwt.TokenTypeAccess {
		return auth.UserResponse{}, auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.UserResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.UserResponse{}, auth.ErrInvalidToken
		}
		return auth.UserResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if !userData.Active {
		return auth.UserResponse{}, auth.ErrUserInactive
	}

	return toUserResponse(userData), nil
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, req auth.BootstrapAdminRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	exists, err := a.UserRepository.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return false, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return false, nil
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = a.UserRepository.Create(ctx, user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, user.ErrUsernameExists) || errors.Is(err, user.ErrUserEmailExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}
