package service

import (
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	"github.com/thomaslittle/usrp-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// LoginResponse carries the authenticated user and session tokens
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// AuthService handles authentication
type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	GetUser(userID string) (*domain.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{userRepo: userRepo, jwtManager: jwtManager}
}

// Login authenticates a user and issues session tokens
func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, common.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role, user.Department, user.Rank)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) GetUser(userID string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}
