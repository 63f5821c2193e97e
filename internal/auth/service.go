package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TrialDuration is the full-feature access window granted at signup.
const TrialDuration = 14 * 24 * time.Hour

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *models.User
}

// Signup creates a user with a fresh 14-day trial. Returns ErrUserExists
// when the email is taken.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	trialEnd := time.Now().Add(TrialDuration)
	user := models.User{
		Email:              input.Email,
		PasswordHash:       hash,
		Name:               input.Name,
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionTrial,
		TrialEndDate:       &trialEnd,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: &user}, nil
}

// Authenticate looks up a user by email and verifies the password. Unknown
// email and wrong password both return ErrInvalidCredentials; a bcrypt
// comparison runs in either case so the failures are not timing-separable.
func (s *Service) Authenticate(ctx context.Context, input LoginInput) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			CheckPassword(input.Password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Social-login users have no password hash and cannot log in this way.
	if user.PasswordHash == "" {
		CheckPassword(input.Password, dummyHash)
		return nil, ErrInvalidCredentials
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: &user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
