package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"tienda/internal/apperr"
	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, token, err := authService.Register(services.RegisterInput{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, []string{"user"}, user.Roles)
	assert.True(t, user.Active)
	// Stored password must be a bcrypt hash, never the plaintext.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Duplicate email surfaces the repository's conflict.
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(apperr.New(apperr.KindConflict, "email test@example.com is already registered")).Once()
	_, _, err = authService.Register(services.RegisterInput{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		FullName: "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Roles:    []string{"user"},
		Active:   true,
	}

	// Successful login issues a token carrying the user ID.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	loggedIn, token, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown email yield the same generic failure.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.Login(user.Email, "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	mockRepo.On("GetByEmail", "nobody@example.com").
		Return(nil, apperr.New(apperr.KindNotFound, "user with email nobody@example.com not found")).Once()
	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_Authorize(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), "test_jwt_secret")

	admin := &models.User{FullName: "Admin", Roles: []string{"admin", "user"}}
	plain := &models.User{FullName: "Plain", Roles: []string{"user"}}

	// No required roles means everyone is allowed.
	assert.NoError(t, authService.Authorize(plain, nil))

	// Any overlap allows.
	assert.NoError(t, authService.Authorize(admin, []string{"admin"}))
	assert.NoError(t, authService.Authorize(plain, []string{"admin", "user"}))

	// No overlap denies with Forbidden.
	err := authService.Authorize(plain, []string{"admin"})
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
