package services_test

import (
	"fmt"
	"testing"
	"time"

	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	newUser := &models.User{
		Email:     "buyer@example.com",
		Password:  "plaintext123",
		FirstName: "New",
		LastName:  "Buyer",
	}

	mockRepo.On("GetByEmail", "buyer@example.com").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := service.RegisterUser(newUser)
	assert.NoError(t, err)
	// Password gets hashed, role defaults to buyer, account activates.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newUser.Password), []byte("plaintext123")))
	assert.Equal(t, models.RoleBuyer, newUser.Role)
	assert.True(t, newUser.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	existing := &models.User{ID: "u1", Email: "taken@example.com"}
	mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil).Once()

	err := service.RegisterUser(&models.User{Email: "taken@example.com", Password: "secret"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_AdminNotSelfRegistrable(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	err := service.RegisterUser(&models.User{
		Email:    "root@example.com",
		Password: "secret",
		Role:     models.RoleAdmin,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be registered")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{
		ID:       "user-1",
		Email:    "buyer@example.com",
		Password: string(hashed),
		Role:     models.RoleBuyer,
		IsActive: true,
	}

	mockRepo.On("GetByEmail", "buyer@example.com").Return(user, nil)

	tokenString, err := service.LoginUser("buyer@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	// Token carries identity claims and an expiry in the future.
	claims, err := service.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "buyer@example.com", claims["email"])
	assert.Equal(t, models.RoleBuyer, claims["role"])
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Greater(t, exp, float64(time.Now().Unix()))

	// Wrong password and unknown email are the same opaque failure.
	_, err = service.LoginUser("buyer@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")

	mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, fmt.Errorf("not found")).Once()
	_, err = service.LoginUser("ghost@example.com", "whatever")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_LoginUser_InactiveAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, testJWTSecret)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	mockRepo.On("GetByEmail", "disabled@example.com").Return(&models.User{
		ID: "u2", Email: "disabled@example.com", Password: string(hashed), IsActive: false,
	}, nil).Once()

	_, err = service.LoginUser("disabled@example.com", "secret")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_ValidateToken_RejectsForgeries(t *testing.T) {
	service := services.NewAuthService(new(MockUserRepository), testJWTSecret)

	// Token signed with a different secret.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "intruder",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	forgedString, err := forged.SignedString([]byte("other_secret"))
	require.NoError(t, err)

	_, err = service.ValidateToken(forgedString)
	assert.Error(t, err)

	// Expired token.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = service.ValidateToken(expiredString)
	assert.Error(t, err)
}
