package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"heliosign/internal/config"
	"heliosign/internal/domain"
	"heliosign/internal/service"
	"heliosign/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-key-for-unit-tests",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "heliosign-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "staff@helio.test",
		PasswordHash: hashPassword("password123"),
		FullName:     "Test Staff",
		Role:         domain.RoleMember,
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "staff@helio.test").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "staff@helio.test",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "staff@helio.test",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "staff@helio.test").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "staff@helio.test",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "nobody@helio.test").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@helio.test",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "former@helio.test",
		PasswordHash: hashPassword("password123"),
		IsActive:     false,
	}
	userRepo.On("GetByEmail", mock.Anything, "former@helio.test").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "former@helio.test",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_ValidateToken_RoundTrip(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "staff@helio.test",
		PasswordHash: hashPassword("password123"),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "staff@helio.test").Return(user, nil)

	token, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "staff@helio.test",
		Password: "password123",
	})
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(token.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestAuthService_CreateUser_HashesPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.CreateUser(context.Background(), service.CreateUserInput{
		Email:    "new@helio.test",
		Password: "password123",
		FullName: "New Staff",
		Role:     domain.RoleMember,
	})

	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	assert.True(t, user.IsActive)
}
