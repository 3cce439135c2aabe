package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/middleware"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuthFixture() (*fakeUserRepo, AuthService) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, newFakeSpecRepo(), nil, nil, testSecret, time.Second)
	return users, svc
}

func addAccount(users *fakeUserRepo, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return users.add(&model.User{
		Name:         "Test Account",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
}

func TestTokenTTLTiers(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		role string
		want time.Duration
	}{
		{model.RoleStudent, 90 * day},
		{model.RoleParent, 90 * day},
		{model.RoleTeacher, 180 * day},
		{model.RoleAdmin, 365 * day},
		{model.RoleProprietress, 365 * day},
		{"unknown", 30 * day},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, tokenTTL(tt.role), "role %s", tt.role)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	users, svc := newAuthFixture()
	user := addAccount(users, "ada@school.test", "sekrit99", model.RoleStudent)

	resp, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "ada@school.test",
		Password: "sekrit99",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, model.RoleStudent, resp.Role)

	claims := &middleware.Claims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, model.RoleStudent, claims.Role)

	// Student tokens carry the 90-day TTL.
	lifetime := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, (90 * 24 * time.Hour).Seconds(), lifetime.Seconds(), 60)
}

func TestRefreshReissuesToken(t *testing.T) {
	users, svc := newAuthFixture()
	user := addAccount(users, "okafor@school.test", "sekrit99", model.RoleTeacher)

	resp, err := svc.Refresh(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, resp.Role)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Refresh(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLoginWrongPassword(t *testing.T) {
	users, svc := newAuthFixture()
	addAccount(users, "ada@school.test", "sekrit99", model.RoleStudent)

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "ada@school.test",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "nobody@school.test",
		Password: "sekrit99",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLoginBannedAccount(t *testing.T) {
	users, svc := newAuthFixture()
	user := addAccount(users, "banned@school.test", "sekrit99", model.RoleTeacher)
	user.IsBanned = true

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Email:    "banned@school.test",
		Password: "sekrit99",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestRegisterStudentBuildsProfile(t *testing.T) {
	_, svc := newAuthFixture()

	created, err := svc.Register(context.Background(), dto.RegisterInput{
		Name:       "Ada Obi",
		Email:      "ada@school.test",
		Password:   "sekrit99",
		Role:       model.RoleStudent,
		ClassLevel: "JSS1",
	})
	require.NoError(t, err)
	require.NotNil(t, created.StudentProfile)

	profile := created.StudentProfile
	assert.Equal(t, "JSS1", profile.ClassLevel)
	assert.Equal(t, model.BranchJunior, profile.Branch)
	assert.Equal(t, defaultSession, profile.CurrentSession)

	prefix := fmt.Sprintf("ST%d", time.Now().Year())
	assert.Len(t, profile.StudentID, len(prefix)+5)
	assert.Equal(t, prefix, profile.StudentID[:len(prefix)])
}

func TestRegisterStudentRequiresClassLevel(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name:     "Ada Obi",
		Email:    "ada@school.test",
		Password: "sekrit99",
		Role:     model.RoleStudent,
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users, svc := newAuthFixture()
	addAccount(users, "taken@school.test", "sekrit99", model.RoleTeacher)

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name:     "Someone Else",
		Email:    "taken@school.test",
		Password: "sekrit99",
		Role:     model.RoleTeacher,
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}
