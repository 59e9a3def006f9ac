package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
	"github.com/Dosada05/ryder-manager/utils"
)

type stubUserRepo struct {
	repositories.UserRepository
	created   *models.User
	createErr error
	byEmail   map[string]*models.User
	byToken   map[string]*models.User
	confirmed []int
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = 1
	s.created = user
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	user, ok := s.byToken[token]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserRepo) ConfirmEmail(ctx context.Context, userID int) error {
	s.confirmed = append(s.confirmed, userID)
	return nil
}

func TestRegister(t *testing.T) {
	repo := &stubUserRepo{}
	svc := NewAuthService(repo)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Marie",
		LastName:  "Dubois",
		Email:     "marie@example.com",
		Password:  "longenough",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, models.RolePlayer, user.Role)
	assert.False(t, user.EmailConfirmed)
	assert.Len(t, token, 32)
	assert.Equal(t, token, user.EmailConfirmationToken)
	assert.True(t, utils.CheckPasswordHash("longenough", user.PasswordHash))
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(&stubUserRepo{})

	_, _, err := svc.Register(context.Background(), RegisterInput{
		LastName: "Dubois", Email: "marie@example.com", Password: "longenough",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, _, err = svc.Register(context.Background(), RegisterInput{
		FirstName: "Marie", LastName: "Dubois", Email: "not-an-email", Password: "longenough",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, _, err = svc.Register(context.Background(), RegisterInput{
		FirstName: "Marie", LastName: "Dubois", Email: "marie@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_EmailConflict(t *testing.T) {
	repo := &stubUserRepo{createErr: repositories.ErrUserEmailConflict}
	svc := NewAuthService(repo)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Marie", LastName: "Dubois", Email: "marie@example.com", Password: "longenough",
	})
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	repo := &stubUserRepo{byEmail: map[string]*models.User{
		"marie@example.com": {ID: 1, Email: "marie@example.com", PasswordHash: hash},
	}}
	svc := NewAuthService(repo)

	user, err := svc.Login(context.Background(), LoginInput{Email: "marie@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Login(context.Background(), LoginInput{Email: "marie@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestConfirmEmail(t *testing.T) {
	repo := &stubUserRepo{byToken: map[string]*models.User{
		"tok-1": {ID: 5, EmailConfirmed: false},
		"tok-2": {ID: 6, EmailConfirmed: true},
	}}
	svc := NewAuthService(repo)

	require.NoError(t, svc.ConfirmEmail(context.Background(), "tok-1"))
	assert.Equal(t, []int{5}, repo.confirmed)

	// Confirming twice stays a no-op.
	require.NoError(t, svc.ConfirmEmail(context.Background(), "tok-2"))
	assert.Equal(t, []int{5}, repo.confirmed)

	assert.ErrorIs(t, svc.ConfirmEmail(context.Background(), "bogus"), ErrAuthenticationFailed)
}
