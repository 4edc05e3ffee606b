package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	"github.com/aarogyahq/booking-api/pkg/auth"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type fakeUserRepo struct {
	repository.UserRepository

	byID      map[uuid.UUID]*model.User
	byEmail   map[string]*model.User
	createErr error
	created   *model.User
	roles     []model.Role
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]*model.User{},
		byEmail: map[string]*model.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User, roles []model.Role) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = uuid.New()
	user.Roles = roles
	f.created = user
	f.roles = roles
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) addUser(email, password string, roles ...model.Role) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
	}
	f.byID[u.ID] = u
	f.byEmail[email] = u
	return u
}

func testJWT() auth.JWTService {
	return auth.NewJWTService(auth.Config{
		Secret:             "test-secret",
		RefreshSecret:      "test-refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
}

func TestSignup_CreatesPatientAndReturnsTokens(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testJWT())

	resp, err := svc.Signup(context.Background(), &model.SignupRequest{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Mobile:   "9999999999",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Role{model.RolePatient}, repo.roles)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	// Password must be stored hashed, never verbatim.
	assert.NotEqual(t, "supersecret", repo.created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("supersecret")))
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = repository.ErrDuplicateUser
	svc := NewService(repo, testJWT())

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Mobile:   "9999999999",
		Password: "supersecret",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrConflict))
}

func TestLogin_ValidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.addUser("asha@example.com", "correct-horse", model.RoleDoctor)
	svc := NewService(repo, testJWT())

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "asha@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("asha@example.com", "correct-horse")
	svc := NewService(repo, testJWT())

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong-horse",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrUnauthorized))
}

func TestLogin_UnknownEmailUnauthorized(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testJWT())

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrUnauthorized))
}

func TestRefresh_RotatesTokenPair(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.addUser("ravi@example.com", "supersecret", model.RolePatient)
	jwtSvc := testJWT()
	svc := NewService(repo, jwtSvc)

	refresh, err := jwtSvc.GenerateRefreshToken(user)
	require.NoError(t, err)

	tokens, err := svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRefresh_RejectsAccessTokenAsRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.addUser("ravi@example.com", "supersecret", model.RolePatient)
	jwtSvc := testJWT()
	svc := NewService(repo, jwtSvc)

	// Access tokens are signed with a different secret and must not pass.
	access, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: access})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrUnauthorized))
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testJWT())

	_, err := svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrUnauthorized))
}
