package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/selimsoyah/nexus-analytics-api/infrastructure/repository/mocks"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{SecretKey: "test-secret"}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	var created *domain.User

	mockUserRepo.EXPECT().GetUserByEmail("jane@example.com").Return(nil, nil)
	mockUserRepo.EXPECT().
		CreateUser(gomock.Any()).
		DoAndReturn(func(user *domain.User) (*domain.User, error) {
			created = user
			user.ID = 7
			return user, nil
		})

	user, err := service.CreateUser(&domain.User{
		Name:         "Jane",
		Lastname:     "Doe",
		Email:        " Jane@Example.com ",
		PasswordHash: "Sup3r$ecret",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, 3, created.RoleID)
	assert.False(t, created.Active)

	// Stored hash must verify against the original password
	err = bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Sup3r$ecret"))
	assert.NoError(t, err)
}

func TestService_CreateUser_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	mockUserRepo.EXPECT().
		GetUserByEmail("jane@example.com").
		Return(&domain.User{ID: 1, Email: "jane@example.com"}, nil)

	user, err := service.CreateUser(&domain.User{
		Name:         "Jane",
		Lastname:     "Doe",
		Email:        "jane@example.com",
		PasswordHash: "Sup3r$ecret",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Nil(t, user)
}

func TestService_CreateUser_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	user, err := service.CreateUser(&domain.User{Name: "Jane"})
	assert.ErrorIs(t, err, ErrMissingRequiredData)
	assert.Nil(t, user)
}

func TestService_LoginUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	stored := &domain.User{
		ID:           3,
		Name:         "Jane",
		Lastname:     "Doe",
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "Sup3r$ecret"),
		Active:       true,
		RoleID:       2,
	}

	mockUserRepo.EXPECT().GetUserByEmail("jane@example.com").Return(stored, nil)

	token, err := service.LoginUser("Jane@Example.com", "Sup3r$ecret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)
	assert.Equal(t, "Jane", claims.UserName)
	assert.Equal(t, "jane@example.com", claims.UserEmail)
	assert.Equal(t, 2, claims.UserRoleID)
	assert.True(t, claims.UserActive)
}

func TestService_LoginUser_Failures(t *testing.T) {
	stored := func() *domain.User {
		return &domain.User{
			ID:           3,
			Email:        "jane@example.com",
			PasswordHash: hashPassword(t, "Sup3r$ecret"),
			Active:       true,
		}
	}

	tests := []struct {
		name     string
		setup    func(repo *mocks.MockUserRepository)
		email    string
		password string
		expected error
	}{
		{
			name:     "missing credentials",
			setup:    func(repo *mocks.MockUserRepository) {},
			email:    "jane@example.com",
			password: "",
			expected: ErrMissingRequiredData,
		},
		{
			name: "unknown user",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("ghost@example.com").Return(nil, nil)
			},
			email:    "ghost@example.com",
			password: "whatever",
			expected: ErrUserNotFound,
		},
		{
			name: "disabled account",
			setup: func(repo *mocks.MockUserRepository) {
				user := stored()
				user.Active = false
				repo.EXPECT().GetUserByEmail("jane@example.com").Return(user, nil)
			},
			email:    "jane@example.com",
			password: "Sup3r$ecret",
			expected: ErrUserDisabled,
		},
		{
			name: "wrong password",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("jane@example.com").Return(stored(), nil)
			},
			email:    "jane@example.com",
			password: "nope",
			expected: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := mocks.NewMockUserRepository(ctrl)
			tt.setup(mockUserRepo)

			service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

			token, err := service.LoginUser(tt.email, tt.password)
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, token)
		})
	}
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	signer := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	stored := &domain.User{
		ID:           3,
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "Sup3r$ecret"),
		Active:       true,
	}
	mockUserRepo.EXPECT().GetUserByEmail("jane@example.com").Return(stored, nil)

	token, err := signer.LoginUser("jane@example.com", "Sup3r$ecret")
	require.NoError(t, err)

	verifier := &Service{userRepo: mockUserRepo, cfg: &config.Config{SecretKey: "other-secret"}}

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestService_UpdateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	existing := &domain.User{
		ID:       3,
		Name:     "Jane",
		Lastname: "Doe",
		Email:    "jane@example.com",
		Active:   false,
		RoleID:   3,
	}

	var updated *domain.User

	mockUserRepo.EXPECT().GetUserByID(3).Return(existing, nil)
	mockUserRepo.EXPECT().
		UpdateUser(gomock.Any()).
		DoAndReturn(func(user *domain.User) error {
			updated = user
			return nil
		})

	active := true
	roleID := 2
	email := " New@Example.com "

	err := service.UpdateUser(&domain.UpdateUserRequest{
		ID:     3,
		Email:  &email,
		Active: &active,
		RoleID: &roleID,
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", updated.Email)
	assert.True(t, updated.Active)
	assert.Equal(t, 2, updated.RoleID)
	// Untouched fields keep their values
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, "Doe", updated.Lastname)
}

func TestService_UpdateUser_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	mockUserRepo.EXPECT().GetUserByID(99).Return(nil, nil)

	err := service.UpdateUser(&domain.UpdateUserRequest{ID: 99})
	assert.Error(t, err)
}

func TestService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	user := &domain.User{
		ID:           3,
		PasswordHash: hashPassword(t, "Old$ecret1"),
	}

	var updated *domain.User

	mockUserRepo.EXPECT().GetUserByID(3).Return(user, nil)
	mockUserRepo.EXPECT().
		UpdateUser(gomock.Any()).
		DoAndReturn(func(u *domain.User) error {
			updated = u
			return nil
		})

	err := service.ChangePassword(3, "Old$ecret1", "New$ecret2")
	require.NoError(t, err)

	err = bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("New$ecret2"))
	assert.NoError(t, err)
}

func TestService_ChangePassword_Failures(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		newPassword string
		expected    error
	}{
		{name: "wrong current password", current: "nope", newPassword: "New$ecret2", expected: ErrInvalidCredentials},
		{name: "same password", current: "Old$ecret1", newPassword: "Old$ecret1", expected: ErrSamePassword},
		{name: "weak new password", current: "Old$ecret1", newPassword: "weak", expected: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := mocks.NewMockUserRepository(ctrl)
			service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

			mockUserRepo.EXPECT().
				GetUserByID(3).
				Return(&domain.User{ID: 3, PasswordHash: hashPassword(t, "Old$ecret1")}, nil)

			err := service.ChangePassword(3, tt.current, tt.newPassword)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestService_GenerateStrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	admin := &domain.User{ID: 1, RoleID: 1}
	target := &domain.User{ID: 5, RoleID: 3, PasswordHash: "old-hash"}

	var updated *domain.User

	mockUserRepo.EXPECT().GetUserByID(1).Return(admin, nil)
	mockUserRepo.EXPECT().GetUserByID(5).Return(target, nil)
	mockUserRepo.EXPECT().
		UpdateUser(gomock.Any()).
		DoAndReturn(func(u *domain.User) error {
			updated = u
			return nil
		})

	password, err := service.GenerateStrongPassword(1, 5)
	require.NoError(t, err)

	assert.Len(t, password, 12)
	assert.NoError(t, service.ValidatePasswordStrength(password))

	err = bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(password))
	assert.NoError(t, err)
}

func TestService_GenerateStrongPassword_RequiresAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := &Service{userRepo: mockUserRepo, cfg: testConfig()}

	mockUserRepo.EXPECT().GetUserByID(2).Return(&domain.User{ID: 2, RoleID: 2}, nil)

	password, err := service.GenerateStrongPassword(2, 5)
	assert.ErrorIs(t, err, ErrNoAdminPrivileges)
	assert.Empty(t, password)
}

func TestService_ValidatePasswordStrength(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := &Service{userRepo: mocks.NewMockUserRepository(ctrl), cfg: testConfig()}

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "strong", password: "Str0ng!pass", valid: true},
		{name: "too short", password: "S7!a", valid: false},
		{name: "no upper", password: "weak$pass1", valid: false},
		{name: "no special", password: "Weakpass11", valid: false},
		{name: "no number", password: "Weak$password", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestHandleEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", handleEmail(" Jane@Example.COM "))
	assert.Equal(t, "janedoe@example.com", handleEmail("jane doe@example.com"))
}
