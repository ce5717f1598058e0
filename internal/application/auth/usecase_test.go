package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-ledger-api/internal/application/auth"
	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/ports"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ledger-api/pkg/jwt"
)

const secret = "test-secret-key-for-auth-usecase"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	st := memory.New()
	uc := auth.NewAuthUseCase(st.Users(), ports.NopActivityRecorder{}, auth.JWTConfig{
		Secret:     secret,
		ExpMinutes: 15,
		Issuer:     "retail-ledger-test",
	}).WithBcryptCost(bcrypt.MinCost)
	return uc, st
}

func TestEnsureSeedAdmin_OnlyOnEmptyStore(t *testing.T) {
	uc, st := newAuth(t)

	created, err := uc.EnsureSeedAdmin(t.Context(), "admin", "cambiar-123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureSeedAdmin(t.Context(), "otro", "cambiar-456")
	require.NoError(t, err)
	assert.False(t, created)

	n, err := st.Users().Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := st.Users().GetByUsername(t.Context(), "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.True(t, u.ForcePasswordChange)
	assert.NotEqual(t, "cambiar-123", u.PasswordHash)
}

func TestEnsureSeedAdmin_RequiresCredentials(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.EnsureSeedAdmin(t.Context(), " ", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.EnsureSeedAdmin(t.Context(), "admin", "cambiar-123")
	require.NoError(t, err)

	res, err := uc.Login(t.Context(), dto.LoginRequest{Username: " ADMIN ", Password: "cambiar-123"})
	require.NoError(t, err)
	assert.True(t, res.ForcePasswordChange)
	assert.Equal(t, "admin", res.User.Username)

	id, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)
	assert.Equal(t, entity.RoleAdmin, id.Role)

	tests := []struct {
		name string
		in   dto.LoginRequest
	}{
		{"password incorrecta", dto.LoginRequest{Username: "admin", Password: "nope"}},
		{"usuario inexistente", dto.LoginRequest{Username: "ghost", Password: "cambiar-123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Login(t.Context(), tt.in)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestChangePassword(t *testing.T) {
	uc, st := newAuth(t)
	_, err := uc.EnsureSeedAdmin(t.Context(), "admin", "cambiar-123")
	require.NoError(t, err)
	u, err := st.Users().GetByUsername(t.Context(), "admin")
	require.NoError(t, err)

	err = uc.ChangePassword(t.Context(), u.ID, dto.ChangePasswordRequest{OldPassword: "cambiar-123", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = uc.ChangePassword(t.Context(), u.ID, dto.ChangePasswordRequest{OldPassword: "cambiar-123", NewPassword: "cambiar-123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = uc.ChangePassword(t.Context(), u.ID, dto.ChangePasswordRequest{OldPassword: "incorrecta", NewPassword: "nueva-clave-1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(t.Context(), u.ID, dto.ChangePasswordRequest{OldPassword: "cambiar-123", NewPassword: "nueva-clave-1"}))

	res, err := uc.Login(t.Context(), dto.LoginRequest{Username: "admin", Password: "nueva-clave-1"})
	require.NoError(t, err)
	assert.False(t, res.ForcePasswordChange)

	_, err = uc.Login(t.Context(), dto.LoginRequest{Username: "admin", Password: "cambiar-123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	me, err := uc.Me(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Username)
}

func TestUpdateProfile(t *testing.T) {
	uc, st := newAuth(t)
	_, err := uc.EnsureSeedAdmin(t.Context(), "admin", "cambiar-123")
	require.NoError(t, err)
	u, err := st.Users().GetByUsername(t.Context(), "admin")
	require.NoError(t, err)

	out, err := uc.UpdateProfile(t.Context(), u.ID, dto.UpdateProfileRequest{Name: "  Ravi ", Phone: "044-2345", Email: " Ravi@Tienda.IN "})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", out.Name)
	assert.Equal(t, "ravi@tienda.in", out.Email)

	me, err := uc.Me(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "044-2345", me.Phone)

	// el perfil no toca la contraseña
	_, err = uc.Login(t.Context(), dto.LoginRequest{Username: "admin", Password: "cambiar-123"})
	require.NoError(t, err)

	_, err = uc.UpdateProfile(t.Context(), "no-existe", dto.UpdateProfileRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
