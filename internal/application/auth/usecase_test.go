package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-api/internal/application/auth"
	"github.com/jhoicas/shop-api/internal/application/dto"
	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
	"github.com/jhoicas/shop-api/internal/domain/repository/mocks"
	"github.com/jhoicas/shop-api/internal/infrastructure/memory"
	"github.com/jhoicas/shop-api/pkg/jwt"
	"github.com/jhoicas/shop-api/pkg/logger"
)

var testJWT = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "shop-api-test"}

func newUseCase(s *memory.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s, s.Users(), s.Profiles(), testJWT, logger.Nop())
}

func registerReq(username, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "s3cret-pass",
		Password2:   "s3cret-pass",
		Role:        role,
		ContactInfo: "+57 300 000 0000",
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestRegister_CreaUsuarioYPerfil(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)

	out, err := uc.Register(context.Background(), registerReq("ana", entity.RoleCustomer))
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "Account created successfully.", out.Message)
	assert.Equal(t, "ana", out.User.Username)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)

	userID, role, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleCustomer, role)

	profile, err := s.Profiles().GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "+57 300 000 0000", profile.ContactInfo)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newUseCase(memory.NewStore())
	ctx := context.Background()

	cases := []struct {
		name  string
		edit  func(r *dto.RegisterRequest)
		field string
	}{
		{"passwords distintos", func(r *dto.RegisterRequest) { r.Password2 = "otra-clave-1" }, "password"},
		{"password corto", func(r *dto.RegisterRequest) { r.Password, r.Password2 = "corta", "corta" }, "password"},
		{"rol inválido", func(r *dto.RegisterRequest) { r.Role = "admin" }, "role"},
		{"username con espacios", func(r *dto.RegisterRequest) { r.Username = "ana maria" }, "username"},
		{"email mal formado", func(r *dto.RegisterRequest) { r.Email = "no-es-email" }, "email"},
		{"username vacío", func(r *dto.RegisterRequest) { r.Username = "  " }, "username"},
		{"password corto con acentos", func(r *dto.RegisterRequest) { r.Password, r.Password2 = "ñññññ", "ñññññ" }, "password"},
		{"contacto de 101 caracteres", func(r *dto.RegisterRequest) { r.ContactInfo = strings.Repeat("ñ", 101) }, "contact_info"},
		{"username de 151 caracteres", func(r *dto.RegisterRequest) { r.Username = strings.Repeat("a", 151) }, "username"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := registerReq("ana", entity.RoleOwner)
			tc.edit(&req)
			_, err := uc.Register(ctx, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, fieldErrors(t, err), tc.field)
		})
	}
}

func TestRegister_LongitudesEnCaracteres(t *testing.T) {
	uc := newUseCase(memory.NewStore())

	req := registerReq("José", entity.RoleCustomer)
	req.Email = "jose@example.com"
	req.Password, req.Password2 = "ññññññññ", "ññññññññ"
	req.ContactInfo = strings.Repeat("ñ", 100)

	resp, err := uc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "José", resp.User.Username)
}

func TestRegister_UsernameYEmailDuplicados(t *testing.T) {
	uc := newUseCase(memory.NewStore())
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq("ana", entity.RoleOwner))
	require.NoError(t, err)

	_, err = uc.Register(ctx, registerReq("ana", entity.RoleCustomer))
	assert.Contains(t, fieldErrors(t, err), "username")

	req := registerReq("beto", entity.RoleCustomer)
	req.Email = "ANA@example.com"
	_, err = uc.Register(ctx, req)
	assert.Contains(t, fieldErrors(t, err), "email")
}

// fakeTx ejecuta el callback con los repos dados, simulando la transacción.
type fakeTx struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

func (f fakeTx) RunIdentity(_ context.Context, fn func(repository.UserRepository, repository.ProfileRepository) error) error {
	return fn(f.users, f.profiles)
}

func TestRegister_CarreraEnInsertSeReportaComoCampo(t *testing.T) {
	users := new(mocks.MockUserRepository)
	profiles := new(mocks.MockProfileRepository)
	users.On("GetByUsername", mock.Anything, "ana").Return(nil, nil)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Return(&domain.DuplicateError{Field: "username"})

	uc := auth.NewAuthUseCase(fakeTx{users: users, profiles: profiles}, users, profiles, testJWT, logger.Nop())
	_, err := uc.Register(context.Background(), registerReq("ana", entity.RoleOwner))

	assert.Contains(t, fieldErrors(t, err), "username")
	profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerReq("ana", entity.RoleOwner))
	require.NoError(t, err)

	t.Run("credenciales correctas", func(t *testing.T) {
		out, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, out.Token)
		assert.Equal(t, entity.RoleOwner, out.User.Role)
	})
	t.Run("password incorrecto", func(t *testing.T) {
		_, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "mala-clave"})
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})
	t.Run("usuario inexistente", func(t *testing.T) {
		_, err := uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})
	t.Run("campos vacíos", func(t *testing.T) {
		_, err := uc.Login(ctx, dto.LoginRequest{})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "password")
	})
	t.Run("usuario inactivo", func(t *testing.T) {
		s.Users().SetActive(reg.User.ID, false)
		defer s.Users().SetActive(reg.User.ID, true)
		_, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})
}

func TestLogin_SinPerfil(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	uc := newUseCase(s)
	_, err := uc.Register(ctx, registerReq("ana", entity.RoleOwner))
	require.NoError(t, err)
	user, err := s.Users().GetByUsername(ctx, "ana")
	require.NoError(t, err)

	profiles := new(mocks.MockProfileRepository)
	profiles.On("GetByUserID", mock.Anything, user.ID).Return(nil, nil)
	ucSinPerfil := auth.NewAuthUseCase(s, s.Users(), profiles, testJWT, logger.Nop())

	_, err = ucSinPerfil.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestAuthorize(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	ctx := context.Background()
	owner, err := uc.Register(ctx, registerReq("dueno", entity.RoleOwner))
	require.NoError(t, err)

	t.Run("rol correcto", func(t *testing.T) {
		p, err := uc.Authorize(ctx, owner.Token, entity.RoleOwner)
		require.NoError(t, err)
		assert.True(t, p.IsOwner())
		assert.Equal(t, owner.User.ID, p.UserID)
	})
	t.Run("cualquier rol", func(t *testing.T) {
		_, err := uc.Authorize(ctx, owner.Token, "")
		assert.NoError(t, err)
	})
	t.Run("rol distinto", func(t *testing.T) {
		_, err := uc.Authorize(ctx, owner.Token, entity.RoleCustomer)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("token vacío", func(t *testing.T) {
		_, err := uc.Authorize(ctx, "", entity.RoleOwner)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
	t.Run("token inválido", func(t *testing.T) {
		_, err := uc.Authorize(ctx, "token.invalido.aqui", entity.RoleOwner)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
	t.Run("token de otro secreto", func(t *testing.T) {
		tok, err := jwt.Generate("otro-secreto", owner.User.ID, entity.RoleOwner, "x", 60)
		require.NoError(t, err)
		_, err = uc.Authorize(ctx, tok, entity.RoleOwner)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
	t.Run("usuario desactivado", func(t *testing.T) {
		s.Users().SetActive(owner.User.ID, false)
		defer s.Users().SetActive(owner.User.ID, true)
		_, err := uc.Authorize(ctx, owner.Token, entity.RoleOwner)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthorize_ElRolSaleDelPerfilNoDelToken(t *testing.T) {
	s := memory.NewStore()
	uc := newUseCase(s)
	ctx := context.Background()
	customer, err := uc.Register(ctx, registerReq("cliente", entity.RoleCustomer))
	require.NoError(t, err)

	// Token con claim owner, pero el perfil en la base es customer.
	forged, err := jwt.Generate(testJWT.Secret, customer.User.ID, entity.RoleOwner, testJWT.Issuer, 60)
	require.NoError(t, err)

	_, err = uc.Authorize(ctx, forged, entity.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthorize_UsuarioSinPerfil(t *testing.T) {
	users := new(mocks.MockUserRepository)
	profiles := new(mocks.MockProfileRepository)
	users.On("GetByID", mock.Anything, "u-1").Return(&entity.User{ID: "u-1", IsActive: true}, nil)
	profiles.On("GetByUserID", mock.Anything, "u-1").Return(nil, nil)

	uc := auth.NewAuthUseCase(fakeTx{users: users, profiles: profiles}, users, profiles, testJWT, logger.Nop())
	tok, err := jwt.Generate(testJWT.Secret, "u-1", entity.RoleCustomer, testJWT.Issuer, 60)
	require.NoError(t, err)

	_, err = uc.Authorize(context.Background(), tok, "")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
