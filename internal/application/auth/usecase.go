package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/shop-api/internal/application/dto"
	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
	"github.com/jhoicas/shop-api/pkg/jwt"
	"github.com/jhoicas/shop-api/pkg/logger"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 150
	maxContactLength  = 100
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y autorización por rol.
type AuthUseCase struct {
	txRunner    TxRunner
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtCfg      JWTConfig
	hashCost    int
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtCfg:      jwtCfg,
		hashCost:    bcrypt.DefaultCost,
		log:         log.Named("auth"),
	}
}

// Register valida los datos, crea User + Profile en una sola transacción y emite un token.
// Cualquier problema con los datos (incluida unicidad de username/email) es *domain.ValidationError.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateRegister(in); err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		verr.Add("username", "A user with that username already exists.")
	}
	if in.Email != "" {
		existing, err = uc.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			verr.Add("email", "A user with that email already exists.")
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &entity.Profile{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        in.Role,
		ContactInfo: in.ContactInfo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.RunIdentity(ctx, func(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) error {
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		return profileRepo.Create(ctx, profile)
	})
	if err != nil {
		// Otro registro ganó la carrera entre la verificación y el INSERT.
		var dup *domain.DuplicateError
		if errors.As(err, &dup) {
			return nil, domain.NewValidationError(dup.Field, fmt.Sprintf("A user with that %s already exists.", dup.Field))
		}
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, profile.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", profile.Role).Msg("usuario registrado")

	return &dto.AuthResponse{
		Token:   token,
		User:    toUserResponse(profile),
		Message: "Account created successfully.",
	}, nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Usuario inexistente, password incorrecto o cuenta inactiva devuelven domain.ErrAuthentication.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		verr := &domain.ValidationError{}
		if strings.TrimSpace(in.Username) == "" {
			verr.Add("username", "This field is required.")
		}
		if in.Password == "" {
			verr.Add("password", "This field is required.")
		}
		return nil, verr
	}
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrAuthentication
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrAuthentication
	}
	if !user.IsActive {
		return nil, domain.ErrAuthentication
	}
	profile, err := uc.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, profile.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User:  toUserResponse(profile),
	}, nil
}

// Authorize resuelve el token a un Profile y verifica el rol.
// requiredRole vacío acepta cualquier rol.
//   - domain.ErrUnauthorized: token ausente, inválido, expirado o usuario inactivo.
//   - domain.ErrProfileNotFound: el usuario no tiene perfil.
//   - domain.ErrForbidden: el rol del perfil no coincide.
func (uc *AuthUseCase) Authorize(ctx context.Context, token, requiredRole string) (*entity.Profile, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	if requiredRole != "" && profile.Role != requiredRole {
		return nil, domain.ErrForbidden
	}
	return profile, nil
}

func validateRegister(in dto.RegisterRequest) error {
	verr := &domain.ValidationError{}
	switch {
	case in.Username == "":
		verr.Add("username", "This field is required.")
	case utf8.RuneCountInString(in.Username) > maxUsernameLength:
		verr.Add("username", "Ensure this field has no more than 150 characters.")
	case !usernamePattern.MatchString(in.Username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if in.Email != "" {
		if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
			verr.Add("email", "Enter a valid email address.")
		}
	}
	switch {
	case in.Password == "":
		verr.Add("password", "This field is required.")
	case utf8.RuneCountInString(in.Password) < minPasswordLength:
		verr.Add("password", "Ensure this field has at least 8 characters.")
	}
	if in.Password2 == "" {
		verr.Add("password2", "This field is required.")
	} else if in.Password != "" && in.Password != in.Password2 {
		verr.Add("password", "Passwords do not match.")
	}
	switch {
	case in.Role == "":
		verr.Add("role", "This field is required.")
	case !entity.ValidRole(in.Role):
		verr.Add("role", fmt.Sprintf("%q is not a valid choice.", in.Role))
	}
	if utf8.RuneCountInString(in.ContactInfo) > maxContactLength {
		verr.Add("contact_info", "Ensure this field has no more than 100 characters.")
	}
	return verr.OrNil()
}

func toUserResponse(p *entity.Profile) dto.UserResponse {
	return dto.UserResponse{
		ID:          p.UserID,
		Username:    p.Username,
		Email:       p.Email,
		Role:        p.Role,
		ContactInfo: p.ContactInfo,
	}
}
