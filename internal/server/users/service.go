package users

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/drivault/internal/common"
	"github.com/dmitrijs2005/drivault/internal/server/auth"
	"github.com/dmitrijs2005/drivault/internal/server/config"
	"github.com/dmitrijs2005/drivault/internal/server/refreshtokens"
	"golang.org/x/crypto/bcrypt"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new account with a bcrypt-hashed password and the
// standard role. A duplicate email surfaces as common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (*User, error) {

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleStandard,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

func (s *Service) generateAccessToken(user *User) (string, error) {
	return auth.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *Service) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *Service) checkPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// Login authenticates an active account by email and password and issues a
// token pair. Unknown email, wrong password and inactive accounts all
// surface as common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !user.IsActive || !s.checkPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	err = s.refreshTokenRepo.Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// token is revoked, so each refresh token can be used at most once. Unknown,
// expired and orphaned tokens all surface as common.ErrorUnauthorized.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, *TokenPair, error) {

	rt, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if time.Now().After(rt.ExpiresAt) {
		_ = s.refreshTokenRepo.Delete(ctx, rt.Token)
		return nil, nil, common.ErrorUnauthorized
	}

	user, err := s.repo.GetByID(ctx, rt.UserID)
	if err != nil || !user.IsActive {
		return nil, nil, common.ErrorUnauthorized
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	newRefreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Delete(ctx, rt.Token); err != nil {
		return nil, nil, common.ErrorInternal
	}
	if err := s.refreshTokenRepo.Create(ctx, user.ID, newRefreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes a refresh token. An empty or unknown token is not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// GetByID loads a user by primary key; used by the auth middleware to attach
// the authenticated account to the request context.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
