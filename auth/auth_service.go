package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/go-forum-auth/internal/config"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/jrsteele09/go-forum-auth/internal/utils"
	"github.com/jrsteele09/go-forum-auth/sessions"
	"github.com/jrsteele09/go-forum-auth/token"
	"github.com/jrsteele09/go-forum-auth/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeBearer = "bearer"
	LogoutMessage   = "Successfully logged out."
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users    users.Repo    // Repository for user data (read, and insert at registration)
	Sessions sessions.Repo // Repository for session data (owned by the Service)
}

// ClientMetadata is recorded on the session at login for audit
type ClientMetadata struct {
	IPAddress string
	UserAgent string
}

// TokenPair is returned by Login and RefreshSession
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service orchestrates registration, authentication and the session lifecycle.
// It is the only writer of sessions.
type Service struct {
	repos              Repos
	codec              *token.Codec
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowTime            func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, codec *token.Codec, cfg config.TokenConfig, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] codec is required")
	}
	if cfg == nil {
		return nil, errors.New("[NewService] token config is required")
	}

	s := &Service{
		repos:              repos,
		codec:              codec,
		accessTokenExpiry:  cfg.GetAccessTokenExpiry(),
		refreshTokenExpiry: cfg.GetRefreshTokenExpiry(),
		nowTime:            time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Register creates a user. Uniqueness is checked up front and again by the
// store's constraint, so a concurrent duplicate insert is still a Conflict.
func (s *Service) Register(ctx context.Context, email, username, password string) (*users.Summary, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, errors.Wrap(autherrors.ErrInvalidInput, "email, username and password are required")
	}

	taken, err := s.repos.Users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] users.ExistsByEmailOrUsername")
	}
	if taken {
		return nil, autherrors.ErrConflict
	}

	passwordHash, err := users.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errors.Wrap(autherrors.ErrInvalidInput, "password is too long")
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] users.HashPassword")
	}

	now := s.nowTime().UTC()
	user := &users.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] users.Create")
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	summary := user.Summary()
	return &summary, nil
}

// Authenticate resolves the user owning email if password matches. Unknown
// email, wrong password and inactive user are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.Wrap(autherrors.ErrInvalidInput, "email and password are required")
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if errors.Is(err, autherrors.ErrNotFound) {
		return nil, autherrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Authenticate] users.GetByEmail")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		log.Debug().Str("user_id", user.ID).Msg("password mismatch")
		return nil, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Debug().Str("user_id", user.ID).Msg("inactive user attempted login")
		return nil, autherrors.ErrInvalidCredentials
	}

	return user, nil
}

// Login issues an access/refresh pair for an authenticated user and opens a
// new session holding the digests of both tokens.
func (s *Service) Login(ctx context.Context, user *users.User, meta ClientMetadata) (*TokenPair, error) {
	if user == nil || user.ID == "" {
		return nil, errors.Wrap(autherrors.ErrInvalidInput, "user is required")
	}

	pair, refreshExpiry, err := s.issuePair(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login]")
	}

	session := &sessions.Session{
		UserID:           user.ID,
		RefreshTokenHash: token.HashForStorage(pair.RefreshToken),
		AccessTokenHash:  token.HashForStorage(pair.AccessToken),
		UserAgent:        utils.PtrIfSet(meta.UserAgent),
		IPAddress:        utils.PtrIfSet(meta.IPAddress),
		IsActive:         true,
		CreatedAt:        s.nowTime().UTC(),
		ExpiresAt:        refreshExpiry,
	}
	if err := s.repos.Sessions.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] sessions.Create")
	}

	log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Msg("session created")
	return pair, nil
}

// RefreshSession exchanges a refresh token for a new pair, rotating the
// session row in place. The old refresh token stops matching any session, and
// when two refreshes race on the same token only one of them succeeds.
func (s *Service) RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.codec.Parse(refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.RefreshSession]")
	}

	session, err := s.repos.Sessions.FindActive(ctx, userID, token.HashForStorage(refreshToken))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.RefreshSession] sessions.FindActive")
	}
	if !session.Live(s.nowTime()) {
		return nil, errors.Wrap(autherrors.ErrSessionNotFound, "[Service.RefreshSession] session expired")
	}

	pair, refreshExpiry, err := s.issuePair(userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.RefreshSession]")
	}

	if err := s.repos.Sessions.Rotate(ctx, session, sessions.Rotation{
		RefreshTokenHash: token.HashForStorage(pair.RefreshToken),
		AccessTokenHash:  token.HashForStorage(pair.AccessToken),
		ExpiresAt:        refreshExpiry,
	}); err != nil {
		return nil, errors.Wrap(err, "[Service.RefreshSession] sessions.Rotate")
	}

	log.Info().Str("user_id", userID).Str("session_id", session.ID).Msg("session rotated")
	return pair, nil
}

// Logout deactivates the session holding refreshToken. The token must belong
// to currentUserID.
func (s *Service) Logout(ctx context.Context, refreshToken, currentUserID string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", errors.Wrap(autherrors.ErrInvalidInput, "refresh_token is required")
	}

	userID, err := s.codec.Parse(refreshToken)
	if err != nil {
		return "", errors.Wrap(err, "[Service.Logout]")
	}
	if userID != currentUserID {
		return "", autherrors.ErrForbidden
	}

	session, err := s.repos.Sessions.FindActive(ctx, userID, token.HashForStorage(refreshToken))
	if err != nil {
		return "", errors.Wrap(err, "[Service.Logout] sessions.FindActive")
	}
	if err := s.repos.Sessions.Deactivate(ctx, session); err != nil {
		return "", errors.Wrap(err, "[Service.Logout] sessions.Deactivate")
	}

	log.Info().Str("user_id", userID).Str("session_id", session.ID).Msg("session deactivated")
	return LogoutMessage, nil
}

func (s *Service) issuePair(userID string) (*TokenPair, time.Time, error) {
	accessToken, _, err := s.codec.Issue(userID, s.accessTokenExpiry)
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, "issue access token")
	}
	refreshToken, refreshExpiry, err := s.codec.Issue(userID, s.refreshTokenExpiry)
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, "issue refresh token")
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
	}, refreshExpiry, nil
}
