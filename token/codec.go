package token

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-forum-auth/internal/config"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/pkg/errors"
)

// Codec issues and parses signed, expiring bearer tokens. Access and refresh
// tokens differ only by the lifetime the caller asks for.
type Codec struct {
	signer  Signer
	parser  *jwt.Parser
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(signer Signer, options ...CodecOption) *Codec {
	c := &Codec{
		signer:  signer,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.nowFunc),
	)
	return c
}

// NewCodecFromConfig builds an HMAC codec from the process token configuration
func NewCodecFromConfig(cfg config.TokenConfig, options ...CodecOption) (*Codec, error) {
	signer, err := NewHMACSigner(cfg.GetSecretKey(), cfg.GetAlgorithm())
	if err != nil {
		return nil, errors.Wrap(err, "[NewCodecFromConfig]")
	}
	return NewCodec(signer, options...), nil
}

// Issue signs {sub, iat, exp, jti} and returns the token with its concrete
// expiry, so callers can persist it without re-parsing.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := c.nowFunc()
	expiresAt := time.Unix(now.Add(ttl).Unix(), 0).UTC()

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"jti": uuid.New().String(), // two tokens minted in the same second still differ
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[Codec.Issue]")
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry of rawToken and returns its subject.
// There is no clock-skew leeway: a token is rejected once now >= exp.
func (c *Codec) Parse(rawToken string) (string, error) {
	if strings.TrimSpace(rawToken) == "" {
		return "", errors.Wrap(autherrors.ErrInvalidToken, "empty token")
	}

	parsed, err := c.parser.Parse(rawToken, c.signer.GetVerificationKey)
	if err != nil {
		return "", errors.Wrap(autherrors.ErrInvalidToken, err.Error())
	}
	if !parsed.Valid {
		return "", errors.Wrap(autherrors.ErrInvalidToken, "token not valid")
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.Wrap(autherrors.ErrInvalidToken, "missing subject")
	}
	return subject, nil
}

// HashForStorage is the deterministic digest persisted in place of a token.
// Unlike password hashing it is unsalted, because sessions are matched by equality.
func HashForStorage(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
