package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.MapClaims) (string, error)

	// GetVerificationKey returns the key used to verify token's signature
	GetVerificationKey(token *jwt.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

// HMACsigner implements Signer using a symmetric HMAC-SHA2 secret
type HMACsigner struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

var _ Signer = (*HMACsigner)(nil)

// NewHMACSigner creates a new HMAC signer for one of HS256, HS384 or HS512.
// An empty algorithm selects HS256.
func NewHMACSigner(secret, algorithm string) (*HMACsigner, error) {
	if secret == "" {
		return nil, errors.New("[NewHMACSigner] secret is required")
	}

	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "", jwt.SigningMethodHS256.Alg():
		method = jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		method = jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		method = jwt.SigningMethodHS512
	default:
		return nil, errors.Errorf("[NewHMACSigner] unsupported signing algorithm %q", algorithm)
	}

	return &HMACsigner{
		secret: []byte(secret),
		method: method,
	}, nil
}

func (h *HMACsigner) Sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(h.method, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

func (h *HMACsigner) GetVerificationKey(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != h.method.Alg() {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACsigner) GetSigningMethod() jwt.SigningMethod {
	return h.method
}
