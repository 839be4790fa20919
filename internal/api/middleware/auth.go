package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/hermanjons/OrderScout-sub000/internal/api/shared/errors"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// Scope is a permission granted to a caller of the order API
type Scope string

const (
	// ScopeOrdersPrint allows marking order labels as printed
	ScopeOrdersPrint Scope = "orders:print"
	// ScopeAccountsWrite allows registering and updating marketplace accounts
	ScopeAccountsWrite Scope = "accounts:write"
)

const callerKey = "order_api_caller"

var (
	ErrMissingCredentials = errors.New("missing Authorization header")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// JWTPublicKey verifies RS256 station tokens, PEM encoded
	JWTPublicKey string
	// APIKeys are operator keys, they carry every scope
	APIKeys []string
}

// OrderClaims are the claims of a station token
type OrderClaims struct {
	jwt.RegisteredClaims
	// Scope is a space separated list of scopes
	Scope string `json:"scope"`
	// AccountIDs limits the token to these accounts, empty means all
	AccountIDs []int64 `json:"account_ids,omitempty"`
}

// Caller is the authenticated principal of a request
type Caller struct {
	Subject    string
	Operator   bool
	Scopes     []Scope
	AccountIDs []int64
}

// HasScope reports whether the caller was granted scope
func (c Caller) HasScope(scope Scope) bool {
	return c.Operator || slices.Contains(c.Scopes, scope)
}

// CanAccessAccount reports whether the caller may act on the account
func (c Caller) CanAccessAccount(accountID int64) bool {
	return c.Operator || len(c.AccountIDs) == 0 || slices.Contains(c.AccountIDs, accountID)
}

// Authenticator verifies the Authorization header of API requests
type Authenticator struct {
	publicKey *rsa.PublicKey
	apiKeys   map[string]struct{}
	parser    *jwt.Parser
}

// NewAuthenticator parses the configured key material once
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	a := &Authenticator{
		apiKeys: make(map[string]struct{}, len(cfg.APIKeys)),
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired()),
	}
	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys[key] = struct{}{}
		}
	}

	if cfg.JWTPublicKey != "" {
		key, err := parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JWT public key: %w", err)
		}
		a.publicKey = key
	}

	return a, nil
}

// Authenticate resolves the caller of an "ApiKey <key>" or "Bearer <jwt>" header
func (a *Authenticator) Authenticate(authHeader string) (Caller, error) {
	if authHeader == "" {
		return Caller{}, ErrMissingCredentials
	}

	scheme, credentials, ok := strings.Cut(authHeader, " ")
	if !ok || credentials == "" {
		return Caller{}, fmt.Errorf("%w: malformed Authorization header", ErrInvalidCredentials)
	}

	switch strings.ToLower(scheme) {
	case "apikey":
		if _, ok := a.apiKeys[credentials]; !ok {
			return Caller{}, fmt.Errorf("%w: unknown API key", ErrInvalidCredentials)
		}
		return Caller{Subject: "operator", Operator: true}, nil

	case "bearer":
		if a.publicKey == nil {
			return Caller{}, fmt.Errorf("%w: station tokens are not accepted", ErrInvalidCredentials)
		}
		claims := &OrderClaims{}
		_, err := a.parser.ParseWithClaims(credentials, claims, func(*jwt.Token) (interface{}, error) {
			return a.publicKey, nil
		})
		if err != nil {
			return Caller{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}

		caller := Caller{Subject: claims.Subject, AccountIDs: claims.AccountIDs}
		for _, s := range strings.Fields(claims.Scope) {
			caller.Scopes = append(caller.Scopes, Scope(s))
		}
		return caller, nil

	default:
		return Caller{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidCredentials, scheme)
	}
}

// Require returns a gin middleware that admits callers holding scope
func (a *Authenticator) Require(scope Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := a.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.FullPath()),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierrors.NewResponse(apierrors.NewUnauthorizedError("Authentication failed", err.Error())))
			return
		}

		if !caller.HasScope(scope) {
			logger.WarnCtx(c.Request.Context(), "Missing scope",
				zap.String("subject", caller.Subject),
				zap.String("scope", string(scope)),
			)
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierrors.NewResponse(apierrors.NewForbiddenError("Missing scope", string(scope))))
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the caller admitted by Require
func CallerFrom(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := v.(Caller)
	return caller, ok
}

func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}
