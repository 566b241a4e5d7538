package api

import (
	"alcyxob/workout-tracker/internal/config"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextRequestIDKey = "requestID"
	ContextLoggerKey    = "logger"

	requestIDHeader = "X-Request-ID"
)

// jwtClaims is the payload issued by the identity service. The caller is
// identified by uid, then the standard subject, then username.
type jwtClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func (c *jwtClaims) identity() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.Subject != "":
		return c.Subject
	default:
		return c.Username
	}
}

// JWTKeys holds the verification keys accepted by AuthMiddleware. A nil or
// empty key disables the matching signing method family.
type JWTKeys struct {
	HMACSecret   []byte
	RSAPublicKey *rsa.PublicKey
}

// LoadJWTKeys reads the shared secret and, when configured, the PEM encoded
// RSA public key.
func LoadJWTKeys(cfg config.JWTConfig) (JWTKeys, error) {
	keys := JWTKeys{}
	if cfg.Secret != "" {
		keys.HMACSecret = []byte(cfg.Secret)
	}
	if cfg.PublicKeyPath != "" {
		pem, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return JWTKeys{}, fmt.Errorf("read jwt public key: %w", err)
		}
		keys.RSAPublicKey, err = jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return JWTKeys{}, fmt.Errorf("parse jwt public key: %w", err)
		}
	}
	if keys.HMACSecret == nil && keys.RSAPublicKey == nil {
		return JWTKeys{}, errors.New("no jwt verification key configured")
	}
	return keys, nil
}

func (k JWTKeys) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if k.HMACSecret != nil {
			return k.HMACSecret, nil
		}
	case *jwt.SigningMethodRSA:
		if k.RSAPublicKey != nil {
			return k.RSAPublicKey, nil
		}
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}

// AuthMiddleware creates a Gin middleware for JWT authentication. issuer is
// checked only when non-empty.
func AuthMiddleware(keys JWTKeys, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, keys.keyFunc)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid token")
			}
			return
		}

		if !token.Valid || claims.identity() == "" {
			abortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid token or missing claims")
			return
		}
		if issuer != "" && !claims.VerifyIssuer(issuer, true) {
			abortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Token issuer is not trusted")
			return
		}

		c.Set(ContextUserIDKey, claims.identity())
		c.Next()
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	if rid := c.GetString(ContextRequestIDKey); rid != "" {
		return rid
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// Logger attaches a request-scoped logger and writes one access log line per
// request. 5xx and handler errors log at error, 4xx at warn.
func Logger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		l := base.With().
			Str("request_id", requestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Logger()
		c.Set(ContextLoggerKey, &l)

		c.Next()

		ev := l.With().
			Str("user_id", c.GetString(ContextUserIDKey)).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= http.StatusInternalServerError:
			ev.Error().Msg("request")
		case status >= http.StatusBadRequest:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// LoggerFrom returns the request-scoped logger, or the global one when Logger
// has not run.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(ContextLoggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	return &log.Logger
}

// Recovery converts panics into a JSON 500 envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				if !c.Writer.Written() {
					abortWithError(c, http.StatusInternalServerError, ErrCodeInternal, internalErrorMessage)
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// limitBody caps request bodies at maxBytes. Oversized bodies fail on read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
