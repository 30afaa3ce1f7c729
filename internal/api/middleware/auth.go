package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jstittsworth/draftsheet/pkg/utils"
)

// SessionClaims is the payload of a draft-session bearer token. Session is
// the public ID of the draft session the token may mutate.
type SessionClaims struct {
	Session string `json:"session"`
	jwt.RegisteredClaims
}

// SessionTokenTTL bounds session tokens. Sessions are often staged days
// before the pick clock starts.
const SessionTokenTTL = 30 * 24 * time.Hour

// NewSessionToken signs a bearer token for one draft session.
func NewSessionToken(secret, sessionPublicID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(SessionTokenTTL)

	claims := &SessionClaims{
		Session: sessionPublicID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionPublicID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "draftsheet",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// SessionAuth validates the session bearer token on mutating routes. On
// routes carrying an :id path parameter the token must name that session;
// elsewhere any live session token passes.
func SessionAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.SendUnauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.SendUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*SessionClaims)
		if !ok || claims.Session == "" {
			utils.SendUnauthorized(c, "Invalid token claims")
			c.Abort()
			return
		}

		if id := c.Param("id"); id != "" && id != claims.Session {
			utils.SendUnauthorized(c, "Token does not match draft session")
			c.Abort()
			return
		}

		c.Set("session_id", claims.Session)
		c.Next()
	}
}

// SessionIDFromContext returns the session public ID set by SessionAuth.
func SessionIDFromContext(c *gin.Context) string {
	if v, exists := c.Get("session_id"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
