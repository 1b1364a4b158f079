package serverutils

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const SessionIDKey = "session_id"

var (
	secretMu  sync.RWMutex
	jwtSecret []byte

	ErrInvalidToken = errors.New("invalid token")
)

// ConfigureJwt sets the HMAC secret used to sign and verify session tokens.
func ConfigureJwt(secret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	jwtSecret = []byte(secret)
}

func secret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return jwtSecret
}

// IssueSessionToken signs a token bound to one study session.
func IssueSessionToken(sessionID string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		SessionIDKey: sessionID,
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	})
	signed, err := token.SignedString(secret())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseSessionToken returns the session id carried by a valid token.
func ParseSessionToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sessionID, ok := claims[SessionIDKey].(string)
	if !ok || sessionID == "" {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	sessionID, err := ParseSessionToken(authHeader[7:])
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	ctx.Locals(SessionIDKey, sessionID)
	return ctx.Next()
}

// SessionID reads the id stored by JwtMiddleware.
func SessionID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(SessionIDKey).(string)
	return id
}
