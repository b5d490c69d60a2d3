// Package flash carries one-shot notifications across a redirect in a
// signed cookie.
package flash

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/config"
)

// CookieName is the flash cookie. It is never forwarded to the backend.
const CookieName = "jt_flash"

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the flash package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Claims is the signed flash payload.
type Claims struct {
	Level   actions.Level `json:"lvl"`
	Message string        `json:"msg"`
	jwt.RegisteredClaims
}

// Service signs and verifies flash cookies.
type Service struct {
	config *config.FlashConfig
	now    func() time.Time
}

// NewService creates a flash service with the given configuration.
func NewService(cfg *config.FlashConfig) *Service {
	return &Service{config: cfg, now: time.Now}
}

// Sign encodes n as a token that expires after the configured TTL.
func (s *Service) Sign(n actions.Notification) (string, error) {
	if s.config.Secret == "" {
		return "", errors.New("failed to sign flash: secret is empty")
	}
	now := s.now()
	claims := &Claims{
		Level:   n.Level,
		Message: n.Message,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign flash: %w", err)
	}
	return signed, nil
}

// Verify decodes a token produced by Sign.
func (s *Service) Verify(tokenString string) (*actions.Notification, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("flash expired: %w", err)
		}
		return nil, fmt.Errorf("invalid flash: %w", err)
	}
	return &actions.Notification{Level: claims.Level, Message: claims.Message}, nil
}

// Set writes n as the flash cookie. A notification that cannot be signed is
// logged and dropped.
func (s *Service) Set(w http.ResponseWriter, n actions.Notification) {
	token, err := s.Sign(n)
	if err != nil {
		logger.Error("dropping flash notification",
			slog.String("level", string(n.Level)),
			slog.String("message", n.Message),
			slog.String("error", err.Error()))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.config.TTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notification, if any, and clears the cookie.
// Tampered or expired cookies are cleared and ignored.
func (s *Service) Pop(w http.ResponseWriter, r *http.Request) *actions.Notification {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	n, err := s.Verify(c.Value)
	if err != nil {
		return nil
	}
	return n
}

// Notifier returns an actions.Notifier that sets the flash on w. Later
// notifications replace earlier ones.
func (s *Service) Notifier(w http.ResponseWriter) actions.Notifier {
	return actions.NotifierFunc(func(n actions.Notification) {
		s.Set(w, n)
	})
}
