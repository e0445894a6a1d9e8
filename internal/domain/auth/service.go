package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/question-bank/pkg/errors"
)

const issuer = "question-bank"

// Service validates API credentials.
type Service interface {
	Enabled() bool
	ValidateToken(ctx context.Context, token string) (Claims, error)
	VerifyAPIKey(ctx context.Context, key string) (Claims, error)
	IssueToken(subject string, ttl time.Duration) (string, error)
}

type service struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the auth domain.
func NewService(cfg Config, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		logger: logger.With("component", "auth.service"),
		now:    time.Now,
	}
}

func (s *service) Enabled() bool {
	return s.cfg.Enabled
}

func (s *service) ValidateToken(_ context.Context, token string) (Claims, error) {
	if strings.TrimSpace(s.cfg.Secret) == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token authentication is not configured", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	return Claims{
		Subject:   claims.Subject,
		Method:    MethodToken,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *service) VerifyAPIKey(_ context.Context, key string) (Claims, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "api key cannot be empty", nil)
	}
	for i, hash := range s.cfg.APIKeyHashes {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
		if err == nil {
			return Claims{Subject: "api-key-" + strconv.Itoa(i), Method: MethodAPIKey}, nil
		}
		if err != bcrypt.ErrMismatchedHashAndPassword {
			s.logger.Warn("skipping malformed api key hash", "index", i, "error", err)
		}
	}
	return Claims{}, apperrors.Wrap("invalid_token", "api key not recognized", nil)
}

func (s *service) IssueToken(subject string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(s.cfg.Secret) == "" {
		return "", apperrors.Wrap("auth_failed", "secret is required to sign tokens", nil)
	}
	if ttl <= 0 {
		return "", apperrors.Wrap("invalid_input", "token ttl must be positive", nil)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ID:        newTokenID(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap("auth_failed", "failed to sign token", err)
	}
	return signed, nil
}

// HashAPIKey returns the bcrypt hash stored in configuration for key.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func newTokenID(now time.Time) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(now.UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
