package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims carries the identity embedded in issued tokens. HospitalID is nil
// for the platform admin persona.
type Claims struct {
	UserID     uuid.UUID
	HospitalID *uuid.UUID
	Email      string
	Role       string
}

type JWTService interface {
	GenerateAccessToken(claims *Claims) (string, error)
	GenerateRefreshToken(claims *Claims) (string, error)
	ValidateToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
}

type Config struct {
	Secret        string        `mapstructure:"secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	Expiry        time.Duration `mapstructure:"expiry"`
	RefreshExpiry time.Duration `mapstructure:"refresh_expiry"`
}

type jwtService struct {
	cfg Config
}

func NewJWTService(cfg Config) JWTService {
	if cfg.Expiry == 0 {
		cfg.Expiry = 24 * time.Hour
	}
	if cfg.RefreshExpiry == 0 {
		cfg.RefreshExpiry = 7 * 24 * time.Hour
	}
	return &jwtService{cfg: cfg}
}

func (s *jwtService) GenerateAccessToken(claims *Claims) (string, error) {
	return s.generate(claims, []byte(s.cfg.Secret), s.cfg.Expiry)
}

func (s *jwtService) GenerateRefreshToken(claims *Claims) (string, error) {
	return s.generate(claims, []byte(s.cfg.RefreshSecret), s.cfg.RefreshExpiry)
}

func (s *jwtService) ValidateToken(token string) (*Claims, error) {
	return s.validate(token, []byte(s.cfg.Secret))
}

func (s *jwtService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(token, []byte(s.cfg.RefreshSecret))
}

func (s *jwtService) generate(claims *Claims, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"user_id": claims.UserID.String(),
		"email":   claims.Email,
		"role":    claims.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(expiry).Unix(),
	}
	if claims.HospitalID != nil {
		mapClaims["hospital_id"] = claims.HospitalID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) validate(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userIDStr, _ := mapClaims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UserID: userID,
	}
	claims.Email, _ = mapClaims["email"].(string)
	claims.Role, _ = mapClaims["role"].(string)

	if hospitalIDStr, ok := mapClaims["hospital_id"].(string); ok {
		hospitalID, err := uuid.Parse(hospitalIDStr)
		if err != nil {
			return nil, ErrInvalidToken
		}
		claims.HospitalID = &hospitalID
	}

	return claims, nil
}
