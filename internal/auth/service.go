package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brunosouza-justauto/eng-sub005/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Service — сервис авторизации
type Service struct {
	config *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// SignInDev — dev-авторизация, выдает JWT без внешнего identity-провайдера
func (s *Service) SignInDev(req *DevAuthRequest) (*DevAuthResponse, error) {
	userID := "dev-user"
	if req != nil && req.UserID != "" {
		userID = req.UserID
	}

	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute

	accessToken, err := s.generateJWT(userID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		UserID:      userID,
	}, nil
}

func (s *Service) generateJWT(userID string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT — проверка JWT токена, возвращает sub
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
