package services

import (
	"time"

	"github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/types"

	"github.com/dgrijalva/jwt-go"
)

// TokenService ký và kiểm tra JWT (HS256) mang thông tin userinfo
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue tạo token cho caller
func (s *TokenService) Issue(caller types.Caller) (string, error) {
	claims := jwt.MapClaims{
		"userinfo": map[string]interface{}{
			"userid": caller.UserID,
			"role":   caller.Role,
		},
		"exp": time.Now().Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// GetCallerFromToken kiểm tra chữ ký và lấy userID, role từ token
func (s *TokenService) GetCallerFromToken(tokenString string) (types.Caller, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Unexpected signing method", nil)
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return types.Caller{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Invalid token", err)
	}

	claimsMap, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return types.Caller{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Cannot parse token claims", nil)
	}

	userInfo, ok := claimsMap["userinfo"].(map[string]interface{})
	if !ok {
		return types.Caller{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Token has no user info", nil)
	}

	userID, okID := userInfo["userid"].(float64)
	if !okID || userID <= 0 {
		return types.Caller{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Token has no user id", nil)
	}

	role, okRole := userInfo["role"].(string)
	if !okRole || role == "" {
		return types.Caller{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Token has no role", nil)
	}

	return types.Caller{UserID: uint(userID), Role: role}, nil
}
