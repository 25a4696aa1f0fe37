package middleware

import (
	"strings"

	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/types"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// CallerResolver đọc danh tính từ bearer token
type CallerResolver interface {
	GetCallerFromToken(token string) (types.Caller, error)
}

// AuthMiddleware xử lý authentication. Khi có roles thì chỉ các role đó được qua.
func AuthMiddleware(tokens CallerResolver, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		caller, err := tokens.GetCallerFromToken(tokenString)
		if err != nil {
			response.AppError(c, err)
			c.Abort()
			return
		}

		// Kiểm tra role nếu có yêu cầu
		if len(roles) > 0 {
			hasRole := false
			for _, role := range roles {
				if role == caller.Role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				response.Forbidden(c)
				c.Abort()
				return
			}
		}

		// Lưu thông tin user vào context
		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom trả về caller đã xác thực; request không qua AuthMiddleware nhận Caller rỗng
func CallerFrom(c *gin.Context) types.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(types.Caller); ok {
			return caller
		}
	}
	return types.Caller{}
}

// ErrorHandler xử lý lỗi mà handler đẩy vào c.Errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if apperrors.IsAppError(err) {
			response.AppError(c, err)
			return
		}
		response.ServerError(c)
	}
}
