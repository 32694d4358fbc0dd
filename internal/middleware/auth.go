package middleware

import (
	"strings"

	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DeviceVerifier 取参赛者当前生效的设备标识
type DeviceVerifier interface {
	CurrentDeviceID(userID uint) (string, error)
}

func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// AuthMiddleware 解析令牌并执行会话互斥检查：令牌内嵌的设备标识
// 必须等于库里的当前设备。不匹配返回带 sessionExpired 标记的 401，
// 前端据此提示"已在其他设备登录"而不是"密码错误"
func AuthMiddleware(cfg *config.Config, devices DeviceVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		currentDevice, err := devices.CurrentDeviceID(claims.UserID)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if currentDevice != claims.DeviceID {
			util.SessionExpiredError(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TokenMiddleware 只校验令牌签名，不做设备比对。
// 用于 logout：被顶替的设备也要能正常退出
func TokenMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			// 管理员直接放行
			if user.Role == model.Admin || user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionToucher 刷新设备会话的活跃时间
type SessionToucher interface {
	Touch(userID uint, deviceID string) error
}

// ActivityMiddleware 记录会话活跃时间。异步更新，不阻塞主流程
func ActivityMiddleware(sessions SessionToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil && claims.DeviceID != "" {
			go sessions.Touch(claims.UserID, claims.DeviceID)
		}
		c.Next()
	}
}
