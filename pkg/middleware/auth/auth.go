package auth

import (
	// 外部依赖
	"context"
	"strings"

	gin "github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	// 内部引用
	config "github.com/hemolink/bloodlink/internal/config"
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
)

const USERKEY = "AUTH_USER_KEY"

// UserData 当前登录账号，由网关签发的 JWT 解析得到
// 登录/签发流程不在本服务内
type UserData struct {
	UUID uuid.UUID
	Role common.Role
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken 校验 HS256 JWT，sub 为 person uuid，role 为平台角色
func ParseToken(ctx context.Context, token string) (*UserData, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, code.InvalidToken.WithMsgf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.Global().Auth.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		logger.Warnf(ctx, "parse token fail err: %v", err)
		return nil, code.InvalidToken
	}

	id, err := uuid.FromString(c.Subject)
	if err != nil {
		return nil, code.InvalidToken.WithMsg("invalid subject")
	}

	role := common.Role(c.Role)
	if !role.Valid() {
		return nil, code.InvalidToken.WithMsg("invalid role")
	}

	return &UserData{UUID: id, Role: role}, nil
}

func AuthWeb() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			common.ReplyErr(ctx, code.UnLogin)
			ctx.Abort()
			return
		}

		user, err := ParseToken(ctx, token)
		if err != nil {
			common.ReplyErr(ctx, err)
			ctx.Abort()
			return
		}

		ctx.Set(USERKEY, user)
		ctx.Next()
	}
}

// RequireRole 仅放行指定角色，ADMIN 始终放行
func RequireRole(roles ...common.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := GetCurrentUser(ctx)
		if user == nil {
			common.ReplyErr(ctx, code.UnLogin)
			ctx.Abort()
			return
		}
		if user.Role == common.RoleAdmin {
			ctx.Next()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				ctx.Next()
				return
			}
		}
		common.ReplyErr(ctx, code.PermissionDenied)
		ctx.Abort()
	}
}

func GetCurrentUser(ctx context.Context) *UserData {
	if user, ok := ctx.Value(USERKEY).(*UserData); ok {
		return user
	}
	return nil
}
