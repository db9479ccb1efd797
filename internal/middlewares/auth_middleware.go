package middlewares

import (
	"net/http"
	"strings"

	"github.com/SketchShifter/midpoint_backend/internal/models"
	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// MemberKey 認証済み会員を保存するコンテキストキー
const MemberKey = "member"

// AuthMiddleware 認証ミドルウェア
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			abortUnauthorized(ctx, services.ErrUnauthorized)
			return
		}

		member, err := authService.MemberFromAccessToken(ctx.Request.Context(), token)
		if err != nil {
			if services.KindOf(err) != services.KindUnauthorized {
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   err.Error(),
					"message": "認証情報の確認中にエラーが発生しました",
				})
				return
			}
			abortUnauthorized(ctx, services.ErrInvalidToken)
			return
		}

		// 会員をコンテキストに保存
		ctx.Set(MemberKey, member)
		ctx.Next()
	}
}

// OptionalAuthMiddleware オプショナル認証ミドルウェア（認証がない場合もエラーを返さない）
func OptionalAuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			ctx.Next()
			return
		}

		member, err := authService.MemberFromAccessToken(ctx.Request.Context(), token)
		if err == nil {
			ctx.Set(MemberKey, member)
		}
		ctx.Next()
	}
}

// CurrentMember コンテキストから認証済み会員を取得
func CurrentMember(ctx *gin.Context) (*models.Member, bool) {
	v, exists := ctx.Get(MemberKey)
	if !exists {
		return nil, false
	}
	member, ok := v.(*models.Member)
	return member, ok && member != nil
}

func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func abortUnauthorized(ctx *gin.Context, err *services.ServiceError) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   err.Code,
		"message": err.Message,
	})
}
