package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// statusOf エラーの分類からHTTPステータスを決める
func statusOf(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindConditionNotMet, services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError サービスのエラーをレスポンスに変換する。fallback は想定外のエラーのときのメッセージ
func respondError(ctx *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": verr.Errors})
		return
	}

	var serr *services.ServiceError
	if errors.As(err, &serr) && serr.Kind != services.KindInternal {
		ctx.JSON(statusOf(serr.Kind), gin.H{
			"error":   serr.Code,
			"message": serr.Message,
		})
		return
	}

	log.Printf("%s: %v", fallback, err)
	message := fallback
	if serr != nil {
		message = serr.Message
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error":   err.Error(),
		"message": message,
	})
}

// respondUnauthorized トークン関連のエラーはすべて401として返す
func respondUnauthorized(ctx *gin.Context, err error, fallback string) {
	var serr *services.ServiceError
	if errors.As(err, &serr) && serr.Kind != services.KindInternal {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   serr.Code,
			"message": serr.Message,
		})
		return
	}
	respondError(ctx, err, fallback)
}
