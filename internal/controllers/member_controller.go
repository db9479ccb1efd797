package controllers

import (
	"net/http"

	"github.com/SketchShifter/midpoint_backend/internal/middlewares"
	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// MemberController 会員に関するコントローラー
type MemberController struct {
	memberService services.MemberService
}

// NewMemberController MemberControllerを作成
func NewMemberController(memberService services.MemberService) *MemberController {
	return &MemberController{
		memberService: memberService,
	}
}

// ProfileUpdateRequest プロフィール更新リクエスト（マルチパートの profileUpdateDto）
type ProfileUpdateRequest struct {
	Name            string `json:"name" binding:"required,notblank,max=100"`
	Nickname        string `json:"nickname" binding:"required,notblank,max=20"`
	UseDefaultImage bool   `json:"useDefaultImage"`
}

// PasswordVerifyRequest パスワード確認リクエスト
type PasswordVerifyRequest struct {
	Password string `json:"password" binding:"required"`
}

// GetProfile 自分のプロフィールを取得
func (c *MemberController) GetProfile(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	profile, err := c.memberService.GetProfile(ctx.Request.Context(), member.Email)
	if err != nil {
		respondError(ctx, err, "プロフィールの取得中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile プロフィールを更新
func (c *MemberController) UpdateProfile(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	var req ProfileUpdateRequest
	if err := bindJSONPart(ctx, "profileUpdateDto", &req); err != nil {
		respondError(ctx, err, "プロフィールの更新中にエラーが発生しました")
		return
	}

	image, closeFiles, err := formFile(ctx, "profileImage")
	defer closeFiles()
	if err != nil {
		respondError(ctx, services.ErrInvalidFile.Wrap(err), "プロフィールの更新中にエラーが発生しました")
		return
	}

	profile, err := c.memberService.UpdateProfile(ctx.Request.Context(), member.Email, &services.ProfileUpdateInput{
		Name:            req.Name,
		Nickname:        req.Nickname,
		UseDefaultImage: req.UseDefaultImage,
	}, image)
	if err != nil {
		respondError(ctx, err, "プロフィールの更新中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// VerifyPassword 現在のパスワードを確認
func (c *MemberController) VerifyPassword(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	var req PasswordVerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "パスワードの確認中にエラーが発生しました")
		return
	}

	if err := c.memberService.VerifyPassword(ctx.Request.Context(), member.Email, req.Password); err != nil {
		respondError(ctx, err, "パスワードの確認中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "パスワードが一致しました"})
}

// DeleteMember 退会
func (c *MemberController) DeleteMember(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	if _, err := c.memberService.DeleteMember(ctx.Request.Context(), member.Email); err != nil {
		respondError(ctx, err, "退会処理中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "退会が完了しました"})
}
