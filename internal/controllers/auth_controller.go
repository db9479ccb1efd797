package controllers

import (
	"net/http"

	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthController 認証に関するコントローラー
type AuthController struct {
	authService   services.AuthService
	memberService services.MemberService
}

// NewAuthController AuthControllerを作成
func NewAuthController(authService services.AuthService, memberService services.MemberService) *AuthController {
	return &AuthController{
		authService:   authService,
		memberService: memberService,
	}
}

// SignUpRequest 会員登録リクエスト（マルチパートの signupDto）
type SignUpRequest struct {
	Name            string `json:"name" binding:"required,notblank,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	LoginID         string `json:"loginId" binding:"required,notblank,min=4,max=20"`
	Nickname        string `json:"nickname" binding:"required,notblank,max=20"`
	Password        string `json:"password" binding:"required,min=8,max=64"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LoginRequest ログインリクエスト（メールアドレスまたはログインID）
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,notblank"`
	Password   string `json:"password" binding:"required"`
}

// TokenRequest リフレッシュトークンを送るリクエスト
type TokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required,notblank"`
}

// EmailCheckRequest メールアドレス重複確認リクエスト
type EmailCheckRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// NicknameCheckRequest ニックネーム重複確認リクエスト
type NicknameCheckRequest struct {
	Nickname string `json:"nickname" binding:"required,notblank"`
}

// LoginIDCheckRequest ログインID重複確認リクエスト
type LoginIDCheckRequest struct {
	LoginID string `json:"loginId" binding:"required,notblank"`
}

// NameEmailRequest 名前とメールアドレスの確認リクエスト
type NameEmailRequest struct {
	Name  string `json:"name" binding:"required,notblank"`
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest パスワード再設定リクエスト
type ResetPasswordRequest struct {
	Email              string `json:"email" binding:"required,email"`
	NewPassword        string `json:"newPassword" binding:"required,min=8,max=64"`
	NewPasswordConfirm string `json:"newPasswordConfirm" binding:"required"`
}

// SignUp 会員登録
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req SignUpRequest
	if err := bindJSONPart(ctx, "signupDto", &req); err != nil {
		respondError(ctx, err, "会員登録中にエラーが発生しました")
		return
	}

	image, closeFiles, err := formFile(ctx, "profileImage")
	defer closeFiles()
	if err != nil {
		respondError(ctx, services.ErrInvalidFile.Wrap(err), "会員登録中にエラーが発生しました")
		return
	}

	_, err = c.memberService.SignUp(ctx.Request.Context(), &services.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		LoginID:         req.LoginID,
		Nickname:        req.Nickname,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}, image)
	if err != nil {
		respondError(ctx, err, "会員登録中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "会員登録が完了しました"})
}

// Login ログイン
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "ログイン中にエラーが発生しました")
		return
	}

	pair, err := c.authService.Login(ctx.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(ctx, err, "ログイン中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, pair)
}

// Refresh アクセストークンを再発行
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "トークンの再発行中にエラーが発生しました")
		return
	}

	pair, err := c.authService.RefreshAccessToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		respondUnauthorized(ctx, err, "トークンの再発行中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, pair)
}

// Logout ログアウト
func (c *AuthController) Logout(ctx *gin.Context) {
	var req TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "ログアウト中にエラーが発生しました")
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		respondUnauthorized(ctx, err, "ログアウト中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "ログアウトしました"})
}

// CheckEmail メールアドレスが使用可能か確認
func (c *AuthController) CheckEmail(ctx *gin.Context) {
	var req EmailCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "メールアドレスの確認中にエラーが発生しました")
		return
	}

	inUse, err := c.memberService.IsEmailAlreadyInUse(ctx.Request.Context(), req.Email)
	if err != nil {
		respondError(ctx, err, "メールアドレスの確認中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"available": !inUse})
}

// CheckNickname ニックネームが使用可能か確認
func (c *AuthController) CheckNickname(ctx *gin.Context) {
	var req NicknameCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "ニックネームの確認中にエラーが発生しました")
		return
	}

	inUse, err := c.memberService.IsNicknameAlreadyInUse(ctx.Request.Context(), req.Nickname)
	if err != nil {
		respondError(ctx, err, "ニックネームの確認中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"available": !inUse})
}

// CheckLoginID ログインIDが使用可能か確認
func (c *AuthController) CheckLoginID(ctx *gin.Context) {
	var req LoginIDCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "ログインIDの確認中にエラーが発生しました")
		return
	}

	inUse, err := c.memberService.IsLoginIDAlreadyInUse(ctx.Request.Context(), req.LoginID)
	if err != nil {
		respondError(ctx, err, "ログインIDの確認中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"available": !inUse})
}

// VerifyNameEmail 名前とメールアドレスが同じ会員のものか確認（パスワード再設定の事前確認）
func (c *AuthController) VerifyNameEmail(ctx *gin.Context) {
	var req NameEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "会員情報の確認中にエラーが発生しました")
		return
	}

	matched, err := c.memberService.IsNameAndEmailMatching(ctx.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondError(ctx, err, "会員情報の確認中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"matched": matched})
}

// ResetPassword パスワード再設定
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, validationError(err), "パスワードの再設定中にエラーが発生しました")
		return
	}

	if err := c.memberService.ResetPassword(ctx.Request.Context(), req.Email, req.NewPassword, req.NewPasswordConfirm); err != nil {
		respondError(ctx, err, "パスワードの再設定中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "パスワードを再設定しました"})
}
