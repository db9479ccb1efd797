package controllers

import (
	"net/http"
	"strconv"

	"github.com/SketchShifter/midpoint_backend/internal/middlewares"
	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PostController 投稿に関するコントローラー
type PostController struct {
	postService services.PostService
}

// NewPostController PostControllerを作成
func NewPostController(postService services.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

// PostRequest 投稿作成リクエスト（マルチパートの postDto）
type PostRequest struct {
	Title        string   `json:"title" binding:"required,notblank,max=100"`
	Content      string   `json:"content" binding:"required,notblank,max=2000"`
	PostHashtags []string `json:"postHashtag" binding:"required,len=2,unique,dive,notblank,max=30"`
}

// PostUpdateRequest 投稿更新リクエスト（マルチパートの postDto）
type PostUpdateRequest struct {
	Title           string   `json:"title" binding:"required,notblank,max=100"`
	Content         string   `json:"content" binding:"required,notblank,max=2000"`
	PostHashtags    []string `json:"postHashtag" binding:"required,len=2,unique,dive,notblank,max=30"`
	DeleteImageURLs []string `json:"deleteImageUrl"`
}

// List 投稿一覧を取得
func (c *PostController) List(ctx *gin.Context) {
	viewer, _ := middlewares.CurrentMember(ctx)

	posts, err := c.postService.GetAllPosts(ctx.Request.Context(), viewer)
	if err != nil {
		respondError(ctx, err, "投稿一覧の取得中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// GetByID 投稿詳細を取得
func (c *PostController) GetByID(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	viewer, _ := middlewares.CurrentMember(ctx)

	post, err := c.postService.GetPostByID(ctx.Request.Context(), id, viewer)
	if err != nil {
		respondError(ctx, err, "投稿の取得中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, post)
}

// ToggleLike いいねを切り替え
func (c *PostController) ToggleLike(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	liked, err := c.postService.ChangeLikes(ctx.Request.Context(), member.Email, id)
	if err != nil {
		respondError(ctx, err, "いいねの変更中にエラーが発生しました")
		return
	}

	message := "いいねを取り消しました"
	if liked {
		message = "いいねしました"
	}
	ctx.JSON(http.StatusOK, gin.H{"message": message, "likes": liked})
}

// Create 投稿を作成
func (c *PostController) Create(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	var req PostRequest
	if err := bindJSONPart(ctx, "postDto", &req); err != nil {
		respondError(ctx, err, "投稿の作成中にエラーが発生しました")
		return
	}

	images, closeFiles, err := formFiles(ctx, "postImages")
	defer closeFiles()
	if err != nil {
		respondError(ctx, services.ErrInvalidFile.Wrap(err), "投稿の作成中にエラーが発生しました")
		return
	}

	id, err := c.postService.CreatePost(ctx.Request.Context(), &services.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		Hashtags: req.PostHashtags,
	}, member, images)
	if err != nil {
		respondError(ctx, err, "投稿の作成中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "投稿を作成しました", "postId": id})
}

// Update 投稿を更新
func (c *PostController) Update(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	var req PostUpdateRequest
	if err := bindJSONPart(ctx, "postDto", &req); err != nil {
		respondError(ctx, err, "投稿の更新中にエラーが発生しました")
		return
	}

	images, closeFiles, err := formFiles(ctx, "postImages")
	defer closeFiles()
	if err != nil {
		respondError(ctx, services.ErrInvalidFile.Wrap(err), "投稿の更新中にエラーが発生しました")
		return
	}

	err = c.postService.UpdatePost(ctx.Request.Context(), id, &services.PostUpdateInput{
		Title:           req.Title,
		Content:         req.Content,
		Hashtags:        req.PostHashtags,
		DeleteImageURLs: req.DeleteImageURLs,
	}, member, images)
	if err != nil {
		respondError(ctx, err, "投稿の更新中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "投稿を更新しました"})
}

// Delete 投稿を削除
func (c *PostController) Delete(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	if err := c.postService.DeletePost(ctx.Request.Context(), member, id); err != nil {
		respondError(ctx, err, "投稿の削除中にエラーが発生しました")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Mine 自分の投稿一覧を取得
func (c *PostController) Mine(ctx *gin.Context) {
	member, ok := middlewares.CurrentMember(ctx)
	if !ok {
		respondError(ctx, services.ErrUnauthorized, "")
		return
	}

	posts, err := c.postService.GetMyAllPosts(ctx.Request.Context(), member)
	if err != nil {
		respondError(ctx, err, "投稿一覧の取得中にエラーが発生しました")
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// postIDParam パスの postId を読み取る。数値でなければ404を返す
func postIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("postId"), 10, 64)
	if err != nil || id == 0 {
		respondError(ctx, services.ErrPostNotFound, "")
		return 0, false
	}
	return uint(id), true
}
