package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/models"
	"github.com/SketchShifter/midpoint_backend/internal/repository"
)

// 投稿ごとのハッシュタグ数
const PostHashtagCount = 2

// PostInput 投稿作成の入力
type PostInput struct {
	Title    string
	Content  string
	Hashtags []string
}

// PostUpdateInput 投稿更新の入力
type PostUpdateInput struct {
	Title           string
	Content         string
	Hashtags        []string
	DeleteImageURLs []string
}

// PostResponse 一覧表示用の投稿
type PostResponse struct {
	PostID        uint      `json:"postId"`
	Title         string    `json:"title"`
	FirstImageURL string    `json:"firstImageUrl"`
	PostHashtags  []string  `json:"postHashtag"`
	Likes         bool      `json:"likes"`
	LikeCount     int64     `json:"likeCount"`
	CreateDate    time.Time `json:"createDate"`
}

// PostDetailResponse 投稿詳細
type PostDetailResponse struct {
	PostID          uint      `json:"postId"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Images          []string  `json:"images"`
	PostHashtags    []string  `json:"postHashtag"`
	Likes           bool      `json:"likes"`
	LikeCount       int64     `json:"likeCount"`
	CreateDate      time.Time `json:"createDate"`
}

// PostService 投稿に関するサービスインターフェース
type PostService interface {
	GetAllPosts(ctx context.Context, viewer *models.Member) ([]PostResponse, error)
	GetPostByID(ctx context.Context, id uint, viewer *models.Member) (*PostDetailResponse, error)
	IsPostExist(ctx context.Context, id uint) error
	ChangeLikes(ctx context.Context, email string, postID uint) (bool, error)
	CreatePost(ctx context.Context, in *PostInput, owner *models.Member, images []*FileUpload) (uint, error)
	UpdatePost(ctx context.Context, id uint, in *PostUpdateInput, owner *models.Member, images []*FileUpload) error
	DeletePost(ctx context.Context, owner *models.Member, id uint) error
	GetMyAllPosts(ctx context.Context, owner *models.Member) ([]PostResponse, error)
}

// postService PostServiceの実装
type postService struct {
	store   repository.Store
	storage StorageService
	config  *config.Config
}

// NewPostService PostServiceを作成
func NewPostService(store repository.Store, storage StorageService, cfg *config.Config) PostService {
	return &postService{
		store:   store,
		storage: storage,
		config:  cfg,
	}
}

// GetAllPosts すべての投稿を新着順に取得
func (s *postService) GetAllPosts(ctx context.Context, viewer *models.Member) ([]PostResponse, error) {
	store := s.store.WithContext(ctx)

	posts, err := store.Posts().List()
	if err != nil {
		return nil, err
	}
	return s.summarize(store, posts, viewer)
}

// GetMyAllPosts 自分の投稿を新着順に取得
func (s *postService) GetMyAllPosts(ctx context.Context, owner *models.Member) ([]PostResponse, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	store := s.store.WithContext(ctx)

	posts, err := store.Posts().ListByMember(owner.ID)
	if err != nil {
		return nil, err
	}
	return s.summarize(store, posts, owner)
}

// GetPostByID 投稿の詳細を取得
func (s *postService) GetPostByID(ctx context.Context, id uint, viewer *models.Member) (*PostDetailResponse, error) {
	store := s.store.WithContext(ctx)

	post, err := s.findPost(store, id)
	if err != nil {
		return nil, err
	}

	counts, err := store.Likes().CountByPosts([]uint{post.ID})
	if err != nil {
		return nil, err
	}

	liked := false
	if viewer != nil {
		if liked, err = store.Likes().Exists(viewer.ID, post.ID); err != nil {
			return nil, err
		}
	}

	profileImageURL := s.config.Storage.DefaultProfileImageURL
	if post.Member.ProfileImage != nil {
		profileImageURL = post.Member.ProfileImage.ImageURL
	}

	images := make([]string, 0, len(post.Images))
	for _, image := range post.Images {
		images = append(images, image.ImageURL)
	}

	return &PostDetailResponse{
		PostID:          post.ID,
		Nickname:        post.Member.Nickname,
		ProfileImageURL: profileImageURL,
		Title:           post.Title,
		Content:         post.Content,
		Images:          images,
		PostHashtags:    hashtagNames(post),
		Likes:           liked,
		LikeCount:       counts[post.ID],
		CreateDate:      post.CreatedAt,
	}, nil
}

// IsPostExist 投稿が存在するか確認
func (s *postService) IsPostExist(ctx context.Context, id uint) error {
	exists, err := s.store.WithContext(ctx).Posts().Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return nil
}

// ChangeLikes いいねを切り替え、切り替え後の状態を返す
func (s *postService) ChangeLikes(ctx context.Context, email string, postID uint) (bool, error) {
	store := s.store.WithContext(ctx)

	member, err := store.Members().FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrMemberNotFound
	}
	if err != nil {
		return false, err
	}

	if err := s.IsPostExist(ctx, postID); err != nil {
		return false, err
	}

	liked, err := toggleLike(store, member.ID, postID)
	if errors.Is(err, repository.ErrDuplicated) {
		// 同時に追加されていた場合は追加済みとしてもう一度切り替える
		liked, err = toggleLike(store, member.ID, postID)
	}
	if err != nil {
		return false, err
	}

	return liked, nil
}

func toggleLike(store repository.Store, memberID, postID uint) (bool, error) {
	var liked bool
	err := store.Transaction(func(tx repository.Store) error {
		exists, err := tx.Likes().Exists(memberID, postID)
		if err != nil {
			return err
		}
		if exists {
			liked = false
			return tx.Likes().Delete(memberID, postID)
		}
		liked = true
		return tx.Likes().Create(memberID, postID)
	})
	return liked, err
}

// CreatePost 投稿を作成
func (s *postService) CreatePost(ctx context.Context, in *PostInput, owner *models.Member, images []*FileUpload) (uint, error) {
	if owner == nil {
		return 0, ErrUnauthorized
	}
	if err := validatePost(in.Title, in.Content, in.Hashtags); err != nil {
		return 0, err
	}

	files := nonEmptyFiles(images)
	if err := checkImageCount(len(files)); err != nil {
		return 0, err
	}

	uploaded, err := s.uploadAll(ctx, files)
	if err != nil {
		return 0, err
	}

	post := &models.Post{
		MemberID: owner.ID,
		Title:    in.Title,
		Content:  in.Content,
	}

	err = s.store.WithContext(ctx).Transaction(func(tx repository.Store) error {
		if err := tx.Posts().Create(post); err != nil {
			return err
		}
		if err := attachHashtags(tx, post.ID, in.Hashtags); err != nil {
			return err
		}
		return tx.Images().CreatePostImages(postImages(post.ID, owner.ID, uploaded))
	})
	if err != nil {
		removeObjects(ctx, s.storage, uploaded...)
		return 0, err
	}

	log.Printf("投稿を作成しました: id=%d memberId=%d", post.ID, owner.ID)
	return post.ID, nil
}

// UpdatePost 投稿を更新。画像枚数の確認はすべての変更より前に行う
func (s *postService) UpdatePost(ctx context.Context, id uint, in *PostUpdateInput, owner *models.Member, images []*FileUpload) error {
	if owner == nil {
		return ErrUnauthorized
	}
	store := s.store.WithContext(ctx)

	post, err := s.findPost(store, id)
	if err != nil {
		return err
	}
	if post.MemberID != owner.ID {
		return ErrForbidden.WithMessage("自分が作成した投稿のみ編集できます")
	}

	if err := validatePost(in.Title, in.Content, in.Hashtags); err != nil {
		return err
	}

	current := make(map[string]bool, len(post.Images))
	for _, image := range post.Images {
		current[image.ImageURL] = true
	}

	var deleting []string
	seen := make(map[string]bool, len(in.DeleteImageURLs))
	for _, u := range in.DeleteImageURLs {
		if seen[u] {
			continue
		}
		seen[u] = true
		if !current[u] {
			return ErrConditionNotMet.WithMessage(fmt.Sprintf("削除する画像が投稿に含まれていません: %s", u))
		}
		deleting = append(deleting, u)
	}

	files := nonEmptyFiles(images)
	if err := checkImageCount(len(post.Images) - len(deleting) + len(files)); err != nil {
		return err
	}

	uploaded, err := s.uploadAll(ctx, files)
	if err != nil {
		return err
	}

	post.Title = in.Title
	post.Content = in.Content

	err = store.Transaction(func(tx repository.Store) error {
		if err := tx.Posts().UpdateText(post); err != nil {
			return err
		}
		if err := attachHashtags(tx, post.ID, in.Hashtags); err != nil {
			return err
		}
		if err := tx.Images().DeletePostImagesByURLs(post.ID, deleting); err != nil {
			return err
		}
		return tx.Images().CreatePostImages(postImages(post.ID, owner.ID, uploaded))
	})
	if err != nil {
		removeObjects(ctx, s.storage, uploaded...)
		return err
	}

	removeObjects(ctx, s.storage, deleting...)
	return nil
}

// DeletePost 投稿を画像・ハッシュタグ・いいねとともに削除
func (s *postService) DeletePost(ctx context.Context, owner *models.Member, id uint) error {
	if owner == nil {
		return ErrUnauthorized
	}
	store := s.store.WithContext(ctx)

	post, err := s.findPost(store, id)
	if err != nil {
		return err
	}
	if post.MemberID != owner.ID {
		return ErrForbidden.WithMessage("自分が作成した投稿のみ削除できます")
	}

	err = store.Transaction(func(tx repository.Store) error {
		if err := tx.Likes().DeleteByPost(post.ID); err != nil {
			return err
		}
		if err := tx.Hashtags().DetachFromPost(post.ID); err != nil {
			return err
		}
		if err := tx.Images().DeletePostImagesByPost(post.ID); err != nil {
			return err
		}
		return tx.Posts().Delete(post.ID)
	})
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(post.Images))
	for _, image := range post.Images {
		urls = append(urls, image.ImageURL)
	}
	removeObjects(ctx, s.storage, urls...)

	log.Printf("投稿を削除しました: id=%d", post.ID)
	return nil
}

func (s *postService) findPost(store repository.Store, id uint) (*models.Post, error) {
	post, err := store.Posts().FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// summarize 一覧表示用に変換。閲覧者がログインしていればいいね済みかを付ける
func (s *postService) summarize(store repository.Store, posts []models.Post, viewer *models.Member) ([]PostResponse, error) {
	ids := make([]uint, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	counts, err := store.Likes().CountByPosts(ids)
	if err != nil {
		return nil, err
	}

	liked := map[uint]bool{}
	if viewer != nil {
		if liked, err = store.Likes().LikedPostIDs(viewer.ID, ids); err != nil {
			return nil, err
		}
	}

	responses := make([]PostResponse, 0, len(posts))
	for i := range posts {
		post := &posts[i]

		firstImageURL := ""
		if len(post.Images) > 0 {
			firstImageURL = post.Images[0].ImageURL
		}

		responses = append(responses, PostResponse{
			PostID:        post.ID,
			Title:         post.Title,
			FirstImageURL: firstImageURL,
			PostHashtags:  hashtagNames(post),
			Likes:         liked[post.ID],
			LikeCount:     counts[post.ID],
			CreateDate:    post.CreatedAt,
		})
	}
	return responses, nil
}

// uploadAll 画像を順にアップロード。途中で失敗した場合はそれまでのファイルを削除する
func (s *postService) uploadAll(ctx context.Context, files []*FileUpload) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		u, err := s.storage.Upload(ctx, DirPostImages, file)
		if err != nil {
			removeObjects(ctx, s.storage, urls...)
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// validatePost タイトル・本文・ハッシュタグを検証
func validatePost(title, content string, hashtags []string) error {
	verr := &ValidationError{}
	if strings.TrimSpace(title) == "" {
		verr.Add("title", "タイトルを入力してください")
	}
	if strings.TrimSpace(content) == "" {
		verr.Add("content", "本文を入力してください")
	}

	names := make(map[string]bool, len(hashtags))
	for _, h := range hashtags {
		name := strings.TrimSpace(h)
		if name == "" {
			verr.Add("postHashtag", "空のハッシュタグは指定できません")
			return verr
		}
		// 照合順序によっては大文字小文字を区別しないため小文字で比較する
		names[strings.ToLower(name)] = true
	}
	if len(hashtags) != PostHashtagCount || len(names) != PostHashtagCount {
		verr.Add("postHashtag", fmt.Sprintf("異なるハッシュタグを%d個選択してください", PostHashtagCount))
	}
	return verr.OrNil()
}

func checkImageCount(n int) error {
	switch {
	case n < MinPostImages:
		return ErrTooFewImages
	case n > MaxPostImages:
		return ErrTooManyImages
	}
	return nil
}

// nonEmptyFiles 空のファイルを除外
func nonEmptyFiles(files []*FileUpload) []*FileUpload {
	valid := make([]*FileUpload, 0, len(files))
	for _, f := range files {
		if f != nil && f.Content != nil && f.Size > 0 {
			valid = append(valid, f)
		}
	}
	return valid
}

func attachHashtags(tx repository.Store, postID uint, names []string) error {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		hashtag, err := tx.Hashtags().FindOrCreate(name)
		if err != nil {
			return err
		}
		ids = append(ids, hashtag.ID)
	}
	err := tx.Hashtags().AttachToPost(postID, ids)
	if errors.Is(err, repository.ErrDuplicated) {
		verr := &ValidationError{}
		verr.Add("postHashtag", fmt.Sprintf("異なるハッシュタグを%d個選択してください", PostHashtagCount))
		return verr
	}
	return err
}

func postImages(postID, memberID uint, urls []string) []models.PostImage {
	images := make([]models.PostImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, models.PostImage{
			PostID:   postID,
			MemberID: memberID,
			ImageURL: u,
		})
	}
	return images
}

func hashtagNames(post *models.Post) []string {
	names := make([]string, 0, len(post.PostHashtags))
	for _, ph := range post.PostHashtags {
		names = append(names, ph.Hashtag.Name)
	}
	return names
}
