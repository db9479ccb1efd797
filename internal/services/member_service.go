package services

import (
	"context"
	"errors"
	"log"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/models"
	"github.com/SketchShifter/midpoint_backend/internal/repository"
)

// SignUpInput 会員登録の入力
type SignUpInput struct {
	Name            string
	Email           string
	LoginID         string
	Nickname        string
	Password        string
	ConfirmPassword string
}

// ProfileUpdateInput プロフィール更新の入力
type ProfileUpdateInput struct {
	Name            string
	Nickname        string
	UseDefaultImage bool
}

// ProfileResponse プロフィール情報
type ProfileResponse struct {
	Name            string `json:"name"`
	Nickname        string `json:"nickname"`
	LoginID         string `json:"loginId"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// MemberService 会員に関するサービスインターフェース
type MemberService interface {
	IsEmailAlreadyInUse(ctx context.Context, email string) (bool, error)
	IsNicknameAlreadyInUse(ctx context.Context, nickname string) (bool, error)
	IsLoginIDAlreadyInUse(ctx context.Context, loginID string) (bool, error)
	SignUp(ctx context.Context, in *SignUpInput, profileImage *FileUpload) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetProfile(ctx context.Context, email string) (*ProfileResponse, error)
	IsNameAndEmailMatching(ctx context.Context, name, email string) (bool, error)
	UpdateProfile(ctx context.Context, email string, in *ProfileUpdateInput, profileImage *FileUpload) (*ProfileResponse, error)
	ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error
	VerifyPassword(ctx context.Context, email, password string) error
	DeleteMember(ctx context.Context, email string) (string, error)
}

// memberService MemberServiceの実装
type memberService struct {
	store   repository.Store
	storage StorageService
	email   EmailService
	tokens  TokenService
	config  *config.Config
}

// NewMemberService MemberServiceを作成
func NewMemberService(store repository.Store, storage StorageService, email EmailService, tokens TokenService, cfg *config.Config) MemberService {
	return &memberService{
		store:   store,
		storage: storage,
		email:   email,
		tokens:  tokens,
		config:  cfg,
	}
}

// IsEmailAlreadyInUse メールアドレスが使用中か確認
func (s *memberService) IsEmailAlreadyInUse(ctx context.Context, email string) (bool, error) {
	return s.store.WithContext(ctx).Members().ExistsByEmail(email)
}

// IsNicknameAlreadyInUse ニックネームが使用中か確認
func (s *memberService) IsNicknameAlreadyInUse(ctx context.Context, nickname string) (bool, error) {
	return s.store.WithContext(ctx).Members().ExistsByNickname(nickname)
}

// IsLoginIDAlreadyInUse ログインIDが使用中か確認
func (s *memberService) IsLoginIDAlreadyInUse(ctx context.Context, loginID string) (bool, error) {
	return s.store.WithContext(ctx).Members().ExistsByLoginID(loginID)
}

// SignUp 会員登録
func (s *memberService) SignUp(ctx context.Context, in *SignUpInput, profileImage *FileUpload) (*models.Member, error) {
	// 最初に見つかった違反を返す（ニックネーム → ログインID → メールアドレス → パスワード確認 → メール認証）
	if err := s.checkUniqueness(ctx, in); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	verified, err := s.email.IsEmailVerified(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrEmailNotVerified
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	imageURL := s.config.Storage.DefaultProfileImageURL
	uploaded := ""
	if profileImage != nil {
		uploaded, err = s.storage.Upload(ctx, DirProfileImages, profileImage)
		if err != nil {
			return nil, err
		}
		imageURL = uploaded
	}

	member := &models.Member{
		Email:    in.Email,
		LoginID:  in.LoginID,
		Nickname: in.Nickname,
		Name:     in.Name,
		Password: hashed,
	}

	err = s.store.WithContext(ctx).Transaction(func(tx repository.Store) error {
		if err := tx.Members().Create(member); err != nil {
			return err
		}
		return tx.Images().SaveProfileImage(&models.ProfileImage{
			MemberID: member.ID,
			ImageURL: imageURL,
		})
	})
	if err != nil {
		removeObjects(ctx, s.storage, uploaded)
		if errors.Is(err, repository.ErrDuplicated) {
			// 事前確認の後に同じ値で登録された
			if cerr := s.checkUniqueness(ctx, in); cerr != nil {
				return nil, cerr
			}
		}
		return nil, err
	}

	log.Printf("会員を登録しました: id=%d loginId=%s", member.ID, member.LoginID)
	return member, nil
}

func (s *memberService) checkUniqueness(ctx context.Context, in *SignUpInput) error {
	checks := []struct {
		exists func(context.Context, string) (bool, error)
		value  string
		err    error
	}{
		{s.IsNicknameAlreadyInUse, in.Nickname, ErrNicknameInUse},
		{s.IsLoginIDAlreadyInUse, in.LoginID, ErrLoginIDInUse},
		{s.IsEmailAlreadyInUse, in.Email, ErrEmailInUse},
	}
	for _, c := range checks {
		inUse, err := c.exists(ctx, c.value)
		if err != nil {
			return err
		}
		if inUse {
			return c.err
		}
	}
	return nil
}

// GetByEmail メールアドレスで会員を取得
func (s *memberService) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	member, err := s.store.WithContext(ctx).Members().FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// GetProfile プロフィール情報を取得
func (s *memberService) GetProfile(ctx context.Context, email string) (*ProfileResponse, error) {
	member, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.profileImageURL(s.store.WithContext(ctx), member.ID)
	if err != nil {
		return nil, err
	}

	return toProfileResponse(member, imageURL), nil
}

// IsNameAndEmailMatching 名前とメールアドレスが同じ会員のものか確認
func (s *memberService) IsNameAndEmailMatching(ctx context.Context, name, email string) (bool, error) {
	member, err := s.store.WithContext(ctx).Members().FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Name == name, nil
}

// UpdateProfile プロフィールを更新
func (s *memberService) UpdateProfile(ctx context.Context, email string, in *ProfileUpdateInput, profileImage *FileUpload) (*ProfileResponse, error) {
	store := s.store.WithContext(ctx)

	member, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if in.Nickname != member.Nickname {
		other, err := store.Members().FindByNickname(in.Nickname)
		switch {
		case err == nil && other.ID != member.ID:
			return nil, ErrNicknameInUse
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
		member.Nickname = in.Nickname
	}
	if in.Name != member.Name {
		member.Name = in.Name
	}

	current, err := store.Images().FindProfileImage(member.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if current == nil {
		current = &models.ProfileImage{MemberID: member.ID}
	}

	// 画像の扱い: 既定画像に戻す > 新しい画像に差し替え > 変更なし
	var newURL, uploaded, obsolete string
	switch {
	case in.UseDefaultImage:
		newURL = s.config.Storage.DefaultProfileImageURL
	case profileImage != nil:
		uploaded, err = s.storage.Upload(ctx, DirProfileImages, profileImage)
		if err != nil {
			return nil, err
		}
		newURL = uploaded
	}
	if newURL != "" && current.ImageURL != newURL && !s.isDefaultImage(current.ImageURL) {
		obsolete = current.ImageURL
	}

	err = store.Transaction(func(tx repository.Store) error {
		if err := tx.Members().Update(member); err != nil {
			return err
		}
		if newURL == "" {
			return nil
		}
		current.ImageURL = newURL
		return tx.Images().SaveProfileImage(current)
	})
	if err != nil {
		removeObjects(ctx, s.storage, uploaded)
		if errors.Is(err, repository.ErrDuplicated) {
			return nil, ErrNicknameInUse
		}
		return nil, err
	}

	removeObjects(ctx, s.storage, obsolete)

	imageURL := current.ImageURL
	if imageURL == "" {
		imageURL = s.config.Storage.DefaultProfileImageURL
	}
	return toProfileResponse(member, imageURL), nil
}

// ResetPassword メール認証済みの会員のパスワードを再設定
func (s *memberService) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	member, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	verified, err := s.email.IsEmailVerified(ctx, email)
	if err != nil {
		return err
	}
	if !verified {
		return ErrEmailNotVerified
	}

	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	member.Password = hashed

	return s.store.WithContext(ctx).Members().Update(member)
}

// VerifyPassword パスワードが一致するか確認
func (s *memberService) VerifyPassword(ctx context.Context, email, password string) error {
	member, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !checkPassword(member.Password, password) {
		return ErrPasswordMismatch
	}
	return nil
}

// DeleteMember 退会処理。投稿と投稿画像は退会会員用アカウントに引き継ぎ、削除したプロフィール画像のURLを返す
func (s *memberService) DeleteMember(ctx context.Context, email string) (string, error) {
	store := s.store.WithContext(ctx)

	member, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	sentinel, err := store.Members().FindByLoginID(s.config.Member.DeletedMemberLoginID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("退会会員用アカウント (%s) が存在しません", s.config.Member.DeletedMemberLoginID)
		return "", ErrSentinelMissing
	}
	if err != nil {
		return "", err
	}
	if sentinel.ID == member.ID {
		return "", ErrForbidden.WithMessage("退会会員用アカウントは削除できません")
	}

	profile, err := store.Images().FindProfileImage(member.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	err = store.Transaction(func(tx repository.Store) error {
		if profile != nil {
			if err := tx.Images().DeleteProfileImage(profile.ID); err != nil {
				return err
			}
		}
		if err := tx.Likes().DeleteByMember(member.ID); err != nil {
			return err
		}
		if err := tx.SearchHistories().DeleteByMember(member.ID); err != nil {
			return err
		}
		if err := tx.Posts().ReassignMember(member.ID, sentinel.ID); err != nil {
			return err
		}
		if err := tx.Images().ReassignPostImages(member.ID, sentinel.ID); err != nil {
			return err
		}
		return tx.Members().Delete(member.ID)
	})
	if err != nil {
		return "", err
	}

	var deletedURL string
	if profile != nil {
		deletedURL = profile.ImageURL
		if !s.isDefaultImage(deletedURL) {
			removeObjects(ctx, s.storage, deletedURL)
		}
	}

	if err := s.tokens.RevokeAll(ctx, member.Email); err != nil {
		log.Printf("リフレッシュトークンの削除に失敗しました (%s): %v", member.Email, err)
	}

	log.Printf("会員が退会しました: id=%d", member.ID)
	return deletedURL, nil
}

func (s *memberService) profileImageURL(store repository.Store, memberID uint) (string, error) {
	image, err := store.Images().FindProfileImage(memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.config.Storage.DefaultProfileImageURL, nil
	}
	if err != nil {
		return "", err
	}
	return image.ImageURL, nil
}

func (s *memberService) isDefaultImage(url string) bool {
	return url == "" || url == s.config.Storage.DefaultProfileImageURL
}

func toProfileResponse(member *models.Member, imageURL string) *ProfileResponse {
	return &ProfileResponse{
		Name:            member.Name,
		Nickname:        member.Nickname,
		LoginID:         member.LoginID,
		Email:           member.Email,
		ProfileImageURL: imageURL,
	}
}
