package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SketchShifter/midpoint_backend/internal/mock"
	"github.com/SketchShifter/midpoint_backend/internal/models"
	"github.com/SketchShifter/midpoint_backend/internal/repository"
)

func postInput() *PostInput {
	return &PostInput{
		Title:    "週末のおすすめ",
		Content:  "駅の近くにあるカフェです",
		Hashtags: []string{"カフェ", "デート"},
	}
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])

	id, err := env.posts.CreatePost(ctx, postInput(), owner, testFiles(2))
	if err != nil {
		t.Fatalf("投稿の作成に失敗しました: %v", err)
	}

	detail, err := env.posts.GetPostByID(ctx, id, owner)
	if err != nil {
		t.Fatalf("投稿を取得できません: %v", err)
	}
	if len(detail.Images) != 2 {
		t.Errorf("画像は2枚のはずです: %d", len(detail.Images))
	}
	if len(detail.PostHashtags) != 2 || detail.PostHashtags[0] != "カフェ" || detail.PostHashtags[1] != "デート" {
		t.Errorf("ハッシュタグが不正です: %v", detail.PostHashtags)
	}
	if detail.Nickname != owner.Nickname || detail.Likes || detail.LikeCount != 0 {
		t.Errorf("投稿詳細が不正です: %+v", detail)
	}
}

func TestCreatePostSharesHashtags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])

	for i := 0; i < 2; i++ {
		if _, err := env.posts.CreatePost(ctx, postInput(), owner, testFiles(1)); err != nil {
			t.Fatalf("投稿の作成に失敗しました: %v", err)
		}
	}

	var n int64
	env.db.Model(&models.Hashtag{}).Count(&n)
	if n != 2 {
		t.Errorf("ハッシュタグは共有されるはずです: %d", n)
	}
}

func TestCreatePostImageCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])

	empty := &FileUpload{FileName: "empty.png"}
	tests := []struct {
		name  string
		files []*FileUpload
		want  error
	}{
		{"画像なし", nil, ErrTooFewImages},
		{"空のファイルのみ", []*FileUpload{empty}, ErrTooFewImages},
		{"4枚", testFiles(4), ErrTooManyImages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.posts.CreatePost(ctx, postInput(), owner, tt.files)
			if !errors.Is(err, tt.want) || KindOf(err) != KindConditionNotMet {
				t.Errorf("期待したエラーと異なります: %v", err)
			}
		})
	}

	if env.storage.count() != 0 {
		t.Error("失敗した投稿の画像がアップロードされています")
	}
}

func TestCreatePostValidatesHashtags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])

	for _, hashtags := range [][]string{
		{"カフェ"},
		{"カフェ", "カフェ"},
		{"Go", "go"},
		{"カフェ", " "},
		{"カフェ", "公園", "映画館"},
	} {
		in := postInput()
		in.Hashtags = hashtags

		_, err := env.posts.CreatePost(ctx, in, owner, testFiles(1))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%v: 検証エラーになるべきです: %v", hashtags, err)
		}
	}
}

// 同じハッシュタグに解決された場合は一意制約違反ではなく検証エラーになる
func TestAttachHashtagsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	owner := mock.SeedMember(t, env.db, mock.Members[0])
	post := mock.SeedPost(t, env.db, owner, "タイトル", "https://storage.test/a.png")

	err := env.store.Transaction(func(tx repository.Store) error {
		return attachHashtags(tx, post.ID, []string{"カフェ", "カフェ"})
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Errors[0].Field != "postHashtag" {
		t.Fatalf("postHashtag の検証エラーになるべきです: %v", err)
	}

	// ロールバックされ元のハッシュタグが残る
	var n int64
	env.db.Model(&models.PostHashtag{}).Where("post_id = ?", post.ID).Count(&n)
	if n != PostHashtagCount {
		t.Errorf("ハッシュタグの関連付けが変わっています: %d", n)
	}
}

func TestCreatePostRemovesUploadsOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])

	// 画像の保存に失敗させる
	if err := env.db.Migrator().DropTable(&models.PostImage{}); err != nil {
		t.Fatalf("テーブルの削除に失敗しました: %v", err)
	}
	if _, err := env.posts.CreatePost(ctx, postInput(), owner, testFiles(2)); err == nil {
		t.Fatal("投稿の作成は失敗するはずです")
	}
	if env.storage.count() != 0 {
		t.Errorf("アップロードした画像が残っています: %d", env.storage.count())
	}

	var n int64
	env.db.Model(&models.Post{}).Count(&n)
	if n != 0 {
		t.Errorf("投稿がロールバックされていません: %d", n)
	}
}

func TestUpdatePostImageArithmetic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])
	post := mock.SeedPost(t, env.db, owner, "元のタイトル", "https://storage.test/a.png", "https://storage.test/b.png")

	// 2 - 0 + 2 = 4 は拒否され、何も変更されない
	rejected := &PostUpdateInput{Title: "新しいタイトル", Content: "新しい本文", Hashtags: []string{"公園", "映画館"}}
	if err := env.posts.UpdatePost(ctx, post.ID, rejected, owner, testFiles(2)); !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("ErrTooManyImages になるべきです: %v", err)
	}
	detail, _ := env.posts.GetPostByID(ctx, post.ID, nil)
	if detail.Title != "元のタイトル" || len(detail.Images) != 2 || detail.PostHashtags[0] != mock.Hashtags[0] {
		t.Errorf("拒否された更新が反映されています: %+v", detail)
	}
	if env.storage.count() != 0 {
		t.Error("拒否された更新の画像がアップロードされています")
	}

	// 2 - 2 + 0 = 0 も拒否される
	emptied := &PostUpdateInput{Title: "t", Content: "c", Hashtags: []string{"公園", "映画館"}, DeleteImageURLs: []string{"https://storage.test/a.png", "https://storage.test/b.png"}}
	if err := env.posts.UpdatePost(ctx, post.ID, emptied, owner, nil); !errors.Is(err, ErrTooFewImages) {
		t.Fatalf("ErrTooFewImages になるべきです: %v", err)
	}

	// 2 - 1 + 2 = 3 は受理される
	accepted := &PostUpdateInput{
		Title:           "新しいタイトル",
		Content:         "新しい本文",
		Hashtags:        []string{"公園", "映画館"},
		DeleteImageURLs: []string{"https://storage.test/a.png"},
	}
	if err := env.posts.UpdatePost(ctx, post.ID, accepted, owner, testFiles(2)); err != nil {
		t.Fatalf("投稿の更新に失敗しました: %v", err)
	}

	detail, _ = env.posts.GetPostByID(ctx, post.ID, nil)
	if detail.Title != "新しいタイトル" || detail.Content != "新しい本文" {
		t.Errorf("本文が更新されていません: %+v", detail)
	}
	if len(detail.Images) != 3 || detail.Images[0] != "https://storage.test/b.png" {
		t.Errorf("画像が正しく更新されていません: %v", detail.Images)
	}
	if len(detail.PostHashtags) != 2 || detail.PostHashtags[0] != "公園" || detail.PostHashtags[1] != "映画館" {
		t.Errorf("ハッシュタグが更新されていません: %v", detail.PostHashtags)
	}
	if !env.storage.wasDeleted("https://storage.test/a.png") {
		t.Error("削除した画像がストレージから削除されていません")
	}
}

func TestUpdatePostRejectsUnknownImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])
	post := mock.SeedPost(t, env.db, owner, "タイトル", "https://storage.test/a.png")

	in := &PostUpdateInput{Title: "t", Content: "c", Hashtags: []string{"公園", "映画館"}, DeleteImageURLs: []string{"https://storage.test/other.png"}}
	if err := env.posts.UpdatePost(ctx, post.ID, in, owner, testFiles(1)); KindOf(err) != KindConditionNotMet {
		t.Errorf("投稿に含まれない画像の削除は拒否されるべきです: %v", err)
	}
}

func TestUpdateAndDeletePostOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])
	other := mock.SeedMember(t, env.db, mock.Members[1])
	post := mock.SeedPost(t, env.db, owner, "タイトル", "https://storage.test/a.png")

	in := &PostUpdateInput{Title: "t", Content: "c", Hashtags: []string{"公園", "映画館"}}
	if err := env.posts.UpdatePost(ctx, post.ID, in, other, nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("他人の投稿の更新は ErrForbidden になるべきです: %v", err)
	}
	if err := env.posts.DeletePost(ctx, other, post.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("他人の投稿の削除は ErrForbidden になるべきです: %v", err)
	}
	if err := env.posts.UpdatePost(ctx, 404, in, owner, nil); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("ErrPostNotFound になるべきです: %v", err)
	}
	if err := env.posts.DeletePost(ctx, owner, 404); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("ErrPostNotFound になるべきです: %v", err)
	}
}

func TestDeletePostCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])
	fan := mock.SeedMember(t, env.db, mock.Members[1])
	post := mock.SeedPost(t, env.db, owner, "タイトル", "https://storage.test/a.png", "https://storage.test/b.png")

	if _, err := env.posts.ChangeLikes(ctx, fan.Email, post.ID); err != nil {
		t.Fatalf("いいねに失敗しました: %v", err)
	}

	if err := env.posts.DeletePost(ctx, owner, post.ID); err != nil {
		t.Fatalf("投稿の削除に失敗しました: %v", err)
	}
	if err := env.posts.IsPostExist(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("投稿が削除されていません: %v", err)
	}

	var images, hashtags, likes int64
	env.db.Model(&models.PostImage{}).Where("post_id = ?", post.ID).Count(&images)
	env.db.Model(&models.PostHashtag{}).Where("post_id = ?", post.ID).Count(&hashtags)
	env.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	if images != 0 || hashtags != 0 || likes != 0 {
		t.Errorf("関連データが残っています: images=%d hashtags=%d likes=%d", images, hashtags, likes)
	}
	if !env.storage.wasDeleted("https://storage.test/a.png") || !env.storage.wasDeleted("https://storage.test/b.png") {
		t.Error("画像がストレージから削除されていません")
	}
}

func TestChangeLikesIsInvolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])
	fan := mock.SeedMember(t, env.db, mock.Members[1])
	post := mock.SeedPost(t, env.db, owner, "タイトル", "https://storage.test/a.png")

	liked, err := env.posts.ChangeLikes(ctx, fan.Email, post.ID)
	if err != nil || !liked {
		t.Fatalf("いいねできません: liked=%v err=%v", liked, err)
	}
	detail, _ := env.posts.GetPostByID(ctx, post.ID, fan)
	if !detail.Likes || detail.LikeCount != 1 {
		t.Errorf("いいねが反映されていません: %+v", detail)
	}

	liked, err = env.posts.ChangeLikes(ctx, fan.Email, post.ID)
	if err != nil || liked {
		t.Fatalf("いいねを取り消せません: liked=%v err=%v", liked, err)
	}
	detail, _ = env.posts.GetPostByID(ctx, post.ID, fan)
	if detail.Likes || detail.LikeCount != 0 {
		t.Errorf("元の状態に戻っていません: %+v", detail)
	}

	if _, err := env.posts.ChangeLikes(ctx, fan.Email, 404); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("ErrPostNotFound になるべきです: %v", err)
	}
	if _, err := env.posts.ChangeLikes(ctx, "nobody@example.com", post.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("ErrMemberNotFound になるべきです: %v", err)
	}
}

// 存在確認の後に同じいいねが追加されていても500にせず切り替える
func TestChangeLikesConcurrentInsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := mock.SeedMember(t, env.db, mock.Members[0])
	fan := mock.SeedMember(t, env.db, mock.Members[1])
	post := mock.SeedPost(t, env.db, owner, "タイトル", "https://storage.test/a.png")

	if err := env.db.Create(&models.Like{MemberID: fan.ID, PostID: post.ID}).Error; err != nil {
		t.Fatalf("いいねの登録に失敗しました: %v", err)
	}

	stale := &staleStore{Store: env.store, reads: &staleReads{likes: 1}}
	posts := NewPostService(stale, env.storage, env.cfg)

	liked, err := posts.ChangeLikes(ctx, fan.Email, post.ID)
	if err != nil {
		t.Fatalf("いいねの切り替えに失敗しました: %v", err)
	}
	if liked {
		t.Error("追加済みのいいねは取り消されるべきです")
	}

	var n int64
	env.db.Model(&models.Like{}).Where("member_id = ? AND post_id = ?", fan.ID, post.ID).Count(&n)
	if n != 0 {
		t.Errorf("いいねが残っています: %d", n)
	}
}

func TestGetAllPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	john := mock.SeedMember(t, env.db, mock.Members[0])
	jane := mock.SeedMember(t, env.db, mock.Members[1])

	older := mock.SeedPost(t, env.db, john, "古い投稿", "https://storage.test/a.png")
	newer := mock.SeedPost(t, env.db, jane, "新しい投稿", "https://storage.test/b.png", "https://storage.test/c.png")
	if _, err := env.posts.ChangeLikes(ctx, john.Email, newer.ID); err != nil {
		t.Fatalf("いいねに失敗しました: %v", err)
	}

	anonymous, err := env.posts.GetAllPosts(ctx, nil)
	if err != nil {
		t.Fatalf("投稿一覧を取得できません: %v", err)
	}
	if len(anonymous) != 2 || anonymous[0].PostID != newer.ID || anonymous[1].PostID != older.ID {
		t.Fatalf("新しい順になっていません: %+v", anonymous)
	}
	if anonymous[0].Likes || anonymous[0].LikeCount != 1 {
		t.Errorf("未ログインではいいね済みにならないはずです: %+v", anonymous[0])
	}
	if anonymous[0].FirstImageURL != "https://storage.test/b.png" {
		t.Errorf("先頭の画像が不正です: %s", anonymous[0].FirstImageURL)
	}

	viewed, _ := env.posts.GetAllPosts(ctx, john)
	if !viewed[0].Likes || viewed[1].Likes {
		t.Errorf("いいね済みの判定が不正です: %+v", viewed)
	}

	mine, err := env.posts.GetMyAllPosts(ctx, john)
	if err != nil {
		t.Fatalf("自分の投稿を取得できません: %v", err)
	}
	if len(mine) != 1 || mine[0].PostID != older.ID {
		t.Errorf("自分の投稿のみ返されるはずです: %+v", mine)
	}
}
