package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/mock"
	"github.com/SketchShifter/midpoint_backend/internal/models"
	"github.com/SketchShifter/midpoint_backend/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// fakeStorage メモリ上でアップロードと削除を記録する
type fakeStorage struct {
	mu         sync.Mutex
	seq        int
	objects    map[string]bool
	deleted    []string
	failUpload bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]bool{}}
}

func (s *fakeStorage) Upload(ctx context.Context, dir string, file *FileUpload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpload {
		return "", errors.New("upload failed")
	}
	s.seq++
	u := fmt.Sprintf("https://storage.test/%s/%d-%s", dir, s.seq, file.FileName)
	s.objects[u] = true
	return u, nil
}

func (s *fakeStorage) Delete(ctx context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, fileURL)
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *fakeStorage) wasDeleted(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deleted {
		if d == u {
			return true
		}
	}
	return false
}

func testFile(name string) *FileUpload {
	content := []byte("image-bytes")
	return &FileUpload{
		FileName:    name,
		ContentType: "image/png",
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}
}

func testFiles(n int) []*FileUpload {
	files := make([]*FileUpload, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, testFile(fmt.Sprintf("image%d.png", i)))
	}
	return files
}

// testEnv サービスのテストに必要な依存一式
type testEnv struct {
	db      *gorm.DB
	mr      *miniredis.Miniredis
	rdb     *redis.Client
	store   repository.Store
	storage *fakeStorage
	cfg     *config.Config

	tokens    TokenService
	auth      AuthService
	members   MemberService
	posts     PostService
	histories SearchHistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := mock.NewDB(t)
	mr, rdb := mock.NewRedis(t)
	cfg := mock.Config()
	store := repository.NewStore(db)
	storage := newFakeStorage()
	tokens := NewTokenService(rdb, cfg)

	return &testEnv{
		db:        db,
		mr:        mr,
		rdb:       rdb,
		store:     store,
		storage:   storage,
		cfg:       cfg,
		tokens:    tokens,
		auth:      NewAuthService(store, tokens),
		members:   NewMemberService(store, storage, NewEmailService(rdb), tokens, cfg),
		posts:     NewPostService(store, storage, cfg),
		histories: NewSearchHistoryService(store),
	}
}

// staleReads 事前確認が古い結果を返す回数（同時に登録された状況を再現する）
type staleReads struct {
	mu        sync.Mutex
	exists    int
	nicknames int
	likes     int
}

func (r *staleReads) take(n *int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if *n > 0 {
		*n--
		return true
	}
	return false
}

// staleStore 指定回数だけ存在確認に「存在しない」と答えるStore
type staleStore struct {
	repository.Store
	reads *staleReads
}

func (s *staleStore) Members() repository.MemberRepository {
	return &staleMembers{MemberRepository: s.Store.Members(), reads: s.reads}
}

func (s *staleStore) Likes() repository.LikeRepository {
	return &staleLikes{LikeRepository: s.Store.Likes(), reads: s.reads}
}

func (s *staleStore) WithContext(ctx context.Context) repository.Store {
	return &staleStore{Store: s.Store.WithContext(ctx), reads: s.reads}
}

func (s *staleStore) Transaction(fn func(tx repository.Store) error) error {
	return s.Store.Transaction(func(tx repository.Store) error {
		return fn(&staleStore{Store: tx, reads: s.reads})
	})
}

type staleMembers struct {
	repository.MemberRepository
	reads *staleReads
}

func (m *staleMembers) ExistsByEmail(email string) (bool, error) {
	if m.reads.take(&m.reads.exists) {
		return false, nil
	}
	return m.MemberRepository.ExistsByEmail(email)
}

func (m *staleMembers) ExistsByNickname(nickname string) (bool, error) {
	if m.reads.take(&m.reads.exists) {
		return false, nil
	}
	return m.MemberRepository.ExistsByNickname(nickname)
}

func (m *staleMembers) ExistsByLoginID(loginID string) (bool, error) {
	if m.reads.take(&m.reads.exists) {
		return false, nil
	}
	return m.MemberRepository.ExistsByLoginID(loginID)
}

func (m *staleMembers) FindByNickname(nickname string) (*models.Member, error) {
	if m.reads.take(&m.reads.nicknames) {
		return nil, repository.ErrNotFound
	}
	return m.MemberRepository.FindByNickname(nickname)
}

type staleLikes struct {
	repository.LikeRepository
	reads *staleReads
}

func (l *staleLikes) Exists(memberID, postID uint) (bool, error) {
	if l.reads.take(&l.reads.likes) {
		return false, nil
	}
	return l.LikeRepository.Exists(memberID, postID)
}
