package mock

import (
	"testing"

	"github.com/SketchShifter/midpoint_backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB テストごとに独立したインメモリSQLiteを作成してマイグレーションする
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("データベースの接続に失敗しました: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("データベースの取得に失敗しました: %v", err)
	}
	// インメモリDBは接続が閉じると消えるため1本に固定する
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("マイグレーションに失敗しました: %v", err)
	}
	return db
}

// NewRedis miniredisを起動してクライアントを返す
func NewRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// VerifyEmail メール認証済みのフラグを立てる
func VerifyEmail(mr *miniredis.Miniredis, email string) {
	mr.Set("email_verified:"+email, "true")
}
