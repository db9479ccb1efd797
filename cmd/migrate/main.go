package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// 引数をチェック
	if len(os.Args) < 2 {
		log.Fatal("使用方法: migrate [up|down|seed]")
	}

	// 設定をロード
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// データベース接続
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("データベース接続に失敗しました: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "up":
		// マイグレーションを実行
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Fatalf("マイグレーションに失敗しました: %v", err)
		}
		fmt.Println("マイグレーションが成功しました")

	case "down":
		// テーブルを削除（逆順）
		tables := models.All()
		reversed := make([]interface{}, 0, len(tables))
		for i := len(tables) - 1; i >= 0; i-- {
			reversed = append(reversed, tables[i])
		}
		if err := db.Migrator().DropTable(reversed...); err != nil {
			log.Fatalf("テーブル削除に失敗しました: %v", err)
		}
		fmt.Println("テーブルの削除が成功しました")

	case "seed":
		if err := seedDeletedMember(db, cfg); err != nil {
			log.Fatalf("退会会員用アカウントの作成に失敗しました: %v", err)
		}
		fmt.Println("退会会員用アカウントを作成しました")

	default:
		log.Fatalf("不明なコマンドです: %s", command)
	}
}

// seedDeletedMember 退会した会員の投稿を引き継ぐアカウントを作成（既にあれば何もしない）
func seedDeletedMember(db *gorm.DB, cfg *config.Config) error {
	loginID := cfg.Member.DeletedMemberLoginID

	var existing models.Member
	err := db.Where("login_id = ?", loginID).First(&existing).Error
	if err == nil {
		log.Printf("退会会員用アカウントは既に存在します: id=%d", existing.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// ログインできないようにランダムなパスワードを設定
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		member := &models.Member{
			Email:    loginID + "@midpoint.invalid",
			LoginID:  loginID,
			Nickname: "退会した会員",
			Name:     "退会した会員",
			Password: string(hashed),
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Create(&models.ProfileImage{
			MemberID: member.ID,
			ImageURL: cfg.Storage.DefaultProfileImageURL,
		}).Error
	})
}
