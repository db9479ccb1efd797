package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config アプリケーション設定
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Storage    StorageConfig
	AWS        AWSConfig
	Cloudinary CloudinaryConfig
	MinIO      MinIOConfig
	Member     MemberConfig
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" env-default:"8080"`
	GinMode         string        `env:"GIN_MODE" env-default:"debug"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Driver       string `env:"DB_DRIVER" env-default:"mysql"` // mysql | postgres
	Host         string `env:"DB_HOST" env-default:"localhost"`
	Port         string `env:"DB_PORT" env-default:"3306"`
	Username     string `env:"DB_USER" env-default:"root"`
	Password     string `env:"DB_PASSWORD"`
	DBName       string `env:"DB_NAME" env-default:"midpoint"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"100"`
}

// RedisConfig Redis設定（リフレッシュトークン・ブラックリスト・メール認証フラグ）
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// AuthConfig 認証設定
type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET" env-default:"your-secret-key"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" env-default:"30m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" env-default:"336h"`
}

// StorageConfig ストレージ設定
type StorageConfig struct {
	Driver                 string   `env:"STORAGE_DRIVER" env-default:"s3"` // s3 | cloudinary | minio
	MaxUploadSize          int64    `env:"MAX_UPLOAD_SIZE_MB" env-default:"10"`
	AllowedTypes           []string `env:"ALLOWED_UPLOAD_TYPES" env-separator:"," env-default:".png,.jpg,.jpeg,.gif,.webp"`
	DefaultProfileImageURL string   `env:"STORAGE_DEFAULT_PROFILE_IMAGE_URL"`
}

// AWSConfig AWS設定
type AWSConfig struct {
	Region          string `env:"AWS_REGION" env-default:"ap-northeast-2"`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:"midpoint-bucket"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// CloudinaryConfig Cloudinary設定
type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER" env-default:"midpoint"`
}

// MinIOConfig MinIO設定
type MinIOConfig struct {
	Endpoint string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	User     string `env:"MINIO_USER" env-default:"minioadmin"`
	Password string `env:"MINIO_PASSWORD" env-default:"minioadmin"`
	Bucket   string `env:"MINIO_BUCKET" env-default:"midpoint"`
	Secure   bool   `env:"MINIO_SECURE" env-default:"false"`
}

// MemberConfig 会員関連の設定
type MemberConfig struct {
	// 退会した会員の投稿を引き継ぐ予約アカウントのログインID
	DeletedMemberLoginID string `env:"DELETED_MEMBER_LOGIN_ID" env-default:"deleted_member"`
}

// Load 環境変数から設定をロード
func Load() (*Config, error) {
	// .env ファイルをロード (存在すれば)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗しました: %w", err)
	}

	if cfg.Storage.DefaultProfileImageURL == "" {
		cfg.Storage.DefaultProfileImageURL = fmt.Sprintf(
			"https://%s.s3.%s.amazonaws.com/profile-images/default_image.png",
			cfg.AWS.Bucket, cfg.AWS.Region)
	}

	return cfg, nil
}

// MaxUploadBytes アップロード上限をバイトで返す
func (c StorageConfig) MaxUploadBytes() int64 {
	return c.MaxUploadSize * 1024 * 1024
}
