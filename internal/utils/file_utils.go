package utils

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BuildObjectKey ストレージ上のオブジェクトキーを生成（<dir>/<uuid><拡張子>）
func BuildObjectKey(dir, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return path.Join(dir, uuid.NewString()+ext)
}

// IsAllowedExtension 許可された拡張子かチェック
func IsAllowedExtension(fileName string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, a := range allowed {
		if strings.EqualFold(ext, strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

// ObjectKeyFromURL 公開URLからバケット内のオブジェクトキーを取り出す
// 仮想ホスト形式（https://bucket.s3.region.amazonaws.com/key）と
// パス形式（https://host/bucket/key）の両方に対応する
func ObjectKeyFromURL(rawURL, bucket string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	p, err := url.PathUnescape(u.EscapedPath())
	if err != nil {
		return "", err
	}
	p = strings.TrimPrefix(p, "/")

	if !strings.HasPrefix(u.Host, bucket+".") {
		p = strings.TrimPrefix(p, bucket+"/")
	}
	if p == "" {
		return "", fmt.Errorf("URLからオブジェクトキーを取得できません: %s", rawURL)
	}

	return p, nil
}
