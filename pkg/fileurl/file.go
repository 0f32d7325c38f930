// Package fileurl 文件路径辅助函数
package fileurl

import (
	"os"
	"path/filepath"
	"strings"
)

// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	return err == nil || os.IsExist(err)
}

func IsDir(path string) bool {
	s, err := os.Stat(path)
	return err == nil && s.IsDir()
}

// CreatePath creates the parent directory of dst.
// CreatePath 创建路径
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// WriteIfMissing writes content to dst unless dst already exists.
// It reports whether the file was written.
func WriteIfMissing(dst string, content []byte, perm os.FileMode) (bool, error) {
	if IsExist(dst) {
		return false, nil
	}
	if err := CreatePath(dst, 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, content, perm); err != nil {
		return false, err
	}
	return true, nil
}

// IsSQLiteMemory reports whether a sqlite DSN names an in-memory database.
func IsSQLiteMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}
