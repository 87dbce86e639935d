// Package utils 提供存储与输出共用的小工具函数。
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// SHA256Hex 计算内容的 SHA-256 校验和（十六进制）
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// EnsureDir 确保目录存在
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
