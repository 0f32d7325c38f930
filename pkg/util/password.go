package util

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for stored passwords.
const PasswordCost = 10

// GeneratePasswordHash 生成密码的bcrypt哈希值
func GeneratePasswordHash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPasswordHash 验证密码与哈希值是否匹配
func CheckPasswordHash(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
