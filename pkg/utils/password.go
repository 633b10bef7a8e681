package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt 哈希；DefaultCost 下 GenerateFromPassword 不会失败
func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
