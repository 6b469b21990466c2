package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a quiz's sanitized payload.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// PasswordResetKey returns the cache key for a password reset token.
func (r *CacheKeyStruct) PasswordResetKey(token string) string {
	return fmt.Sprintf("pwreset:%s", token)
}

var CacheKey = NewCacheKeyStruct()
