package dto

import "time"

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"invalid_argument"`
}

// PurgeResponseDTO 는 캐시 전체 삭제 결과다.
type PurgeResponseDTO struct {
	Message string `json:"message" example:"cache purged"`
	Entries int    `json:"entries"`
}

type CacheEntryDTO struct {
	Key       string    `json:"key"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Fresh     bool      `json:"fresh"`
}
