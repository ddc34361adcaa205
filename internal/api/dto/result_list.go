package dto

import "benchboard/internal/domain"

type BenchmarkResultList struct {
	Results []domain.BenchmarkResult `json:"results"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
	Pages   int                      `json:"pages"`
}

type UserProfile struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
