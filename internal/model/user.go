package model

import "time"

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	MakerName   string    `json:"maker_name"`
	Bio         string    `json:"bio"`
	Tagline     string    `json:"tagline"`
	AvatarURL   string    `json:"avatar_url"`
	AvatarKey   string    `json:"avatar_key"`
	IsMaker     bool      `json:"is_maker"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProfileLink struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
