package model

import "time"

// Session is a signed-in device. Token travels as the habitgrid_session
// cookie or a Bearer header and stops working at ExpiresAt.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
