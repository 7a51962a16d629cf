package model

import "time"

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	VideoID   int       `json:"video"`
	OwnerID   int       `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
