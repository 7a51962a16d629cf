package model

import "time"

type Tweet struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	OwnerID   int       `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
