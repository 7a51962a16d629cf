package model

import "time"

// Subscription is a one-way follow: SubscriberID follows ChannelID.
type Subscription struct {
	ID           int       `json:"id"`
	SubscriberID int       `json:"subscriber"`
	ChannelID    int       `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SubscriptionEntry is a subscription joined with the user on the other side of it.
type SubscriptionEntry struct {
	Subscription
	User UserSummary `json:"user"`
}
