// Package model defines domain entities for the application.
package model

import "time"

// Link is a bookmarked URL owned by exactly one user.
type Link struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy reports whether userID owns the link.
func (l *Link) OwnedBy(userID string) bool {
	return l.UserID == userID
}
