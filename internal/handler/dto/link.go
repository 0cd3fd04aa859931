package dto

import (
	"time"

	"github.com/tagonlink/tagonlink/internal/model"
)

// LinkRequest represents the request body for creating or replacing a link.
type LinkRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Tags        string `json:"tags,omitempty"`
}

// LinkResponse represents a link in API responses.
type LinkResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToLinkResponse converts a Link model to LinkResponse DTO.
func ToLinkResponse(link *model.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		Title:       link.Title,
		URL:         link.URL,
		Description: link.Description,
		Tags:        link.Tags,
		UserID:      link.UserID,
		CreatedAt:   link.CreatedAt.UTC(),
	}
}

// ToLinkResponses converts links preserving order. The result is never nil
// so an empty list encodes as [].
func ToLinkResponses(links []*model.Link) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for _, link := range links {
		out = append(out, ToLinkResponse(link))
	}
	return out
}
