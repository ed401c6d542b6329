package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"
)

// ReviewRequest is used for POST and PUT. Author and title come from the
// session and the URL, never from the body.
type ReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score *int   `json:"score" binding:"required,min=1,max=10"`
}

// ReviewPatchRequest is used for PATCH
type ReviewPatchRequest struct {
	Text  *string `json:"text" binding:"omitempty,min=1"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

func (r ReviewRequest) ToChanges() service.ReviewChanges {
	return service.ReviewChanges{Text: &r.Text, Score: r.Score}
}

func (r ReviewPatchRequest) ToChanges() service.ReviewChanges {
	return service.ReviewChanges{Text: r.Text, Score: r.Score}
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func ToReview(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

func ToReviews(list []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToReview(r))
	}
	return out
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentPatchRequest struct {
	Text *string `json:"text" binding:"omitempty,min=1"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func ToComment(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.Username,
		PubDate: c.PubDate,
	}
}

func ToComments(list []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToComment(c))
	}
	return out
}
