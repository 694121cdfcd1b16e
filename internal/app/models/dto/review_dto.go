package dto

import "github.com/yigit/ratemyteacher/internal/app/models"

// ReviewRequest is the body of review create and update
type ReviewRequest struct {
	Text string `json:"text" binding:"required,max=2000" example:"Explains clearly and grades fairly."`
}

// RatingRequest is the body of POST /api/teachers/:teacherId/ratings
type RatingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5" example:"4"`
}

// RatingResponse is the stored rating plus the teacher's refreshed aggregates
type RatingResponse struct {
	*models.Rating
	AverageRating float64 `json:"averageRating" example:"4.25"`
	TotalRatings  int     `json:"totalRatings" example:"8"`
}

// DiscussionRequest is the body of POST /api/discussions
type DiscussionRequest struct {
	Message string `json:"message" binding:"required,max=1000" example:"Any tips for the chemistry final?"`
}
