package api

import (
	"github.com/starford/exhyte/internal/catalog"
	"github.com/starford/exhyte/internal/index"
	"github.com/starford/exhyte/internal/models"
	"github.com/starford/exhyte/internal/paperservice"
)

// SelectionRequest is the request body of the survey endpoints.
type SelectionRequest struct {
	IDs []string `json:"ids" example:"paper1,paper2" validate:"required"`
}

// PaperListItem is a lightweight item in a list response (aliased from the domain layer).
type PaperListItem = paperservice.PaperListItem

// PaperDetail is the full paper response type (aliased from the domain layer).
type PaperDetail = paperservice.PaperDetail

// PaperListResponse wraps filtered paper listings.
type PaperListResponse = paperservice.ListResult

// StatusResponse describes the loaded catalog.
type StatusResponse = paperservice.Status

// TopicsResponse wraps the topic list.
type TopicsResponse struct {
	Topics []models.TopicCount `json:"topics" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// ReloadResponse lists the papers changed by a reload.
type ReloadResponse struct {
	Changes []catalog.Change `json:"changes" validate:"required"`
}
