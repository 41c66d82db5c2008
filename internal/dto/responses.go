package dto

import (
	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/service"
)

// AuthResponse represents the payload returned after register/login/refresh
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// NewAuthResponse creates an AuthResponse from a service result
func NewAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{User: result.User, Tokens: result.TokenPair}
}

// WinProbabilityResponse represents the recalculated win probability
type WinProbabilityResponse struct {
	ProposalID     uuid.UUID `json:"proposal_id"`
	WinProbability int       `json:"win_probability"`
}

// CollaboratorResponse wraps a newly added collaborator
type CollaboratorResponse struct {
	Collaborator *models.Collaborator `json:"collaborator"`
}

// DocumentResponse represents an uploaded RFP document
type DocumentResponse struct {
	Document *models.RFPDocument `json:"document"`
}

// SuggestionsResponse represents section content suggestions
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// GeneratedSectionResponse represents generated section content
type GeneratedSectionResponse struct {
	SectionType string `json:"section_type"`
	Content     string `json:"content"`
}
