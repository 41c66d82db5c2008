package dto

import (
	"time"
)

// CreateProposalRequest represents the request to create a proposal
type CreateProposalRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    *string  `json:"description"`
	ClientName     string   `json:"client_name" binding:"required"`
	ClientEmail    *string  `json:"client_email"`
	DeadlineAt     *string  `json:"deadline_at"`
	BudgetMin      *float64 `json:"budget_min"`
	BudgetMax      *float64 `json:"budget_max"`
	BudgetCurrency *string  `json:"budget_currency"`
	Tags           []string `json:"tags"`
}

// UpdateProposalRequest represents a partial proposal update.
// Absent fields keep their current values.
type UpdateProposalRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	ClientName     *string  `json:"client_name"`
	ClientEmail    *string  `json:"client_email"`
	Status         *string  `json:"status"`
	DeadlineAt     *string  `json:"deadline_at"`
	BudgetMin      *float64 `json:"budget_min"`
	BudgetMax      *float64 `json:"budget_max"`
	BudgetCurrency *string  `json:"budget_currency"`
	Tags           []string `json:"tags"`
}

// UpdateSectionRequest represents the request to replace section content
type UpdateSectionRequest struct {
	Content string `json:"content"`
}

// DuplicateProposalRequest represents the request to copy a proposal
type DuplicateProposalRequest struct {
	Title string `json:"title" binding:"required"`
}

// AddCollaboratorRequest represents the request to invite a collaborator
type AddCollaboratorRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

// ChatRequest represents a message to the proposal assistant
type ChatRequest struct {
	Message string       `json:"message" binding:"required"`
	Context *ChatContext `json:"context"`
}

// ChatContext carries the proposal the user is working on
type ChatContext struct {
	ProposalTitle      string `json:"proposal_title"`
	ClientName         string `json:"client_name"`
	Industry           string `json:"industry"`
	ActiveSectionTitle string `json:"active_section_title"`
	ActiveSectionType  string `json:"active_section_type"`
}

// SuggestRequest represents the request for section content suggestions
type SuggestRequest struct {
	SectionType string `json:"section_type" binding:"required"`
	ClientName  string `json:"client_name"`
	Industry    string `json:"industry"`
}

// EnhanceRequest represents the request to enhance section content
type EnhanceRequest struct {
	Content string `json:"content" binding:"required"`
	Mode    string `json:"mode" binding:"required"`
}

// GenerateSectionRequest represents the request to generate section content
type GenerateSectionRequest struct {
	SectionType string `json:"section_type" binding:"required"`
	ClientName  string `json:"client_name"`
	Industry    string `json:"industry"`
}

// RegisterRequest represents the sign-up request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents the sign-in request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AttachDocumentRequest links an uploaded document to a proposal
type AttachDocumentRequest struct {
	ProposalID string `json:"proposal_id" binding:"required"`
}

// ParseDeadline converts string deadline to time.Time pointer
func (r *CreateProposalRequest) ParseDeadline() (*time.Time, error) {
	return parseRFC3339(r.DeadlineAt)
}

// ParseDeadline converts string deadline to time.Time pointer
func (r *UpdateProposalRequest) ParseDeadline() (*time.Time, error) {
	return parseRFC3339(r.DeadlineAt)
}

func parseRFC3339(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
