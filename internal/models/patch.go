package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalPatch — частичное обновление предложения. nil-поле означает
// "не трогать". Один и тот же патч применяется к записи в сторе и
// превращается в SET-выражения репозиторием.
type ProposalPatch struct {
	Title          *string
	Description    *string
	ClientName     *string
	ClientEmail    *string
	Status         *string
	WinProbability *int
	DeadlineAt     *time.Time
	BudgetMin      *float64
	BudgetMax      *float64
	BudgetCurrency *string
	Tags           []string
	Sections       []Section
	Collaborators  []Collaborator
	LastModifiedBy *uuid.UUID
	UpdatedAt      *time.Time
}

// IsEmpty сообщает, меняет ли патч хоть одно поле.
func (p ProposalPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.ClientName == nil &&
		p.ClientEmail == nil && p.Status == nil && p.WinProbability == nil &&
		p.DeadlineAt == nil && p.BudgetMin == nil && p.BudgetMax == nil &&
		p.BudgetCurrency == nil && p.Tags == nil && p.Sections == nil &&
		p.Collaborators == nil && p.LastModifiedBy == nil && p.UpdatedAt == nil
}

// Apply накладывает патч на запись.
func (p ProposalPatch) Apply(dst *Proposal) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = p.Description
	}
	if p.ClientName != nil {
		dst.ClientName = *p.ClientName
	}
	if p.ClientEmail != nil {
		dst.ClientEmail = p.ClientEmail
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.WinProbability != nil {
		dst.WinProbability = *p.WinProbability
	}
	if p.DeadlineAt != nil {
		dst.DeadlineAt = p.DeadlineAt
	}
	if p.BudgetMin != nil {
		dst.BudgetMin = p.BudgetMin
	}
	if p.BudgetMax != nil {
		dst.BudgetMax = p.BudgetMax
	}
	if p.BudgetCurrency != nil {
		dst.BudgetCurrency = p.BudgetCurrency
	}
	if p.Tags != nil {
		dst.Tags = p.Tags
	}
	if p.Sections != nil {
		dst.Sections = p.Sections
	}
	if p.Collaborators != nil {
		dst.Collaborators = p.Collaborators
	}
	if p.LastModifiedBy != nil {
		dst.LastModifiedBy = *p.LastModifiedBy
	}
	if p.UpdatedAt != nil {
		dst.UpdatedAt = *p.UpdatedAt
	}
}
