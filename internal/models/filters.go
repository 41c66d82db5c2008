package models

import (
	"time"

	"github.com/google/uuid"
)

// Поля, по которым допустима сортировка списка предложений.
const (
	SortFieldTitle          = "title"
	SortFieldClientName     = "client_name"
	SortFieldCreatedAt      = "created_at"
	SortFieldUpdatedAt      = "updated_at"
	SortFieldDeadline       = "deadline"
	SortFieldWinProbability = "win_probability"
)

// Направления сортировки.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ValidSortFields список допустимых полей сортировки.
var ValidSortFields = map[string]struct{}{
	SortFieldTitle:          {},
	SortFieldClientName:     {},
	SortFieldCreatedAt:      {},
	SortFieldUpdatedAt:      {},
	SortFieldDeadline:       {},
	SortFieldWinProbability: {},
}

// ProposalFilters — критерии отбора. Пустое поле означает отсутствие
// ограничения по этому измерению; фильтры объединяются по AND.
type ProposalFilters struct {
	Search        string
	Status        []string
	WinProbMin    *int
	WinProbMax    *int
	UpdatedFrom   *time.Time
	UpdatedTo     *time.Time
	Tags          []string
	Collaborators []uuid.UUID
}

// IsEmpty сообщает, задано ли хоть одно ограничение.
func (f ProposalFilters) IsEmpty() bool {
	return f.Search == "" &&
		len(f.Status) == 0 &&
		f.WinProbMin == nil && f.WinProbMax == nil &&
		f.UpdatedFrom == nil && f.UpdatedTo == nil &&
		len(f.Tags) == 0 &&
		len(f.Collaborators) == 0
}

// SortOption задаёт поле и направление сортировки.
type SortOption struct {
	Field     string
	Direction string
}

// DefaultSort — сортировка по умолчанию: последние изменённые сверху.
var DefaultSort = SortOption{Field: SortFieldUpdatedAt, Direction: SortDesc}

// ProposalPage — страница списка с метаданными пагинации.
type ProposalPage struct {
	Proposals  []Proposal `json:"proposals"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
