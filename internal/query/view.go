package query

import (
	"sort"
	"strings"

	"github.com/proposalflow/backend/internal/models"
)

// View строит производное представление коллекции: фильтрация по всем
// непустым измерениям критериев (логическое AND) и детерминированная
// сортировка. Чистая функция: вход не мутируется, одинаковые аргументы дают
// одинаковый по значению результат.
func View(records []models.Proposal, filters models.ProposalFilters, sortOpt models.SortOption) []models.Proposal {
	out := make([]models.Proposal, 0, len(records))
	for i := range records {
		if matches(&records[i], filters) {
			out = append(out, records[i])
		}
	}

	sortProposals(out, sortOpt)
	return out
}

// Paginate вырезает страницу из уже отфильтрованного представления и считает
// метаданные. Номера страниц начинаются с 1.
func Paginate(view []models.Proposal, page, pageSize int) models.ProposalPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	totalCount := len(view)
	totalPages := (totalCount + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > totalCount {
		start = totalCount
	}
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	pageItems := make([]models.Proposal, end-start)
	copy(pageItems, view[start:end])

	return models.ProposalPage{
		Proposals:  pageItems,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func matches(p *models.Proposal, f models.ProposalFilters) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		inTitle := strings.Contains(strings.ToLower(p.Title), term)
		inClient := strings.Contains(strings.ToLower(p.ClientName), term)
		inDescription := p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term)
		if !inTitle && !inClient && !inDescription {
			return false
		}
	}

	if len(f.Status) > 0 {
		found := false
		for _, s := range f.Status {
			if p.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.WinProbMin != nil && p.WinProbability < *f.WinProbMin {
		return false
	}
	if f.WinProbMax != nil && p.WinProbability > *f.WinProbMax {
		return false
	}

	if f.UpdatedFrom != nil && p.UpdatedAt.Before(*f.UpdatedFrom) {
		return false
	}
	if f.UpdatedTo != nil && p.UpdatedAt.After(*f.UpdatedTo) {
		return false
	}

	if len(f.Tags) > 0 {
		found := false
		for _, want := range f.Tags {
			for _, tag := range p.Tags {
				if tag == want {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Collaborators) > 0 {
		found := false
		for _, want := range f.Collaborators {
			for i := range p.Collaborators {
				if p.Collaborators[i].UserID == want {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func sortProposals(view []models.Proposal, opt models.SortOption) {
	field := opt.Field
	if _, ok := models.ValidSortFields[field]; !ok {
		field = models.DefaultSort.Field
	}
	desc := opt.Direction == models.SortDesc

	sort.SliceStable(view, func(i, j int) bool {
		less := lessByField(&view[i], &view[j], field)
		if desc {
			return lessByField(&view[j], &view[i], field)
		}
		return less
	})
}

// lessByField сравнивает по выбранному полю. Незаполненный deadline считается
// больше любого заполненного: при asc такие записи стабильно уходят в конец.
func lessByField(a, b *models.Proposal, field string) bool {
	switch field {
	case models.SortFieldTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case models.SortFieldClientName:
		return strings.ToLower(a.ClientName) < strings.ToLower(b.ClientName)
	case models.SortFieldCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	case models.SortFieldDeadline:
		switch {
		case a.DeadlineAt == nil && b.DeadlineAt == nil:
			return false
		case a.DeadlineAt == nil:
			return false
		case b.DeadlineAt == nil:
			return true
		default:
			return a.DeadlineAt.Before(*b.DeadlineAt)
		}
	case models.SortFieldWinProbability:
		return a.WinProbability < b.WinProbability
	default: // updated_at
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
}
