package query

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/proposalflow/backend/internal/models"
)

func fixtureRecords() []models.Proposal {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadlineNear := base.AddDate(0, 0, 7)
	deadlineFar := base.AddDate(0, 2, 0)

	return []models.Proposal{
		{
			ID:             uuid.New(),
			Title:          "CRM Platform",
			ClientName:     "GlobalBank Inc.",
			Status:         models.ProposalStatusInProgress,
			WinProbability: 91,
			DeadlineAt:     &deadlineNear,
			Tags:           []string{"crm", "enterprise"},
			UpdatedAt:      base.Add(3 * time.Hour),
		},
		{
			ID:             uuid.New(),
			Title:          "E-commerce Redesign",
			ClientName:     "RetailCorp",
			Status:         models.ProposalStatusReview,
			WinProbability: 78,
			DeadlineAt:     &deadlineFar,
			Tags:           []string{"web"},
			UpdatedAt:      base.Add(2 * time.Hour),
		},
		{
			ID:             uuid.New(),
			Title:          "Growth Marketing",
			ClientName:     "StartupXYZ",
			Status:         models.ProposalStatusCompleted,
			WinProbability: 95,
			DeadlineAt:     nil,
			Tags:           []string{"marketing"},
			UpdatedAt:      base.Add(1 * time.Hour),
		},
	}
}

func TestView_FiltersAreConjunctive(t *testing.T) {
	records := fixtureRecords()
	min := 80

	got := View(records, models.ProposalFilters{
		Search:     "crm",
		WinProbMin: &min,
	}, models.DefaultSort)

	assert.Len(t, got, 1)
	assert.Equal(t, "CRM Platform", got[0].Title)

	// то же поисковое слово, но порог отсекает всё
	min = 99
	got = View(records, models.ProposalFilters{Search: "crm", WinProbMin: &min}, models.DefaultSort)
	assert.Empty(t, got)
}

func TestView_EmptyFiltersReturnAll(t *testing.T) {
	records := fixtureRecords()
	got := View(records, models.ProposalFilters{}, models.DefaultSort)
	assert.Len(t, got, len(records))
}

func TestView_Idempotent(t *testing.T) {
	records := fixtureRecords()
	filters := models.ProposalFilters{Status: []string{models.ProposalStatusInProgress, models.ProposalStatusReview}}

	first := View(records, filters, models.DefaultSort)
	second := View(first, filters, models.DefaultSort)

	assert.Equal(t, first, second)
}

func TestView_DoesNotMutateInput(t *testing.T) {
	records := fixtureRecords()
	originalFirst := records[0].Title

	View(records, models.ProposalFilters{}, models.SortOption{Field: models.SortFieldTitle, Direction: models.SortAsc})

	assert.Equal(t, originalFirst, records[0].Title)
}

func TestView_SearchMatchesTitleClientDescription(t *testing.T) {
	records := fixtureRecords()
	desc := "Complete migration to the cloud"
	records[1].Description = &desc

	assert.Len(t, View(records, models.ProposalFilters{Search: "globalbank"}, models.DefaultSort), 1)
	assert.Len(t, View(records, models.ProposalFilters{Search: "MIGRATION"}, models.DefaultSort), 1)
	assert.Empty(t, View(records, models.ProposalFilters{Search: "nothing-matches"}, models.DefaultSort))
}

func TestView_StatusFilterUnknownValueGivesEmptyResult(t *testing.T) {
	records := fixtureRecords()
	got := View(records, models.ProposalFilters{Status: []string{models.ProposalStatusWon}}, models.DefaultSort)
	assert.Empty(t, got)
}

func TestSort_ReversalFlipsOrder(t *testing.T) {
	records := fixtureRecords()

	asc := View(records, models.ProposalFilters{}, models.SortOption{Field: models.SortFieldWinProbability, Direction: models.SortAsc})
	desc := View(records, models.ProposalFilters{}, models.SortOption{Field: models.SortFieldWinProbability, Direction: models.SortDesc})

	assert.Len(t, asc, 3)
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestSort_NilDeadlineGoesLastAscending(t *testing.T) {
	records := fixtureRecords()

	got := View(records, models.ProposalFilters{}, models.SortOption{Field: models.SortFieldDeadline, Direction: models.SortAsc})

	assert.Len(t, got, 3)
	assert.NotNil(t, got[0].DeadlineAt)
	assert.NotNil(t, got[1].DeadlineAt)
	assert.Nil(t, got[2].DeadlineAt)
	assert.True(t, got[0].DeadlineAt.Before(*got[1].DeadlineAt))
}

func TestSort_UnknownFieldFallsBackToDefault(t *testing.T) {
	records := fixtureRecords()

	got := View(records, models.ProposalFilters{}, models.SortOption{Field: "bogus", Direction: models.SortAsc})

	// по умолчанию updated_at; asc — самые старые сверху
	assert.Equal(t, "Growth Marketing", got[0].Title)
}

func TestPaginate_Metadata(t *testing.T) {
	records := make([]models.Proposal, 15)
	for i := range records {
		records[i] = models.Proposal{ID: uuid.New()}
	}

	first := Paginate(records, 1, 10)
	assert.Len(t, first.Proposals, 10)
	assert.Equal(t, 15, first.TotalCount)
	assert.Equal(t, 2, first.TotalPages)

	second := Paginate(records, 2, 10)
	assert.Len(t, second.Proposals, 5)
	assert.Equal(t, 2, second.Page)

	beyond := Paginate(records, 5, 10)
	assert.Empty(t, beyond.Proposals)
	assert.Equal(t, 15, beyond.TotalCount)
}
