package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalflow/backend/internal/logger"
	"github.com/proposalflow/backend/internal/mockapi"
	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
	"github.com/proposalflow/backend/internal/store"
)

func init() {
	logger.Silence()
}

// newTestService собирает сервис поверх мок-репозитория без задержек.
func newTestService(t *testing.T) (*ProposalService, *mockapi.Repository) {
	t.Helper()
	repo := mockapi.New(store.NewProposalStore(), 0, 0, 1)
	require.NoError(t, repo.Seed())
	return NewProposalService(repo, repo, nil, 1), repo
}

func TestCreate_SetsDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, mockapi.FixtureUserAlex, CreateProposalInput{
		Title:      "Data Warehouse for FinServ",
		ClientName: "FinServ Partners",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProposalStatusDraft, p.Status)
	assert.Equal(t, baseWinProbability, p.WinProbability)

	require.Len(t, p.Sections, 5)
	for i, section := range p.Sections {
		assert.Empty(t, section.Content)
		assert.True(t, section.IsRequired)
		assert.Equal(t, i+1, section.SortOrder)
		assert.Equal(t, p.ID, section.ProposalID)
	}
	assert.Equal(t, "Executive Summary", p.Sections[0].Title)
	assert.Equal(t, "budget", p.Sections[4].Type)

	require.Len(t, p.Collaborators, 1)
	assert.Equal(t, models.RoleOwner, p.Collaborators[0].Role)
	assert.Equal(t, mockapi.FixtureUserAlex, p.Collaborators[0].UserID)

	require.Len(t, p.Activities, 1)
	assert.Equal(t, models.ActivityCreated, p.Activities[0].Type)
}

func TestCreate_RejectsEmptyTitle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), mockapi.FixtureUserAlex, CreateProposalInput{
		ClientName: "FinServ Partners",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestList_RejectsUnknownSortField(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), 1, 10, models.ProposalFilters{},
		models.SortOption{Field: "deadline_at", Direction: models.SortAsc})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestList_EmptySortFallsBackToDefault(t *testing.T) {
	svc, _ := newTestService(t)

	page, err := svc.List(context.Background(), 1, 10, models.ProposalFilters{}, models.SortOption{})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalCount)
}

func TestUpdate_StatusChangeGetsOwnActivity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	status := models.ProposalStatusSubmitted
	p, err := svc.Update(ctx, mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM, UpdateProposalInput{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusSubmitted, p.Status)

	last := p.Activities[len(p.Activities)-1]
	assert.Equal(t, models.ActivityStatusChanged, last.Type)
	assert.Equal(t, "Status changed from in-progress to submitted", last.Description)
}

func TestUpdate_PlainEditLogsUpdatedActivity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	title := "Enterprise CRM Platform v2"
	p, err := svc.Update(ctx, mockapi.FixtureUserSarah, mockapi.FixtureProposalCRM, UpdateProposalInput{
		Title: &title,
	})
	require.NoError(t, err)
	assert.Equal(t, title, p.Title)
	assert.Equal(t, mockapi.FixtureUserSarah, p.LastModifiedBy)

	last := p.Activities[len(p.Activities)-1]
	assert.Equal(t, models.ActivityUpdated, last.Type)
}

func TestUpdate_InvalidStatusRejected(t *testing.T) {
	svc, _ := newTestService(t)

	status := "archived"
	_, err := svc.Update(context.Background(), mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM, UpdateProposalInput{
		Status: &status,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestDelete_OnlyOwner(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// Sarah на CRM только редактор
	err := svc.Delete(ctx, mockapi.FixtureUserSarah, mockapi.FixtureProposalCRM)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, 5, repo.Store().Len())

	require.NoError(t, svc.Delete(ctx, mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM))
	assert.Equal(t, 4, repo.Store().Len())
}

func TestUpdateSection_RecountsWords(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Get(ctx, mockapi.FixtureProposalCRM)
	require.NoError(t, err)
	sectionID := p.Sections[0].ID

	section, err := svc.UpdateSection(ctx, mockapi.FixtureUserSarah, mockapi.FixtureProposalCRM, sectionID, "one two  three")
	require.NoError(t, err)
	require.NotNil(t, section.WordCount)
	assert.Equal(t, 3, *section.WordCount)
	assert.Equal(t, "one two  three", section.Content)

	// Запись журнала несёт метаданные с идентификатором раздела.
	p, err = svc.Get(ctx, mockapi.FixtureProposalCRM)
	require.NoError(t, err)
	last := p.Activities[len(p.Activities)-1]
	assert.Equal(t, models.ActivityUpdated, last.Type)
	assert.Equal(t, sectionID.String(), last.Metadata["section_id"])
	assert.Equal(t, section.Title, last.Metadata["section_title"])
}

func TestUpdateSection_ViewerForbidden(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.AddCollaborator(ctx, &models.Collaborator{
		ProposalID: mockapi.FixtureProposalCRM,
		UserID:     mockapi.FixtureUserDavid,
		Role:       models.RoleViewer,
	}))

	p, err := svc.Get(ctx, mockapi.FixtureProposalCRM)
	require.NoError(t, err)

	_, err = svc.UpdateSection(ctx, mockapi.FixtureUserDavid, mockapi.FixtureProposalCRM, p.Sections[0].ID, "text")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// посторонний пользователь тоже не проходит
	_, err = svc.UpdateSection(ctx, uuid.New(), mockapi.FixtureProposalCRM, p.Sections[0].ID, "text")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDuplicate_FreshCopy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	original, err := svc.Get(ctx, mockapi.FixtureProposalEcommerce)
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, mockapi.FixtureUserMichael, mockapi.FixtureProposalEcommerce, "E-commerce Platform Redesign (Copy)")
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, dup.ID)
	assert.Equal(t, models.ProposalStatusDraft, dup.Status)
	assert.Equal(t, baseWinProbability, dup.WinProbability)
	assert.Equal(t, original.ClientName, dup.ClientName)

	require.Len(t, dup.Sections, len(original.Sections))
	for i := range dup.Sections {
		assert.NotEqual(t, original.Sections[i].ID, dup.Sections[i].ID)
		assert.Equal(t, dup.ID, dup.Sections[i].ProposalID)
		assert.Equal(t, original.Sections[i].Content, dup.Sections[i].Content)
	}

	// участники оригинала не переносятся, копией владеет дублировавший
	require.Len(t, dup.Collaborators, 1)
	assert.Equal(t, mockapi.FixtureUserMichael, dup.Collaborators[0].UserID)
	assert.Equal(t, models.RoleOwner, dup.Collaborators[0].Role)
}

func TestAddCollaborator_ByEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.AddCollaborator(ctx, mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM,
		"emily.davis@example.com", models.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, mockapi.FixtureUserEmily, c.UserID)
	assert.Equal(t, models.RoleViewer, c.Role)
	require.NotNil(t, c.User)
	assert.Equal(t, "Emily Davis", c.User.Name)
}

func TestAddCollaborator_OwnerRoleRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddCollaborator(context.Background(), mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM,
		"emily.davis@example.com", models.RoleOwner)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAddCollaborator_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddCollaborator(context.Background(), mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM,
		"nobody@example.com", models.RoleEditor)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestRemoveCollaborator_OwnerProtected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.RemoveCollaborator(ctx, mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM, mockapi.FixtureUserAlex)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// редактора убрать можно
	require.NoError(t, svc.RemoveCollaborator(ctx, mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM, mockapi.FixtureUserSarah))
}

func TestRecalculateWinProbability_StaysWithinBounds(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// все разделы заполнены: база 50 + 30 за полноту + до 20 случайных
	p, err := svc.Get(ctx, mockapi.FixtureProposalCRM)
	require.NoError(t, err)
	filler := strings.Repeat("solution detail ", 10)
	for i := range p.Sections {
		section := p.Sections[i]
		section.Content = filler
		require.NoError(t, repo.UpdateSection(ctx, &section))
	}

	result, err := svc.RecalculateWinProbability(ctx, mockapi.FixtureUserAlex, mockapi.FixtureProposalCRM)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result, 80)
	assert.LessOrEqual(t, result, maxWinProbability)

	stored, err := svc.Get(ctx, mockapi.FixtureProposalCRM)
	require.NoError(t, err)
	assert.Equal(t, result, stored.WinProbability)
}

func TestStats_CachedForHalfMinute(t *testing.T) {
	repo := mockapi.New(store.NewProposalStore(), 0, 0, 1)
	require.NoError(t, repo.Seed())
	svc := NewProposalService(repo, repo, NewCacheService(), 1)
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, first.TotalProposals)
	assert.InDelta(t, 2.3, first.AverageResponseTime, 0.001)

	// изменение данных не видно, пока жив кэш
	require.NoError(t, repo.Delete(ctx, mockapi.FixtureProposalCRM))
	second, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, second.TotalProposals)
}
