package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
	"github.com/proposalflow/backend/internal/service"
	"github.com/proposalflow/backend/internal/store"
)

// Репозиторий обязан одновременно закрывать оба контракта сервисного слоя.
var (
	_ service.ProposalRepository = (*Repository)(nil)
	_ service.AuthRepository     = (*Repository)(nil)
	_ service.UserDirectory      = (*Repository)(nil)
)

// newTestRepo собирает засеянный репозиторий без задержек.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo := New(store.NewProposalStore(), 0, 0, 1)
	require.NoError(t, repo.Seed())
	return repo
}

func TestSeed_FillsStore(t *testing.T) {
	repo := newTestRepo(t)

	assert.Equal(t, 5, repo.Store().Len())

	user, err := repo.GetUserByEmail(context.Background(), "alex.johnson@example.com")
	require.NoError(t, err)
	assert.Equal(t, FixtureUserAlex, user.ID)
	assert.True(t, user.IsActive)
}

func TestCreateUser_RejectsDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	fresh := &models.User{
		ID:    uuid.New(),
		Email: "nina.petrova@example.com",
		Name:  "Nina Petrova",
	}
	require.NoError(t, repo.CreateUser(ctx, fresh))

	stored, err := repo.GetUserByEmail(ctx, "nina.petrova@example.com")
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, stored.ID)

	dup := &models.User{ID: uuid.New(), Email: "nina.petrova@example.com", Name: "Другая Нина"}
	err = repo.CreateUser(ctx, dup)
	assert.True(t, apperror.IsConflict(err))
}

func TestList_Pagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	page, err := repo.List(ctx, 1, 2, models.ProposalFilters{}, models.DefaultSort)
	require.NoError(t, err)
	assert.Len(t, page.Proposals, 2)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)

	last, err := repo.List(ctx, 3, 2, models.ProposalFilters{}, models.DefaultSort)
	require.NoError(t, err)
	assert.Len(t, last.Proposals, 1)
}

func TestList_StatusFilterWithoutMatchesGivesEmptyPage(t *testing.T) {
	repo := newTestRepo(t)

	page, err := repo.List(context.Background(), 1, 10,
		models.ProposalFilters{Status: []string{models.ProposalStatusWon}}, models.DefaultSort)
	require.NoError(t, err)
	assert.Empty(t, page.Proposals)
	assert.Equal(t, 0, page.TotalCount)
}

func TestGetByID_ReturnsDetachedCopy(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, FixtureProposalCRM)
	require.NoError(t, err)
	require.NotEmpty(t, p.Sections)

	// правка полученной копии не должна просачиваться в стор
	p.Sections[0].Content = "hacked"

	again, err := repo.GetByID(ctx, FixtureProposalCRM)
	require.NoError(t, err)
	assert.NotEqual(t, "hacked", again.Sections[0].Content)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}

func TestCreate_PrependsToCollection(t *testing.T) {
	repo := newTestRepo(t)

	p := models.Proposal{ID: uuid.New(), Title: "Fresh Proposal", Status: models.ProposalStatusDraft}
	require.NoError(t, repo.Create(context.Background(), &p))

	records := repo.Store().List()
	require.Equal(t, 6, len(records))
	assert.Equal(t, "Fresh Proposal", records[0].Title)
}

func TestUpdate_MissingIDFails(t *testing.T) {
	repo := newTestRepo(t)

	title := "renamed"
	err := repo.Update(context.Background(), uuid.New(), models.ProposalPatch{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}

func TestDelete_SecondCallFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, FixtureProposalCRM))
	assert.Equal(t, 4, repo.Store().Len())

	assert.ErrorIs(t, repo.Delete(ctx, FixtureProposalCRM), apperror.ErrProposalNotFound)
}

func TestUpdateSection(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, FixtureProposalEcommerce)
	require.NoError(t, err)
	require.NotEmpty(t, p.Sections)

	section := p.Sections[0]
	section.Content = "<p>Updated pitch</p>"
	require.NoError(t, repo.UpdateSection(ctx, &section))

	got, err := repo.GetSection(ctx, FixtureProposalEcommerce, section.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>Updated pitch</p>", got.Content)
}

func TestUpdateSection_UnknownSection(t *testing.T) {
	repo := newTestRepo(t)

	section := models.Section{ID: uuid.New(), ProposalID: FixtureProposalCRM}
	err := repo.UpdateSection(context.Background(), &section)
	assert.ErrorIs(t, err, apperror.ErrSectionNotFound)
}

func TestAddCollaborator_DuplicateRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := models.Collaborator{
		ProposalID: FixtureProposalCRM,
		UserID:     FixtureUserEmily,
		Role:       models.RoleEditor,
	}
	require.NoError(t, repo.AddCollaborator(ctx, &c))
	assert.ErrorIs(t, repo.AddCollaborator(ctx, &c), apperror.ErrCollaboratorExists)
}

func TestRemoveCollaborator_MissingUser(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.RemoveCollaborator(context.Background(), FixtureProposalCRM, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestAddActivity_AppendsToJournal(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	before, err := repo.GetByID(ctx, FixtureProposalCloud)
	require.NoError(t, err)

	a := models.Activity{
		ID:          uuid.New(),
		ProposalID:  FixtureProposalCloud,
		Type:        models.ActivityUpdated,
		Description: "Revised the migration plan",
		ActorID:     FixtureUserDavid,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.AddActivity(ctx, &a))

	after, err := repo.GetByID(ctx, FixtureProposalCloud)
	require.NoError(t, err)
	assert.Equal(t, len(before.Activities)+1, len(after.Activities))
}

func TestStats_AggregatesSeedData(t *testing.T) {
	repo := newTestRepo(t)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalProposals)
	// активны два in-progress и одно review
	assert.Equal(t, 3, stats.ActiveProposals)
	assert.InDelta(t, 84.2, stats.AverageWinRate, 0.001)
	assert.LessOrEqual(t, len(stats.RecentActivity), 10)
	for i := 1; i < len(stats.RecentActivity); i++ {
		assert.False(t, stats.RecentActivity[i-1].CreatedAt.Before(stats.RecentActivity[i].CreatedAt))
	}
}

func TestDocuments_Lifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := models.RFPDocument{
		ID:         uuid.New(),
		UserID:     FixtureUserAlex,
		Filename:   "rfp.pdf",
		FilePath:   "/tmp/uploads/rfp.pdf",
		FileType:   "application/pdf",
		FileSize:   2048,
		UploadedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateDocument(ctx, &doc))

	got, err := repo.GetDocumentByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "rfp.pdf", got.Filename)
	assert.Nil(t, got.ProposalID)

	require.NoError(t, repo.AttachDocumentToProposal(ctx, doc.ID, FixtureProposalCRM))

	attached, err := repo.ListDocumentsByProposal(ctx, FixtureProposalCRM)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, doc.ID, attached[0].ID)

	require.NoError(t, repo.DeleteDocument(ctx, doc.ID))
	_, err = repo.GetDocumentByID(ctx, doc.ID)
	assert.ErrorIs(t, err, apperror.ErrDocumentNotFound)
}

func TestSimulateUpload_MonotonicToExactlyHundred(t *testing.T) {
	repo := New(store.NewProposalStore(), 0, 0, 7)

	var reported []int
	err := repo.SimulateUpload(context.Background(), 50*time.Millisecond, func(percent int) {
		reported = append(reported, percent)
	})
	require.NoError(t, err)
	require.Len(t, reported, uploadTicks)

	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1])
	}
	assert.Equal(t, 100, reported[len(reported)-1])
	for _, p := range reported[:len(reported)-1] {
		assert.Less(t, p, 100)
	}
}

func TestSimulateUpload_CancelledContext(t *testing.T) {
	repo := New(store.NewProposalStore(), 0, 0, 7)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.SimulateUpload(ctx, time.Second, func(int) {
		t.Fatal("после отмены контекста колбэк вызываться не должен")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelay_RespectsCancellation(t *testing.T) {
	repo := New(store.NewProposalStore(), 50*time.Millisecond, 100*time.Millisecond, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx, 1, 10, models.ProposalFilters{}, models.DefaultSort)
	assert.ErrorIs(t, err, context.Canceled)
}
