package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/proposalflow/backend/internal/models"
)

func makeProposal(title string) models.Proposal {
	now := time.Now().UTC()
	return models.Proposal{
		ID:        uuid.New(),
		Title:     title,
		Status:    models.ProposalStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestReplaceAll_CopiesInput(t *testing.T) {
	st := NewProposalStore()
	records := []models.Proposal{makeProposal("a"), makeProposal("b")}

	st.ReplaceAll(records)
	records[0].Title = "mutated"

	got := st.List()
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
}

func TestUpsertOne_PatchesRecord(t *testing.T) {
	st := NewProposalStore()
	p := makeProposal("original")
	st.ReplaceAll([]models.Proposal{p})

	title := "renamed"
	ok := st.UpsertOne(p.ID, models.ProposalPatch{Title: &title})
	assert.True(t, ok)

	got, found := st.Get(p.ID)
	assert.True(t, found)
	assert.Equal(t, "renamed", got.Title)
}

func TestUpsertOne_MissingIDIsNoop(t *testing.T) {
	st := NewProposalStore()
	st.ReplaceAll([]models.Proposal{makeProposal("a")})

	title := "x"
	ok := st.UpsertOne(uuid.New(), models.ProposalPatch{Title: &title})
	assert.False(t, ok)
	assert.Equal(t, 1, st.Len())
}

func TestUpsertOne_PatchesCurrentSlot(t *testing.T) {
	st := NewProposalStore()
	p := makeProposal("original")
	st.ReplaceAll([]models.Proposal{p})
	st.SetCurrent(&p)

	title := "renamed"
	st.UpsertOne(p.ID, models.ProposalPatch{Title: &title})

	current, ok := st.Current()
	assert.True(t, ok)
	assert.Equal(t, "renamed", current.Title)

	inList, _ := st.Get(p.ID)
	assert.Equal(t, current.Title, inList.Title)
}

func TestRemove_ClearsCurrentSlot(t *testing.T) {
	st := NewProposalStore()
	p := makeProposal("a")
	st.ReplaceAll([]models.Proposal{p})
	st.SetCurrent(&p)

	ok := st.Remove(p.ID)
	assert.True(t, ok)
	assert.Equal(t, 0, st.Len())

	_, found := st.Current()
	assert.False(t, found)

	// повторное удаление того же id — no-op
	assert.False(t, st.Remove(p.ID))
}

func TestAppendActivity_OnlyGrows(t *testing.T) {
	st := NewProposalStore()
	p := makeProposal("a")
	st.ReplaceAll([]models.Proposal{p})

	first := models.Activity{ID: uuid.New(), ProposalID: p.ID, Type: models.ActivityCreated, Description: "Proposal created"}
	second := models.Activity{ID: uuid.New(), ProposalID: p.ID, Type: models.ActivityUpdated, Description: "Updated proposal details"}

	assert.True(t, st.AppendActivity(p.ID, first))
	assert.True(t, st.AppendActivity(p.ID, second))

	got, _ := st.Get(p.ID)
	assert.Len(t, got.Activities, 2)
	assert.Equal(t, first.ID, got.Activities[0].ID)
	assert.Equal(t, second.ID, got.Activities[1].ID)

	assert.False(t, st.AppendActivity(uuid.New(), first))
}

func TestAdd_PrependsRecord(t *testing.T) {
	st := NewProposalStore()
	st.ReplaceAll([]models.Proposal{makeProposal("old")})

	newest := makeProposal("new")
	st.Add(newest)

	got := st.List()
	assert.Equal(t, "new", got[0].Title)
	assert.Equal(t, "old", got[1].Title)
}

func TestSetCurrent_CopiesValue(t *testing.T) {
	st := NewProposalStore()
	p := makeProposal("a")
	st.SetCurrent(&p)

	p.Title = "mutated"

	current, ok := st.Current()
	assert.True(t, ok)
	assert.Equal(t, "a", current.Title)
}
