// Package mockapi — внутрипроцессная заглушка бэкенда: то же контрактное
// поведение, что у репозитория на Postgres, но поверх стора в памяти и со
// случайной задержкой вместо сети. Слой существует, чтобы фронтенд и тесты
// жили без базы; при интеграции реального хранилища он выключается конфигом,
// а не переписывается.
package mockapi

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
	"github.com/proposalflow/backend/internal/query"
	"github.com/proposalflow/backend/internal/store"
)

// Repository реализует контракт репозитория предложений поверх стора в памяти.
type Repository struct {
	store *store.ProposalStore

	minLatency time.Duration
	maxLatency time.Duration

	mu        sync.Mutex
	rng       *rand.Rand
	users     []models.User
	sessions  map[string]models.Session
	documents map[uuid.UUID]models.RFPDocument
}

// New создаёт мок-репозиторий. Нулевые границы задержки отключают её —
// так собираются тесты.
func New(st *store.ProposalStore, minLatency, maxLatency time.Duration, seed int64) *Repository {
	return &Repository{
		store:      st,
		minLatency: minLatency,
		maxLatency: maxLatency,
		rng:        rand.New(rand.NewSource(seed)),
		documents:  make(map[uuid.UUID]models.RFPDocument),
	}
}

// Store возвращает стор, которым владеет репозиторий.
func (r *Repository) Store() *store.ProposalStore {
	return r.store
}

// delay имитирует сетевую задержку в пределах [minLatency, maxLatency],
// уважая отмену контекста.
func (r *Repository) delay(ctx context.Context) error {
	if r.maxLatency <= 0 {
		return ctx.Err()
	}

	d := r.minLatency
	if span := r.maxLatency - r.minLatency; span > 0 {
		r.mu.Lock()
		d += time.Duration(r.rng.Int63n(int64(span) + 1))
		r.mu.Unlock()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// List отдаёт страницу коллекции: фильтрация и сортировка чистым движком
// представлений, затем пагинация.
func (r *Repository) List(ctx context.Context, page, pageSize int, filters models.ProposalFilters, sortOpt models.SortOption) (*models.ProposalPage, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	view := query.View(r.store.List(), filters, sortOpt)
	result := query.Paginate(view, page, pageSize)
	return &result, nil
}

// GetByID возвращает предложение со всеми вложенными коллекциями.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	p, ok := r.store.Get(id)
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}

	p.Sections = cloneSections(p.Sections)
	p.Collaborators = cloneCollaborators(p.Collaborators)
	p.Activities = cloneActivities(p.Activities)
	return &p, nil
}

// Create добавляет предложение в коллекцию (новые сверху).
func (r *Repository) Create(ctx context.Context, p *models.Proposal) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.store.Add(*p)
	return nil
}

// Update накладывает частичное обновление на запись.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.ProposalPatch) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	if !r.store.UpsertOne(id, patch) {
		return apperror.ErrProposalNotFound
	}
	return nil
}

// Delete удаляет запись. Повторное удаление того же id не ошибка на уровне
// стора, но репозиторий сообщает вызывающему, что записи уже нет.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	if !r.store.Remove(id) {
		return apperror.ErrProposalNotFound
	}
	return nil
}

// GetSection возвращает раздел предложения.
func (r *Repository) GetSection(ctx context.Context, proposalID, sectionID uuid.UUID) (*models.Section, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	p, ok := r.store.Get(proposalID)
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}

	for i := range p.Sections {
		if p.Sections[i].ID == sectionID {
			section := p.Sections[i]
			return &section, nil
		}
	}
	return nil, apperror.ErrSectionNotFound
}

// UpdateSection заменяет раздел внутри предложения.
func (r *Repository) UpdateSection(ctx context.Context, section *models.Section) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	p, ok := r.store.Get(section.ProposalID)
	if !ok {
		return apperror.ErrProposalNotFound
	}

	sections := cloneSections(p.Sections)
	found := false
	for i := range sections {
		if sections[i].ID == section.ID {
			sections[i] = *section
			found = true
			break
		}
	}
	if !found {
		return apperror.ErrSectionNotFound
	}

	now := time.Now().UTC()
	r.store.UpsertOne(section.ProposalID, models.ProposalPatch{
		Sections:  sections,
		UpdatedAt: &now,
	})
	return nil
}

// AddCollaborator добавляет участника. Не более одной записи на пользователя
// в рамках предложения.
func (r *Repository) AddCollaborator(ctx context.Context, c *models.Collaborator) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	p, ok := r.store.Get(c.ProposalID)
	if !ok {
		return apperror.ErrProposalNotFound
	}

	for i := range p.Collaborators {
		if p.Collaborators[i].UserID == c.UserID {
			return apperror.ErrCollaboratorExists
		}
	}

	collaborators := append(cloneCollaborators(p.Collaborators), *c)
	now := time.Now().UTC()
	r.store.UpsertOne(c.ProposalID, models.ProposalPatch{
		Collaborators: collaborators,
		UpdatedAt:     &now,
	})
	return nil
}

// RemoveCollaborator убирает участника с предложения.
func (r *Repository) RemoveCollaborator(ctx context.Context, proposalID, userID uuid.UUID) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	p, ok := r.store.Get(proposalID)
	if !ok {
		return apperror.ErrProposalNotFound
	}

	collaborators := make([]models.Collaborator, 0, len(p.Collaborators))
	found := false
	for i := range p.Collaborators {
		if p.Collaborators[i].UserID == userID {
			found = true
			continue
		}
		collaborators = append(collaborators, p.Collaborators[i])
	}
	if !found {
		return apperror.ErrUserNotFound
	}

	now := time.Now().UTC()
	r.store.UpsertOne(proposalID, models.ProposalPatch{
		Collaborators: collaborators,
		UpdatedAt:     &now,
	})
	return nil
}

// AddActivity дописывает запись в журнал предложения.
func (r *Repository) AddActivity(ctx context.Context, a *models.Activity) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	if !r.store.AppendActivity(a.ProposalID, *a) {
		return apperror.ErrProposalNotFound
	}
	return nil
}

// Stats считает агрегаты дашборда по текущему содержимому стора.
func (r *Repository) Stats(ctx context.Context) (*models.ProposalStats, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	records := r.store.List()

	stats := &models.ProposalStats{
		TotalProposals: len(records),
		RecentActivity: []models.Activity{},
	}

	totalWinProbability := 0
	var activities []models.Activity
	for i := range records {
		if _, active := models.ActiveProposalStatuses[records[i].Status]; active {
			stats.ActiveProposals++
		}
		totalWinProbability += records[i].WinProbability
		activities = append(activities, records[i].Activities...)
	}

	if len(records) > 0 {
		stats.AverageWinRate = float64(totalWinProbability) / float64(len(records))
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > 10 {
		activities = activities[:10]
	}
	stats.RecentActivity = activities

	return stats, nil
}

// GetUserByEmail ищет пользователя среди посеянных фикстур.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

// GetUserByID ищет пользователя среди посеянных фикстур.
func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func cloneSections(in []models.Section) []models.Section {
	out := make([]models.Section, len(in))
	copy(out, in)
	return out
}

func cloneCollaborators(in []models.Collaborator) []models.Collaborator {
	out := make([]models.Collaborator, len(in))
	copy(out, in)
	return out
}

func cloneActivities(in []models.Activity) []models.Activity {
	out := make([]models.Activity, len(in))
	copy(out, in)
	return out
}
