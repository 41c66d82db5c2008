package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/logger"
	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
	"github.com/proposalflow/backend/internal/validation"
)

// Вероятность выигрыша: стартовое значение и границы пересчёта.
const (
	baseWinProbability = 50
	minWinProbability  = 15
	maxWinProbability  = 95

	// completedSectionThreshold — раздел считается заполненным, когда
	// содержимое длиннее этого порога в символах.
	completedSectionThreshold = 100
)

// ProposalRepository описывает взаимодействие сервиса с хранилищем
// предложений. Реализуется репозиторием на Postgres и мок-репозиторием
// в памяти.
type ProposalRepository interface {
	List(ctx context.Context, page, pageSize int, filters models.ProposalFilters, sort models.SortOption) (*models.ProposalPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	Create(ctx context.Context, p *models.Proposal) error
	Update(ctx context.Context, id uuid.UUID, patch models.ProposalPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetSection(ctx context.Context, proposalID, sectionID uuid.UUID) (*models.Section, error)
	UpdateSection(ctx context.Context, s *models.Section) error
	AddCollaborator(ctx context.Context, c *models.Collaborator) error
	RemoveCollaborator(ctx context.Context, proposalID, userID uuid.UUID) error
	AddActivity(ctx context.Context, a *models.Activity) error
	Stats(ctx context.Context) (*models.ProposalStats, error)
}

// UserDirectory описывает поиск пользователей для коллаборации.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProposalService инкапсулирует бизнес-правила работы с предложениями.
type ProposalService struct {
	repo  ProposalRepository
	users UserDirectory
	cache *CacheService

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProposalService создаёт сервис. Зерно генератора фиксируется в тестах.
func NewProposalService(repo ProposalRepository, users UserDirectory, cache *CacheService, seed int64) *ProposalService {
	return &ProposalService{
		repo:  repo,
		users: users,
		cache: cache,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// CreateProposalInput — поля нового предложения.
type CreateProposalInput struct {
	Title          string
	Description    *string
	ClientName     string
	ClientEmail    *string
	DeadlineAt     *time.Time
	BudgetMin      *float64
	BudgetMax      *float64
	BudgetCurrency *string
	Tags           []string
}

// UpdateProposalInput — частичное обновление. nil-поле не меняется.
type UpdateProposalInput struct {
	Title          *string
	Description    *string
	ClientName     *string
	ClientEmail    *string
	Status         *string
	DeadlineAt     *time.Time
	BudgetMin      *float64
	BudgetMax      *float64
	BudgetCurrency *string
	Tags           []string
}

// defaultSectionLayout — разделы, которые получает каждое новое предложение.
var defaultSectionLayout = []struct {
	Title string
	Type  string
}{
	{"Executive Summary", "executive-summary"},
	{"Technical Approach", "proposed-solution"},
	{"Project Timeline", "timeline"},
	{"Team Qualifications", "team"},
	{"Budget & Pricing", "budget"},
}

// List возвращает страницу предложений. Пустая сортировка заменяется
// сортировкой по умолчанию.
func (s *ProposalService) List(ctx context.Context, page, pageSize int, filters models.ProposalFilters, sortOpt models.SortOption) (*models.ProposalPage, error) {
	if sortOpt.Field == "" {
		sortOpt = models.DefaultSort
	}
	if _, ok := models.ValidSortFields[sortOpt.Field]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("недопустимое поле сортировки: %s", sortOpt.Field))
	}
	return s.repo.List(ctx, page, pageSize, filters, sortOpt)
}

// Get возвращает предложение со всеми вложенными данными.
func (s *ProposalService) Get(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return s.repo.GetByID(ctx, id)
}

// Create создаёт предложение: статус draft, стартовая вероятность выигрыша,
// пять пустых обязательных разделов, автор как владелец и запись "created"
// в журнале.
func (s *ProposalService) Create(ctx context.Context, userID uuid.UUID, input CreateProposalInput) (*models.Proposal, error) {
	if err := validation.ValidateProposalTitle(input.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateClientName(input.ClientName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDescription(input.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if input.ClientEmail != nil && *input.ClientEmail != "" {
		if err := validation.ValidateEmail(*input.ClientEmail); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidateBudget(input.BudgetMin, input.BudgetMax); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCurrency(input.BudgetCurrency); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateTags(input.Tags); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	now := time.Now().UTC()
	proposalID := uuid.New()

	proposal := &models.Proposal{
		ID:             proposalID,
		Title:          input.Title,
		Description:    input.Description,
		ClientName:     input.ClientName,
		ClientEmail:    input.ClientEmail,
		Status:         models.ProposalStatusDraft,
		WinProbability: baseWinProbability,
		DeadlineAt:     input.DeadlineAt,
		BudgetMin:      input.BudgetMin,
		BudgetMax:      input.BudgetMax,
		BudgetCurrency: input.BudgetCurrency,
		Tags:           input.Tags,
		CreatedBy:      userID,
		LastModifiedBy: userID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Sections:       defaultSections(proposalID),
		Collaborators: []models.Collaborator{
			{ProposalID: proposalID, UserID: userID, Role: models.RoleOwner, AddedAt: now},
		},
		Activities: []models.Activity{
			{
				ID:          uuid.New(),
				ProposalID:  proposalID,
				Type:        models.ActivityCreated,
				Description: "Proposal created",
				ActorID:     userID,
				CreatedAt:   now,
			},
		},
	}

	if err := s.repo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	s.invalidate(proposalID)
	logger.Log.WithField("proposal_id", proposalID).Info("предложение создано")
	return proposal, nil
}

func defaultSections(proposalID uuid.UUID) []models.Section {
	sections := make([]models.Section, 0, len(defaultSectionLayout))
	for i, layout := range defaultSectionLayout {
		sections = append(sections, models.Section{
			ID:         uuid.New(),
			ProposalID: proposalID,
			Title:      layout.Title,
			Type:       layout.Type,
			Content:    "",
			SortOrder:  i + 1,
			IsRequired: true,
		})
	}
	return sections
}

// Update применяет частичное обновление и пишет запись в журнал. Смена
// статуса фиксируется отдельным типом записи.
func (s *ProposalService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateProposalInput) (*models.Proposal, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := validation.ValidateProposalTitle(*input.Title); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if input.ClientName != nil {
		if err := validation.ValidateClientName(*input.ClientName); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if input.Status != nil {
		if err := validation.ValidateProposalStatus(*input.Status); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidateDescription(input.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBudget(input.BudgetMin, input.BudgetMax); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCurrency(input.BudgetCurrency); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if input.Tags != nil {
		if err := validation.ValidateTags(input.Tags); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	now := time.Now().UTC()
	patch := models.ProposalPatch{
		Title:          input.Title,
		Description:    input.Description,
		ClientName:     input.ClientName,
		ClientEmail:    input.ClientEmail,
		Status:         input.Status,
		DeadlineAt:     input.DeadlineAt,
		BudgetMin:      input.BudgetMin,
		BudgetMax:      input.BudgetMax,
		BudgetCurrency: input.BudgetCurrency,
		Tags:           input.Tags,
		LastModifiedBy: &userID,
		UpdatedAt:      &now,
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	activityType := models.ActivityUpdated
	description := "Updated proposal details"
	if input.Status != nil && *input.Status != current.Status {
		activityType = models.ActivityStatusChanged
		description = fmt.Sprintf("Status changed from %s to %s", current.Status, *input.Status)
	}
	s.logActivity(ctx, id, userID, activityType, description, nil)

	s.invalidate(id)
	return s.repo.GetByID(ctx, id)
}

// Delete удаляет предложение. Только владелец может удалить.
func (s *ProposalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role := collaboratorRole(proposal, userID); role != models.RoleOwner {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(id)
	logger.Log.WithField("proposal_id", id).Info("предложение удалено")
	return nil
}

// UpdateSection сохраняет содержимое раздела, пересчитывает объём в словах и
// пишет запись в журнал.
func (s *ProposalService) UpdateSection(ctx context.Context, userID, proposalID, sectionID uuid.UUID, content string) (*models.Section, error) {
	if err := validation.ValidateSectionContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	proposal, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if role := collaboratorRole(proposal, userID); role == models.RoleViewer || role == "" {
		return nil, apperror.ErrForbidden
	}

	section, err := s.repo.GetSection(ctx, proposalID, sectionID)
	if err != nil {
		return nil, err
	}

	section.Content = content
	section.RecountWords()

	if err := s.repo.UpdateSection(ctx, section); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s.repo.Update(ctx, proposalID, models.ProposalPatch{ //nolint:errcheck
		LastModifiedBy: &userID,
		UpdatedAt:      &now,
	})

	s.logActivity(ctx, proposalID, userID, models.ActivityUpdated,
		fmt.Sprintf("Updated section: %s", section.Title),
		map[string]string{"section_id": sectionID.String(), "section_title": section.Title})

	s.invalidate(proposalID)
	return section, nil
}

// Duplicate создаёт копию предложения: новый заголовок, статус draft,
// стартовая вероятность, копии разделов, автор как единственный владелец.
func (s *ProposalService) Duplicate(ctx context.Context, userID, id uuid.UUID, newTitle string) (*models.Proposal, error) {
	if err := validation.ValidateProposalTitle(newTitle); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	copyID := uuid.New()

	sections := make([]models.Section, len(original.Sections))
	for i, section := range original.Sections {
		sections[i] = section
		sections[i].ID = uuid.New()
		sections[i].ProposalID = copyID
	}

	duplicate := &models.Proposal{
		ID:             copyID,
		Title:          newTitle,
		Description:    original.Description,
		ClientName:     original.ClientName,
		ClientEmail:    original.ClientEmail,
		Status:         models.ProposalStatusDraft,
		WinProbability: baseWinProbability,
		DeadlineAt:     original.DeadlineAt,
		BudgetMin:      original.BudgetMin,
		BudgetMax:      original.BudgetMax,
		BudgetCurrency: original.BudgetCurrency,
		Tags:           original.Tags,
		CreatedBy:      userID,
		LastModifiedBy: userID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Sections:       sections,
		Collaborators: []models.Collaborator{
			{ProposalID: copyID, UserID: userID, Role: models.RoleOwner, AddedAt: now},
		},
		Activities: []models.Activity{
			{
				ID:          uuid.New(),
				ProposalID:  copyID,
				Type:        models.ActivityCreated,
				Description: fmt.Sprintf("Duplicated from %q", original.Title),
				ActorID:     userID,
				CreatedAt:   now,
			},
		},
	}

	if err := s.repo.Create(ctx, duplicate); err != nil {
		return nil, err
	}

	s.invalidate(copyID)
	return duplicate, nil
}

// AddCollaborator добавляет участника по email. Роль owner через эту
// операцию не выдаётся.
func (s *ProposalService) AddCollaborator(ctx context.Context, userID, proposalID uuid.UUID, email, role string) (*models.Collaborator, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCollaboratorRole(role); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if role == models.RoleOwner {
		return nil, apperror.New(apperror.ErrCodeValidation, "роль owner нельзя выдать через приглашение")
	}

	proposal, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if actorRole := collaboratorRole(proposal, userID); actorRole != models.RoleOwner && actorRole != models.RoleEditor {
		return nil, apperror.ErrForbidden
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	collaborator := &models.Collaborator{
		ProposalID: proposalID,
		UserID:     user.ID,
		Role:       role,
		AddedAt:    time.Now().UTC(),
		User:       user,
	}

	if err := s.repo.AddCollaborator(ctx, collaborator); err != nil {
		return nil, err
	}

	s.logActivity(ctx, proposalID, userID, models.ActivityShared,
		fmt.Sprintf("Added %s as %s", user.Name, role),
		map[string]string{"added_user_id": user.ID.String(), "role": role})

	s.invalidate(proposalID)
	return collaborator, nil
}

// RemoveCollaborator убирает участника. Владельца убрать нельзя.
func (s *ProposalService) RemoveCollaborator(ctx context.Context, userID, proposalID, removeUserID uuid.UUID) error {
	proposal, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if actorRole := collaboratorRole(proposal, userID); actorRole != models.RoleOwner {
		return apperror.ErrForbidden
	}
	if collaboratorRole(proposal, removeUserID) == models.RoleOwner {
		return apperror.New(apperror.ErrCodeValidation, "владельца нельзя убрать с предложения")
	}

	if err := s.repo.RemoveCollaborator(ctx, proposalID, removeUserID); err != nil {
		return err
	}

	s.invalidate(proposalID)
	return nil
}

// RecalculateWinProbability пересчитывает вероятность выигрыша: база 50,
// до +30 за долю заполненных разделов, до +20 за "вовлечённость клиента"
// (симуляция), +10 за близкий дедлайн. Результат зажимается в [15, 95].
func (s *ProposalService) RecalculateWinProbability(ctx context.Context, userID, id uuid.UUID) (int, error) {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	probability := float64(baseWinProbability)

	if len(proposal.Sections) > 0 {
		completed := 0
		for _, section := range proposal.Sections {
			if len(section.Content) > completedSectionThreshold {
				completed++
			}
		}
		probability += float64(completed) / float64(len(proposal.Sections)) * 30
	}

	s.mu.Lock()
	probability += s.rng.Float64() * 20
	s.mu.Unlock()

	if proposal.DeadlineAt != nil {
		daysUntil := time.Until(*proposal.DeadlineAt).Hours() / 24
		if daysUntil < 7 {
			probability += 10
		}
	}

	result := int(math.Round(probability))
	if result < minWinProbability {
		result = minWinProbability
	}
	if result > maxWinProbability {
		result = maxWinProbability
	}

	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, models.ProposalPatch{
		WinProbability: &result,
		LastModifiedBy: &userID,
		UpdatedAt:      &now,
	}); err != nil {
		return 0, err
	}

	s.invalidate(id)
	return result, nil
}

// Stats возвращает агрегаты дашборда. Ответ кэшируется на полминуты:
// дашборд опрашивает эндпоинт часто, а точность до секунды не нужна.
func (s *ProposalService) Stats(ctx context.Context) (*models.ProposalStats, error) {
	if s.cache == nil {
		return s.computeStats(ctx)
	}

	value, err := s.cache.GetOrSet(ctx, StatsCacheKey(), 30*time.Second, func() (interface{}, error) {
		return s.computeStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.ProposalStats), nil
}

func (s *ProposalService) computeStats(ctx context.Context) (*models.ProposalStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	// Среднее время ответа пока не измеряется, отдаём историческую оценку.
	stats.AverageResponseTime = 2.3
	return stats, nil
}

// logActivity пишет запись в журнал. Ошибка журнала не валит основную
// операцию, только логируется.
func (s *ProposalService) logActivity(ctx context.Context, proposalID, actorID uuid.UUID, activityType, description string, metadata map[string]string) {
	activity := &models.Activity{
		ID:          uuid.New(),
		ProposalID:  proposalID,
		Type:        activityType,
		Description: description,
		ActorID:     actorID,
		CreatedAt:   time.Now().UTC(),
		Metadata:    metadata,
	}
	if err := s.repo.AddActivity(ctx, activity); err != nil {
		logger.Log.WithError(err).WithField("proposal_id", proposalID).Warn("не удалось записать активность")
	}
}

func (s *ProposalService) invalidate(proposalID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateProposalCache(proposalID)
	}
}

func collaboratorRole(p *models.Proposal, userID uuid.UUID) string {
	for i := range p.Collaborators {
		if p.Collaborators[i].UserID == userID {
			return p.Collaborators[i].Role
		}
	}
	if p.CreatedBy == userID {
		return models.RoleOwner
	}
	return ""
}
