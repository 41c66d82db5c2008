package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/models"
)

// ProposalStore хранит авторитетную копию коллекции предложений в памяти и
// отдельный слот "открытого" предложения. Экземпляр создаётся явно и
// передаётся зависимостям через конструктор — глобального синглтона нет,
// чтобы стор можно было изолированно собирать в тестах и держать несколько
// рабочих пространств в одном процессе.
//
// Операции над несуществующим id — no-op с признаком "не найдено": вызывающие
// стороны — обработчики UI-событий, паника здесь недопустима.
type ProposalStore struct {
	mu        sync.RWMutex
	proposals []models.Proposal
	current   *models.Proposal
}

// NewProposalStore создаёт пустой стор.
func NewProposalStore() *ProposalStore {
	return &ProposalStore{}
}

// ReplaceAll заменяет коллекцию целиком. Входной срез копируется.
func (s *ProposalStore) ReplaceAll(records []models.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.proposals = make([]models.Proposal, len(records))
	copy(s.proposals, records)
}

// List возвращает копию коллекции в порядке хранения.
func (s *ProposalStore) List() []models.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Proposal, len(s.proposals))
	copy(out, s.proposals)
	return out
}

// Len возвращает размер коллекции.
func (s *ProposalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.proposals)
}

// Get возвращает предложение по id.
func (s *ProposalStore) Get(id uuid.UUID) (models.Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.proposals {
		if s.proposals[i].ID == id {
			return s.proposals[i], true
		}
	}
	return models.Proposal{}, false
}

// Add добавляет предложение в начало коллекции (новые сверху).
func (s *ProposalStore) Add(p models.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.proposals = append([]models.Proposal{p}, s.proposals...)
}

// UpsertOne сливает частичное обновление в запись с данным id. Если открытое
// предложение совпадает по id, оно патчится тем же обновлением — два
// представления не должны расходиться. Возвращает false, если записи нет.
func (s *ProposalStore) UpsertOne(id uuid.UUID, patch models.ProposalPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.proposals {
		if s.proposals[i].ID == id {
			patch.Apply(&s.proposals[i])
			found = true
			break
		}
	}

	if s.current != nil && s.current.ID == id {
		patch.Apply(s.current)
		found = true
	}

	return found
}

// Remove удаляет запись по id; если она была открыта — слот очищается.
// Повторное удаление того же id — no-op.
func (s *ProposalStore) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.proposals {
		if s.proposals[i].ID == id {
			s.proposals = append(s.proposals[:i], s.proposals[i+1:]...)
			found = true
			break
		}
	}

	if s.current != nil && s.current.ID == id {
		s.current = nil
	}

	return found
}

// AppendActivity дописывает запись в журнал предложения. Существующие записи
// журнала никогда не изменяются.
func (s *ProposalStore) AppendActivity(id uuid.UUID, activity models.Activity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.proposals {
		if s.proposals[i].ID == id {
			s.proposals[i].Activities = append(s.proposals[i].Activities, activity)
			found = true
			break
		}
	}

	if s.current != nil && s.current.ID == id {
		s.current.Activities = append(s.current.Activities, activity)
		found = true
	}

	return found
}

// SetCurrent выставляет открытое предложение; nil очищает слот.
func (s *ProposalStore) SetCurrent(p *models.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil {
		s.current = nil
		return
	}
	cp := *p
	s.current = &cp
}

// Current возвращает открытое предложение, если оно есть.
func (s *ProposalStore) Current() (models.Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return models.Proposal{}, false
	}
	return *s.current, true
}
