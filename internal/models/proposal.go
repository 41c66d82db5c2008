package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Proposal описывает коммерческое предложение — центральный документ системы.
type Proposal struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Description    *string    `db:"description" json:"description,omitempty"`
	ClientName     string     `db:"client_name" json:"client_name"`
	ClientEmail    *string    `db:"client_email" json:"client_email,omitempty"`
	Status         string     `db:"status" json:"status"`
	WinProbability int        `db:"win_probability" json:"win_probability"`
	DeadlineAt     *time.Time `db:"deadline_at" json:"deadline_at,omitempty"`
	BudgetMin      *float64   `db:"budget_min" json:"budget_min,omitempty"`
	BudgetMax      *float64   `db:"budget_max" json:"budget_max,omitempty"`
	BudgetCurrency *string    `db:"budget_currency" json:"budget_currency,omitempty"`
	Tags           []string   `json:"tags"`
	CreatedBy      uuid.UUID  `db:"created_by" json:"created_by"`
	LastModifiedBy uuid.UUID  `db:"last_modified_by" json:"last_modified_by"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	Sections      []Section      `json:"sections,omitempty"`
	Collaborators []Collaborator `json:"collaborators,omitempty"`
	Activities    []Activity     `json:"activities,omitempty"`
}

// Section — упорядоченный раздел предложения. Принадлежит ровно одному предложению.
type Section struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProposalID  uuid.UUID `db:"proposal_id" json:"proposal_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	// Type — свободная строка, используется как ключ в таблице целевых объёмов.
	Type       string `db:"type" json:"type"`
	Content    string `db:"content" json:"content"`
	SortOrder  int    `db:"sort_order" json:"order"`
	IsRequired bool   `db:"is_required" json:"is_required"`
	WordCount  *int   `db:"word_count" json:"word_count,omitempty"`
}

// Collaborator — пара (пользователь, роль) на конкретном предложении.
// Инвариант: не более одной записи на пользователя в рамках предложения.
type Collaborator struct {
	ProposalID uuid.UUID `db:"proposal_id" json:"proposal_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Role       string    `db:"role" json:"role"`
	AddedAt    time.Time `db:"added_at" json:"added_at"`
	User       *User     `json:"user,omitempty"`
}

// Activity — неизменяемая запись журнала действий. Только добавление, никогда
// не редактируется и не удаляется.
type Activity struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	ProposalID  uuid.UUID        `db:"proposal_id" json:"proposal_id"`
	Type        string           `db:"type" json:"type"`
	Description string           `db:"description" json:"description"`
	ActorID     uuid.UUID        `db:"actor_id" json:"actor_id"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	Metadata    ActivityMetadata `db:"metadata" json:"metadata,omitempty"`
}

// ActivityMetadata хранит произвольные пары ключ-значение записи журнала.
// В Postgres колонка JSONB, в JSON-ответах — обычный объект.
type ActivityMetadata map[string]string

// Value сериализует метаданные для записи в БД; пустая карта пишется как NULL.
func (m ActivityMetadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan читает JSONB-колонку обратно в карту.
func (m *ActivityMetadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("activity metadata: неожиданный тип %T", src)
	}
	return json.Unmarshal(raw, m)
}

// RFPDocument описывает загруженный документ с требованиями клиента.
type RFPDocument struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ProposalID *uuid.UUID `db:"proposal_id" json:"proposal_id,omitempty"`
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	Filename   string     `db:"filename" json:"filename"`
	FilePath   string     `db:"file_path" json:"file_path"`
	FileType   string     `db:"file_type" json:"file_type"`
	FileSize   int64      `db:"file_size" json:"file_size"`
	UploadedAt time.Time  `db:"uploaded_at" json:"uploaded_at"`
}

// ProposalStats — агрегированная статистика для дашборда.
type ProposalStats struct {
	TotalProposals      int        `json:"total_proposals"`
	ActiveProposals     int        `json:"active_proposals"`
	AverageWinRate      float64    `json:"average_win_rate"`
	AverageResponseTime float64    `json:"average_response_time"`
	RecentActivity      []Activity `json:"recent_activity"`
}
