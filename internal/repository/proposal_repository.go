package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
)

// ProposalRepository отвечает за работу с предложениями и их вложенными
// коллекциями: разделами, участниками и журналом действий.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт новый экземпляр.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// proposalRow маппит строку proposals вместе с массивом тегов.
type proposalRow struct {
	models.Proposal
	TagsArr pq.StringArray `db:"tags"`
}

const proposalColumns = `
	p.id, p.title, p.description, p.client_name, p.client_email, p.status,
	p.win_probability, p.deadline_at, p.budget_min, p.budget_max,
	p.budget_currency, p.tags, p.created_by, p.last_modified_by,
	p.created_at, p.updated_at
`

// List возвращает страницу предложений по критериям отбора. Фильтры
// объединяются по AND; пустое измерение не ограничивает выборку.
func (r *ProposalRepository) List(ctx context.Context, page, pageSize int, filters models.ProposalFilters, sortOpt models.SortOption) (*models.ProposalPage, error) {
	countQuery := `SELECT COUNT(*) FROM proposals p WHERE 1=1`
	query := `SELECT ` + proposalColumns + ` FROM proposals p WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	appendClause := func(clause string, value interface{}) {
		query += clause
		countQuery += clause
		args = append(args, value)
		argIndex++
	}

	if filters.Search != "" {
		clause := fmt.Sprintf(" AND (p.title ILIKE $%d OR p.client_name ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex, argIndex)
		appendClause(clause, "%"+filters.Search+"%")
	}

	if len(filters.Status) > 0 {
		clause := fmt.Sprintf(" AND p.status = ANY($%d)", argIndex)
		appendClause(clause, pq.Array(filters.Status))
	}

	if filters.WinProbMin != nil {
		appendClause(fmt.Sprintf(" AND p.win_probability >= $%d", argIndex), *filters.WinProbMin)
	}
	if filters.WinProbMax != nil {
		appendClause(fmt.Sprintf(" AND p.win_probability <= $%d", argIndex), *filters.WinProbMax)
	}

	if filters.UpdatedFrom != nil {
		appendClause(fmt.Sprintf(" AND p.updated_at >= $%d", argIndex), *filters.UpdatedFrom)
	}
	if filters.UpdatedTo != nil {
		appendClause(fmt.Sprintf(" AND p.updated_at <= $%d", argIndex), *filters.UpdatedTo)
	}

	if len(filters.Tags) > 0 {
		clause := fmt.Sprintf(" AND p.tags && $%d", argIndex)
		appendClause(clause, pq.Array(filters.Tags))
	}

	if len(filters.Collaborators) > 0 {
		ids := make([]string, 0, len(filters.Collaborators))
		for _, id := range filters.Collaborators {
			ids = append(ids, id.String())
		}
		clause := fmt.Sprintf(" AND EXISTS (SELECT 1 FROM proposal_collaborators pc WHERE pc.proposal_id = p.id AND pc.user_id = ANY($%d))", argIndex)
		appendClause(clause, pq.Array(ids))
	}

	query += orderClause(sortOpt)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("proposal repository: count %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var rows []proposalRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("proposal repository: list %w", err)
	}

	proposals := make([]models.Proposal, len(rows))
	for i, row := range rows {
		proposals[i] = row.Proposal
		proposals[i].Tags = row.TagsArr
	}

	return &models.ProposalPage{
		Proposals:  proposals,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// orderClause переводит опцию сортировки в ORDER BY. Поле вне белого списка
// заменяется сортировкой по умолчанию; NULL-дедлайны стабильно в конце при asc.
func orderClause(opt models.SortOption) string {
	direction := "DESC"
	if opt.Direction == models.SortAsc {
		direction = "ASC"
	}

	switch opt.Field {
	case models.SortFieldTitle:
		return " ORDER BY LOWER(p.title) " + direction
	case models.SortFieldClientName:
		return " ORDER BY LOWER(p.client_name) " + direction
	case models.SortFieldCreatedAt:
		return " ORDER BY p.created_at " + direction
	case models.SortFieldDeadline:
		if direction == "ASC" {
			return " ORDER BY p.deadline_at ASC NULLS LAST"
		}
		return " ORDER BY p.deadline_at DESC NULLS FIRST"
	case models.SortFieldWinProbability:
		return " ORDER BY p.win_probability " + direction
	default:
		return " ORDER BY p.updated_at " + direction
	}
}

// GetByID возвращает предложение со всеми связанными данными.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var row proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals p WHERE p.id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}

	proposal := row.Proposal
	proposal.Tags = row.TagsArr

	sectionsQuery := `
		SELECT id, proposal_id, title, description, type, content, sort_order, is_required, word_count
		FROM proposal_sections
		WHERE proposal_id = $1
		ORDER BY sort_order
	`
	if err := r.db.SelectContext(ctx, &proposal.Sections, sectionsQuery, id); err != nil {
		return nil, fmt.Errorf("proposal repository: get sections %w", err)
	}

	collaborators, err := r.listCollaborators(ctx, id)
	if err != nil {
		return nil, err
	}
	proposal.Collaborators = collaborators

	activitiesQuery := `
		SELECT id, proposal_id, type, description, actor_id, metadata, created_at
		FROM proposal_activities
		WHERE proposal_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &proposal.Activities, activitiesQuery, id); err != nil {
		return nil, fmt.Errorf("proposal repository: get activities %w", err)
	}

	return &proposal, nil
}

func (r *ProposalRepository) listCollaborators(ctx context.Context, proposalID uuid.UUID) ([]models.Collaborator, error) {
	query := `
		SELECT
			pc.proposal_id, pc.user_id, pc.role, pc.added_at,
			u.id, u.email, u.name, u.avatar_url
		FROM proposal_collaborators pc
		JOIN users u ON u.id = pc.user_id
		WHERE pc.proposal_id = $1
		ORDER BY pc.added_at
	`

	rows, err := r.db.QueryxContext(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: get collaborators %w", err)
	}
	defer rows.Close()

	var collaborators []models.Collaborator
	for rows.Next() {
		var c models.Collaborator
		var u models.User
		if err := rows.Scan(
			&c.ProposalID, &c.UserID, &c.Role, &c.AddedAt,
			&u.ID, &u.Email, &u.Name, &u.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("proposal repository: scan collaborator %w", err)
		}
		c.User = &u
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}

// Create сохраняет предложение вместе с разделами, участниками и журналом
// в одной транзакции.
func (r *ProposalRepository) Create(ctx context.Context, p *models.Proposal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("proposal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	insertProposal := `
		INSERT INTO proposals (
			id, title, description, client_name, client_email, status,
			win_probability, deadline_at, budget_min, budget_max,
			budget_currency, tags, created_by, last_modified_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	if _, err := tx.ExecContext(ctx, insertProposal,
		p.ID, p.Title, p.Description, p.ClientName, p.ClientEmail, p.Status,
		p.WinProbability, p.DeadlineAt, p.BudgetMin, p.BudgetMax,
		p.BudgetCurrency, pq.Array(p.Tags), p.CreatedBy, p.LastModifiedBy, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("proposal repository: insert proposal %w", err)
	}

	for i := range p.Sections {
		if err := insertSectionTx(ctx, tx, &p.Sections[i]); err != nil {
			return err
		}
	}

	for i := range p.Collaborators {
		if err := insertCollaboratorTx(ctx, tx, &p.Collaborators[i]); err != nil {
			return err
		}
	}

	for i := range p.Activities {
		if err := insertActivityTx(ctx, tx, &p.Activities[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("proposal repository: commit %w", err)
	}
	return nil
}

func insertSectionTx(ctx context.Context, tx *sqlx.Tx, s *models.Section) error {
	query := `
		INSERT INTO proposal_sections (id, proposal_id, title, description, type, content, sort_order, is_required, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.ExecContext(ctx, query,
		s.ID, s.ProposalID, s.Title, s.Description, s.Type, s.Content, s.SortOrder, s.IsRequired, s.WordCount,
	); err != nil {
		return fmt.Errorf("proposal repository: insert section %w", err)
	}
	return nil
}

func insertCollaboratorTx(ctx context.Context, tx *sqlx.Tx, c *models.Collaborator) error {
	query := `
		INSERT INTO proposal_collaborators (proposal_id, user_id, role, added_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, query, c.ProposalID, c.UserID, c.Role, c.AddedAt); err != nil {
		return fmt.Errorf("proposal repository: insert collaborator %w", err)
	}
	return nil
}

func insertActivityTx(ctx context.Context, tx *sqlx.Tx, a *models.Activity) error {
	query := `
		INSERT INTO proposal_activities (id, proposal_id, type, description, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, query, a.ID, a.ProposalID, a.Type, a.Description, a.ActorID, a.Metadata, a.CreatedAt); err != nil {
		return fmt.Errorf("proposal repository: insert activity %w", err)
	}
	return nil
}

// Update накладывает частичное обновление. Разделы и участники патчем не
// меняются — у них свои операции.
func (r *ProposalRepository) Update(ctx context.Context, id uuid.UUID, patch models.ProposalPatch) error {
	sets := []string{}
	args := []interface{}{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.ClientName != nil {
		set("client_name", *patch.ClientName)
	}
	if patch.ClientEmail != nil {
		set("client_email", *patch.ClientEmail)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.WinProbability != nil {
		set("win_probability", *patch.WinProbability)
	}
	if patch.DeadlineAt != nil {
		set("deadline_at", *patch.DeadlineAt)
	}
	if patch.BudgetMin != nil {
		set("budget_min", *patch.BudgetMin)
	}
	if patch.BudgetMax != nil {
		set("budget_max", *patch.BudgetMax)
	}
	if patch.BudgetCurrency != nil {
		set("budget_currency", *patch.BudgetCurrency)
	}
	if patch.Tags != nil {
		set("tags", pq.Array(patch.Tags))
	}
	if patch.LastModifiedBy != nil {
		set("last_modified_by", *patch.LastModifiedBy)
	}

	updatedAt := time.Now().UTC()
	if patch.UpdatedAt != nil {
		updatedAt = *patch.UpdatedAt
	}
	set("updated_at", updatedAt)

	query := "UPDATE proposals SET "
	for i, clause := range sets {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id = $%d", argIndex)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("proposal repository: update %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: update rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrProposalNotFound
	}
	return nil
}

// Delete удаляет предложение; вложенные записи каскадируются схемой.
func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("proposal repository: delete %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrProposalNotFound
	}
	return nil
}

// GetSection возвращает раздел предложения.
func (r *ProposalRepository) GetSection(ctx context.Context, proposalID, sectionID uuid.UUID) (*models.Section, error) {
	var section models.Section
	query := `
		SELECT id, proposal_id, title, description, type, content, sort_order, is_required, word_count
		FROM proposal_sections
		WHERE proposal_id = $1 AND id = $2
	`
	if err := r.db.GetContext(ctx, &section, query, proposalID, sectionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrSectionNotFound
		}
		return nil, fmt.Errorf("proposal repository: get section %w", err)
	}
	return &section, nil
}

// UpdateSection сохраняет раздел и подталкивает updated_at предложения.
func (r *ProposalRepository) UpdateSection(ctx context.Context, s *models.Section) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("proposal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE proposal_sections
		SET title = $1, description = $2, type = $3, content = $4, sort_order = $5, is_required = $6, word_count = $7
		WHERE proposal_id = $8 AND id = $9
	`
	result, err := tx.ExecContext(ctx, query,
		s.Title, s.Description, s.Type, s.Content, s.SortOrder, s.IsRequired, s.WordCount,
		s.ProposalID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("proposal repository: update section %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: update section rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrSectionNotFound
	}

	if _, err := tx.ExecContext(ctx, `UPDATE proposals SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), s.ProposalID); err != nil {
		return fmt.Errorf("proposal repository: touch proposal %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("proposal repository: commit %w", err)
	}
	return nil
}

// AddCollaborator добавляет участника. Уникальность пары (предложение,
// пользователь) обеспечивает первичный ключ.
func (r *ProposalRepository) AddCollaborator(ctx context.Context, c *models.Collaborator) error {
	query := `
		INSERT INTO proposal_collaborators (proposal_id, user_id, role, added_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, c.ProposalID, c.UserID, c.Role, c.AddedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperror.ErrCollaboratorExists
		}
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return apperror.ErrProposalNotFound
		}
		return fmt.Errorf("proposal repository: add collaborator %w", err)
	}
	return nil
}

// RemoveCollaborator убирает участника с предложения.
func (r *ProposalRepository) RemoveCollaborator(ctx context.Context, proposalID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM proposal_collaborators WHERE proposal_id = $1 AND user_id = $2`,
		proposalID, userID,
	)
	if err != nil {
		return fmt.Errorf("proposal repository: remove collaborator %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: remove collaborator rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}

// AddActivity дописывает запись в журнал. Журнал только растёт.
func (r *ProposalRepository) AddActivity(ctx context.Context, a *models.Activity) error {
	query := `
		INSERT INTO proposal_activities (id, proposal_id, type, description, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.ProposalID, a.Type, a.Description, a.ActorID, a.Metadata, a.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return apperror.ErrProposalNotFound
		}
		return fmt.Errorf("proposal repository: add activity %w", err)
	}
	return nil
}

// Stats считает агрегаты дашборда.
func (r *ProposalRepository) Stats(ctx context.Context) (*models.ProposalStats, error) {
	stats := &models.ProposalStats{RecentActivity: []models.Activity{}}

	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status IN ('in-progress', 'review')) AS active,
			COALESCE(AVG(win_probability), 0) AS avg_win
		FROM proposals
	`
	row := r.db.QueryRowxContext(ctx, query)
	if err := row.Scan(&stats.TotalProposals, &stats.ActiveProposals, &stats.AverageWinRate); err != nil {
		return nil, fmt.Errorf("proposal repository: stats %w", err)
	}

	activityQuery := `
		SELECT id, proposal_id, type, description, actor_id, metadata, created_at
		FROM proposal_activities
		ORDER BY created_at DESC
		LIMIT 10
	`
	if err := r.db.SelectContext(ctx, &stats.RecentActivity, activityQuery); err != nil {
		return nil, fmt.Errorf("proposal repository: recent activity %w", err)
	}

	return stats, nil
}
