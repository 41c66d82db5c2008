package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
)

// DocumentRepository отвечает за метаданные загруженных RFP-документов.
// Сами файлы лежат на диске, путь хранится в file_path.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository создаёт экземпляр репозитория.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateDocument сохраняет метаданные документа.
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *models.RFPDocument) error {
	query := `
		INSERT INTO rfp_documents (id, proposal_id, user_id, filename, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING uploaded_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		doc.ID, doc.ProposalID, doc.UserID, doc.Filename, doc.FilePath, doc.FileType, doc.FileSize,
	).Scan(&doc.UploadedAt); err != nil {
		return fmt.Errorf("document repository: create %w", err)
	}
	return nil
}

// GetDocumentByID возвращает документ по идентификатору.
func (r *DocumentRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*models.RFPDocument, error) {
	var doc models.RFPDocument
	query := `
		SELECT id, proposal_id, user_id, filename, file_path, file_type, file_size, uploaded_at
		FROM rfp_documents
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("document repository: get by id %w", err)
	}
	return &doc, nil
}

// ListDocumentsByProposal возвращает документы, привязанные к предложению.
func (r *DocumentRepository) ListDocumentsByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.RFPDocument, error) {
	var docs []models.RFPDocument
	query := `
		SELECT id, proposal_id, user_id, filename, file_path, file_type, file_size, uploaded_at
		FROM rfp_documents
		WHERE proposal_id = $1
		ORDER BY uploaded_at DESC
	`
	if err := r.db.SelectContext(ctx, &docs, query, proposalID); err != nil {
		return nil, fmt.Errorf("document repository: list by proposal %w", err)
	}
	return docs, nil
}

// AttachDocumentToProposal привязывает загруженный документ к предложению.
func (r *DocumentRepository) AttachDocumentToProposal(ctx context.Context, docID, proposalID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rfp_documents SET proposal_id = $1 WHERE id = $2`,
		proposalID, docID,
	)
	if err != nil {
		return fmt.Errorf("document repository: attach %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("document repository: attach rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrDocumentNotFound
	}
	return nil
}

// DeleteDocument удаляет метаданные документа.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rfp_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("document repository: delete %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("document repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrDocumentNotFound
	}
	return nil
}
