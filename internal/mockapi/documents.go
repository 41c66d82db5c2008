package mockapi

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
)

// CreateDocument сохраняет метаданные загруженного документа.
func (r *Repository) CreateDocument(ctx context.Context, doc *models.RFPDocument) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.documents[doc.ID] = *doc
	return nil
}

// GetDocumentByID возвращает документ по идентификатору.
func (r *Repository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*models.RFPDocument, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[id]
	if !ok {
		return nil, apperror.ErrDocumentNotFound
	}
	return &doc, nil
}

// ListDocumentsByProposal возвращает документы, привязанные к предложению.
func (r *Repository) ListDocumentsByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.RFPDocument, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]models.RFPDocument, 0)
	for _, doc := range r.documents {
		if doc.ProposalID != nil && *doc.ProposalID == proposalID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// AttachDocumentToProposal привязывает загруженный документ к предложению.
func (r *Repository) AttachDocumentToProposal(ctx context.Context, docID, proposalID uuid.UUID) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[docID]
	if !ok {
		return apperror.ErrDocumentNotFound
	}
	doc.ProposalID = &proposalID
	r.documents[docID] = doc
	return nil
}

// DeleteDocument удаляет метаданные документа.
func (r *Repository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[id]; !ok {
		return apperror.ErrDocumentNotFound
	}
	delete(r.documents, id)
	return nil
}
