package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/dto"
	"github.com/proposalflow/backend/internal/http/handlers/common"
	"github.com/proposalflow/backend/internal/http/response"
	"github.com/proposalflow/backend/internal/logger"
	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/storage"
)

// DocumentStore описывает хранилище метаданных RFP-документов. Реализуется
// репозиторием на Postgres и мок-репозиторием в памяти.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *models.RFPDocument) error
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*models.RFPDocument, error)
	ListDocumentsByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.RFPDocument, error)
	AttachDocumentToProposal(ctx context.Context, docID, proposalID uuid.UUID) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// UploadSimulator имитирует постепенную загрузку файла для прогресс-бара.
// В режиме реальной базы симулятора нет и прогресс сразу 100.
type UploadSimulator interface {
	SimulateUpload(ctx context.Context, duration time.Duration, onProgress func(percent int)) error
}

// DocumentHandler отвечает за загрузку RFP-документов.
type DocumentHandler struct {
	documents DocumentStore
	files     *storage.DocumentStorage
	simulator UploadSimulator
}

// NewDocumentHandler создаёт хэндлер. simulator может быть nil.
func NewDocumentHandler(documents DocumentStore, files *storage.DocumentStorage, simulator UploadSimulator) *DocumentHandler {
	return &DocumentHandler{documents: documents, files: files, simulator: simulator}
}

// Upload обрабатывает POST /documents (multipart).
// С параметром stream=sse прогресс загрузки отдаётся событиями
// Server-Sent Events, завершаясь событием complete с метаданными документа.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "файл обязателен (поле file)")
		return
	}

	var proposalID *uuid.UUID
	if raw := c.PostForm("proposal_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "proposal_id должен быть валидным UUID")
			return
		}
		proposalID = &parsed
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, "не удалось прочитать файл")
		return
	}
	defer src.Close()

	path, mimeType, size, err := h.files.Save(c.Request.Context(), userID, fileHeader.Filename, src)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc := &models.RFPDocument{
		ID:         uuid.New(),
		ProposalID: proposalID,
		UserID:     userID,
		Filename:   fileHeader.Filename,
		FilePath:   path,
		FileType:   mimeType,
		FileSize:   size,
		UploadedAt: time.Now().UTC(),
	}

	if err := h.documents.CreateDocument(c.Request.Context(), doc); err != nil {
		// Файл уже на диске, метаданные не записались — подчищаем.
		if delErr := h.files.Delete(c.Request.Context(), path); delErr != nil {
			logger.Log.WithError(delErr).Warn("не удалось удалить файл после сбоя записи метаданных")
		}
		response.Error(c, err)
		return
	}

	if c.Query("stream") == "sse" {
		h.streamProgress(c, doc)
		return
	}

	response.Created(c, dto.DocumentResponse{Document: doc})
}

// streamProgress отдаёт прогресс загрузки SSE-событиями progress, затем
// complete с готовым документом.
func (h *DocumentHandler) streamProgress(c *gin.Context, doc *models.RFPDocument) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)

	emit := func(percent int) {
		if _, err := writeSSEEvent(c.Writer, "progress", fmt.Sprintf(`{"percent":%d}`, percent)); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	if h.simulator != nil {
		if err := h.simulator.SimulateUpload(c.Request.Context(), 2*time.Second, emit); err != nil {
			return
		}
	} else {
		emit(100)
	}

	payload, err := json.Marshal(dto.DocumentResponse{Document: doc})
	if err != nil {
		logger.Log.WithError(err).Error("не удалось сериализовать документ для SSE")
		return
	}
	if _, err := writeSSEEvent(c.Writer, "complete", string(payload)); err != nil {
		return
	}
	if canFlush {
		flusher.Flush()
	}
}

// Get обрабатывает GET /documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documents.GetDocumentByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.DocumentResponse{Document: doc})
}

// ListByProposal обрабатывает GET /proposals/:id/documents.
func (h *DocumentHandler) ListByProposal(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	docs, err := h.documents.ListDocumentsByProposal(c.Request.Context(), proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"documents": docs})
}

// Attach обрабатывает POST /documents/:id/attach.
func (h *DocumentHandler) Attach(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req dto.AttachDocumentRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	proposalID, err := uuid.Parse(req.ProposalID)
	if err != nil {
		response.BadRequest(c, "proposal_id должен быть валидным UUID")
		return
	}

	if err := h.documents.AttachDocumentToProposal(c.Request.Context(), id, proposalID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"attached": true})
}

// Delete обрабатывает DELETE /documents/:id. Удалять может только тот, кто
// загрузил документ.
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documents.GetDocumentByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if doc.UserID != userID {
		response.Forbidden(c, "удалять документ может только загрузивший его пользователь")
		return
	}

	if err := h.documents.DeleteDocument(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.files.Delete(c.Request.Context(), doc.FilePath); err != nil {
		logger.Log.WithError(err).Warn("метаданные удалены, файл на диске остался")
	}

	response.Success(c, gin.H{"deleted": true})
}
