package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/dto"
	"github.com/proposalflow/backend/internal/http/handlers/common"
	"github.com/proposalflow/backend/internal/http/response"
	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/service"
	"github.com/proposalflow/backend/internal/ws"
)

// ProposalHandler предоставляет HTTP слой для работы с предложениями.
type ProposalHandler struct {
	proposals *service.ProposalService
	hub       *ws.Hub
}

// NewProposalHandler создаёт новый хэндлер.
func NewProposalHandler(proposals *service.ProposalService, hub *ws.Hub) *ProposalHandler {
	return &ProposalHandler{proposals: proposals, hub: hub}
}

// List обрабатывает GET /proposals.
func (h *ProposalHandler) List(c *gin.Context) {
	page, pageSize := common.GetPagination(c)

	filters, err := parseFilters(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sortOpt := models.SortOption{
		Field:     c.Query("sort_by"),
		Direction: c.DefaultQuery("sort_order", models.SortDesc),
	}

	result, err := h.proposals.List(c.Request.Context(), page, pageSize, filters, sortOpt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseFilters собирает критерии отбора из query-параметров.
func parseFilters(c *gin.Context) (models.ProposalFilters, error) {
	filters := models.ProposalFilters{
		Search: strings.TrimSpace(c.Query("search")),
	}

	if statusParam := c.Query("status"); statusParam != "" {
		for _, s := range strings.Split(statusParam, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filters.Status = append(filters.Status, s)
			}
		}
	}

	if tagsParam := c.Query("tags"); tagsParam != "" {
		for _, t := range strings.Split(tagsParam, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filters.Tags = append(filters.Tags, t)
			}
		}
	}

	if v := c.Query("win_min"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return filters, errBadFilter("win_min")
		}
		filters.WinProbMin = &parsed
	}
	if v := c.Query("win_max"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return filters, errBadFilter("win_max")
		}
		filters.WinProbMax = &parsed
	}

	if v := c.Query("updated_from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, errBadFilter("updated_from")
		}
		filters.UpdatedFrom = &parsed
	}
	if v := c.Query("updated_to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, errBadFilter("updated_to")
		}
		filters.UpdatedTo = &parsed
	}

	if v := c.Query("collaborators"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return filters, errBadFilter("collaborators")
			}
			filters.Collaborators = append(filters.Collaborators, id)
		}
	}

	return filters, nil
}

type filterError struct{ param string }

func (e filterError) Error() string {
	return "некорректное значение параметра " + e.param
}

func errBadFilter(param string) error { return filterError{param: param} }

// Get обрабатывает GET /proposals/:id.
func (h *ProposalHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposals.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, proposal)
}

// Create обрабатывает POST /proposals.
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	var req dto.CreateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	deadline, err := req.ParseDeadline()
	if err != nil {
		response.BadRequest(c, "deadline_at должен быть в формате RFC3339")
		return
	}

	proposal, err := h.proposals.Create(c.Request.Context(), userID, service.CreateProposalInput{
		Title:          req.Title,
		Description:    req.Description,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		DeadlineAt:     deadline,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		BudgetCurrency: req.BudgetCurrency,
		Tags:           req.Tags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, proposal)
}

// Update обрабатывает PATCH /proposals/:id.
func (h *ProposalHandler) Update(c *gin.Context) {
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

	var req dto.UpdateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	deadline, err := req.ParseDeadline()
	if err != nil {
		response.BadRequest(c, "deadline_at должен быть в формате RFC3339")
		return
	}

	proposal, err := h.proposals.Update(c.Request.Context(), userID, id, service.UpdateProposalInput{
		Title:          req.Title,
		Description:    req.Description,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		Status:         req.Status,
		DeadlineAt:     deadline,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		BudgetCurrency: req.BudgetCurrency,
		Tags:           req.Tags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.hub != nil {
		_ = h.hub.BroadcastToProposal(id, ws.EventProposalUpdated, proposal)
	}

	response.Success(c, proposal)
}

// Delete обрабатывает DELETE /proposals/:id.
func (h *ProposalHandler) Delete(c *gin.Context) {
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

	if err := h.proposals.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	if h.hub != nil {
		_ = h.hub.BroadcastToProposal(id, ws.EventProposalDeleted, gin.H{"proposal_id": id})
	}

	response.Success(c, gin.H{"deleted": true})
}

// UpdateSection обрабатывает PUT /proposals/:id/sections/:sectionId.
func (h *ProposalHandler) UpdateSection(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sectionID, err := common.ParseUUIDParam(c, "sectionId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req dto.UpdateSectionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	section, err := h.proposals.UpdateSection(c.Request.Context(), userID, proposalID, sectionID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.hub != nil {
		_ = h.hub.BroadcastToProposal(proposalID, ws.EventSectionUpdated, section)
	}

	response.Success(c, section)
}

// Duplicate обрабатывает POST /proposals/:id/duplicate.
func (h *ProposalHandler) Duplicate(c *gin.Context) {
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

	var req dto.DuplicateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	duplicate, err := h.proposals.Duplicate(c.Request.Context(), userID, id, req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, duplicate)
}

// AddCollaborator обрабатывает POST /proposals/:id/collaborators.
func (h *ProposalHandler) AddCollaborator(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req dto.AddCollaboratorRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	collaborator, err := h.proposals.AddCollaborator(c.Request.Context(), userID, proposalID, req.Email, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.hub != nil {
		_ = h.hub.BroadcastToProposal(proposalID, ws.EventCollaboratorAdded, collaborator)
	}

	response.Created(c, dto.CollaboratorResponse{Collaborator: collaborator})
}

// RemoveCollaborator обрабатывает DELETE /proposals/:id/collaborators/:userId.
func (h *ProposalHandler) RemoveCollaborator(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	removeUserID, err := common.ParseUUIDParam(c, "userId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.proposals.RemoveCollaborator(c.Request.Context(), userID, proposalID, removeUserID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"removed": true})
}

// RecalculateWinProbability обрабатывает POST /proposals/:id/win-probability.
func (h *ProposalHandler) RecalculateWinProbability(c *gin.Context) {
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

	probability, err := h.proposals.RecalculateWinProbability(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.WinProbabilityResponse{
		ProposalID:     id,
		WinProbability: probability,
	})
}

// Stats обрабатывает GET /proposals/stats.
func (h *ProposalHandler) Stats(c *gin.Context) {
	stats, err := h.proposals.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
