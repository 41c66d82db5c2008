package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/proposalflow/backend/internal/http/response"
	"github.com/proposalflow/backend/internal/mockapi"
)

// SeedHandler пересоздаёт демонстрационные данные mock-слоя. Доступен только
// в mock-режиме.
type SeedHandler struct {
	repo *mockapi.Repository
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(repo *mockapi.Repository) *SeedHandler {
	return &SeedHandler{repo: repo}
}

// SeedAccountInfo представляет информацию об аккаунте.
type SeedAccountInfo struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SeedResponse представляет ответ на запрос генерации данных.
type SeedResponse struct {
	Message      string            `json:"message"`
	NumProposals int               `json:"num_proposals"`
	Accounts     []SeedAccountInfo `json:"accounts"`
}

// Seed пересоздаёт фикстуры: пять предложений и пять пользователей.
// POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	if err := h.repo.Seed(); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, SeedResponse{
		Message:      "демонстрационные данные пересозданы",
		NumProposals: h.repo.Store().Len(),
		Accounts: []SeedAccountInfo{
			{Email: "alex.johnson@example.com", Password: mockapi.FixturePassword},
		},
	})
}
