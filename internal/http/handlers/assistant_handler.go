package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proposalflow/backend/internal/assistant"
	"github.com/proposalflow/backend/internal/dto"
	"github.com/proposalflow/backend/internal/http/handlers/common"
	"github.com/proposalflow/backend/internal/http/response"
	"github.com/proposalflow/backend/internal/validation"
)

// AssistantHandler предоставляет HTTP слой для AI-ассистента.
type AssistantHandler struct {
	assistant *assistant.Assistant
}

// NewAssistantHandler создаёт хэндлер.
func NewAssistantHandler(a *assistant.Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: a}
}

func chatContext(req *dto.ChatContext) assistant.ChatContext {
	if req == nil {
		return assistant.ChatContext{}
	}
	return assistant.ChatContext{
		ProposalTitle:      req.ProposalTitle,
		ClientName:         req.ClientName,
		Industry:           req.Industry,
		ActiveSectionTitle: req.ActiveSectionTitle,
		ActiveSectionType:  req.ActiveSectionType,
	}
}

// Welcome обрабатывает GET /assistant/welcome.
func (h *AssistantHandler) Welcome(c *gin.Context) {
	response.Success(c, h.assistant.Welcome())
}

// Chat обрабатывает POST /assistant/chat.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateChatMessage(req.Message); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chatCtx := chatContext(req.Context)

	// Вопрос о конкретном разделе получает контекстный ответ, минуя таблицу
	// сценариев.
	if chatCtx.ActiveSectionTitle != "" && mentionsSection(req.Message) {
		response.Success(c, h.assistant.SectionAdvice(chatCtx))
		return
	}

	response.Success(c, h.assistant.Reply(req.Message, chatCtx))
}

func mentionsSection(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range []string{"this section", "current section", "improve this", "help with this"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Suggest обрабатывает POST /assistant/suggestions.
func (h *AssistantHandler) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateSectionType(req.SectionType); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	suggestions := h.assistant.Suggest(req.SectionType, req.ClientName, req.Industry)
	response.Success(c, gin.H{"suggestions": suggestions})
}

// Tips обрабатывает GET /assistant/tips.
func (h *AssistantHandler) Tips(c *gin.Context) {
	n := common.ParseIntQuery(c, "count", 3)
	response.Success(c, dto.SuggestionsResponse{Suggestions: h.assistant.Tips(n)})
}

// Enhance обрабатывает POST /assistant/enhance.
func (h *AssistantHandler) Enhance(c *gin.Context) {
	var req dto.EnhanceRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !assistant.ValidEnhanceMode(req.Mode) {
		response.BadRequest(c, "режим улучшения должен быть professional, persuasive, concise или detailed")
		return
	}
	if err := validation.ValidateSectionContent(req.Content); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.assistant.Enhance(req.Content, req.Mode)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GenerateSection обрабатывает POST /assistant/generate-section.
func (h *AssistantHandler) GenerateSection(c *gin.Context) {
	var req dto.GenerateSectionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateSectionType(req.SectionType); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	content := h.assistant.GenerateSection(req.SectionType, req.ClientName, req.Industry)
	response.Success(c, dto.GeneratedSectionResponse{
		SectionType: req.SectionType,
		Content:     content,
	})
}
