package assistant

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
)

// Режимы улучшения содержимого раздела.
const (
	EnhanceProfessional = "professional"
	EnhancePersuasive   = "persuasive"
	EnhanceConcise      = "concise"
	EnhanceDetailed     = "detailed"
)

var enhanceDescriptions = map[string]string{
	EnhanceProfessional: "Enhanced with formal business language and industry terminology",
	EnhancePersuasive:   "Improved with compelling arguments and value-focused messaging",
	EnhanceConcise:      "Streamlined to eliminate redundancy while maintaining key points",
	EnhanceDetailed:     "Expanded with additional context, examples, and supporting information",
}

// ValidEnhanceMode сообщает, поддерживается ли режим улучшения.
func ValidEnhanceMode(mode string) bool {
	_, ok := enhanceDescriptions[mode]
	return ok
}

// ChatContext — контекст диалога: над каким предложением и разделом
// работает пользователь. Все поля необязательны.
type ChatContext struct {
	ProposalTitle      string
	ClientName         string
	Industry           string
	ActiveSectionTitle string
	ActiveSectionType  string
}

// ChatReply — ответ ассистента на сообщение пользователя.
type ChatReply struct {
	Message       string            `json:"message"`
	ExtractedInfo map[string]string `json:"extractedInfo,omitempty"`
	Suggestions   []string          `json:"suggestions,omitempty"`
}

// EnhanceResult — результат улучшения содержимого раздела.
type EnhanceResult struct {
	OriginalContent string   `json:"originalContent"`
	EnhancedContent string   `json:"enhancedContent"`
	EnhancementType string   `json:"enhancementType"`
	Improvements    []string `json:"improvements"`
}

var (
	companyPattern  = regexp.MustCompile(`(?:for|with|client)\s+([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*)`)
	budgetPattern   = regexp.MustCompile(`\$\d(?:[\d,]*\d)?(?:k|K)?|[\d,]+\s*(?:thousand|million)`)
	timelinePattern = regexp.MustCompile(`(\d+)\s*(weeks?|months?|days?)`)
)

// Assistant отвечает на сообщения по таблице сценариев и выдаёт канонические
// рекомендации по разделам. Это заглушка вместо реальной LLM: совпадение
// первого триггера, никакого понимания текста.
type Assistant struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New создаёт ассистента с заданным зерном генератора. Зерно фиксируется в
// тестах; в бою передаётся time.Now().UnixNano().
func New(seed int64) *Assistant {
	return &Assistant{rng: rand.New(rand.NewSource(seed))}
}

// Welcome возвращает приветственное сообщение для нового диалога.
func (a *Assistant) Welcome() ChatReply {
	return ChatReply{
		Message:     responseWelcome,
		Suggestions: defaultSuggestions,
	}
}

// Reply подбирает ответ на сообщение: сначала таблица сценариев (выигрывает
// первый сценарий, чей триггер содержится в сообщении), затем попытка
// извлечь из текста имя клиента, бюджет и сроки, иначе просьба уточнить.
func (a *Assistant) Reply(message string, chatCtx ChatContext) ChatReply {
	lower := strings.ToLower(message)

	for _, scenario := range chatScenarios {
		for _, trigger := range scenario.Triggers {
			if strings.Contains(lower, trigger) {
				return ChatReply{
					Message:       scenario.Response,
					ExtractedInfo: scenario.ExtractedInfo,
					Suggestions:   scenario.Suggestions,
				}
			}
		}
	}

	extracted := extractInfo(message)
	if len(extracted) > 0 {
		return ChatReply{
			Message:       responseExtracted,
			ExtractedInfo: extracted,
			Suggestions:   extractedSuggestions,
		}
	}

	return ChatReply{
		Message:     responseClarification,
		Suggestions: defaultSuggestions,
	}
}

// extractInfo вытаскивает из свободного текста имя клиента, бюджет и сроки.
// Имя ищется в оригинальном регистре: заглавные буквы и есть сигнал.
func extractInfo(message string) map[string]string {
	extracted := make(map[string]string)

	if m := companyPattern.FindStringSubmatch(message); m != nil {
		extracted["clientName"] = m[1]
	}
	if m := budgetPattern.FindString(strings.ToLower(message)); m != "" {
		extracted["budget"] = m
	}
	if m := timelinePattern.FindStringSubmatch(strings.ToLower(message)); m != nil {
		extracted["timeline"] = fmt.Sprintf("%s %s", m[1], m[2])
	}

	if len(extracted) == 0 {
		return nil
	}
	return extracted
}

// Suggest возвращает рекомендации для раздела заданного типа, подставляя
// клиента и индустрию из контекста. Для неизвестного типа — общие советы.
func (a *Assistant) Suggest(sectionType, clientName, industry string) []ContentSuggestion {
	source, ok := sectionSuggestions[sectionType]
	if !ok {
		source = fallbackSuggestions
	}

	result := make([]ContentSuggestion, len(source))
	for i, s := range source {
		s.Content = personalize(s.Content, clientName, industry)
		result[i] = s
	}
	return result
}

// SectionAdvice отвечает на вопрос о конкретном разделе предложения.
func (a *Assistant) SectionAdvice(chatCtx ChatContext) ChatReply {
	client := chatCtx.ClientName
	if client == "" {
		client = "your client"
	}

	return ChatReply{
		Message: fmt.Sprintf("I see you're working on the %q section. This is crucial for demonstrating %s. Here are some ways to make it more effective:",
			chatCtx.ActiveSectionTitle, sectionPurpose(chatCtx.ActiveSectionType)),
		Suggestions: []string{
			fmt.Sprintf("Enhance the %s with specific metrics relevant to %s", chatCtx.ActiveSectionTitle, client),
			fmt.Sprintf("Add industry-specific examples that resonate with %s", client),
			"Structure the content with clear headings and bullet points for better readability",
		},
	}
}

// Tips возвращает n случайных общих советов по улучшению текста.
func (a *Assistant) Tips(n int) []string {
	if n <= 0 || n > len(improvementTips) {
		n = len(improvementTips)
	}

	a.mu.Lock()
	perm := a.rng.Perm(len(improvementTips))
	a.mu.Unlock()

	tips := make([]string, 0, n)
	for _, idx := range perm[:n] {
		tips = append(tips, improvementTips[idx])
	}
	return tips
}

// Enhance "улучшает" содержимое раздела: оборачивает исходный текст пометкой
// о применённом режиме. Реальной переработки текста заглушка не делает.
func (a *Assistant) Enhance(content, mode string) (*EnhanceResult, error) {
	desc, ok := enhanceDescriptions[mode]
	if !ok {
		return nil, fmt.Errorf("неизвестный режим улучшения: %s", mode)
	}

	enhanced := fmt.Sprintf("<p><strong>[AI Enhanced - %s]</strong></p>\n\n%s\n\n<p><em>This content has been enhanced to improve its %s tone and effectiveness.</em></p>",
		desc, content, mode)

	return &EnhanceResult{
		OriginalContent: content,
		EnhancedContent: enhanced,
		EnhancementType: mode,
		Improvements: []string{
			"Improved clarity and readability",
			"Enhanced professional tone",
			"Added compelling value propositions",
			"Structured for better flow",
		},
	}, nil
}

// GenerateSection возвращает каноническую заготовку содержимого раздела.
func (a *Assistant) GenerateSection(sectionType, clientName, industry string) string {
	if clientName == "" {
		clientName = "the client"
	}
	if industry == "" {
		industry = "industry"
	}

	tpl, ok := sectionTemplates[sectionType]
	if !ok {
		tpl = sectionTemplateDefault
	}
	return personalize(tpl, clientName, industry)
}

func personalize(content, clientName, industry string) string {
	content = strings.ReplaceAll(content, "{clientName}", clientName)
	content = strings.ReplaceAll(content, "{industry}", industry)
	return content
}
