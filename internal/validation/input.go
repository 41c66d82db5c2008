package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/proposalflow/backend/internal/models"
)

// Константы валидации
const (
	MinProposalTitleLength  = 3
	MaxProposalTitleLength  = 200
	MaxDescriptionLength    = 5000
	MinClientNameLength     = 2
	MaxClientNameLength     = 200
	MaxSectionTitleLength   = 200
	MaxSectionContentLength = 100000
	MaxSectionTypeLength    = 50
	MaxTagLength            = 50
	MaxTagsCount            = 20
	MaxCurrencyLength       = 3
	MinBudget               = 0.0
	MaxBudget               = 100000000.0 // 100 миллионов
	MinWinProbability       = 0
	MaxWinProbability       = 100
	MinChatMessageLength    = 1
	MaxChatMessageLength    = 5000
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateProposalTitle проверяет название предложения.
func ValidateProposalTitle(title string) error {
	if title == "" {
		return fmt.Errorf("название предложения обязательно")
	}

	title = strings.TrimSpace(title)

	if err := ValidateLength("название предложения", title, MinProposalTitleLength, MaxProposalTitleLength); err != nil {
		return err
	}

	return nil
}

// ValidateClientName проверяет название клиента.
func ValidateClientName(clientName string) error {
	if clientName == "" {
		return fmt.Errorf("название клиента обязательно")
	}

	clientName = strings.TrimSpace(clientName)

	if err := ValidateLength("название клиента", clientName, MinClientNameLength, MaxClientNameLength); err != nil {
		return err
	}

	return nil
}

// ValidateDescription проверяет описание предложения.
func ValidateDescription(description *string) error {
	if description != nil && *description != "" {
		desc := strings.TrimSpace(*description)
		if err := ValidateLength("описание", desc, 0, MaxDescriptionLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProposalStatus проверяет статус предложения.
func ValidateProposalStatus(status string) error {
	if _, ok := models.ValidProposalStatuses[status]; !ok {
		return fmt.Errorf("недопустимый статус предложения: %s", status)
	}
	return nil
}

// ValidateCollaboratorRole проверяет роль участника.
func ValidateCollaboratorRole(role string) error {
	if _, ok := models.ValidCollaboratorRoles[role]; !ok {
		return fmt.Errorf("недопустимая роль участника: %s", role)
	}
	return nil
}

// ValidateWinProbability проверяет вероятность выигрыша.
func ValidateWinProbability(winProbability int) error {
	if winProbability < MinWinProbability || winProbability > MaxWinProbability {
		return fmt.Errorf("вероятность выигрыша должна быть от %d до %d", MinWinProbability, MaxWinProbability)
	}
	return nil
}

// ValidateBudget проверяет бюджетную вилку.
func ValidateBudget(budgetMin, budgetMax *float64) error {
	if budgetMin != nil {
		if *budgetMin < MinBudget {
			return fmt.Errorf("минимальный бюджет не может быть отрицательным")
		}
		if *budgetMin > MaxBudget {
			return fmt.Errorf("минимальный бюджет не может превышать %.0f", MaxBudget)
		}
	}

	if budgetMax != nil {
		if *budgetMax < MinBudget {
			return fmt.Errorf("максимальный бюджет не может быть отрицательным")
		}
		if *budgetMax > MaxBudget {
			return fmt.Errorf("максимальный бюджет не может превышать %.0f", MaxBudget)
		}
	}

	if budgetMin != nil && budgetMax != nil {
		if *budgetMin > *budgetMax {
			return fmt.Errorf("минимальный бюджет не может быть больше максимального")
		}
	}

	return nil
}

// ValidateSectionTitle проверяет заголовок раздела.
func ValidateSectionTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок раздела обязателен")
	}

	title = strings.TrimSpace(title)

	if err := ValidateLength("заголовок раздела", title, 1, MaxSectionTitleLength); err != nil {
		return err
	}

	return nil
}

// ValidateSectionContent проверяет содержимое раздела. Пустое содержимое
// допустимо: раздел может быть заготовкой.
func ValidateSectionContent(content string) error {
	if err := ValidateLength("содержимое раздела", content, 0, MaxSectionContentLength); err != nil {
		return err
	}
	return nil
}

// ValidateSectionType проверяет тип раздела. Тип свободный, ограничиваем
// только длину и символы.
func ValidateSectionType(sectionType string) error {
	if sectionType == "" {
		return nil
	}

	if err := ValidateLength("тип раздела", sectionType, 0, MaxSectionTypeLength); err != nil {
		return err
	}

	typeRegex := regexp.MustCompile(`^[a-z0-9-]+$`)
	if !typeRegex.MatchString(sectionType) {
		return fmt.Errorf("тип раздела может содержать только строчные буквы, цифры и дефис")
	}

	return nil
}

// ValidateTags проверяет массив тегов.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTagsCount {
		return fmt.Errorf("количество тегов не может превышать %d", MaxTagsCount)
	}

	seen := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return fmt.Errorf("тег не может быть пустым")
		}

		if utf8.RuneCountInString(tag) > MaxTagLength {
			return fmt.Errorf("тег не может быть длиннее %d символов", MaxTagLength)
		}

		tagLower := strings.ToLower(tag)
		if seen[tagLower] {
			return fmt.Errorf("тег '%s' указан дважды", tag)
		}
		seen[tagLower] = true
	}

	return nil
}

// ValidateCurrency проверяет код валюты (ISO 4217).
func ValidateCurrency(currency *string) error {
	if currency == nil || *currency == "" {
		return nil
	}

	currencyRegex := regexp.MustCompile(`^[A-Z]{3}$`)
	if !currencyRegex.MatchString(*currency) {
		return fmt.Errorf("валюта должна быть трёхбуквенным кодом, например USD")
	}

	return nil
}

// ValidateChatMessage проверяет сообщение ассистенту.
func ValidateChatMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}

	if err := ValidateLength("сообщение", message, MinChatMessageLength, MaxChatMessageLength); err != nil {
		return err
	}

	return nil
}
