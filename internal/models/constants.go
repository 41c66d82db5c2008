package models

// ProposalStatus константы статусов предложений.
// Идентификаторы с дефисом сохранены как в клиентском контракте.
const (
	ProposalStatusDraft      = "draft"
	ProposalStatusInProgress = "in-progress"
	ProposalStatusReview     = "review"
	ProposalStatusCompleted  = "completed"
	ProposalStatusSubmitted  = "submitted"
	ProposalStatusWon        = "won"
	ProposalStatusLost       = "lost"
)

// CollaboratorRole константы ролей участников.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ActivityType константы типов записей журнала.
const (
	ActivityCreated       = "created"
	ActivityUpdated       = "updated"
	ActivityAIEnhanced    = "ai_enhanced"
	ActivityShared        = "shared"
	ActivitySubmitted     = "submitted"
	ActivityStatusChanged = "status_changed"
)

// ValidProposalStatuses список валидных статусов предложений.
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusDraft:      {},
	ProposalStatusInProgress: {},
	ProposalStatusReview:     {},
	ProposalStatusCompleted:  {},
	ProposalStatusSubmitted:  {},
	ProposalStatusWon:        {},
	ProposalStatusLost:       {},
}

// ValidCollaboratorRoles список валидных ролей.
var ValidCollaboratorRoles = map[string]struct{}{
	RoleOwner:  {},
	RoleEditor: {},
	RoleViewer: {},
}

// ActiveProposalStatuses — статусы, считающиеся активными в статистике дашборда.
var ActiveProposalStatuses = map[string]struct{}{
	ProposalStatusInProgress: {},
	ProposalStatusReview:     {},
}

// DefaultTargetWordCount — целевой объём раздела, если тип не известен.
const DefaultTargetWordCount = 250

// sectionTargetWords — целевые объёмы разделов по типу. Тип раздела остаётся
// свободной строкой: неизвестные типы получают значение по умолчанию.
var sectionTargetWords = map[string]int{
	"executive-summary": 200,
	"company-overview":  300,
	"problem-statement": 250,
	"proposed-solution": 500,
	"timeline":          150,
	"budget":            200,
	"team":              300,
	"conclusion":        150,
}

// TargetWordCount возвращает целевой объём для типа раздела.
func TargetWordCount(sectionType string) int {
	if n, ok := sectionTargetWords[sectionType]; ok {
		return n
	}
	return DefaultTargetWordCount
}
