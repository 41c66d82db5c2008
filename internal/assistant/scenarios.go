package assistant

// ChatScenario описывает сценарий ответа ассистента: набор триггеров,
// канонический ответ, извлечённые из сообщения поля и подсказки для
// следующего шага диалога. Первый сценарий, чей триггер найден в сообщении,
// выигрывает.
type ChatScenario struct {
	Triggers      []string
	Response      string
	ExtractedInfo map[string]string
	Suggestions   []string
}

var chatScenarios = []ChatScenario{
	// Разработка ПО
	{
		Triggers:    []string{"software", "app", "application", "development", "programming", "code"},
		Response:    "Great! I can help you create a compelling software development proposal. Could you tell me more about the specific type of application you're building? For example, is it a web application, mobile app, or enterprise software?",
		Suggestions: []string{"Web application", "Mobile app", "Enterprise software", "API development"},
	},
	{
		Triggers: []string{"web", "website", "portal", "platform"},
		Response: "Perfect! Web development projects are exciting. What's the main purpose of this web platform? Is it for e-commerce, content management, user portal, or something else? Also, who is your target client?",
		ExtractedInfo: map[string]string{
			"projectType": "Web Development",
		},
		Suggestions: []string{"E-commerce platform", "Content management", "User portal", "Business website"},
	},
	{
		Triggers: []string{"mobile", "ios", "android", "app store"},
		Response: "Mobile app development - excellent choice! Are you planning for iOS, Android, or both platforms? What's the core functionality of the app, and do you have any specific features in mind?",
		ExtractedInfo: map[string]string{
			"projectType": "Mobile App Development",
		},
		Suggestions: []string{"iOS only", "Android only", "Cross-platform", "Native development"},
	},

	// Маркетинг
	{
		Triggers: []string{"marketing", "campaign", "advertising", "promotion", "brand"},
		Response: "Marketing campaigns can be incredibly impactful! What type of marketing are you focusing on? Digital marketing, traditional advertising, social media campaigns, or a comprehensive marketing strategy?",
		ExtractedInfo: map[string]string{
			"projectType": "Marketing Campaign",
		},
		Suggestions: []string{"Digital marketing", "Social media campaign", "Content marketing", "Brand strategy"},
	},
	{
		Triggers: []string{"social media", "facebook", "instagram", "linkedin", "twitter"},
		Response: "Social media marketing is crucial for modern businesses! Which platforms are you targeting, and what are your main goals? Brand awareness, lead generation, customer engagement, or sales conversion?",
		ExtractedInfo: map[string]string{
			"projectType": "Social Media Marketing",
		},
		Suggestions: []string{"Brand awareness", "Lead generation", "Customer engagement", "Sales conversion"},
	},

	// Консалтинг
	{
		Triggers: []string{"consulting", "consultation", "advisory", "strategy", "business"},
		Response: "Business consulting projects require deep expertise. What area of consulting are you proposing? Management consulting, IT strategy, digital transformation, or operational improvement?",
		ExtractedInfo: map[string]string{
			"projectType": "Business Consulting",
		},
		Suggestions: []string{"Management consulting", "IT strategy", "Digital transformation", "Process optimization"},
	},

	// Строительство
	{
		Triggers: []string{"construction", "building", "renovation", "infrastructure", "facility"},
		Response: "Construction projects involve detailed planning and execution. What type of construction work is this? New building construction, renovation, infrastructure development, or facility management?",
		ExtractedInfo: map[string]string{
			"projectType":  "Construction",
			"industryType": "Construction",
		},
		Suggestions: []string{"New construction", "Renovation", "Infrastructure", "Commercial building"},
	},

	// Сроки
	{
		Triggers:    []string{"deadline", "timeline", "when", "schedule", "delivery", "complete"},
		Response:    "Timeline is crucial for project planning. When does the client need this completed? Do they have any specific milestones or phases they want to see along the way?",
		Suggestions: []string{"1-3 months", "3-6 months", "6-12 months", "Ongoing project"},
	},

	// Бюджет
	{
		Triggers:    []string{"budget", "cost", "price", "money", "investment", "funding"},
		Response:    "Understanding the budget helps create a realistic proposal. Has the client indicated a budget range? Even a rough estimate would be helpful for tailoring the proposal appropriately.",
		Suggestions: []string{"Under $50K", "$50K-$100K", "$100K-$500K", "Over $500K"},
	},

	// Клиент
	{
		Triggers:    []string{"client", "company", "organization", "business"},
		Response:    "Tell me about your client. What's their company name and industry? Understanding their business context helps create a more targeted proposal.",
		Suggestions: []string{"Technology company", "Healthcare organization", "Financial services", "Retail business"},
	},

	// Требования
	{
		Triggers:    []string{"requirements", "features", "functionality", "needs", "must have"},
		Response:    "Understanding requirements is key to a winning proposal. What are the core features or functionalities the client needs? Are there any specific technical requirements or constraints I should know about?",
		Suggestions: []string{"Core functionality", "Integration needs", "Performance requirements", "Security requirements"},
	},
}

// Ответы по умолчанию, когда ни один сценарий не сработал.
const (
	responseWelcome       = "Hi! I'm here to help you create a winning proposal. Let's start by talking about your project. What kind of proposal are you working on?"
	responseClarification = "Could you provide a bit more detail about that? The more specific information you give me, the better I can help tailor your proposal."
	responseExtracted     = "Thanks for that information! I'm building a picture of your project. Can you tell me more about the specific deliverables or outcomes the client is expecting?"
)

var defaultSuggestions = []string{
	"Tell me about the client",
	"Describe the project scope",
	"Timeline requirements",
	"Budget considerations",
}

var extractedSuggestions = []string{
	"Project deliverables",
	"Success metrics",
	"Client expectations",
	"Technical requirements",
}
