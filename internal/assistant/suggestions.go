package assistant

// Типы рекомендаций по содержимому раздела.
const (
	SuggestionImprovement = "improvement"
	SuggestionExpansion   = "expansion"
	SuggestionAlternative = "alternative"
)

// ContentSuggestion — рекомендация ассистента для конкретного раздела.
// Плейсхолдеры {clientName} и {industry} подставляются из контекста
// предложения при выдаче.
type ContentSuggestion struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
}

var sectionSuggestions = map[string][]ContentSuggestion{
	"executive-summary": {
		{
			ID:         "1",
			Title:      "Add Compelling Hook",
			Content:    "Start with a powerful statement that captures attention: \"In today's rapidly evolving digital landscape, {clientName} faces the critical challenge of staying competitive while managing operational costs. Our proposed solution addresses this challenge head-on with a comprehensive approach that delivers measurable results.\"",
			Type:       SuggestionImprovement,
			Confidence: 95,
		},
		{
			ID:         "2",
			Title:      "Include Key Metrics",
			Content:    "Strengthen your summary with specific metrics: \"Our solution will reduce operational costs by 30%, improve efficiency by 45%, and deliver ROI within 6 months of implementation.\"",
			Type:       SuggestionExpansion,
			Confidence: 88,
		},
		{
			ID:         "3",
			Title:      "Add Value Proposition",
			Content:    "Clearly articulate your unique value: \"Unlike traditional approaches, our methodology combines industry best practices with cutting-edge technology, ensuring {clientName} receives a solution that is both innovative and proven.\"",
			Type:       SuggestionAlternative,
			Confidence: 92,
		},
	},
	"problem-statement": {
		{
			ID:         "4",
			Title:      "Quantify the Problem",
			Content:    "Add specific data to illustrate the pain points: \"Current inefficiencies are costing {clientName} approximately $X per month in lost productivity and missed opportunities.\"",
			Type:       SuggestionImprovement,
			Confidence: 90,
		},
		{
			ID:         "5",
			Title:      "Include Industry Context",
			Content:    "Position within industry trends: \"According to recent {industry} industry reports, companies facing similar challenges have seen significant improvements through strategic digital transformation.\"",
			Type:       SuggestionExpansion,
			Confidence: 85,
		},
	},
	"proposed-solution": {
		{
			ID:         "6",
			Title:      "Break Down Solution Components",
			Content:    "Structure your solution in clear phases: \"Phase 1: Assessment & Planning (Weeks 1-2), Phase 2: Implementation (Weeks 3-8), Phase 3: Testing & Optimization (Weeks 9-10), Phase 4: Training & Go-Live (Weeks 11-12).\"",
			Type:       SuggestionImprovement,
			Confidence: 93,
		},
		{
			ID:         "7",
			Title:      "Add Technical Specifications",
			Content:    "Include relevant technical details: \"Our solution leverages cloud-native architecture, ensuring 99.9% uptime, automatic scaling, and enterprise-grade security compliance.\"",
			Type:       SuggestionExpansion,
			Confidence: 87,
		},
	},
	"budget": {
		{
			ID:         "8",
			Title:      "Provide Cost Breakdown",
			Content:    "Offer transparent pricing: \"Total Investment: $X (Development: 60%, Infrastructure: 20%, Training & Support: 15%, Project Management: 5%)\"",
			Type:       SuggestionImprovement,
			Confidence: 94,
		},
		{
			ID:         "9",
			Title:      "Show ROI Calculation",
			Content:    "Demonstrate value: \"Based on projected efficiency gains and cost savings, the total ROI is estimated at 250% within the first 18 months.\"",
			Type:       SuggestionExpansion,
			Confidence: 89,
		},
	},
}

var fallbackSuggestions = []ContentSuggestion{
	{
		ID:         "default-1",
		Title:      "Enhance Content Structure",
		Content:    "Consider organizing this section with clear headers and bullet points to improve readability and impact.",
		Type:       SuggestionImprovement,
		Confidence: 80,
	},
	{
		ID:         "default-2",
		Title:      "Add Client-Specific Details",
		Content:    "Customize this section for {clientName} by including specific references to their {industry} industry needs.",
		Type:       SuggestionExpansion,
		Confidence: 75,
	},
}

var improvementTips = []string{
	"Consider adding specific metrics and KPIs to quantify the impact",
	"Include relevant case studies or success stories from similar projects",
	"Use active voice and compelling language to engage readers",
	"Break down complex concepts into digestible sections with clear headers",
	"Add visual elements like charts or infographics to support key points",
	"Ensure each section connects back to the client's specific needs and goals",
	"Include risk mitigation strategies to address potential concerns",
	"Highlight your unique differentiators and competitive advantages",
}

// sectionPurposes используется при ответах о конкретном разделе.
var sectionPurposes = map[string]string{
	"executive-summary": "your value proposition and key recommendations",
	"problem-statement": "the challenges your client faces",
	"proposed-solution": "your recommended approach and methodology",
	"timeline":          "project phases and realistic expectations",
	"budget":            "transparent pricing and value justification",
	"team":              "your expertise and qualifications",
	"conclusion":        "next steps and compelling call to action",
}

func sectionPurpose(sectionType string) string {
	if p, ok := sectionPurposes[sectionType]; ok {
		return p
	}
	return "your key messages"
}
