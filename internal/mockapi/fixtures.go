package mockapi

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/proposalflow/backend/internal/models"
)

// Фиксированные идентификаторы фикстур: тесты и повторные запуски видят
// одни и те же данные.
var (
	FixtureUserAlex    = uuid.MustParse("1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed")
	FixtureUserSarah   = uuid.MustParse("6ec0bd7f-11c0-43da-975e-2a8ad9ebae0b")
	FixtureUserMichael = uuid.MustParse("3f333df6-90a4-4fda-8dd3-9485d27cee36")
	FixtureUserEmily   = uuid.MustParse("40e6215d-b5c6-4896-987c-f30f3678f608")
	FixtureUserDavid   = uuid.MustParse("16fd2706-8baf-433b-82eb-8c7fada847da")

	FixtureProposalCRM        = uuid.MustParse("fdda765f-fc57-4edb-9ba8-7b27b8a482f1")
	FixtureProposalEcommerce  = uuid.MustParse("1c2bfa24-5896-41eb-a2a6-e0f37ee1cb07")
	FixtureProposalHealthcare = uuid.MustParse("29f68a38-55a4-4a25-9ac7-9aa9f0d54e68")
	FixtureProposalMarketing  = uuid.MustParse("8b24ed29-0294-4ae9-bd54-21d49bbb4ccd")
	FixtureProposalCloud      = uuid.MustParse("4c1e9c97-ba13-4c06-8ff3-9b1b3bcdbe0e")
)

// FixturePassword — пароль всех посеянных пользователей.
const FixturePassword = "Password123"

// Seed наполняет репозиторий демонстрационными данными: пять пользователей и
// пять предложений с разделами, участниками и журналом. Вызывается при старте
// в мок-режиме; повторный вызов пересеивает стор заново.
func (r *Repository) Seed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	r.mu.Lock()
	r.users = fixtureUsers(string(hash), now)
	r.mu.Unlock()

	r.store.ReplaceAll(fixtureProposals(now))
	r.store.SetCurrent(nil)
	return nil
}

func fixtureUsers(passwordHash string, now time.Time) []models.User {
	users := []struct {
		id    uuid.UUID
		name  string
		email string
	}{
		{FixtureUserAlex, "Alex Johnson", "alex.johnson@example.com"},
		{FixtureUserSarah, "Sarah Chen", "sarah.chen@example.com"},
		{FixtureUserMichael, "Michael Rodriguez", "michael.rodriguez@example.com"},
		{FixtureUserEmily, "Emily Davis", "emily.davis@example.com"},
		{FixtureUserDavid, "David Kim", "david.kim@example.com"},
	}

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, models.User{
			ID:           u.id,
			Email:        u.email,
			Name:         u.name,
			PasswordHash: passwordHash,
			IsActive:     true,
			CreatedAt:    now.Add(-30 * 24 * time.Hour),
			UpdatedAt:    now.Add(-30 * 24 * time.Hour),
		})
	}
	return out
}

type fixtureSpec struct {
	id             uuid.UUID
	title          string
	description    string
	clientName     string
	clientEmail    string
	status         string
	winProbability int
	deadlineDays   *int
	budgetMin      float64
	budgetMax      float64
	tags           []string
	createdDaysAgo int
	editor         uuid.UUID
}

func fixtureProposals(now time.Time) []models.Proposal {
	deadline := func(days int) *int { return &days }

	specs := []fixtureSpec{
		{
			id:             FixtureProposalCRM,
			title:          "Enterprise CRM Platform for GlobalBank",
			description:    "Complete digital transformation solution with advanced analytics and customer management capabilities.",
			clientName:     "GlobalBank Inc.",
			clientEmail:    "procurement@globalbank.com",
			status:         models.ProposalStatusInProgress,
			winProbability: 91,
			deadlineDays:   deadline(14),
			budgetMin:      750000,
			budgetMax:      950000,
			tags:           []string{"Enterprise", "Banking", "CRM", "Digital Transformation"},
			createdDaysAgo: 10,
			editor:         FixtureUserSarah,
		},
		{
			id:             FixtureProposalEcommerce,
			title:          "E-commerce Platform Redesign for RetailCorp",
			description:    "Modern storefront rebuild with headless architecture and conversion-focused UX.",
			clientName:     "RetailCorp",
			clientEmail:    "digital@retailcorp.com",
			status:         models.ProposalStatusReview,
			winProbability: 78,
			deadlineDays:   deadline(21),
			budgetMin:      250000,
			budgetMax:      400000,
			tags:           []string{"E-commerce", "Retail", "UX"},
			createdDaysAgo: 8,
			editor:         FixtureUserMichael,
		},
		{
			id:             FixtureProposalHealthcare,
			title:          "Healthcare Analytics Dashboard for MedTech Solutions",
			description:    "Real-time clinical analytics with HIPAA-compliant data pipelines.",
			clientName:     "MedTech Solutions",
			clientEmail:    "it@medtechsolutions.com",
			status:         models.ProposalStatusDraft,
			winProbability: 85,
			deadlineDays:   deadline(30),
			budgetMin:      180000,
			budgetMax:      260000,
			tags:           []string{"Healthcare", "Analytics", "Compliance"},
			createdDaysAgo: 5,
			editor:         FixtureUserEmily,
		},
		{
			id:             FixtureProposalMarketing,
			title:          "Marketing Automation Platform for StartupXYZ",
			description:    "End-to-end campaign automation with multi-channel attribution.",
			clientName:     "StartupXYZ",
			clientEmail:    "growth@startupxyz.io",
			status:         models.ProposalStatusCompleted,
			winProbability: 95,
			budgetMin:      90000,
			budgetMax:      140000,
			tags:           []string{"Marketing", "Automation", "SaaS"},
			createdDaysAgo: 20,
			editor:         FixtureUserDavid,
		},
		{
			id:             FixtureProposalCloud,
			title:          "Cloud Migration Strategy for TechCorp",
			description:    "Phased migration of legacy workloads to a cloud-native platform.",
			clientName:     "TechCorp Industries",
			clientEmail:    "infrastructure@techcorp.com",
			status:         models.ProposalStatusInProgress,
			winProbability: 72,
			deadlineDays:   deadline(45),
			budgetMin:      500000,
			budgetMax:      800000,
			tags:           []string{"Cloud", "Migration", "Infrastructure"},
			createdDaysAgo: 15,
			editor:         FixtureUserSarah,
		},
	}

	currency := "USD"
	out := make([]models.Proposal, 0, len(specs))
	for _, s := range specs {
		created := now.Add(-time.Duration(s.createdDaysAgo) * 24 * time.Hour)
		updated := now.Add(-2 * time.Hour)

		description := s.description
		clientEmail := s.clientEmail
		budgetMin := s.budgetMin
		budgetMax := s.budgetMax

		p := models.Proposal{
			ID:             s.id,
			Title:          s.title,
			Description:    &description,
			ClientName:     s.clientName,
			ClientEmail:    &clientEmail,
			Status:         s.status,
			WinProbability: s.winProbability,
			BudgetMin:      &budgetMin,
			BudgetMax:      &budgetMax,
			BudgetCurrency: &currency,
			Tags:           s.tags,
			CreatedBy:      FixtureUserAlex,
			LastModifiedBy: FixtureUserAlex,
			CreatedAt:      created,
			UpdatedAt:      updated,
			Sections:       fixtureSections(s.id),
			Collaborators: []models.Collaborator{
				{ProposalID: s.id, UserID: FixtureUserAlex, Role: models.RoleOwner, AddedAt: created},
				{ProposalID: s.id, UserID: s.editor, Role: models.RoleEditor, AddedAt: created.Add(24 * time.Hour)},
			},
			Activities: []models.Activity{
				{
					ID:          uuid.New(),
					ProposalID:  s.id,
					Type:        models.ActivityCreated,
					Description: "Proposal created",
					ActorID:     FixtureUserAlex,
					CreatedAt:   created,
				},
				{
					ID:          uuid.New(),
					ProposalID:  s.id,
					Type:        models.ActivityUpdated,
					Description: "Updated proposal sections",
					ActorID:     s.editor,
					CreatedAt:   updated,
				},
			},
		}

		if s.deadlineDays != nil {
			d := now.Add(time.Duration(*s.deadlineDays) * 24 * time.Hour)
			p.DeadlineAt = &d
		}

		out = append(out, p)
	}
	return out
}

func fixtureSections(proposalID uuid.UUID) []models.Section {
	sections := []struct {
		title       string
		sectionType string
		content     string
	}{
		{
			title:       "Executive Summary",
			sectionType: "executive-summary",
			content:     "This comprehensive proposal outlines our strategic approach to delivering exceptional results for your organization. Our team brings together deep industry expertise, proven methodologies, and innovative solutions to address your specific challenges and objectives.",
		},
		{
			title:       "Technical Approach",
			sectionType: "proposed-solution",
			content:     "Our technical methodology leverages cutting-edge technologies and industry best practices. We employ an agile development framework that ensures rapid iteration, continuous feedback, and seamless integration with your existing systems.",
		},
		{
			title:       "Project Timeline",
			sectionType: "timeline",
			content:     "The project will be executed in four distinct phases over a 12-week period. Each phase includes specific deliverables, milestones, and quality checkpoints to ensure we stay on track and meet your expectations.",
		},
		{
			title:       "Team Qualifications",
			sectionType: "team",
			content:     "Our team consists of senior professionals with extensive experience in similar projects. Each team member brings specialized skills and has a proven track record of successful project delivery in your industry.",
		},
		{
			title:       "Budget & Pricing",
			sectionType: "budget",
			content:     "Our competitive pricing structure provides excellent value while ensuring quality delivery. The total project cost is structured to align with project milestones, providing transparency and cost predictability.",
		},
	}

	out := make([]models.Section, 0, len(sections))
	for i, s := range sections {
		section := models.Section{
			ID:         uuid.NewSHA1(proposalID, []byte(s.sectionType)),
			ProposalID: proposalID,
			Title:      s.title,
			Type:       s.sectionType,
			Content:    s.content,
			SortOrder:  i + 1,
			IsRequired: true,
		}
		section.RecountWords()
		out = append(out, section)
	}
	return out
}
