// Package knowledge resolves the persona/battle-card context the
// responder injects into its system prompt, and the lead score used to
// gate high-value-intent video follow-ups.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/responder"
)

type Service struct {
	instances outreach.CampaignInstanceRepo
	templates outreach.CampaignTemplateRepo
	contacts  outreach.ContactRepo
}

func New(instances outreach.CampaignInstanceRepo, templates outreach.CampaignTemplateRepo, contacts outreach.ContactRepo) *Service {
	return &Service{instances: instances, templates: templates, contacts: contacts}
}

var _ responder.KnowledgeService = (*Service)(nil)

// BundleFor loads the campaign instance's template and picks the persona of
// the first stage whose Channel equals the intent argument (the responder
// passes the inbound channel), falling back to the first stage that has a
// persona and then to "default", plus a static battle-card/case-study set.
// A zero campaignID skips the template lookup and yields the "default"
// persona with the same static set. The template carries no dedicated
// battle-card field, so these stay fixed until a content-management need
// for per-campaign variants emerges.
func (s *Service) BundleFor(ctx context.Context, campaignID uuid.UUID, intent string) (responder.KnowledgeBundle, error) {
	if campaignID == uuid.Nil {
		return responder.KnowledgeBundle{
			Persona:     personaForIntent(nil, intent),
			BattleCards: defaultBattleCards,
			CaseStudies: defaultCaseStudies,
		}, nil
	}
	dbc := dbctx.Bare(ctx)
	instance, err := s.instances.GetByID(dbc, campaignID)
	if err != nil {
		return responder.KnowledgeBundle{}, fmt.Errorf("knowledge: load instance: %w", err)
	}
	if instance == nil {
		return responder.KnowledgeBundle{}, fmt.Errorf("knowledge: instance %s not found", campaignID)
	}
	template, err := s.templates.GetByID(dbc, instance.TemplateID)
	if err != nil {
		return responder.KnowledgeBundle{}, fmt.Errorf("knowledge: load template: %w", err)
	}
	if template == nil {
		return responder.KnowledgeBundle{}, fmt.Errorf("knowledge: template %s not found", instance.TemplateID)
	}

	var stages []domain.Stage
	if len(template.Stages) > 0 {
		if err := json.Unmarshal(template.Stages, &stages); err != nil {
			return responder.KnowledgeBundle{}, fmt.Errorf("knowledge: decode stages: %w", err)
		}
	}

	persona := personaForIntent(stages, intent)

	return responder.KnowledgeBundle{
		Persona:     persona,
		BattleCards: defaultBattleCards,
		CaseStudies: defaultCaseStudies,
	}, nil
}

// LeadScore resolves a contact's ICP score by email. A contact not yet
// known to the core scores zero rather than erroring, since the responder
// only uses this to gate an optional video follow-up.
func (s *Service) LeadScore(ctx context.Context, email string) (float64, error) {
	contacts, err := s.contacts.GetByEmails(dbctx.Bare(ctx), []string{email})
	if err != nil {
		return 0, fmt.Errorf("knowledge: lookup contact: %w", err)
	}
	if len(contacts) == 0 {
		return 0, nil
	}
	return contacts[0].ICPScore, nil
}

func personaForIntent(stages []domain.Stage, intent string) string {
	for _, stage := range stages {
		if stage.Persona != "" && stageMatchesIntent(stage, intent) {
			return stage.Persona
		}
	}
	for _, stage := range stages {
		if stage.Persona != "" {
			return stage.Persona
		}
	}
	return "default"
}

func stageMatchesIntent(stage domain.Stage, intent string) bool {
	return intent == "" || stage.Channel == intent
}

var defaultBattleCards = []string{
	"vs_status_quo: highlight time-to-value over a manual process",
	"vs_incumbent: lead with integration breadth and response SLA",
}

var defaultCaseStudies = []string{
	"mid-market services company cut outreach cycle time by 40% in one quarter",
}
