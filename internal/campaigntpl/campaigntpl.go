// Package campaigntpl parses campaign templates authored as YAML into the
// ordered stage sequence persisted on domain.CampaignTemplate.
package campaigntpl

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
)

// Document is the on-disk YAML shape a campaign template is authored in.
type Document struct {
	Name           string         `yaml:"name"`
	Channel        string         `yaml:"channel"`
	SchedulePolicy string         `yaml:"schedule_policy"`
	Stages         []domain.Stage `yaml:"stages"`
}

var validChannels = map[string]bool{
	domain.CampaignChannelEmail:    true,
	domain.CampaignChannelLinkedIn: true,
	domain.CampaignChannelMulti:    true,
}

// Parse decodes a YAML campaign template document and validates it against
// the invariants domain.CampaignTemplate relies on: a known channel, at
// least one stage, and non-negative wait days (the first stage may fire
// immediately, so wait_days == 0 is valid there but nowhere else).
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("campaigntpl: decode: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("campaigntpl: name is required")
	}
	if !validChannels[d.Channel] {
		return fmt.Errorf("campaigntpl: unknown channel %q", d.Channel)
	}
	if len(d.Stages) == 0 {
		return fmt.Errorf("campaigntpl: at least one stage is required")
	}
	for i, stage := range d.Stages {
		if stage.Body == "" {
			return fmt.Errorf("campaigntpl: stage %d: body is required", i)
		}
		if stage.WaitDays < 0 {
			return fmt.Errorf("campaigntpl: stage %d: wait_days must be >= 0", i)
		}
		if i > 0 && stage.WaitDays == 0 {
			return fmt.Errorf("campaigntpl: stage %d: only the first stage may have wait_days 0", i)
		}
	}
	return nil
}

// ToTemplate re-encodes the parsed stages as the jsonb column
// domain.CampaignTemplate.Stages stores them in.
func (d *Document) ToTemplate() (*domain.CampaignTemplate, error) {
	stages, err := json.Marshal(d.Stages)
	if err != nil {
		return nil, fmt.Errorf("campaigntpl: encode stages: %w", err)
	}
	return &domain.CampaignTemplate{
		Name:           d.Name,
		Channel:        d.Channel,
		SchedulePolicy: d.SchedulePolicy,
		Stages:         datatypes.JSON(stages),
	}, nil
}
