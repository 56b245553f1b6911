package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Contact is uniquely identified by its normalised lowercase email. Created
// by import, mutated by enrichment; the core never deletes it, lifecycle
// retention is managed externally.
type Contact struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email            string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name             string         `gorm:"column:name" json:"name,omitempty"`
	Title            string         `gorm:"column:title" json:"title,omitempty"`
	Company          string         `gorm:"column:company" json:"company,omitempty"`
	CompanyDomain    string         `gorm:"column:company_domain;index" json:"company_domain,omitempty"`
	LinkedInURL      string         `gorm:"column:linkedin_url" json:"linkedin_url,omitempty"`
	Phone            string         `gorm:"column:phone" json:"phone,omitempty"`
	EnrichmentData   datatypes.JSON `gorm:"column:enrichment_data;type:jsonb" json:"enrichment_data,omitempty"`
	DataQualityScore float64        `gorm:"column:data_quality_score;not null;default:0" json:"data_quality_score"`
	ICPScore         float64        `gorm:"column:icp_score;not null;default:0" json:"icp_score"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Contact) TableName() string { return "contacts" }

// Signal is a detected firmographic/behavioural company signal, one of the
// weighted inputs to the enrichment quality score.
type Signal struct {
	Kind       string    `json:"kind"`
	DetectedAt time.Time `json:"detected_at"`
	Confidence float64   `json:"confidence"`
}

// Company is keyed by domain and weak-referenced by Contact.
type Company struct {
	Domain      string         `gorm:"column:domain;primaryKey" json:"domain"`
	Name        string         `gorm:"column:name" json:"name,omitempty"`
	Industry    string         `gorm:"column:industry" json:"industry,omitempty"`
	Revenue     float64        `gorm:"column:revenue" json:"revenue,omitempty"`
	Employees   int            `gorm:"column:employees" json:"employees,omitempty"`
	Funding     string         `gorm:"column:funding" json:"funding,omitempty"`
	Technologies datatypes.JSON `gorm:"column:technologies;type:jsonb" json:"technologies,omitempty"`
	Signals     datatypes.JSON `gorm:"column:signals;type:jsonb" json:"signals,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }
