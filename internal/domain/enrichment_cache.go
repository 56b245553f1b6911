package domain

import (
	"time"

	"gorm.io/datatypes"
)

// EnrichmentCache is a content-addressed cache of enrichment provider
// results, keyed by (type, key) where type distinguishes "contact" from
// "company" lookups. TTL (30 days) is enforced by the caller comparing
// CachedAt, not by the store.
type EnrichmentCache struct {
	Type     string         `gorm:"column:type;primaryKey" json:"type"`
	Key      string         `gorm:"column:key;primaryKey" json:"key"`
	Data     datatypes.JSON `gorm:"column:data;type:jsonb;not null" json:"data"`
	CachedAt time.Time      `gorm:"column:cached_at;not null" json:"cached_at"`
}

func (EnrichmentCache) TableName() string { return "enrichment_cache" }
