package outreach

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type ConversationThreadRepo interface {
	FindOrCreate(dbc dbctx.Context, leadEmail string, campaignID uuid.UUID, channel string) (*domain.ConversationThread, error)
	IncrementAiResponses(dbc dbctx.Context, id uuid.UUID) (int, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ConversationThread, error)
}

type conversationThreadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationThreadRepo(db *gorm.DB, baseLog *logger.Logger) ConversationThreadRepo {
	return &conversationThreadRepo{db: db, log: baseLog.With("repo", "ConversationThreadRepo")}
}

func (r *conversationThreadRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *conversationThreadRepo) FindOrCreate(dbc dbctx.Context, leadEmail string, campaignID uuid.UUID, channel string) (*domain.ConversationThread, error) {
	transaction := r.tx(dbc)
	var result *domain.ConversationThread
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		t := &domain.ConversationThread{LeadEmail: leadEmail, CampaignID: campaignID, Channel: channel}
		res := txx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lead_email"}, {Name: "campaign_id"}},
			DoNothing: true,
		}).Create(t)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			result = t
			return nil
		}
		var existing domain.ConversationThread
		if err := txx.Where("lead_email = ? AND campaign_id = ?", leadEmail, campaignID).First(&existing).Error; err != nil {
			return err
		}
		result = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IncrementAiResponses atomically increments and returns the new count so
// the responder can enforce the per-thread cap without a read-then-write
// race across concurrent inbound messages.
func (r *conversationThreadRepo) IncrementAiResponses(dbc dbctx.Context, id uuid.UUID) (int, error) {
	var t domain.ConversationThread
	err := r.tx(dbc).WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		if err := txx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&t).Error; err != nil {
			return err
		}
		t.AiResponsesCount++
		return txx.Model(&domain.ConversationThread{}).
			Where("id = ?", id).
			Update("ai_responses_count", t.AiResponsesCount).Error
	})
	if err != nil {
		return 0, err
	}
	return t.AiResponsesCount, nil
}

func (r *conversationThreadRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ConversationThread, error) {
	var t domain.ConversationThread
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ConversationMessageRepo interface {
	Create(dbc dbctx.Context, m *domain.ConversationMessage) (*domain.ConversationMessage, error)
	ListRecentByThread(dbc dbctx.Context, threadID uuid.UUID, limit int) ([]*domain.ConversationMessage, error)
}

type conversationMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationMessageRepo(db *gorm.DB, baseLog *logger.Logger) ConversationMessageRepo {
	return &conversationMessageRepo{db: db, log: baseLog.With("repo", "ConversationMessageRepo")}
}

func (r *conversationMessageRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *conversationMessageRepo) Create(dbc dbctx.Context, m *domain.ConversationMessage) (*domain.ConversationMessage, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *conversationMessageRepo) ListRecentByThread(dbc dbctx.Context, threadID uuid.UUID, limit int) ([]*domain.ConversationMessage, error) {
	if limit <= 0 {
		limit = 6
	}
	var out []*domain.ConversationMessage
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	// reverse to chronological order for prompt construction
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
