package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

func TestJobRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.WithTx(context.Background(), tx)

	repo := NewJobRepo(db, testutil.Logger(t))

	now := time.Now().UTC()

	queued := &domain.Job{
		ID:         uuid.New(),
		Type:       "import_contacts",
		Priority:   domain.JobPriorityNormal,
		Status:     domain.JobStatusPending,
		Parameters: datatypes.JSON([]byte("{}")),
		Result:     datatypes.JSON([]byte("{}")),
		CreatedAt:  now.Add(-3 * time.Hour),
		UpdatedAt:  now.Add(-3 * time.Hour),
	}
	high := &domain.Job{
		ID:         uuid.New(),
		Type:       "import_contacts",
		Priority:   domain.JobPriorityHigh,
		Status:     domain.JobStatusPending,
		Parameters: datatypes.JSON([]byte("{}")),
		Result:     datatypes.JSON([]byte("{}")),
		CreatedAt:  now.Add(-2 * time.Hour),
		UpdatedAt:  now.Add(-2 * time.Hour),
	}
	staleRunning := &domain.Job{
		ID:          uuid.New(),
		Type:        "enrich_contacts",
		Priority:    domain.JobPriorityNormal,
		Status:      domain.JobStatusProcessing,
		HeartbeatAt: ptrTime(now.Add(-10 * time.Hour)),
		Parameters:  datatypes.JSON([]byte("{}")),
		Result:      datatypes.JSON([]byte("{}")),
		CreatedAt:   now.Add(-1 * time.Hour),
		UpdatedAt:   now.Add(-1 * time.Hour),
	}

	for _, j := range []*domain.Job{queued, high, staleRunning} {
		if _, err := repo.Create(dbc, j); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, err := repo.GetByIDs(dbc, []uuid.UUID{queued.ID, high.ID, staleRunning.ID})
	if err != nil || len(rows) != 3 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	// ClaimNext must prefer the high-priority job first, even though it was
	// enqueued after the normal-priority one.
	claim1, err := repo.ClaimNext(dbc, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNext #1: %v", err)
	}
	if claim1 == nil || claim1.ID != high.ID {
		t.Fatalf("ClaimNext #1: expected %v got %v", high.ID, claim1)
	}

	claim2, err := repo.ClaimNext(dbc, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNext #2: %v", err)
	}
	if claim2 == nil || claim2.ID != queued.ID {
		t.Fatalf("ClaimNext #2: expected %v got %v", queued.ID, claim2)
	}

	claim3, err := repo.ClaimNext(dbc, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNext #3: %v", err)
	}
	if claim3 == nil || claim3.ID != staleRunning.ID {
		t.Fatalf("ClaimNext #3: expected %v got %v", staleRunning.ID, claim3)
	}

	claim4, err := repo.ClaimNext(dbc, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNext #4: %v", err)
	}
	if claim4 != nil {
		t.Fatalf("ClaimNext #4: expected nil, got %v", claim4)
	}

	if err := repo.UpdateFields(dbc, queued.ID, map[string]interface{}{"status": domain.JobStatusFailed}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	// A failed job is never reclaimed by the queue: retrying it is the
	// caller's job, not ClaimNext's.
	claim5, err := repo.ClaimNext(dbc, 3, time.Hour)
	if err != nil {
		t.Fatalf("ClaimNext #5: %v", err)
	}
	if claim5 != nil {
		t.Fatalf("ClaimNext #5: expected nil (failed jobs are not auto-retried), got %v", claim5)
	}

	if err := repo.Heartbeat(dbc, staleRunning.ID); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}

	cancelled, err := repo.RequestCancel(dbc, high.ID)
	if err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	if !cancelled {
		t.Fatalf("RequestCancel: expected true")
	}

	isCancelled, err := repo.IsCancelled(dbc, high.ID)
	if err != nil {
		t.Fatalf("IsCancelled: %v", err)
	}
	if !isCancelled {
		t.Fatalf("IsCancelled: expected true")
	}

	exists, err := repo.ExistsRunnableByType(dbc, "enrich_contacts")
	if err != nil {
		t.Fatalf("ExistsRunnableByType: %v", err)
	}
	if !exists {
		t.Fatalf("ExistsRunnableByType: expected true")
	}

	exists, err = repo.ExistsRunnableByType(dbc, "nonexistent_type")
	if err != nil {
		t.Fatalf("ExistsRunnableByType (nonexistent): %v", err)
	}
	if exists {
		t.Fatalf("ExistsRunnableByType (nonexistent): expected false")
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
