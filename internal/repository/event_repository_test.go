package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Event{},
		&models.Capture{},
		&models.CleanupRun{},
		&models.CleanupError{},
	))
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, event *models.Event) *models.Event {
	t.Helper()
	require.NoError(t, db.Create(event).Error)
	return event
}

var repoNow = time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)

func seedActiveEvent(t *testing.T, db *gorm.DB, slug string, captureCount, reservedCount int) *models.Event {
	return seedEvent(t, db, &models.Event{
		OperatorID:    1,
		Title:         "Test Event",
		Slug:          slug,
		GalleryToken:  "token-" + slug,
		PlanTier:      models.PlanBasic,
		PhotoLimit:    100,
		Status:        models.EventStatusActive,
		CaptureCount:  captureCount,
		ReservedCount: reservedCount,
		StartDate:     repoNow.Add(-time.Hour),
		EndDate:       repoNow.Add(time.Hour),
	})
}

func TestCompareAndSwapCountersSingleWinner(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	event := seedActiveEvent(t, db, "caswinner01", 3, 0)

	// Two claimants read the same counter pair and race the conditional
	// write. The row admits exactly one of them.
	set := models.EventCounterUpdate{
		CaptureCount:  4,
		ReservedCount: 0,
		Analytics:     models.EventAnalytics{TotalCaptures: 1, LastCaptureHour: 18},
		Status:        models.EventStatusActive,
	}

	first, err := repo.CompareAndSwapCounters(event.ID, 3, 0, set)
	assert.NoError(t, err)
	assert.True(t, first)

	second, err := repo.CompareAndSwapCounters(event.ID, 3, 0, set)
	assert.NoError(t, err)
	assert.False(t, second)

	stored, err := repo.GetByID(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4, stored.CaptureCount)
	assert.Equal(t, 1, stored.Analytics.TotalCaptures)
	assert.Equal(t, 18, stored.Analytics.LastCaptureHour)
}

func TestCompareAndSwapCountersChecksBothCounters(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	event := seedActiveEvent(t, db, "casreserve1", 3, 2)

	// A stale reserved_count fails the write even when capture_count
	// still matches.
	ok, err := repo.CompareAndSwapCounters(event.ID, 3, 1, models.EventCounterUpdate{
		CaptureCount:  4,
		ReservedCount: 0,
		Status:        models.EventStatusActive,
	})
	assert.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, stored.CaptureCount)
	assert.Equal(t, 2, stored.ReservedCount)
}

func TestCompareAndSwapCountersStampsExpiry(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	event := seedActiveEvent(t, db, "casexpiry01", 9, 0)
	expiresAt := repoNow.AddDate(0, 0, 15)

	ok, err := repo.CompareAndSwapCounters(event.ID, 9, 0, models.EventCounterUpdate{
		CaptureCount:     10,
		ReservedCount:    0,
		Analytics:        models.EventAnalytics{TotalCaptures: 10},
		Status:           models.EventStatusExpired,
		GalleryExpiresAt: &expiresAt,
	})
	assert.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.GetByID(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.EventStatusExpired, stored.Status)
	assert.NotNil(t, stored.GalleryExpiresAt)
	assert.Equal(t, expiresAt.Unix(), stored.GalleryExpiresAt.Unix())
}

func TestMarkExpiredStampsDeadlineOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	event := seedActiveEvent(t, db, "markexpire1", 0, 0)
	firstDeadline := repoNow.AddDate(0, 0, 15)

	assert.NoError(t, repo.MarkExpired(event.ID, firstDeadline))

	// A second call hits no active row, so the original deadline stands.
	assert.NoError(t, repo.MarkExpired(event.ID, repoNow.AddDate(0, 0, 30)))

	stored, err := repo.GetByID(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.EventStatusExpired, stored.Status)
	assert.Equal(t, firstDeadline.Unix(), stored.GalleryExpiresAt.Unix())
}

func TestFindCleanupDueSelection(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	past := repoNow.Add(-time.Hour)
	future := repoNow.Add(72 * time.Hour)

	due := seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "Due", Slug: "due00000001", GalleryToken: "t1",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusExpired, GalleryExpiresAt: &past,
	})
	seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "Future", Slug: "future00001", GalleryToken: "t2",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusExpired, GalleryExpiresAt: &future,
	})
	seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "Cleaned", Slug: "cleaned0001", GalleryToken: "t3",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusCleaned, GalleryExpiresAt: &past,
	})
	seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "Active", Slug: "active00001", GalleryToken: "t4",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusActive,
	})
	seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "No deadline", Slug: "nodeadline1", GalleryToken: "t5",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusExpired,
	})

	found, err := repo.FindCleanupDue(repoNow)
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
}

func TestFindCleanupDueSecondRunIsEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	past := repoNow.Add(-time.Hour)
	due := seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "Due", Slug: "idempotent1", GalleryToken: "t1",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusExpired, GalleryExpiresAt: &past,
	})

	found, err := repo.FindCleanupDue(repoNow)
	assert.NoError(t, err)
	assert.Len(t, found, 1)

	// Cleanup marks the event cleaned; the next batch must not pick it up
	// again even though the deadline is still in the past.
	assert.NoError(t, repo.SetStatus(due.ID, models.EventStatusExpired, models.EventStatusCleaned))

	found, err = repo.FindCleanupDue(repoNow)
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindGalleriesExpiringWithinSkipsWarned(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	soon := repoNow.Add(48 * time.Hour)
	pending := seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "Pending", Slug: "warnpending", GalleryToken: "t1",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusExpired, GalleryExpiresAt: &soon,
	})
	seedEvent(t, db, &models.Event{
		OperatorID: 1, Title: "Warned", Slug: "warnedalrdy", GalleryToken: "t2",
		PlanTier: models.PlanBasic, PhotoLimit: 100,
		Status: models.EventStatusExpired, GalleryExpiresAt: &soon,
		ExpiryWarnedAt: &repoNow,
	})

	found, err := repo.FindGalleriesExpiringWithin(repoNow, 72*time.Hour)
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, pending.ID, found[0].ID)

	assert.NoError(t, repo.MarkExpiryWarned(pending.ID, repoNow))

	found, err = repo.FindGalleriesExpiringWithin(repoNow, 72*time.Hour)
	assert.NoError(t, err)
	assert.Empty(t, found)
}
