package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/repository/specification"
	"survey-bot-be/internal/repository/unitofwork"
	"survey-bot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SurveyReportRepository())
	assert.NotNil(t, uow.SegmentRepository())
	assert.NotNil(t, uow.DesignatorRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Catalog Repositories", func(t *testing.T) {
		count, err := uow.SegmentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Segment count: %d", count)

		categories, err := uow.DesignatorRepository().ListCategories(context.Background())
		assert.NoError(t, err)
		t.Logf("Designator categories: %v", categories)
	})

	t.Run("Finalize Is Applied Exactly Once", func(t *testing.T) {
		ctx := context.Background()
		repo := uow.SurveyReportRepository()

		report := &entity.SurveyReport{
			Id:           uuid.New(),
			ChatID:       time.Now().UnixNano(),
			Segment:      "INTEGRATION SEGMENT",
			Category:     "INTEGRATION",
			Designator:   "INT-DES-1",
			FolderPath:   "INTEGRATION SEGMENT/INT-DES-1",
			EvidenceRefs: []string{"/uploads/int.jpg"},
			CreatedAt:    time.Now(),
		}
		require.NoError(t, repo.Create(ctx, report))

		updated, err := repo.FinalizeOnce(ctx, report.Id, 100, 50, 150, time.Now())
		require.NoError(t, err)
		assert.True(t, updated)

		// Replay must be a no-op.
		updated, err = repo.FinalizeOnce(ctx, report.Id, 999, 999, 1998, time.Now())
		require.NoError(t, err)
		assert.False(t, updated)

		stored, err := repo.FindOne(ctx, specification.ByID{ID: report.Id})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, float64(150), stored.Total)
		require.NotNil(t, stored.FinalizedAt)
	})
}
