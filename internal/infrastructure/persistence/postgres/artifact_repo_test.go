package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"manuscript-gen/internal/config"
	"manuscript-gen/internal/domain/entity"
	apperrors "manuscript-gen/pkg/errors"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "m"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=m sslmode=disable", dsn)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "postgres://stage_outputs/book/chapter-02", Location("book", entity.ChapterStage(2)))
}

func TestArtifactRepository_Upsert(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	client := &Client{db: db}
	ctx := context.Background()
	require.NoError(t, client.Migrate(ctx))
	t.Cleanup(func() {
		db.Where("work_item_id = ?", "pg-test").Delete(&entity.StageOutput{})
		_ = client.Close()
	})

	repo := NewArtifactRepository(client)
	tx := NewTxManager(client)

	err = tx.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.Save(ctx, &entity.StageOutput{WorkItemID: "pg-test", Stage: entity.StageOutline, Content: "v1", CreatedAt: time.Now()})
		return err
	})
	require.NoError(t, err)

	loc, err := repo.Save(ctx, &entity.StageOutput{WorkItemID: "pg-test", Stage: entity.StageOutline, Content: "v2", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, Location("pg-test", entity.StageOutline), loc)

	got, err := repo.Get(ctx, "pg-test", entity.StageOutline)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)

	all, err := repo.ListByWorkItem(ctx, "pg-test")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.Get(ctx, "pg-test", entity.StageFinal)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
