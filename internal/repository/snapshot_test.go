package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paypal-order-sync/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.OrderSnapshot{}))
	return db
}

func TestSnapshotRepository_CreateAndFind(t *testing.T) {
	db := testDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, db, &model.OrderSnapshot{
		OrderID: "ORDER-1",
		Status:  "CREATED",
		Intent:  "CAPTURE",
		Payload: []byte(`{"id":"ORDER-1"}`),
	})
	require.NoError(t, err)

	found, err := repo.FindByOrderID(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, "CREATED", found.Status)
	assert.JSONEq(t, `{"id":"ORDER-1"}`, string(found.Payload))
}

func TestSnapshotRepository_FindMissing(t *testing.T) {
	db := testDB(t)
	repo := NewSnapshotRepository(db)

	_, err := repo.FindByOrderID(context.Background(), "MISSING")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSnapshotRepository_Replace(t *testing.T) {
	db := testDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, db, &model.OrderSnapshot{
		OrderID: "ORDER-2",
		Status:  "CREATED",
		Intent:  "CAPTURE",
		Payload: []byte(`{"v":1}`),
	}))

	err := repo.Replace(ctx, db, "ORDER-2", "APPROVED", "CAPTURE", []byte(`{"v":2}`))
	require.NoError(t, err)

	found, err := repo.FindByOrderID(ctx, "ORDER-2")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", found.Status)
	assert.JSONEq(t, `{"v":2}`, string(found.Payload))
}

func TestSnapshotRepository_ReplaceMissing(t *testing.T) {
	db := testDB(t)
	repo := NewSnapshotRepository(db)

	err := repo.Replace(context.Background(), db, "MISSING", "APPROVED", "CAPTURE", nil)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
