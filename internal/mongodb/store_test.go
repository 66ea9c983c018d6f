package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/restaurant/services/menu/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocumentEncoding(t *testing.T) {
	rec := store.Record{ID: 107, Category: "APP", Description: "ahi tuna", Price: 24, Vegetarian: false}

	raw, err := bson.Marshal(documentOf(rec))
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, int32(107), fields["id"])
	assert.Equal(t, "APP", fields["category"])
	assert.NotContains(t, fields, "_id")

	var decoded document
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, []store.Record{rec}, records([]document{decoded}))
}

func TestDocumentDecodesIntegerPrices(t *testing.T) {
	// Documents written by other tools may carry whole prices as int32.
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "ignored"},
		{Key: "id", Value: int32(305)},
		{Key: "category", Value: "DES"},
		{Key: "description", Value: "house made gelato"},
		{Key: "price", Value: int32(9)},
		{Key: "vegetarian", Value: true},
	})
	require.NoError(t, err)

	var decoded document
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, 9.0, decoded.Price)
	assert.Equal(t, 305, decoded.ID)
}

// setupTestStore connects to MENU_TEST_MONGO_URI using a throwaway
// collection. Without the variable the integration tests are skipped.
func setupTestStore(t *testing.T) *Store {
	uri := os.Getenv("MENU_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MENU_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Connect(ctx, uri, "menu_test", "menuitems_"+uuid.NewString()[:8], 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.collection.Drop(ctx)
		s.Close(ctx)
	})
	return s
}

func TestStoreLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	conn, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	require.NoError(t, conn.InsertMany(ctx, []store.Record{
		{ID: 302, Category: "DES", Description: "une meule", Price: 14, Vegetarian: true},
		{ID: 101, Category: "APP", Description: "beet and orange salad", Price: 16, Vegetarian: true},
	}))

	all, err := conn.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 101, all[0].ID)
	assert.Equal(t, 302, all[1].ID)

	matched, err := conn.Update(ctx, store.Record{ID: 302, Category: "DES", Description: "une meule", Price: 15, Vegetarian: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	found, err := conn.Find(ctx, 302)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 15.0, found[0].Price)

	deleted, err := conn.Delete(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, conn.Drop(ctx))
	n, err := conn.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReleaseTwice(t *testing.T) {
	s := setupTestStore(t)

	conn, err := s.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Release())
	assert.Error(t, conn.Release())
}
