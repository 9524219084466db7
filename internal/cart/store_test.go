package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := setupTestRedis(t)

	sess, err := store.Load(context.Background(), "user:1")
	require.NoError(t, err)
	assert.Equal(t, "user:1", sess.Owner)
	assert.True(t, sess.IsEmpty())
	assert.NotNil(t, sess.Lines)
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	sess := NewSession("guest:abc")
	sess.Lines = append(sess.Lines, Line{ProductID: 3, Name: "Mug", UnitPrice: decimal.RequireFromString("12.50"), Quantity: 2})
	sess.CouponCode = "SAVE10"

	require.NoError(t, store.Save(ctx, sess))

	assert.True(t, mr.Exists("cart:guest:abc"))
	assert.Equal(t, time.Hour, mr.TTL("cart:guest:abc"))

	got, err := store.Load(ctx, "guest:abc")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(got.Lines[0].UnitPrice))
	assert.Equal(t, "SAVE10", got.CouponCode)
}

func TestRedisStore_SaveRefreshesTTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewSession("user:2")))
	mr.FastForward(50 * time.Minute)
	require.NoError(t, store.Save(ctx, NewSession("user:2")))

	assert.Equal(t, time.Hour, mr.TTL("cart:user:2"))
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	sess := NewSession("user:3")
	sess.Lines = []Line{{ProductID: 1, UnitPrice: decimal.NewFromInt(1), Quantity: 1}}
	require.NoError(t, store.Save(ctx, sess))

	mr.FastForward(2 * time.Hour)

	got, err := store.Load(ctx, "user:3")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewSession("user:4")))
	require.NoError(t, store.Delete(ctx, "user:4"))
	assert.False(t, mr.Exists("cart:user:4"))
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("cart:user:5", "{not json"))

	_, err := store.Load(context.Background(), "user:5")
	assert.ErrorContains(t, err, "unmarshal cart failed")
}

func TestRedisStore_InvalidOwner(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.ErrorIs(t, store.Save(context.Background(), &Session{}), ErrInvalidOwner)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, err := store.Load(context.Background(), "user:6")
	assert.ErrorContains(t, err, "redis get failed")
}

func TestSession_JSONShape(t *testing.T) {
	sess := NewSession("user:1")
	sess.Applied = &AppliedDiscount{Total: decimal.RequireFromString("92.00")}

	data, err := json.Marshal(sess)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total":"92"`)
	assert.Contains(t, string(data), `"lines":[]`)
}
