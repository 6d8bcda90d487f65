package infra_redis_codeset

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T) *Driver {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, "test:live_rooms")
}

func TestAddRemoveLive(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t)

	require.NoError(t, d.Add(ctx, "K7M2"))
	require.NoError(t, d.Add(ctx, "XY34"))
	require.NoError(t, d.Add(ctx, "K7M2"))

	live, err := d.Live(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"K7M2", "XY34"}, live)

	require.NoError(t, d.Remove(ctx, "K7M2"))

	live, err = d.Live(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"XY34"}, live)
}

func TestEmptyCodeIsIgnored(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t)

	require.NoError(t, d.Add(ctx, ""))
	require.NoError(t, d.Remove(ctx, ""))

	live, err := d.Live(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)
}
