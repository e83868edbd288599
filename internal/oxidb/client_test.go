package oxidb_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-martinez/node-form/internal/oxidb"
	"github.com/tim-martinez/node-form/internal/oxidb/oxidbtest"
)

func getClient(t *testing.T) (*oxidb.Client, *oxidbtest.Server) {
	t.Helper()
	srv := oxidbtest.NewServer(t)
	c, err := oxidb.Connect(srv.Host(), srv.Port(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, srv
}

func TestPing(t *testing.T) {
	c, _ := getClient(t)
	pong, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pong", pong)
}

func TestInsertFindCount(t *testing.T) {
	c, _ := getClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateCollection(ctx, "go_test"))
	require.NoError(t, c.Insert(ctx, "go_test", map[string]any{"name": "Bob", "_seq": 2}))
	require.NoError(t, c.Insert(ctx, "go_test", map[string]any{"name": "Alice", "_seq": 1}))

	n, err := c.Count(ctx, "go_test", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs, err := c.Find(ctx, "go_test", map[string]any{}, &oxidb.FindOptions{Sort: map[string]any{"_seq": 1}})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Alice", docs[0]["name"])
	assert.Equal(t, "Bob", docs[1]["name"])
}

func TestFindKeepsNumbersExact(t *testing.T) {
	c, _ := getClient(t)
	ctx := context.Background()
	require.NoError(t, c.Insert(ctx, "nums", map[string]any{"big": json.Number("9007199254740993"), "huge": json.Number("1e400")}))

	docs, err := c.Find(ctx, "nums", map[string]any{}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, json.Number("9007199254740993"), docs[0]["big"])
	assert.Equal(t, json.Number("1e400"), docs[0]["huge"])
}

func TestFindEmptyCollection(t *testing.T) {
	c, _ := getClient(t)
	docs, err := c.Find(context.Background(), "nothing", map[string]any{}, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestServerError(t *testing.T) {
	c, srv := getClient(t)
	srv.FailNext("disk full")

	err := c.Insert(context.Background(), "go_test", map[string]any{"a": 1})
	var oe *oxidb.Error
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "insert", oe.Cmd)
	assert.Equal(t, "disk full", oe.Msg)
}
