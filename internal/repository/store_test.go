package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tim-martinez/node-form/internal/config"
	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/oxidb/oxidbtest"
)

type backend struct {
	name string
	open func(t *testing.T) SubmissionStore
}

func backends() []backend {
	return []backend{
		{"json", func(t *testing.T) SubmissionStore {
			return NewJSONStore(filepath.Join(t.TempDir(), "data"))
		}},
		{"sqlite", func(t *testing.T) SubmissionStore {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", SQLiteFile))
			require.NoError(t, err)
			return s
		}},
		{"oxidb", func(t *testing.T) SubmissionStore {
			srv := oxidbtest.NewServer(t)
			s, err := Open(context.Background(), config.StoreConfig{
				Backend:   config.BackendOxiDB,
				OxiDBHost: srv.Host(),
				OxiDBPort: srv.Port(),
				PoolSize:  2,
			}, zap.NewNop())
			require.NoError(t, err)
			return s
		}},
	}
}

func record(id string, answers models.AnswerSet) models.Submission {
	return models.NewSubmission(id, answers, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestEmptyStoreLists(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()

			subs, err := s.List(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, subs)
			assert.Empty(t, subs)

			n, err := s.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestAppendThenList(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()
			ctx := context.Background()

			first := record("1", models.AnswerSet{"facility-name": "ORD Tower"})
			second := record("2", models.AnswerSet{"facility-name": "MDW Tower", "facility-type": "Tower"})
			require.NoError(t, s.Append(ctx, first))
			require.NoError(t, s.Append(ctx, second))

			subs, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, subs, 2)
			assert.Equal(t, first, subs[0])
			assert.Equal(t, second, subs[1])
		})
	}
}

func TestConcurrentAppendsKeepEveryRecord(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()

			const writers = 20
			var g errgroup.Group
			for i := 0; i < writers; i++ {
				i := i
				g.Go(func() error {
					return s.Append(context.Background(), record(fmt.Sprint(i), models.AnswerSet{"n": fmt.Sprint(i)}))
				})
			}
			require.NoError(t, g.Wait())

			n, err := s.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, writers, n)
		})
	}
}

func TestJSONStoreDocumentFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := NewJSONStore(dir)
	require.NoError(t, s.Append(context.Background(), record("1", models.AnswerSet{"a": "b"})))

	data, err := os.ReadFile(filepath.Join(dir, SubmissionsFile))
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"a\": \"b\",\n    \"id\": \"1\",\n    \"submittedAt\": \"2026-01-02T03:04:05.000Z\"\n  }\n]", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestJSONStoreBlankDocumentIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SubmissionsFile), []byte("  \n"), 0o644))
	subs, err := NewJSONStore(dir).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestJSONStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SubmissionsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0o644))
	s := NewJSONStore(dir)

	_, err := s.List(context.Background())
	assert.ErrorIs(t, err, ErrCorruptStore)

	err = s.Append(context.Background(), record("1", models.AnswerSet{}))
	assert.ErrorIs(t, err, ErrCorruptStore)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"not":"an array"`, string(data), "corrupt document is left untouched")
}

func TestJSONStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewJSONStore(t.TempDir())
	assert.ErrorIs(t, s.Append(ctx, record("1", nil)), context.Canceled)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Backend: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNumbersSurviveLaterAppends(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()
			ctx := context.Background()

			huge := record("1", models.AnswerSet{"n": json.Number("1e400"), "exact": json.Number("9007199254740993")})
			require.NoError(t, s.Append(ctx, huge))

			subs, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, subs, 1)
			assert.Equal(t, huge, subs[0])

			next := record("2", models.AnswerSet{"facility-name": "ORD Tower"})
			require.NoError(t, s.Append(ctx, next))

			subs, err = s.List(ctx)
			require.NoError(t, err)
			require.Len(t, subs, 2)
			assert.Equal(t, json.Number("1e400"), subs[0]["n"])
			assert.Equal(t, json.Number("9007199254740993"), subs[0]["exact"])
			assert.Equal(t, next, subs[1])
		})
	}
}

func TestJSONStoreKeepsExactDigitsOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONStore(dir)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, record("1", models.AnswerSet{"exact": json.Number("9007199254740993")})))
	require.NoError(t, s.Append(ctx, record("2", models.AnswerSet{"a": "b"})))

	data, err := os.ReadFile(filepath.Join(dir, SubmissionsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exact": 9007199254740993`)
}
