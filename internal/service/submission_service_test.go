package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/repository"
)

type failingStore struct {
	repository.SubmissionStore
	err error
}

func (f failingStore) Append(context.Context, models.Submission) error { return f.err }

func (f failingStore) List(context.Context) ([]models.Submission, error) { return nil, f.err }

func newService(t *testing.T) (*SubmissionService, *repository.JSONStore) {
	t.Helper()
	store := repository.NewJSONStore(filepath.Join(t.TempDir(), "data"))
	svc := NewSubmissionService(store, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) }
	return svc, store
}

func TestAppendThenListRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	answers := models.AnswerSet{
		"facility-name":     "ORD Tower",
		"facility-type":     "Tower",
		"facility-location": "Chicago",
		"submittedAt":       "client clock",
	}

	sub, err := svc.Append(ctx, answers)
	require.NoError(t, err)
	require.NotEmpty(t, sub.ID())

	subs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	last := subs[len(subs)-1]

	assert.Equal(t, sub.ID(), last.ID())
	assert.Equal(t, "2026-10-19T08:30:00.000Z", last.SubmittedAt())
	assert.Equal(t, models.AnswerSet{
		"facility-name":     "ORD Tower",
		"facility-type":     "Tower",
		"facility-location": "Chicago",
	}, last.Answers())
}

func TestAppendGeneratesDistinctIDs(t *testing.T) {
	svc, _ := newService(t)
	ids := map[string]bool{}
	for i := 0; i < 50; i++ {
		sub, err := svc.Append(context.Background(), models.AnswerSet{"i": fmt.Sprint(i)})
		require.NoError(t, err)
		ids[sub.ID()] = true
	}
	assert.Len(t, ids, 50, "ids stay unique within the same millisecond")
}

func TestTwoConcurrentAppendsOnEmptyStore(t *testing.T) {
	svc, _ := newService(t)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := svc.Append(context.Background(), models.AnswerSet{"facility-name": "ORD Tower"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	subs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestAppendFailureIsGenericAndLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewSubmissionService(failingStore{err: errors.New("permission denied")}, zap.New(core))

	_, err := svc.Append(context.Background(), models.AnswerSet{})
	require.ErrorIs(t, err, ErrSaveFailed)

	entries := logs.FilterMessage("error saving submission").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "permission denied", entries[0].ContextMap()["error"])
}

func TestListSurfacesCorruptStore(t *testing.T) {
	svc, store := newService(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("not json"), 0o644))

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrReadFailed)
}

func TestListKeepsCause(t *testing.T) {
	svc, store := newService(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("[1,"), 0o644))

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, repository.ErrCorruptStore)
}
