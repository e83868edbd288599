package repository

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/tim-martinez/node-form/internal/db"
	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/oxidb"
)

const (
	SubmissionsCollection = "_form_submissions"
	seqField              = "_seq"
)

// OxiDBStore writes records into an OxiDB collection. Storage order is kept
// in a _seq field seeded from the collection size when the store opens, so
// it assumes this process is the only writer.
type OxiDBStore struct {
	pool *db.Pool
	seq  atomic.Int64
}

// NewOxiDBStore ensures indexes and takes ownership of pool.
func NewOxiDBStore(ctx context.Context, pool *db.Pool) (*OxiDBStore, error) {
	s := &OxiDBStore{pool: pool}
	c := pool.Get()
	if err := c.CreateCollection(ctx, SubmissionsCollection); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	if err := c.CreateIndex(ctx, SubmissionsCollection, seqField); err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	n, err := c.Count(ctx, SubmissionsCollection, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	s.seq.Store(int64(n))
	return s, nil
}

func (s *OxiDBStore) Append(ctx context.Context, sub models.Submission) error {
	doc := make(map[string]any, len(sub)+1)
	for k, v := range sub {
		doc[k] = v
	}
	doc[seqField] = s.seq.Add(1)
	return s.pool.Get().Insert(ctx, SubmissionsCollection, doc)
}

func (s *OxiDBStore) List(ctx context.Context) ([]models.Submission, error) {
	docs, err := s.pool.Get().Find(ctx, SubmissionsCollection, map[string]any{}, &oxidb.FindOptions{
		Sort: map[string]any{seqField: 1},
	})
	if err != nil {
		return nil, err
	}
	subs := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		delete(d, "_id")
		delete(d, seqField)
		subs = append(subs, models.Submission(d))
	}
	return subs, nil
}

func (s *OxiDBStore) Count(ctx context.Context) (int, error) {
	return s.pool.Get().Count(ctx, SubmissionsCollection, map[string]any{})
}

func (s *OxiDBStore) Close() error {
	s.pool.Close()
	return nil
}
