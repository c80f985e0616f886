// Package service contains the ingest pipeline: normalize, derive, persist
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tubelens/internal/core/derive"
	"tubelens/internal/core/normalize"
	"tubelens/internal/modkit/repokit"
	"tubelens/internal/platform/logger"
	"tubelens/internal/services/ingest/domain"
	"tubelens/internal/services/ingest/repo"
)

// Service defines the ingest service contract
type Service interface {
	domain.ServicePort
}

// Config tunes the derivation step
type Config struct {
	// Location is the display timezone for publish weekday/hour; nil means UTC
	Location *time.Location
}

// Svc implements the ingest service
type Svc struct {
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	wh     repo.Warehouse
	cfg    Config

	// now is swappable so tests can pin the derivation clock
	now func() time.Time
}

// New constructs an ingest service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], wh repo.Warehouse, cfg Config) *Svc {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	// keep ingest transactions from parking on a lock forever
	db = repokit.WithBeginHooks(db, func(ctx context.Context, q repokit.Queryer) error {
		_, err := q.Exec(ctx, `set local statement_timeout = '30s'`)
		return err
	})
	return &Svc{binder: binder, db: db, wh: wh, cfg: cfg, now: time.Now}
}

// Channels normalizes and appends channel snapshots
func (s *Svc) Channels(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	rows, rejected := normalize.Channels(in.Records)
	res := result(len(rows), rejected)

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.binder.Bind(q).InsertChannelSnapshots(ctx, rows)
	})
	if err != nil {
		return domain.BatchResult{}, err
	}

	s.logBatch(ctx, "channels", res)
	return res, nil
}

// Videos normalizes, upserts, derives, and ships the enriched batch to the
// columnar store
func (s *Svc) Videos(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	rows, rejected := normalize.Videos(in.Records)
	res := result(len(rows), rejected)

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.binder.Bind(q).UpsertVideos(ctx, rows)
	})
	if err != nil {
		return domain.BatchResult{}, err
	}

	enriched := derive.Videos(rows, derive.Options{AsOf: s.now().UTC(), Location: s.cfg.Location})
	if err := s.wh.InsertEnriched(ctx, res.BatchID, enriched); err != nil {
		// the rows of record landed in postgres; a warehouse miss is not
		// worth failing the batch over
		logger.C(ctx).Warn().Err(err).Str("batch_id", res.BatchID).Msg("warehouse insert failed")
	}

	s.logBatch(ctx, "videos", res)
	return res, nil
}

// Comments normalizes and upserts comments
func (s *Svc) Comments(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	rows, rejected := normalize.Comments(in.Records)
	res := result(len(rows), rejected)

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.binder.Bind(q).UpsertComments(ctx, rows)
	})
	if err != nil {
		return domain.BatchResult{}, err
	}

	s.logBatch(ctx, "comments", res)
	return res, nil
}

func (s *Svc) logBatch(ctx context.Context, kind string, res domain.BatchResult) {
	logger.C(ctx).Info().
		Str("kind", kind).
		Str("batch_id", res.BatchID).
		Int("accepted", res.Accepted).
		Int("rejected", res.Rejected).
		Msg("batch ingested")
}

func result(accepted int, rejected []normalize.Rejection) domain.BatchResult {
	return domain.BatchResult{
		BatchID:    uuid.NewString(),
		Accepted:   accepted,
		Rejected:   len(rejected),
		Rejections: rejected,
	}
}
