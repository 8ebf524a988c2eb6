// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package supervisor

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/surbee/sentinel/internal/logging"
)

const defaultGCInterval = 10 * time.Minute

// badgerGCDiscardRatio reclaims a value log file once half of it is stale.
const badgerGCDiscardRatio = 0.5

// BadgerGCService periodically runs Badger value log garbage collection
// for the on-disk ring store. Badger never reclaims value log space on its
// own; without this loop the store grows unbounded as expired ring records
// are overwritten.
type BadgerGCService struct {
	db       *badger.DB
	interval time.Duration
}

// NewBadgerGCService creates a GC service for the given database.
// An interval <= 0 falls back to a 10 minute cycle.
func NewBadgerGCService(db *badger.DB, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	return &BadgerGCService{db: db, interval: interval}
}

// Serve implements suture.Service. Each tick keeps collecting until Badger
// reports nothing left to rewrite.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reclaimed := 0
			for {
				err := s.db.RunValueLogGC(badgerGCDiscardRatio)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						logging.Warn().Err(err).Msg("badger value log GC failed")
					}
					break
				}
				reclaimed++
			}
			if reclaimed > 0 {
				logging.Debug().Int("files", reclaimed).Msg("badger value log GC reclaimed files")
			}
		}
	}
}

// String identifies the service in supervisor log messages.
func (s *BadgerGCService) String() string {
	return "badger-gc"
}
