// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package ringstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/surbee/sentinel/internal/metrics"
)

// fingerprintKeyPrefix namespaces ring records in the shared Badger DB.
const fingerprintKeyPrefix = "fp:"

// BadgerStore is the durable Store used in production. Records carry a TTL
// of the retention window so Badger expires stale history on its own.
type BadgerStore struct {
	db        *badger.DB
	retention time.Duration
}

// NewBadgerStore wraps an open Badger DB. retention bounds how long an
// observation stays queryable.
func NewBadgerStore(db *badger.DB, retention time.Duration) *BadgerStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &BadgerStore{db: db, retention: retention}
}

func fingerprintKey(hash, sessionID string) []byte {
	return []byte(fingerprintKeyPrefix + hash + ":" + sessionID)
}

// Record implements Store.
func (s *BadgerStore) Record(_ context.Context, rec Record) error {
	if rec.Hash == "" {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal ring record: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(fingerprintKey(rec.Hash, rec.SessionID), data).
			WithTTL(s.retention)
		return txn.SetEntry(entry)
	})
}

// SessionsSharing implements Store.
func (s *BadgerStore) SessionsSharing(_ context.Context, hash, excludeSession string, window time.Duration, now time.Time) ([]Record, error) {
	if hash == "" {
		return nil, nil
	}

	cutoff := now.Add(-window)
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(fingerprintKeyPrefix + hash + ":")
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("decode ring record: %w", err)
				}
				if rec.SessionID == excludeSession {
					return nil
				}
				if rec.SeenAt.Before(cutoff) || rec.SeenAt.After(now) {
					return nil
				}
				out = append(out, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.RingStoreLookups.WithLabelValues("error").Inc()
		return nil, err
	}

	if len(out) > 0 {
		metrics.RingStoreLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.RingStoreLookups.WithLabelValues("miss").Inc()
	}
	return out, nil
}

// Close implements Store. The underlying DB is shared; closing the store
// does not close it.
func (s *BadgerStore) Close() error { return nil }
