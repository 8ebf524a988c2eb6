// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package ringstore

import (
	"context"
	"sync"
	"time"

	"github.com/surbee/sentinel/internal/metrics"
)

// MemoryStore is an in-memory Store for tests, calibration runs, and
// single-node deployments that can tolerate losing history on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	byHash map[string]map[string]Record // hash -> sessionID -> record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byHash: make(map[string]map[string]Record)}
}

// Record implements Store.
func (s *MemoryStore) Record(_ context.Context, rec Record) error {
	if rec.Hash == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, ok := s.byHash[rec.Hash]
	if !ok {
		sessions = make(map[string]Record)
		s.byHash[rec.Hash] = sessions
	}
	if _, seen := sessions[rec.SessionID]; !seen {
		metrics.RingStoreSessions.Inc()
	}
	sessions[rec.SessionID] = rec
	return nil
}

// SessionsSharing implements Store.
func (s *MemoryStore) SessionsSharing(_ context.Context, hash, excludeSession string, window time.Duration, now time.Time) ([]Record, error) {
	if hash == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := now.Add(-window)
	var out []Record
	for id, rec := range s.byHash[hash] {
		if id == excludeSession {
			continue
		}
		if rec.SeenAt.Before(cutoff) || rec.SeenAt.After(now) {
			continue
		}
		out = append(out, rec)
	}
	if len(out) > 0 {
		metrics.RingStoreLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.RingStoreLookups.WithLabelValues("miss").Inc()
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
