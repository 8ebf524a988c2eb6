// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/assess", "200"))
	RecordAPIRequest("POST", "/api/v1/assess", 200, 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/assess", "200"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}

func TestRecordAssessment(t *testing.T) {
	before := testutil.ToFloat64(AssessmentsTotal.WithLabelValues("critical"))
	RecordAssessment("critical", 0.92, 3*time.Millisecond)
	after := testutil.ToFloat64(AssessmentsTotal.WithLabelValues("critical"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}

func TestRecordExternalRequest(t *testing.T) {
	before := testutil.ToFloat64(ExternalRequests.WithLabelValues("ai_text", "failure"))
	RecordExternalRequest("ai_text", "failure", time.Second)
	after := testutil.ToFloat64(ExternalRequests.WithLabelValues("ai_text", "failure"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}
