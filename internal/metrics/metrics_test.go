// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("get_conversations", 10*time.Millisecond, nil)
	m.ObserveRequest("get_conversations", 10*time.Millisecond, errors.New("boom"))
	m.ObserveRequest("combine", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("get_conversations", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("get_conversations", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("combine", OutcomeOK)))
}

func TestObserveRequest_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveRequest("x", 0, nil) })
}

func TestGlobal_Singleton(t *testing.T) {
	assert.Same(t, Global(), Global())
}
