package core

import (
	"pkdindustries/helpbot/internal/metrics"
	"pkdindustries/helpbot/internal/store"
)

type SystemImpl struct {
	Store   *store.Store
	Metrics *metrics.Metrics
}

func (s *SystemImpl) GetStore() *store.Store {
	return s.Store
}

func (s *SystemImpl) GetMetrics() *metrics.Metrics {
	return s.Metrics
}
