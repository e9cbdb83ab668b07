package main

import (
	"strings"

	"go.uber.org/zap"

	"sparkify/internal/config"
	"sparkify/internal/metrics"
	"sparkify/internal/metrics/datadog"
	"sparkify/internal/metrics/prompush"
)

// setupMetrics installs the configured backend. A backend that cannot be
// built leaves metrics disabled; it never fails the run.
func setupMetrics(cfg config.Metrics, log *zap.Logger) error {
	switch strings.ToLower(cfg.Backend) {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.PushgatewayURL)
		if err != nil {
			log.Warn("metrics disabled", zap.Error(err))
			return nil
		}
		metrics.SetBackend(b)
		log.Debug("metrics enabled", zap.String("backend", "pushgateway"), zap.String("url", cfg.PushgatewayURL))

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.DatadogAddr,
			Namespace:  "sparkify.",
			GlobalTags: []string{"job:" + cfg.Job},
		})
		if err != nil {
			log.Warn("metrics disabled", zap.Error(err))
			return nil
		}
		metrics.SetBackend(b)
		log.Debug("metrics enabled", zap.String("backend", "datadog"), zap.String("addr", cfg.DatadogAddr))

	case "", "none":
	default:
		log.Warn("unknown metrics backend; metrics disabled", zap.String("backend", cfg.Backend))
	}
	return nil
}
