package report

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the default registry's metrics to a Pushgateway at url under job.
func Push(ctx context.Context, url, job string) error {
	return PushFrom(ctx, prometheus.DefaultGatherer, url, job)
}

// PushFrom is Push with an explicit gatherer.
func PushFrom(ctx context.Context, g prometheus.Gatherer, url, job string) error {
	if url == "" {
		return fmt.Errorf("pushgateway url is empty")
	}
	if job == "" {
		job = "requestqa"
	}
	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
