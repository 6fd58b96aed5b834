package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	publishAttemptCounter metric.Int64Counter
	mediaRejectCounter    metric.Int64Counter
	offerUpsertCounter    metric.Int64Counter
	projectClickCounter   metric.Int64Counter
)

// InitMarketplaceMetrics registers the marketplace instruments on the global meter.
func InitMarketplaceMetrics() error {
	meter := otel.Meter("gigmarket.marketplace")

	var err error

	publishAttemptCounter, err = meter.Int64Counter(
		"project.publish.attempts",
		metric.WithDescription("Publish attempts by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return err
	}

	mediaRejectCounter, err = meter.Int64Counter(
		"project.media.rejected",
		metric.WithDescription("Media attachments rejected by the per-project cap"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return err
	}

	offerUpsertCounter, err = meter.Int64Counter(
		"offer.upsert.count",
		metric.WithDescription("Offer upserts by path (create or update)"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return err
	}

	projectClickCounter, err = meter.Int64Counter(
		"project.clicks",
		metric.WithDescription("Project clicks applied"),
		metric.WithUnit("{click}"),
	)
	return err
}

func RecordPublishAttempt(ctx context.Context, ok bool, unmet int) {
	if publishAttemptCounter == nil {
		return
	}
	status := "published"
	if !ok {
		status = "rejected"
	}
	publishAttemptCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.Int("unmet", unmet),
	))
}

func RecordMediaRejected(ctx context.Context) {
	if mediaRejectCounter != nil {
		mediaRejectCounter.Add(ctx, 1)
	}
}

func RecordOfferUpsert(ctx context.Context, path string) {
	if offerUpsertCounter != nil {
		offerUpsertCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
	}
}

func RecordProjectClick(ctx context.Context) {
	if projectClickCounter != nil {
		projectClickCounter.Add(ctx, 1)
	}
}
