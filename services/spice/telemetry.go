package spice

import (
	"context"

	"spicetracker/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("spicetracker.services.spice")
var meter = telemetry.Meter("spicetracker.services.spice")

type counters struct {
	decks    metric.Int64Counter
	cards    metric.Int64Counter
	failures metric.Int64Counter
}

func newCounters() (counters, error) {
	decks, err := meter.Int64Counter(
		"spice.decks.inserted",
		metric.WithDescription("Decks stored for the first time."),
	)
	if err != nil {
		return counters{}, err
	}
	cards, err := meter.Int64Counter(
		"spice.cards.inserted",
		metric.WithDescription("Cards stored for the first time under their archetype."),
	)
	if err != nil {
		return counters{}, err
	}
	failures, err := meter.Int64Counter(
		"spice.failures",
		metric.WithDescription("Items that could not be processed, by stage."),
	)
	if err != nil {
		return counters{}, err
	}
	return counters{decks: decks, cards: cards, failures: failures}, nil
}

func (c counters) failure(ctx context.Context, stage Stage) {
	c.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", string(stage))))
}
