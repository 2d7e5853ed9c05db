package spice

import (
	"context"
	"errors"
	"log/slog"

	"spicetracker/lib/scrapers/mtgtop8"
	"spicetracker/lib/spicestore"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const DefaultConcurrency = 4

// Archetype is an archetype to ingest. A non-zero MetaId restricts the
// listing to that metagame.
type Archetype struct {
	Id     int64
	Name   string
	MetaId int64
}

type Options struct {
	// at most this many archetype listings and this many decks are
	// processed at the same time, the deck limit is shared by all
	// archetypes of a run. Defaults to DefaultConcurrency.
	Concurrency int
}

// Ingester stores the decks listed under archetypes and the cards in them,
// reporting the cards it stored for the first time.
type Ingester struct {
	fetcher     Fetcher
	gateway     Gateway
	concurrency int
	locks       *keyedMutex
	counters    counters
}

func NewIngester(fetcher Fetcher, gateway Gateway, opts Options) (*Ingester, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	c, err := newCounters()
	if err != nil {
		return nil, err
	}
	return &Ingester{
		fetcher:     fetcher,
		gateway:     gateway,
		concurrency: opts.Concurrency,
		locks:       newKeyedMutex(),
		counters:    c,
	}, nil
}

type archetypeOutcome struct {
	started  bool
	failed   bool
	failures []Failure
	decks    []deckOutcome
}

type deckOutcome struct {
	started  bool
	report   DeckReport
	failures []Failure
}

// Run ingests the archetypes. Items that fail are recorded in
// Result.Failures and do not stop the run. When ctx is cancelled no further
// archetype or deck is started, decks already started finish storing the
// cards they fetched, and the partial result is returned with ctx's error.
func (i *Ingester) Run(ctx context.Context, archetypes []Archetype) (Result, error) {
	ctx, span := tracer.Start(ctx, "Ingester:Run")
	defer span.End()

	runId, err := random.String(12)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate run id")
		return Result{}, err
	}
	span.SetAttributes(attribute.String("run_id", runId))
	slog.InfoContext(ctx, "starting ingestion", "run_id", runId, "archetypes", len(archetypes))

	outcomes := make([]archetypeOutcome, len(archetypes))

	decks := semaphore.NewWeighted(int64(i.concurrency))

	group := errgroup.Group{}
	group.SetLimit(i.concurrency)
	for idx, archetype := range archetypes {
		if ctx.Err() != nil {
			break
		}
		outcomes[idx].started = true
		group.Go(func() error {
			outcomes[idx] = i.ingestArchetype(ctx, archetype, decks)
			return nil
		})
	}
	group.Wait()

	result := Result{
		RunID:      runId,
		Archetypes: len(archetypes),
	}
	for _, a := range outcomes {
		if !a.started {
			result.Cancelled = true
			continue
		}
		if a.failed {
			result.FailedArchetypes++
		}
		result.Failures = append(result.Failures, a.failures...)
		for _, d := range a.decks {
			if !d.started {
				result.Cancelled = true
				continue
			}
			result.Decks = append(result.Decks, d.report)
			result.Failures = append(result.Failures, d.failures...)
		}
	}

	slog.InfoContext(
		ctx, "ingestion finished",
		"run_id", runId,
		"decks", len(result.Decks),
		"new_decks", result.NewDeckCount(),
		"new_cards", result.NewCardCount(),
		"failures", len(result.Failures),
	)

	if ctx.Err() != nil {
		result.Cancelled = true
		return result, ctx.Err()
	}
	return result, nil
}

// cancelled is true when err is only the consequence of ctx being done.
func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

func (i *Ingester) fail(ctx context.Context, failures *[]Failure, f Failure) {
	i.counters.failure(ctx, f.Stage)
	slog.WarnContext(
		ctx, "ingestion item failed",
		"stage", f.Stage,
		"archetype", f.ArchetypeId,
		"event", f.EventId,
		"deck", f.DeckId,
		"card", f.Card,
		"err", f.Err,
	)
	*failures = append(*failures, f)
}

func (i *Ingester) ingestArchetype(ctx context.Context, archetype Archetype, decks *semaphore.Weighted) archetypeOutcome {
	ctx, span := tracer.Start(ctx, "ingestArchetype")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("archetype_id", archetype.Id),
		attribute.Int64("meta_id", archetype.MetaId),
	)

	out := archetypeOutcome{started: true}

	page, err := i.fetcher.Fetch(ctx, mtgtop8.ArchetypeResource(archetype.Id, archetype.MetaId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing")
		if cancelled(ctx, err) {
			return archetypeOutcome{}
		}
		out.failed = true
		i.fail(ctx, &out.failures, Failure{
			Stage:       StageFetchListing,
			ArchetypeId: archetype.Id,
			Err:         err,
		})
		return out
	}

	listing, err := mtgtop8.ExtractDecks(ctx, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract listing")
		out.failed = true
		i.fail(ctx, &out.failures, Failure{
			Stage:       StageExtractListing,
			ArchetypeId: archetype.Id,
			Err:         err,
		})
		return out
	}
	for _, skipped := range listing.Skipped {
		i.fail(ctx, &out.failures, Failure{
			Stage:       StageMalformedRow,
			ArchetypeId: archetype.Id,
			Err:         skipped,
		})
	}
	if len(listing.Decks) == 0 {
		slog.InfoContext(ctx, "archetype has no decks", "archetype", archetype.Id)
	}

	out.decks = make([]deckOutcome, len(listing.Decks))

	group := errgroup.Group{}
	for idx, row := range listing.Decks {
		if ctx.Err() != nil {
			break
		}
		err := decks.Acquire(ctx, 1)
		if err != nil {
			break
		}
		deck := spicestore.DeckSummary{
			SourceEventId: row.EventId,
			SourceDeckId:  row.DeckId,
			ArchetypeId:   archetype.Id,
			MetaId:        archetype.MetaId,
			Name:          row.Name,
			PlayerName:    row.PlayerName,
			EventName:     row.EventName,
			EventStrength: row.EventStrength,
			EventDate:     row.EventDate,
		}
		group.Go(func() error {
			defer decks.Release(1)
			out.decks[idx] = i.ingestDeck(ctx, deck)
			return nil
		})
	}
	group.Wait()

	return out
}

func (i *Ingester) ingestDeck(ctx context.Context, deck spicestore.DeckSummary) deckOutcome {
	ctx, span := tracer.Start(ctx, "ingestDeck")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("archetype_id", deck.ArchetypeId),
		attribute.String("deck", DeckKey(deck)),
	)

	if ctx.Err() != nil {
		return deckOutcome{}
	}
	out := deckOutcome{
		started: true,
		report:  DeckReport{Deck: deck},
	}
	failure := func(stage Stage, card string, err error) {
		span.RecordError(err)
		i.fail(ctx, &out.failures, Failure{
			Stage:       stage,
			ArchetypeId: deck.ArchetypeId,
			EventId:     deck.SourceEventId,
			DeckId:      deck.SourceDeckId,
			Card:        card,
			Err:         err,
		})
	}

	// a stored deck still has its cards checked, a previous run may have
	// stopped before storing them
	inserted, err := i.gateway.UpsertDeckIfAbsent(ctx, deck)
	if cancelled(ctx, err) {
		return out
	}
	if err != nil {
		failure(StagePersistDeck, "", &PersistenceError{Op: "upsert deck", Key: DeckKey(deck), Err: err})
	} else if inserted {
		out.report.NewDeck = true
		i.counters.decks.Add(ctx, 1)
	}

	page, err := i.fetcher.Fetch(ctx, mtgtop8.EventDeckResource(deck.SourceEventId, deck.SourceDeckId))
	if err != nil {
		if cancelled(ctx, err) {
			return out
		}
		failure(StageFetchDeck, "", err)
		span.SetStatus(codes.Error, "failed to fetch deck")
		return out
	}
	cards, err := mtgtop8.ExtractCards(ctx, page)
	if err != nil {
		failure(StageExtractCards, "", err)
		span.SetStatus(codes.Error, "failed to extract cards")
		return out
	}

	// the deck's cards are stored as a whole once fetched
	persistCtx := context.WithoutCancel(ctx)
	seen := make(map[string]struct{}, len(cards))
	for _, name := range cards {
		key := CardKey(deck.ArchetypeId, name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		isNew, err := i.persistCard(persistCtx, spicestore.CardEntry{
			IdentityKey: key,
			ArchetypeId: deck.ArchetypeId,
			DeckId:      deck.SourceDeckId,
			CardName:    name,
		})
		if err != nil {
			failure(StagePersistCard, name, err)
			continue
		}
		if isNew {
			out.report.NewCards = append(out.report.NewCards, name)
		}
	}
	if len(out.report.NewCards) > 0 {
		i.counters.cards.Add(ctx, int64(len(out.report.NewCards)))
		slog.InfoContext(ctx, "found new spice", "deck", deck.Name, "cards", out.report.NewCards)
	}
	return out
}

// persistCard stores the card unless a card with the same identity key is
// already stored.
func (i *Ingester) persistCard(ctx context.Context, card spicestore.CardEntry) (bool, error) {
	unlock := i.locks.Lock(card.IdentityKey)
	defer unlock()

	exists, err := i.gateway.CardExists(ctx, card.IdentityKey)
	if err != nil {
		return false, &PersistenceError{Op: "check card", Key: card.IdentityKey, Err: err}
	}
	if exists {
		return false, nil
	}
	inserted, err := i.gateway.InsertCard(ctx, card)
	if err != nil {
		return false, &PersistenceError{Op: "insert card", Key: card.IdentityKey, Err: err}
	}
	return inserted, nil
}
