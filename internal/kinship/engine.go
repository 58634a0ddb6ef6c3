package kinship

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/vamshavali-backend/internal/kinship")

// Snapshot is one immutable build of the relation set. Queries hold on to the
// snapshot they started with; refreshes publish a new one.
type Snapshot struct {
	Version  uint64
	Revision string
	Graph    *Graph
	Stats    BuildStats
	BuiltAt  time.Time
}

type PhrasingStatus string

const (
	PhrasingSkipped     PhrasingStatus = "skipped"
	PhrasingAugmented   PhrasingStatus = "augmented"
	PhrasingUnavailable PhrasingStatus = "unavailable"
)

type Result struct {
	SourceID        string         `json:"source_id"`
	TargetID        string         `json:"target_id"`
	Term            string         `json:"term"`
	Roman           string         `json:"roman,omitempty"`
	Confidence      Confidence     `json:"confidence"`
	Path            []RelationType `json:"path"`
	RawPath         []RelationType `json:"raw_path"`
	People          []string       `json:"people"`
	SnapshotVersion uint64         `json:"snapshot_version"`

	// Phrase is the display text. It equals Term unless an augmenter answered.
	Phrase        string         `json:"phrase"`
	Phrasing      PhrasingStatus `json:"phrasing"`
	PhrasingError string         `json:"phrasing_error,omitempty"`
}

type ResolveOptions struct {
	Phrase bool
}

type EngineOptions struct {
	Augmenter Augmenter
	Observer  Observer
	// OnSwap runs after a new snapshot is published.
	OnSwap func(*Snapshot)
}

type Engine struct {
	source    Source
	resolver  *Resolver
	augmenter Augmenter
	observer  Observer
	log       *logger.Logger

	current atomic.Pointer[Snapshot]
	group   singleflight.Group

	// publishMu orders version assignment and the pointer store so a
	// published snapshot never has a lower version than its predecessor.
	publishMu sync.Mutex
	version   uint64

	mu     sync.Mutex
	onSwap []func(*Snapshot)
}

func NewEngine(source Source, resolver *Resolver, baseLog *logger.Logger, opts EngineOptions) *Engine {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	e := &Engine{
		source:    source,
		resolver:  resolver,
		augmenter: opts.Augmenter,
		observer:  obs,
		log:       baseLog.With("component", "KinshipEngine"),
	}
	if opts.OnSwap != nil {
		e.onSwap = append(e.onSwap, opts.OnSwap)
	}
	return e
}

// OnSwap registers a callback run after every published snapshot.
func (e *Engine) OnSwap(fn func(*Snapshot)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.onSwap = append(e.onSwap, fn)
	e.mu.Unlock()
}

func (e *Engine) Snapshot() *Snapshot { return e.current.Load() }

// Refresh reads the source and publishes a new snapshot when the revision
// changed. Concurrent callers share one load. A failed build keeps the
// previous snapshot.
func (e *Engine) Refresh(ctx context.Context) (*Snapshot, bool, error) {
	if e.source == nil {
		return nil, false, errors.New("kinship engine has no source")
	}
	type outcome struct {
		snap    *Snapshot
		changed bool
	}
	v, err, _ := e.group.Do("refresh", func() (interface{}, error) {
		ctx, span := tracer.Start(ctx, "kinship.Refresh")
		defer span.End()

		ds, err := e.source.Load(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load failed")
			return nil, fmt.Errorf("load relation set: %w", err)
		}
		if cur := e.current.Load(); cur != nil && ds.Revision != "" && cur.Revision == ds.Revision {
			span.SetAttributes(attribute.Bool("kinship.changed", false))
			return outcome{snap: cur}, nil
		}
		snap, err := e.install(ds)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "build failed")
			return nil, err
		}
		span.SetAttributes(
			attribute.Bool("kinship.changed", true),
			attribute.Int64("kinship.version", int64(snap.Version)),
			attribute.Int("kinship.persons", snap.Stats.Persons),
			attribute.Int("kinship.relations", snap.Stats.Relations),
		)
		return outcome{snap: snap, changed: true}, nil
	})
	if err != nil {
		e.log.Error("snapshot refresh failed", "error", err)
		return e.current.Load(), false, err
	}
	out := v.(outcome)
	return out.snap, out.changed, nil
}

// Install builds and publishes a snapshot from ds without consulting the source.
// It may run alongside Refresh; versions still increase in publish order.
func (e *Engine) Install(ds Dataset) (*Snapshot, error) {
	return e.install(ds)
}

func (e *Engine) install(ds Dataset) (*Snapshot, error) {
	start := time.Now()
	g, stats, err := BuildGraph(ds.Persons, ds.Relations)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Revision: ds.Revision,
		Graph:    g,
		Stats:    stats,
		BuiltAt:  time.Now().UTC(),
	}
	e.publishMu.Lock()
	e.version++
	snap.Version = e.version
	e.current.Store(snap)
	e.publishMu.Unlock()
	took := time.Since(start)
	e.observer.ObserveSnapshot(snap.Version, took, stats)

	fields := []interface{}{
		"version", snap.Version,
		"revision", snap.Revision,
		"persons", stats.Persons,
		"relations", stats.Relations,
		"duration_ms", took.Milliseconds(),
	}
	if stats.SkippedDangling > 0 || stats.SkippedSelfLinked > 0 || stats.DuplicatePersons > 0 {
		fields = append(fields,
			"skipped_dangling", stats.SkippedDangling,
			"skipped_self_linked", stats.SkippedSelfLinked,
			"duplicate_persons", stats.DuplicatePersons,
		)
		e.log.Warn("snapshot published with skipped records", fields...)
	} else {
		e.log.Info("snapshot published", fields...)
	}

	e.mu.Lock()
	hooks := append([]func(*Snapshot){}, e.onSwap...)
	e.mu.Unlock()
	for _, fn := range hooks {
		fn(snap)
	}
	return snap, nil
}

// Resolve names target from source's point of view against the current snapshot.
func (e *Engine) Resolve(ctx context.Context, sourceID, targetID string, opts ResolveOptions) (*Result, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	ctx, span := tracer.Start(ctx, "kinship.Resolve")
	defer span.End()
	span.SetAttributes(attribute.Int64("kinship.version", int64(snap.Version)))

	start := time.Now()
	res, err := e.resolveDeterministic(snap, sourceID, targetID)
	if err != nil {
		e.observer.ObserveResolveError(errorKind(err))
		if !errors.Is(err, ErrNoPathFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	e.observer.ObserveResolve(res.Confidence, time.Since(start))
	span.SetAttributes(
		attribute.String("kinship.confidence", string(res.Confidence)),
		attribute.Int("kinship.path_len", len(res.RawPath)),
	)

	if opts.Phrase && e.augmenter != nil {
		e.applyPhrase(ctx, snap, res)
	}
	return res, nil
}

func (e *Engine) resolveDeterministic(snap *Snapshot, sourceID, targetID string) (*Result, error) {
	path, err := snap.Graph.FindPath(sourceID, targetID)
	if err != nil {
		return nil, err
	}
	target, _ := snap.Graph.Person(targetID)
	norm := Normalize(path.Types)
	term := e.resolver.Resolve(norm, target.Gender)

	return &Result{
		SourceID:        sourceID,
		TargetID:        targetID,
		Term:            term.Text,
		Roman:           term.Roman,
		Confidence:      term.Confidence,
		Path:            norm,
		RawPath:         path.Types,
		People:          path.People,
		SnapshotVersion: snap.Version,
		Phrase:          term.Text,
		Phrasing:        PhrasingSkipped,
	}, nil
}

type phraseOutcome struct {
	text string
	err  error
}

// applyPhrase runs the augmenter in its own goroutine so a cancelled ctx
// returns immediately with the deterministic term in place.
func (e *Engine) applyPhrase(ctx context.Context, snap *Snapshot, res *Result) {
	req := PhraseRequest{
		People:     make([]Person, 0, len(res.People)),
		Types:      res.RawPath,
		Normalized: res.Path,
		Term:       Term{Text: res.Term, Roman: res.Roman, Confidence: res.Confidence},
	}
	for _, id := range res.People {
		p, _ := snap.Graph.Person(id)
		req.People = append(req.People, p)
	}
	if n := len(req.People); n > 0 {
		req.TargetGender = req.People[n-1].Gender
	}

	ch := make(chan phraseOutcome, 1)
	go func() {
		text, err := e.augmenter.Phrase(ctx, req)
		ch <- phraseOutcome{text: text, err: err}
	}()

	var out phraseOutcome
	select {
	case out = <-ch:
	case <-ctx.Done():
		out.err = fmt.Errorf("%w: %v", ErrAugmenterUnavailable, ctx.Err())
	}

	if out.err == nil && out.text == "" {
		out.err = fmt.Errorf("%w: empty response", ErrAugmenterUnavailable)
	}
	if out.err != nil {
		res.Phrasing = PhrasingUnavailable
		res.PhrasingError = out.err.Error()
		e.observer.ObservePhrasing(string(PhrasingUnavailable))
		e.log.Warn("phrasing unavailable, using deterministic term", "error", out.err, "confidence", res.Confidence)
		return
	}
	res.Phrase = out.text
	res.Phrasing = PhrasingAugmented
	e.observer.ObservePhrasing(string(PhrasingAugmented))
}

// LabelEdge labels rel in one direction. Both endpoints must exist in the
// current snapshot whichever direction is asked; the target's gender picks
// the reverse label.
func (e *Engine) LabelEdge(rel Relation, reverse bool) (string, error) {
	if !rel.Type.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnmappedRelationType, string(rel.Type))
	}
	snap := e.current.Load()
	if snap == nil {
		return "", ErrNoSnapshot
	}
	if _, ok := snap.Graph.Person(rel.SourceID); !ok {
		return "", personNotFound(rel.SourceID)
	}
	target, ok := snap.Graph.Person(rel.TargetID)
	if !ok {
		return "", personNotFound(rel.TargetID)
	}
	return LabelEdge(rel, target.Gender, reverse)
}

// LabelGraph returns both labels for every relation in the current snapshot.
func (e *Engine) LabelGraph() ([]EdgeLabels, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	rels := snap.Graph.Relations()
	out := make([]EdgeLabels, 0, len(rels))
	for _, r := range rels {
		l, err := labelRelation(snap.Graph, r)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (e *Engine) Resolver() *Resolver { return e.resolver }

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrPersonNotFound):
		return "person_not_found"
	case errors.Is(err, ErrNoPathFound):
		return "no_path"
	case errors.Is(err, ErrUnmappedRelationType):
		return "unmapped_relation_type"
	default:
		return "other"
	}
}
