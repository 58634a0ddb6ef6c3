package kinship

import (
	"context"
	"time"
)

// Dataset is one read of the relation store. Revision identifies the
// relation set; an unchanged non-empty revision skips the rebuild.
type Dataset struct {
	Persons   []Person
	Relations []Relation
	Revision  string
}

// Source is the read side of a relation store.
type Source interface {
	Load(ctx context.Context) (Dataset, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Dataset, error)

func (f SourceFunc) Load(ctx context.Context) (Dataset, error) { return f(ctx) }

// StaticSource serves a fixed dataset.
type StaticSource Dataset

func (s StaticSource) Load(context.Context) (Dataset, error) { return Dataset(s), nil }

// PhraseRequest is what the phrasing collaborator sees: the raw path, the
// people along it and the deterministic term.
type PhraseRequest struct {
	People       []Person
	Types        []RelationType
	Normalized   []RelationType
	Term         Term
	TargetGender Gender
}

// Augmenter turns a resolved relationship into display text. Failures are
// reported as errors wrapping ErrAugmenterUnavailable.
type Augmenter interface {
	Phrase(ctx context.Context, req PhraseRequest) (string, error)
}

// Observer receives engine measurements.
type Observer interface {
	ObserveResolve(c Confidence, d time.Duration)
	ObserveResolveError(kind string)
	ObserveSnapshot(version uint64, d time.Duration, stats BuildStats)
	ObservePhrasing(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveResolve(Confidence, time.Duration)          {}
func (nopObserver) ObserveResolveError(string)                        {}
func (nopObserver) ObserveSnapshot(uint64, time.Duration, BuildStats) {}
func (nopObserver) ObservePhrasing(string)                            {}
