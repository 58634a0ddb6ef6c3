package kinship

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, ds Dataset, opts EngineOptions) *Engine {
	t.Helper()
	e := NewEngine(StaticSource(ds), defaultResolver(t), nil, opts)
	if _, _, err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return e
}

func mustResolve(t *testing.T, e *Engine, from, to string) *Result {
	t.Helper()
	res, err := e.Resolve(context.Background(), from, to, ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve(%s,%s): %v", from, to, err)
	}
	return res
}

func TestResolveSelf(t *testing.T) {
	e := newTestEngine(t, Dataset{Persons: []Person{person("a", Male), person("b", Female)}}, EngineOptions{})
	for _, id := range []string{"a", "b"} {
		res := mustResolve(t, e, id, id)
		if res.Term != SelfTerm || res.Confidence != ConfidenceExact || len(res.Path) != 0 {
			t.Fatalf("self(%s)=%+v", id, res)
		}
	}
}

func TestScenarioFatherDaughter(t *testing.T) {
	e := newTestEngine(t, Dataset{
		Persons:   []Person{person("A", Male), person("B", Female)},
		Relations: []Relation{rel("r1", "A", "B", Buwa)},
	}, EngineOptions{})

	res := mustResolve(t, e, "B", "A")
	if res.Term != "बुवा" || res.Confidence != ConfidenceExact {
		t.Fatalf("B->A=%+v", res)
	}
	res = mustResolve(t, e, "A", "B")
	if res.Term != "छोरी" || res.Confidence != ConfidenceExact {
		t.Fatalf("A->B=%+v", res)
	}
	if !reflect.DeepEqual(res.Path, []RelationType{Chhori}) {
		t.Fatalf("path=%v", res.Path)
	}
}

func TestScenarioGrandfatherFallsBack(t *testing.T) {
	e := newTestEngine(t, Dataset{
		Persons:   []Person{person("A", Male), person("B", Male), person("C", Male)},
		Relations: []Relation{rel("r1", "A", "B", Buwa), rel("r2", "B", "C", Buwa)},
	}, EngineOptions{})

	res := mustResolve(t, e, "C", "A")
	if !reflect.DeepEqual(res.Path, []RelationType{Buwa, Buwa}) {
		t.Fatalf("path=%v", res.Path)
	}
	if res.Confidence != ConfidenceFallback || res.Term != "नातेदार (पुरुष)" {
		t.Fatalf("res=%+v", res)
	}
}

func TestScenarioSpouseChildCollapses(t *testing.T) {
	e := newTestEngine(t, Dataset{
		Persons: []Person{person("A", Male), person("B", Female), person("C", Male)},
		Relations: []Relation{
			rel("r1", "A", "B", Shreeman),
			rel("r2", "C", "B", Chhora),
		},
	}, EngineOptions{})

	res := mustResolve(t, e, "A", "C")
	if !reflect.DeepEqual(res.RawPath, []RelationType{Shreemati, Chhora}) {
		t.Fatalf("raw=%v", res.RawPath)
	}
	if !reflect.DeepEqual(res.Path, []RelationType{Chhora}) {
		t.Fatalf("path=%v", res.Path)
	}
	if res.Term != "छोरा" || res.Confidence != ConfidenceExact {
		t.Fatalf("res=%+v", res)
	}
}

func TestScenarioCompoundPattern(t *testing.T) {
	e := newTestEngine(t, Dataset{
		Persons:   []Person{person("X", Female), person("F", Male), person("U", Male)},
		Relations: []Relation{rel("r1", "F", "X", Buwa), rel("r2", "U", "F", Daju)},
	}, EngineOptions{})

	res := mustResolve(t, e, "X", "U")
	if res.Confidence != ConfidencePattern || res.Term != "काका / ठूलो बुवा" {
		t.Fatalf("res=%+v", res)
	}
}

func TestEveryRelationTypeResolvesBothWays(t *testing.T) {
	for _, typ := range AllRelationTypes() {
		for _, g := range []Gender{Male, Female, Unspecified} {
			e := newTestEngine(t, Dataset{
				Persons:   []Person{person("A", Male), person("B", g)},
				Relations: []Relation{rel("r", "A", "B", typ)},
			}, EngineOptions{})

			label, _ := LabelOf(typ)
			res := mustResolve(t, e, "B", "A")
			if res.Term != label.Nepali || res.Confidence != ConfidenceExact {
				t.Fatalf("%s/%s B->A=%+v", typ, g, res)
			}

			inv, _ := Inverse(typ, g)
			invLabel, _ := LabelOf(inv)
			res = mustResolve(t, e, "A", "B")
			if res.Term != invLabel.Nepali || res.Confidence != ConfidenceExact {
				t.Fatalf("%s/%s A->B=%+v want %s", typ, g, res, invLabel.Nepali)
			}
		}
	}
}

func TestResolveDeterministicAcrossBuilds(t *testing.T) {
	ds := Dataset{
		Persons: []Person{person("a", Male), person("b", Female), person("c", Male), person("d", Female)},
		Relations: []Relation{
			rel("r1", "a", "b", Buwa),
			rel("r2", "a", "c", Buwa),
			rel("r3", "d", "a", Shreemati),
			rel("r4", "c", "b", Daju),
		},
	}
	e1 := newTestEngine(t, ds, EngineOptions{})
	e2 := newTestEngine(t, ds, EngineOptions{})
	ids := []string{"a", "b", "c", "d"}
	for _, from := range ids {
		for _, to := range ids {
			r1 := mustResolve(t, e1, from, to)
			r2 := mustResolve(t, e2, from, to)
			if r1.Term != r2.Term || !reflect.DeepEqual(r1.RawPath, r2.RawPath) || !reflect.DeepEqual(r1.People, r2.People) {
				t.Fatalf("%s->%s differs: %+v vs %+v", from, to, r1, r2)
			}
		}
	}
}

func TestResolveNegativeResults(t *testing.T) {
	e := newTestEngine(t, Dataset{
		Persons: []Person{person("x", Male), person("y", Female)},
	}, EngineOptions{})

	if _, err := e.Resolve(context.Background(), "x", "y", ResolveOptions{}); !errors.Is(err, ErrNoPathFound) {
		t.Fatalf("disconnected err=%v", err)
	}
	if _, err := e.Resolve(context.Background(), "ghost-id", "x", ResolveOptions{}); !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("ghost err=%v", err)
	}
}

func TestResolveBeforeRefresh(t *testing.T) {
	e := NewEngine(StaticSource(Dataset{}), nil, nil, EngineOptions{})
	if _, err := e.Resolve(context.Background(), "a", "b", ResolveOptions{}); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("err=%v", err)
	}
}

type fakeAugmenter struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
	last  PhraseRequest
	mu    sync.Mutex
}

func (f *fakeAugmenter) Phrase(ctx context.Context, req PhraseRequest) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func phraseDataset() Dataset {
	return Dataset{
		Persons:   []Person{person("A", Male), person("B", Female)},
		Relations: []Relation{rel("r1", "A", "B", Buwa)},
	}
}

func TestAugmenterFailureKeepsDeterministicTerm(t *testing.T) {
	ok := &fakeAugmenter{text: "Chhori (Daughter)"}
	failing := &fakeAugmenter{err: ErrAugmenterUnavailable}
	empty := &fakeAugmenter{}

	base := mustResolve(t, newTestEngine(t, phraseDataset(), EngineOptions{}), "A", "B")

	for name, aug := range map[string]*fakeAugmenter{"ok": ok, "failing": failing, "empty": empty} {
		e := newTestEngine(t, phraseDataset(), EngineOptions{Augmenter: aug})
		res, err := e.Resolve(context.Background(), "A", "B", ResolveOptions{Phrase: true})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if res.Term != base.Term || res.Confidence != base.Confidence {
			t.Fatalf("%s: term changed: %+v", name, res)
		}
		switch name {
		case "ok":
			if res.Phrase != "Chhori (Daughter)" || res.Phrasing != PhrasingAugmented {
				t.Fatalf("ok: %+v", res)
			}
		default:
			if res.Phrase != base.Term || res.Phrasing != PhrasingUnavailable || res.PhrasingError == "" {
				t.Fatalf("%s: %+v", name, res)
			}
		}
	}

	ok.mu.Lock()
	last := ok.last
	ok.mu.Unlock()
	if len(last.People) != 2 || last.People[1].ID != "B" || last.TargetGender != Female {
		t.Fatalf("request=%+v", last)
	}
}

func TestAugmenterCancelledContextReturnsPromptly(t *testing.T) {
	slow := &fakeAugmenter{text: "late", delay: 5 * time.Second}
	e := newTestEngine(t, phraseDataset(), EngineOptions{Augmenter: slow})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	res, err := e.Resolve(ctx, "A", "B", ResolveOptions{Phrase: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("blocked for %s", time.Since(start))
	}
	if res.Phrasing != PhrasingUnavailable || res.Phrase != "छोरी" {
		t.Fatalf("res=%+v", res)
	}
}

func TestPhraseNotRequestedSkipsAugmenter(t *testing.T) {
	aug := &fakeAugmenter{text: "x"}
	e := newTestEngine(t, phraseDataset(), EngineOptions{Augmenter: aug})
	res := mustResolve(t, e, "A", "B")
	if aug.calls.Load() != 0 || res.Phrasing != PhrasingSkipped {
		t.Fatalf("calls=%d res=%+v", aug.calls.Load(), res)
	}
}

func TestRefreshSkipsUnchangedRevision(t *testing.T) {
	var loads atomic.Int32
	revision := "rev-1"
	var mu sync.Mutex
	src := SourceFunc(func(ctx context.Context) (Dataset, error) {
		loads.Add(1)
		mu.Lock()
		defer mu.Unlock()
		ds := phraseDataset()
		ds.Revision = revision
		return ds, nil
	})
	var swaps atomic.Int32
	e := NewEngine(src, nil, nil, EngineOptions{OnSwap: func(*Snapshot) { swaps.Add(1) }})

	s1, changed, err := e.Refresh(context.Background())
	if err != nil || !changed || s1.Version != 1 {
		t.Fatalf("first: snap=%+v changed=%v err=%v", s1, changed, err)
	}
	s2, changed, err := e.Refresh(context.Background())
	if err != nil || changed || s2 != s1 {
		t.Fatalf("second: changed=%v err=%v", changed, err)
	}

	mu.Lock()
	revision = "rev-2"
	mu.Unlock()
	s3, changed, err := e.Refresh(context.Background())
	if err != nil || !changed || s3.Version != 2 {
		t.Fatalf("third: snap=%+v changed=%v err=%v", s3, changed, err)
	}
	if swaps.Load() != 2 || loads.Load() != 3 {
		t.Fatalf("swaps=%d loads=%d", swaps.Load(), loads.Load())
	}
}

func TestFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	bad := false
	src := SourceFunc(func(ctx context.Context) (Dataset, error) {
		if bad {
			return Dataset{
				Persons:   []Person{person("a", Male), person("b", Male)},
				Relations: []Relation{rel("r", "a", "b", RelationType("cousin"))},
				Revision:  "bad",
			}, nil
		}
		ds := phraseDataset()
		ds.Revision = "good"
		return ds, nil
	})
	e := NewEngine(src, nil, nil, EngineOptions{})
	if _, _, err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	bad = true
	snap, _, err := e.Refresh(context.Background())
	if !errors.Is(err, ErrUnmappedRelationType) {
		t.Fatalf("err=%v", err)
	}
	if snap == nil || snap.Revision != "good" || e.Snapshot().Revision != "good" {
		t.Fatalf("snapshot replaced: %+v", snap)
	}
}

func TestQueriesKeepTheirSnapshot(t *testing.T) {
	e := newTestEngine(t, phraseDataset(), EngineOptions{})
	old := e.Snapshot()

	if _, err := e.Install(Dataset{Persons: []Person{person("Z", Male)}, Revision: "next"}); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if _, err := e.Resolve(context.Background(), "A", "B", ResolveOptions{}); !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("err=%v", err)
	}
	// the old snapshot is untouched and still answers
	path, err := old.Graph.FindPath("A", "B")
	if err != nil || len(path.Types) != 1 {
		t.Fatalf("old snapshot path=%+v err=%v", path, err)
	}
}

func TestConcurrentResolveDuringRefresh(t *testing.T) {
	e := newTestEngine(t, phraseDataset(), EngineOptions{})
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				res, err := e.Resolve(context.Background(), "A", "B", ResolveOptions{})
				if err != nil || res.Term != "छोरी" {
					t.Errorf("res=%+v err=%v", res, err)
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if _, err := e.Install(phraseDataset()); err != nil {
			t.Fatalf("Install: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestEngineLabelEdge(t *testing.T) {
	e := newTestEngine(t, phraseDataset(), EngineOptions{})
	r := rel("r1", "A", "B", Buwa)

	if got, err := e.LabelEdge(r, false); err != nil || got != "बुवा" {
		t.Fatalf("forward=%q err=%v", got, err)
	}
	if got, err := e.LabelEdge(r, true); err != nil || got != "छोरी" {
		t.Fatalf("reverse=%q err=%v", got, err)
	}
	for _, reverse := range []bool{false, true} {
		if _, err := e.LabelEdge(rel("r2", "A", "ghost", Buwa), reverse); !errors.Is(err, ErrPersonNotFound) {
			t.Fatalf("reverse=%v missing target err=%v", reverse, err)
		}
		if _, err := e.LabelEdge(rel("r3", "ghost", "B", Buwa), reverse); !errors.Is(err, ErrPersonNotFound) {
			t.Fatalf("reverse=%v missing source err=%v", reverse, err)
		}
	}
	empty := NewEngine(StaticSource(phraseDataset()), nil, nil, EngineOptions{})
	if _, err := empty.LabelEdge(r, false); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("forward label before refresh err=%v", err)
	}

	labels, err := e.LabelGraph()
	if err != nil || len(labels) != 1 {
		t.Fatalf("labels=%+v err=%v", labels, err)
	}
	if labels[0].Forward != "बुवा" || labels[0].Reverse != "छोरी" || labels[0].InverseType != Chhori {
		t.Fatalf("labels=%+v", labels[0])
	}
}

func TestConcurrentPublishKeepsNewestVersion(t *testing.T) {
	var published atomic.Uint64
	e := NewEngine(StaticSource(phraseDataset()), nil, nil, EngineOptions{
		OnSwap: func(*Snapshot) { published.Add(1) },
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := e.Install(phraseDataset()); err != nil {
					t.Errorf("Install: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, _, err := e.Refresh(context.Background()); err != nil {
					t.Errorf("Refresh: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got, want := e.Snapshot().Version, published.Load(); got != want {
		t.Fatalf("current version=%d, published %d snapshots", got, want)
	}
}
