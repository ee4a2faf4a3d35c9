// Package grammar resolves language ids to cached tree-sitter parsers.
//
// The Registry is owned by the composition root. Grammars load lazily on
// first request and live until Reset. A failed load is never cached, so the
// next request searches the locator's candidates again.
package grammar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/sync/singleflight"

	"github.com/dusk-indust/srclens/internal/diag"
)

// initState tracks the one-time runtime initialization.
type initState int

const (
	stateUninitialized initState = iota
	stateInitializing
	stateReady
)

// Handle is a grammar bound to its language. It is safe for concurrent use:
// every Parse call gets its own tree-sitter parser.
type Handle struct {
	lang    Language
	grammar *tree_sitter.Language
	source  string
}

// Language returns the language the handle was loaded for.
func (h *Handle) Language() Language { return h.lang }

// Grammar returns the compiled tree-sitter grammar, for building queries.
func (h *Handle) Grammar() *tree_sitter.Language { return h.grammar }

// Source names the candidate the grammar was loaded from.
func (h *Handle) Source() string { return h.source }

// Parse parses source into a Tree. The caller must Close the tree.
func (h *Handle) Parse(source []byte) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(h.grammar); err != nil {
		return nil, fmt.Errorf("set language %s: %w", h.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", h.lang)
	}
	return &Tree{tree: tree, source: source}, nil
}

// Registry resolves language ids to cached parser handles.
type Registry struct {
	locator Locator
	sink    diag.Sink
	initFn  func(ctx context.Context) error

	mu      sync.Mutex
	state   initState
	handles map[Language]*Handle

	initGroup singleflight.Group
	loadGroup singleflight.Group
}

// Option configures a Registry.
type Option func(*Registry)

// WithLocator sets the grammar locator. The default is BuiltinLocator.
func WithLocator(l Locator) Option {
	return func(r *Registry) { r.locator = l }
}

// WithSink sets the diagnostic sink.
func WithSink(s diag.Sink) Option {
	return func(r *Registry) { r.sink = diag.Safe(s) }
}

// WithInit replaces the runtime initialization step.
func WithInit(fn func(ctx context.Context) error) Option {
	return func(r *Registry) { r.initFn = fn }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		locator: BuiltinLocator(),
		sink:    diag.Nop(),
		initFn:  initRuntime,
		handles: make(map[Language]*Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// initRuntime checks that the tree-sitter C runtime can allocate a parser.
func initRuntime(_ context.Context) error {
	p := tree_sitter.NewParser()
	if p == nil {
		return fmt.Errorf("tree-sitter runtime unavailable")
	}
	p.Close()
	return nil
}

// Init runs the one-time runtime initialization. Concurrent callers share a
// single in-flight initialization; a failure resets the state so the next
// call retries.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case stateReady:
		r.mu.Unlock()
		return nil
	case stateUninitialized:
		r.state = stateInitializing
	}
	r.mu.Unlock()

	// The flight outlives any single caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	ch := r.initGroup.DoChan("init", func() (any, error) {
		r.mu.Lock()
		if r.state == stateReady {
			r.mu.Unlock()
			return nil, nil
		}
		r.state = stateInitializing
		r.mu.Unlock()

		err := r.initFn(flightCtx)
		r.mu.Lock()
		if err != nil {
			r.state = stateUninitialized
		} else {
			r.state = stateReady
		}
		r.mu.Unlock()
		return nil, err
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetParser returns the parser handle for languageID. Unknown ids report
// false without logging. Load failures are logged and report false.
func (r *Registry) GetParser(ctx context.Context, languageID string) (*Handle, bool) {
	lang, ok := ResolveLanguage(languageID)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	h, ok := r.handles[lang]
	r.mu.Unlock()
	if ok {
		return h, true
	}

	if err := r.Init(ctx); err != nil {
		r.sink.Error("grammar runtime initialization failed", "language", lang, "error", err)
		return nil, false
	}

	v, err, _ := r.loadGroup.Do(string(lang), func() (any, error) {
		r.mu.Lock()
		cached, ok := r.handles[lang]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		loaded, err := r.load(lang)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if cached, ok := r.handles[lang]; ok {
			return cached, nil
		}
		r.handles[lang] = loaded
		return loaded, nil
	})
	if err != nil {
		r.sink.Error("grammar load failed", "language", lang, "error", err)
		return nil, false
	}
	return v.(*Handle), true
}

// load walks the locator's candidates and returns the first that binds to a
// parser.
func (r *Registry) load(lang Language) (h *Handle, err error) {
	candidates := r.locator.Candidates(lang)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no grammar candidates for %s", lang)
	}

	var lastErr error
	for _, c := range candidates {
		grammar, err := loadCandidate(c)
		if err != nil {
			r.sink.Warn("grammar candidate rejected", "language", lang, "candidate", c.Name, "error", err)
			lastErr = err
			continue
		}
		return &Handle{lang: lang, grammar: grammar, source: c.Name}, nil
	}
	return nil, fmt.Errorf("all %d grammar candidates failed for %s: %w", len(candidates), lang, lastErr)
}

// loadCandidate loads c and verifies the grammar is compatible with the
// linked runtime. Panics from the binding are reported as errors.
func loadCandidate(c Candidate) (grammar *tree_sitter.Language, err error) {
	defer func() {
		if p := recover(); p != nil {
			grammar, err = nil, fmt.Errorf("candidate %s panicked: %v", c.Name, p)
		}
	}()

	if c.Load == nil {
		return nil, fmt.Errorf("candidate %s has no loader", c.Name)
	}
	grammar, err = c.Load()
	if err != nil {
		return nil, err
	}
	if grammar == nil {
		return nil, ErrNilGrammar
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("incompatible grammar %s: %w", c.Name, err)
	}
	return grammar, nil
}

// Loaded returns the languages with a cached handle, sorted.
func (r *Registry) Loaded() []Language {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Language, 0, len(r.handles))
	for l := range r.handles {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset drops every cached handle and the runtime initialization state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles = make(map[Language]*Handle)
	r.state = stateUninitialized
}
