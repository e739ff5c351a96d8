package ingest

import (
	"fmt"
	"sort"
	"sync"
)

// Fields is what a Strategy extracts from one block.
type Fields struct {
	Title   string
	Authors []string
	// Rule names the strategy that produced the fields.
	Rule string
}

// Strategy splits a block into a title and a byline. Extract returns false
// when the block does not have the shape the strategy recognises.
type Strategy interface {
	Name() string
	Extract(b Block) (Fields, bool)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc struct {
	ID string
	Fn func(b Block) (Fields, bool)
}

func (s StrategyFunc) Name() string { return s.ID }

func (s StrategyFunc) Extract(b Block) (Fields, bool) { return s.Fn(b) }

type chain struct {
	name  string
	rules []Strategy
}

// Chain tries each strategy in order and returns the first match. It always
// succeeds: when no strategy matches it yields empty Fields.
func Chain(name string, rules ...Strategy) Strategy {
	return chain{name: name, rules: rules}
}

func (c chain) Name() string { return c.name }

func (c chain) Extract(b Block) (Fields, bool) {
	for _, r := range c.rules {
		if f, ok := r.Extract(b); ok {
			if f.Rule == "" {
				f.Rule = r.Name()
			}
			return f, true
		}
	}
	return Fields{Rule: c.name}, true
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Strategy{}
)

// Register makes a strategy available by name. Registering a duplicate name panics.
func Register(s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.Name()]; dup {
		panic(fmt.Sprintf("ingest: strategy %q registered twice", s.Name()))
	}
	registry[s.Name()] = s
}

// Lookup returns the registered strategy with the given name.
func Lookup(name string) (Strategy, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DefaultStrategy is used when no strategy option is given.
const DefaultStrategy = "auto"

func init() {
	Register(AuthorDate)
	Register(Quoted)
	Register(Lines)
	Register(Sentences)
	Register(BylineFirst)
	Register(TitleFirst)
	Register(Fallback)
	Register(Chain(DefaultStrategy, AuthorDate, Quoted, Lines, Sentences, Fallback))
}
