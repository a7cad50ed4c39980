package lexicon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// ErrInvalidPack is returned for a pack file missing a name or terms.
var ErrInvalidPack = errors.New("invalid lexicon pack")

// Set is an immutable, ordered collection of packs. The built-in pack is
// always first.
type Set struct {
	packs []*Pack
}

// NewSet returns a set holding the built-in pack followed by extra.
// Extra packs that reuse a name already in the set are ignored.
func NewSet(extra ...*Pack) *Set {
	packs := []*Pack{SustainableFashion()}
	seen := map[string]struct{}{SustainableFashionName: {}}
	for _, p := range extra {
		if p == nil {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		packs = append(packs, p)
	}
	return &Set{packs: packs}
}

// Packs returns the packs in order.
func (s *Set) Packs() []*Pack {
	return s.packs
}

// Detected returns the packs whose vocabulary occurs in text, in set order.
func (s *Set) Detected(text string) []*Pack {
	var out []*Pack
	for _, p := range s.packs {
		if p.Detect(text) {
			out = append(out, p)
		}
	}
	return out
}

// Expand returns the distinct keywords followed by every vocabulary term that
// contains, or is contained in, one of them.
func (s *Set) Expand(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	add := func(w string) {
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, w := range keywords {
		add(w)
	}
	for _, w := range keywords {
		for _, p := range s.packs {
			for _, term := range p.Terms {
				if strings.Contains(term, w) || strings.Contains(w, term) {
					add(term)
				}
			}
		}
	}
	return out
}

// Registry holds the current Set and swaps it atomically on reload.
type Registry struct {
	current atomic.Pointer[Set]
}

// NewRegistry returns a registry holding only the built-in pack.
func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(NewSet())
	return r
}

// Snapshot returns the active set. Callers keep it for the whole request.
func (r *Registry) Snapshot() *Set {
	return r.current.Load()
}

// Replace installs a new set built from extra packs.
func (r *Registry) Replace(extra []*Pack) {
	r.current.Store(NewSet(extra...))
}

// Reload reads dir and installs its packs. On error the active set is kept.
func (r *Registry) Reload(dir string) ([]*Pack, error) {
	packs, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	r.Replace(packs)
	return packs, nil
}

// LoadDir reads every .yaml/.yml file in dir as a pack, ordered by file name.
func LoadDir(dir string) ([]*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsPackFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	packs := make([]*Pack, 0, len(names))
	for _, name := range names {
		p, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		packs = append(packs, p)
	}
	return packs, nil
}

// LoadFile reads a single pack file. Terms are trimmed and lower-cased;
// blank terms are dropped.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon pack: %w", err)
	}
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon pack %s: %w", filepath.Base(path), err)
	}
	terms := p.Terms[:0]
	for _, t := range p.Terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	p.Terms = terms
	if p.Name == "" || len(p.Terms) == 0 {
		return nil, fmt.Errorf("%w: %s needs a name and terms", ErrInvalidPack, filepath.Base(path))
	}
	if p.Category == "" {
		p.Category = p.Name
	}
	return &p, nil
}

// IsPackFile reports whether name has a pack file extension.
func IsPackFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
