package challenges

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Breeds []Entry `yaml:"breeds"`
}

// Catalog is an in-memory Generator over a fixed list of entries.
type Catalog struct {
	lock    sync.Mutex
	entries []Entry
	rng     *rand.Rand
}

func NewCatalog(entries []Entry, rng *rand.Rand) (*Catalog, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Label == "" || e.Image == "" {
			return nil, fmt.Errorf("catalog entry %q is missing a label or image", e.Label)
		}
		if !e.Phase.Valid() {
			return nil, fmt.Errorf("catalog entry %s has unknown phase %q", e.Label, e.Phase)
		}
		if _, ok := seen[e.Label]; ok {
			return nil, fmt.Errorf("catalog entry %s is duplicated", e.Label)
		}
		seen[e.Label] = struct{}{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Catalog{
		entries: append([]Entry(nil), entries...),
		rng:     rng,
	}, nil
}

// ParseCatalog reads a YAML catalog with a top-level breeds list.
func ParseCatalog(data []byte, rng *rand.Rand) (*Catalog, error) {
	file := catalogFile{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %v", err)
	}
	return NewCatalog(file.Breeds, rng)
}

func LoadCatalog(path string, rng *rand.Rand) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %v", path, err)
	}
	return ParseCatalog(data, rng)
}

// DefaultCatalog returns the catalog bundled with the binary.
func DefaultCatalog(rng *rand.Rand) (*Catalog, error) {
	return ParseCatalog(defaultCatalog, rng)
}

func (c *Catalog) HasAvailable(ctx context.Context, phase types.Phase, used types.LabelSet) (bool, error) {
	available, err := c.ListAvailable(ctx, phase, used)
	if err != nil {
		return false, err
	}
	return len(available) > 0, nil
}

func (c *Catalog) ListAvailable(ctx context.Context, phase types.Phase, used types.LabelSet) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []Entry{}
	for _, e := range c.entries {
		if e.Phase == phase && !used.Has(e.Label) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *Catalog) ListByPhase(ctx context.Context, phase types.Phase) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []Entry{}
	for _, e := range c.entries {
		if e.Phase == phase {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *Catalog) Generate(ctx context.Context, phase types.Phase, used types.LabelSet) (*types.Challenge, error) {
	available, err := c.ListAvailable(ctx, phase, used)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, ErrExhausted
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	correct := available[c.rng.Intn(len(available))]
	distractor, ok := c.pickDistractor(correct)
	if !ok {
		return nil, fmt.Errorf("no distractor for %s: %w", correct.Label, ErrInsufficientContent)
	}
	return BuildChallenge(correct, distractor, c.rng.Intn(2), phase)
}

// pickDistractor prefers another label of the same phase and falls back to
// any other label in the catalog.
func (c *Catalog) pickDistractor(correct Entry) (Entry, bool) {
	samePhase := []Entry{}
	others := []Entry{}
	for _, e := range c.entries {
		if e.Label == correct.Label || e.Image == correct.Image {
			continue
		}
		if e.Phase == correct.Phase {
			samePhase = append(samePhase, e)
		} else {
			others = append(others, e)
		}
	}
	if len(samePhase) > 0 {
		return samePhase[c.rng.Intn(len(samePhase))], true
	}
	if len(others) > 0 {
		return others[c.rng.Intn(len(others))], true
	}
	return Entry{}, false
}

// BuildChallenge places correct in slot and distractor in the other slot.
func BuildChallenge(correct, distractor Entry, slot int, phase types.Phase) (*types.Challenge, error) {
	return types.NewChallenge(correct.Label, correct.Image, distractor.Image, slot, phase)
}
