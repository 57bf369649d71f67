package stacks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/mod/semver"

	"github.com/opscart/stack-advisor/pkg/advisor"
)

// ErrUnknownStack is returned when no layer matches the requested stack
var ErrUnknownStack = errors.New("unknown stack")

type layer struct {
	version string // canonical semver, e.g. v2.6.0
	rules   *advisor.RuleSet
}

// Registry holds versioned rule-set layers per stack name
type Registry struct {
	mu     sync.RWMutex
	stacks map[string][]layer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{stacks: make(map[string][]layer)}
}

// Register adds a rule-set layer for a stack version. Registering the same
// version twice replaces the earlier layer.
func (r *Registry) Register(stack, version string, rules *advisor.RuleSet) error {
	v, err := NormalizeVersion(version)
	if err != nil {
		return err
	}
	key := strings.ToUpper(stack)

	r.mu.Lock()
	defer r.mu.Unlock()

	layers := r.stacks[key]
	for i := range layers {
		if semver.Compare(layers[i].version, v) == 0 {
			layers[i].rules = rules
			return nil
		}
	}
	layers = append(layers, layer{version: v, rules: rules})
	sort.Slice(layers, func(i, j int) bool {
		return semver.Compare(layers[i].version, layers[j].version) < 0
	})
	r.stacks[key] = layers
	return nil
}

// Resolve merges every layer of the stack whose version is at or below the
// requested one, oldest first.
func (r *Registry) Resolve(stack, version string) (*advisor.RuleSet, error) {
	v, err := NormalizeVersion(version)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var sets []*advisor.RuleSet
	for _, l := range r.stacks[strings.ToUpper(stack)] {
		if semver.Compare(l.version, v) <= 0 {
			sets = append(sets, l.rules)
		}
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownStack, stack, version)
	}
	return advisor.Merge(sets...), nil
}

// Versions lists the registered versions of a stack, oldest first
func (r *Registry) Versions(stack string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, l := range r.stacks[strings.ToUpper(stack)] {
		out = append(out, strings.TrimPrefix(l.version, "v"))
	}
	return out
}

// NormalizeVersion turns stack versions such as "2.6" or "2.6.3.0-235" into
// canonical semver ("v2.6.0", "v2.6.3"). Only the first three numeric parts
// are significant.
func NormalizeVersion(version string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if i := strings.IndexAny(v, "-_+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	candidate := "v" + strings.Join(parts, ".")
	if !semver.IsValid(candidate) {
		return "", fmt.Errorf("invalid stack version %q", version)
	}
	return semver.Canonical(candidate), nil
}
