package advisor

import (
	"fmt"

	"github.com/opscart/stack-advisor/pkg/models"
)

// Recommender derives property values for one service and writes them
// through the context. A returned error is recorded against the service;
// other services still run.
type Recommender func(c *Context) error

// Validator checks the properties of one config type. props are the current
// values, recommended the defaults computed for the same config type. It
// must not mutate anything.
type Validator func(props, recommended models.Properties, c *Context) []models.Finding

// RuleSet is one layer of recommenders and validators keyed by service name
type RuleSet struct {
	Name string

	// Recommenders run in order for a service present in the topology
	Recommenders map[string][]Recommender

	// Validators are keyed by service, then by config type
	Validators map[string]map[string][]Validator

	// Replace lists services whose recommenders drop those of earlier layers
	// instead of running after them
	Replace []string
}

// NewRuleSet returns an empty named rule set
func NewRuleSet(name string) *RuleSet {
	return &RuleSet{
		Name:         name,
		Recommenders: map[string][]Recommender{},
		Validators:   map[string]map[string][]Validator{},
	}
}

// AddRecommender appends a recommender for service
func (rs *RuleSet) AddRecommender(service string, r Recommender) *RuleSet {
	if rs.Recommenders == nil {
		rs.Recommenders = map[string][]Recommender{}
	}
	rs.Recommenders[service] = append(rs.Recommenders[service], r)
	return rs
}

// AddValidator appends a validator for the config type of a service
func (rs *RuleSet) AddValidator(service, configType string, v Validator) *RuleSet {
	if rs.Validators == nil {
		rs.Validators = map[string]map[string][]Validator{}
	}
	if rs.Validators[service] == nil {
		rs.Validators[service] = map[string][]Validator{}
	}
	rs.Validators[service][configType] = append(rs.Validators[service][configType], v)
	return rs
}

func (rs *RuleSet) replaces(service string) bool {
	for _, s := range rs.Replace {
		if s == service {
			return true
		}
	}
	return false
}

// Merge layers rule sets from base to most specific. For each service the
// recommenders of a later set run after the earlier ones, unless the later
// set replaces that service. Validators of a later set override earlier ones
// per (service, config type).
func Merge(sets ...*RuleSet) *RuleSet {
	merged := NewRuleSet("")
	for _, rs := range sets {
		if rs == nil {
			continue
		}
		if merged.Name == "" {
			merged.Name = rs.Name
		} else {
			merged.Name = fmt.Sprintf("%s+%s", merged.Name, rs.Name)
		}

		for service, recs := range rs.Recommenders {
			if rs.replaces(service) {
				merged.Recommenders[service] = nil
			}
			merged.Recommenders[service] = append(merged.Recommenders[service], recs...)
		}
		for _, service := range rs.Replace {
			if _, ok := rs.Recommenders[service]; !ok {
				delete(merged.Recommenders, service)
			}
		}

		for service, byType := range rs.Validators {
			if merged.Validators[service] == nil {
				merged.Validators[service] = map[string][]Validator{}
			}
			for configType, validators := range byType {
				merged.Validators[service][configType] = append([]Validator(nil), validators...)
			}
		}
	}
	return merged
}
