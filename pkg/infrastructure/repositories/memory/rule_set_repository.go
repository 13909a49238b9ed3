package memory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/domain/repositories"
)

// ErrUnknownRuleSet is returned when a rule set name is not registered
var ErrUnknownRuleSet = errors.New("unknown rule set")

// RuleSetRepository provides in-memory storage of named business rule sets
type RuleSetRepository struct {
	ruleSets map[string]*entities.BusinessRuleSet
}

// NewRuleSetRepository creates a repository seeded with the given rule sets
func NewRuleSetRepository(seed map[string]*entities.BusinessRuleSet) *RuleSetRepository {
	r := &RuleSetRepository{
		ruleSets: make(map[string]*entities.BusinessRuleSet, len(seed)),
	}
	for name, ruleSet := range seed {
		r.ruleSets[name] = ruleSet.Clone()
	}
	return r
}

// Verify interface compliance
var _ repositories.RuleSetRepository = (*RuleSetRepository)(nil)

// GetRuleSet returns a copy of the named rule set
func (r *RuleSetRepository) GetRuleSet(name string) (*entities.BusinessRuleSet, error) {
	ruleSet, exists := r.ruleSets[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRuleSet, name)
	}
	return ruleSet.Clone(), nil
}

// ListRuleSets returns the registered rule set names in sorted order
func (r *RuleSetRepository) ListRuleSets() ([]string, error) {
	names := make([]string, 0, len(r.ruleSets))
	for name := range r.ruleSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SaveRuleSet registers a rule set under its name, replacing any previous one
func (r *RuleSetRepository) SaveRuleSet(ruleSet *entities.BusinessRuleSet) error {
	if ruleSet == nil {
		return fmt.Errorf("rule set cannot be nil")
	}
	if err := ruleSet.Validate(); err != nil {
		return fmt.Errorf("invalid rule set %s: %w", ruleSet.Name, err)
	}
	r.ruleSets[ruleSet.Name] = ruleSet.Clone()
	return nil
}
