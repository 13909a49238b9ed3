package repositories

import "github.com/vsinha/fleetcast/pkg/domain/entities"

// RuleSetRepository provides access to named business rule sets
type RuleSetRepository interface {
	GetRuleSet(name string) (*entities.BusinessRuleSet, error)
	ListRuleSets() ([]string, error)
	SaveRuleSet(ruleSet *entities.BusinessRuleSet) error
}
