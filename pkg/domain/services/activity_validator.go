package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// ActivityValidator normalizes and checks schedule records before they reach the engine
type ActivityValidator struct {
	ruleSet   *entities.BusinessRuleSet
	rigs      *AliasTable
	locations *AliasTable
	validate  *validator.Validate
}

// NewActivityValidator creates a validator bound to a rule set's reference tables
func NewActivityValidator(ruleSet *entities.BusinessRuleSet) *ActivityValidator {
	locationAliases := make(map[string]string, len(ruleSet.LocationAliases)+len(ruleSet.Locations))
	for key, profile := range ruleSet.Locations {
		locationAliases[string(key)] = string(key)
		if profile.DisplayName != "" {
			locationAliases[profile.DisplayName] = string(key)
		}
	}
	for alias, key := range ruleSet.LocationAliases {
		locationAliases[alias] = string(key)
	}

	return &ActivityValidator{
		ruleSet:   ruleSet,
		rigs:      NewAliasTable(ruleSet.RigAliases),
		locations: NewAliasTable(locationAliases),
		validate:  validator.New(),
	}
}

// ValidationResult contains accepted records plus any per-record findings
type ValidationResult struct {
	Accepted []*entities.RigActivity
	Issues   []entities.RecordIssue
}

// Rejected returns only the issues that dropped a record
func (r *ValidationResult) Rejected() []entities.RecordIssue {
	var rejected []entities.RecordIssue
	for _, issue := range r.Issues {
		if issue.Severity == entities.SeverityRejected {
			rejected = append(rejected, issue)
		}
	}
	return rejected
}

// Warnings returns the non-fatal issues
func (r *ValidationResult) Warnings() []entities.RecordIssue {
	var warnings []entities.RecordIssue
	for _, issue := range r.Issues {
		if issue.Severity == entities.SeverityWarning {
			warnings = append(warnings, issue)
		}
	}
	return warnings
}

// Err aggregates rejected records into one error, or nil when nothing was rejected
func (r *ValidationResult) Err() error {
	var result *multierror.Error
	for _, issue := range r.Rejected() {
		result = multierror.Append(result, issue)
	}
	return result.ErrorOrNil()
}

// Validate resolves aliases and checks each record. Invalid records are skipped
// with a reason; the rest of the batch is still accepted.
func (v *ActivityValidator) Validate(activities []*entities.RigActivity) *ValidationResult {
	result := &ValidationResult{
		Accepted: make([]*entities.RigActivity, 0, len(activities)),
		Issues:   make([]entities.RecordIssue, 0),
	}

	for i, activity := range activities {
		if activity == nil {
			result.Issues = append(result.Issues, entities.RecordIssue{
				Index:    i,
				Severity: entities.SeverityRejected,
				Reason:   "record is empty",
			})
			continue
		}

		normalized, issues := v.normalize(i, activity)
		result.Issues = append(result.Issues, issues...)
		if normalized != nil {
			result.Accepted = append(result.Accepted, normalized)
		}
	}

	return result
}

// CanonicalRigName resolves a rig name through the alias table
func (v *ActivityValidator) CanonicalRigName(raw string) string {
	name, _ := v.rigs.Resolve(raw)
	return name
}

// CanonicalLocation resolves a location name or alias to its key
func (v *ActivityValidator) CanonicalLocation(raw string) entities.LocationKey {
	key, ok := v.locations.Resolve(raw)
	if !ok {
		return entities.NormalizeLocationKey(raw)
	}
	return entities.LocationKey(key)
}

func (v *ActivityValidator) normalize(index int, activity *entities.RigActivity) (*entities.RigActivity, []entities.RecordIssue) {
	var issues []entities.RecordIssue
	reject := func(reason string) (*entities.RigActivity, []entities.RecordIssue) {
		issues = append(issues, entities.RecordIssue{
			Index:    index,
			RigName:  activity.RigName,
			Severity: entities.SeverityRejected,
			Reason:   reason,
		})
		return nil, issues
	}
	warn := func(reason string) {
		issues = append(issues, entities.RecordIssue{
			Index:    index,
			RigName:  activity.RigName,
			Severity: entities.SeverityWarning,
			Reason:   reason,
		})
	}

	rigName, mapped := v.rigs.Resolve(activity.RigName)
	if rigName == "" {
		return reject("rig name cannot be empty")
	}
	if !mapped && v.rigs.Enabled() {
		warn(fmt.Sprintf("rig name %q has no alias mapping", rigName))
	}

	if activity.StartDate.IsZero() || activity.EndDate.IsZero() {
		return reject("activity dates cannot be empty")
	}
	if activity.StartDate.After(activity.EndDate) {
		return reject(fmt.Sprintf("%v: %s > %s", entities.ErrInvalidDateRange,
			activity.StartDate.Format(entities.DateLayout), activity.EndDate.Format(entities.DateLayout)))
	}

	location, known := v.locations.Resolve(string(activity.Location))
	locationKey := entities.LocationKey(location)
	if !known {
		locationKey = entities.NormalizeLocationKey(location)
		if locationKey == "" {
			return reject("location cannot be empty")
		}
		warn(fmt.Sprintf("unknown location %q, using default profile", activity.Location))
	}

	code, recognized := entities.ParseActivityType(string(activity.ActivityType))
	if code == "" {
		return reject("activity type cannot be empty")
	}
	if !recognized {
		warn(fmt.Sprintf("unknown activity type %q, using default multiplier", activity.ActivityType))
	} else if _, ok := v.ruleSet.ActivityTypes[code]; !ok {
		warn(fmt.Sprintf("activity type %s missing from rule set %s, using default multiplier", code, v.ruleSet.Name))
	}

	normalized := &entities.RigActivity{
		RigName:          rigName,
		Location:         locationKey,
		ActivityType:     code,
		StartDate:        activity.StartDate,
		EndDate:          activity.EndDate,
		IsBatchOperation: activity.IsBatchOperation,
	}
	if err := v.validate.Struct(normalized); err != nil {
		return reject(formatValidationError(err))
	}

	return normalized, issues
}

func formatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
	}
	return strings.Join(messages, "; ")
}
