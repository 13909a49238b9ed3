package forecast

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/fleetcast/pkg/application/dto"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/domain/services"
)

// EngineConfig holds optional knobs for the forecast engine
type EngineConfig struct {
	// DemandPolicy overrides the rule set's policy when set
	DemandPolicy entities.DemandPolicy
	// Logger receives lookup-miss and ingestion warnings (nil discards)
	Logger *slog.Logger
}

// ForecastRequest describes one forecast run
type ForecastRequest struct {
	Activities     []*entities.RigActivity
	StartMonth     time.Time
	HorizonMonths  int
	RigFilter      []string
	LocationFilter []string
}

// ForecastService runs ingest, filter, spread and aggregate for one rule set
type ForecastService struct {
	ruleSet    *entities.BusinessRuleSet
	config     EngineConfig
	logger     *slog.Logger
	validator  *services.ActivityValidator
	spreader   *Spreader
	aggregator *Aggregator
}

// NewForecastService creates a forecast service with default configuration
func NewForecastService(ruleSet *entities.BusinessRuleSet) (*ForecastService, error) {
	return NewForecastServiceWithConfig(ruleSet, EngineConfig{})
}

// NewForecastServiceWithConfig creates a forecast service with custom configuration
func NewForecastServiceWithConfig(ruleSet *entities.BusinessRuleSet, config EngineConfig) (*ForecastService, error) {
	if ruleSet == nil {
		return nil, fmt.Errorf("rule set cannot be nil")
	}
	if err := ruleSet.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "forecast", "rule_set", ruleSet.Name)

	return &ForecastService{
		ruleSet:    ruleSet,
		config:     config,
		logger:     logger,
		validator:  services.NewActivityValidator(ruleSet),
		spreader:   NewSpreader(ruleSet, config.DemandPolicy, logger),
		aggregator: NewAggregator(ruleSet),
	}, nil
}

// RuleSet returns the rule set the service was built with
func (s *ForecastService) RuleSet() *entities.BusinessRuleSet {
	return s.ruleSet
}

// Validator returns the ingestion validator bound to the rule set
func (s *ForecastService) Validator() *services.ActivityValidator {
	return s.validator
}

// Run computes a fresh forecast. Invalid records are skipped and reported in
// the result's issues; only request-level problems fail the run.
func (s *ForecastService) Run(ctx context.Context, req ForecastRequest) (*dto.ForecastResult, error) {
	grid, err := GenerateMonthGrid(req.StartMonth, req.HorizonMonths)
	if err != nil {
		return nil, err
	}

	// Pass 1: alias resolution and per-record validation
	validation := s.validator.Validate(req.Activities)
	for _, issue := range validation.Issues {
		s.logger.Warn("schedule record issue",
			"index", issue.Index,
			"rig", issue.RigName,
			"severity", issue.Severity.String(),
			"reason", issue.Reason)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pass 2: rig and location filters
	activities, scope := s.applyFilters(validation.Accepted, req.RigFilter, req.LocationFilter)

	// Pass 3: spread demand over the grid
	cells := s.spreader.Spread(activities, grid)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pass 4: monthly totals and internal/external split
	forecast := s.aggregator.Aggregate(grid, cells)
	forecast.Scope = scope

	s.logger.Info("forecast computed",
		"activities", len(req.Activities),
		"accepted", len(validation.Accepted),
		"filtered", len(activities),
		"rigs", len(forecast.RigDemands),
		"months", len(grid))

	return &dto.ForecastResult{
		RunID:    uuid.NewString(),
		RuleSet:  s.ruleSet.Name,
		Forecast: forecast,
		Issues:   validation.Issues,
	}, nil
}

func (s *ForecastService) applyFilters(
	activities []*entities.RigActivity,
	rigFilter, locationFilter []string,
) ([]*entities.RigActivity, dto.ForecastScope) {
	if len(rigFilter) == 0 && len(locationFilter) == 0 {
		return activities, dto.ForecastScope{}
	}

	var scope dto.ForecastScope
	rigs := make(map[string]bool, len(rigFilter))
	for _, name := range rigFilter {
		canonical := s.validator.CanonicalRigName(name)
		if !rigs[canonical] {
			rigs[canonical] = true
			scope.Rigs = append(scope.Rigs, canonical)
		}
	}
	locations := make(map[entities.LocationKey]bool, len(locationFilter))
	for _, name := range locationFilter {
		key := s.validator.CanonicalLocation(name)
		if !locations[key] {
			locations[key] = true
			scope.Locations = append(scope.Locations, key)
		}
	}
	sort.Strings(scope.Rigs)
	sort.Slice(scope.Locations, func(i, j int) bool {
		return scope.Locations[i] < scope.Locations[j]
	})

	filtered := make([]*entities.RigActivity, 0, len(activities))
	for _, activity := range activities {
		if len(rigs) > 0 && !rigs[activity.RigName] {
			continue
		}
		if len(locations) > 0 && !locations[activity.Location] {
			continue
		}
		filtered = append(filtered, activity)
	}
	return filtered, scope
}
