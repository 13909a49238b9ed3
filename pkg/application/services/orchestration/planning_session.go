package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/fleetcast/pkg/application/dto"
	"github.com/vsinha/fleetcast/pkg/application/services/forecast"
	"github.com/vsinha/fleetcast/pkg/application/services/override"
	"github.com/vsinha/fleetcast/pkg/application/services/summary"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/domain/repositories"
	"github.com/vsinha/fleetcast/pkg/infrastructure/events"
)

// PlanningRequest holds the inputs that trigger a wholesale recomputation.
// Activities are read from the session's repository when left nil.
type PlanningRequest struct {
	Activities     []*entities.RigActivity
	StartMonth     time.Time
	HorizonMonths  int
	RigFilter      []string
	LocationFilter []string
}

// PlanningResult contains the computed forecast, its overlaid view and the KPIs
type PlanningResult struct {
	Result          *dto.ForecastResult
	Forecast        *dto.TabularForecast
	Summary         *dto.ForecastSummary
	BaselineSummary *dto.ForecastSummary
	Overrides       int
	PlanningDate    time.Time
}

// Session is one planner's working context: a forecast service, the latest
// computed forecast and an override map nobody else shares. Edits are expected
// to arrive serialized from a single control thread.
type Session struct {
	id           string
	service      *forecast.ForecastService
	activityRepo repositories.ActivityRepository
	store        events.EventStore
	overrides    *override.Map
	result       *dto.ForecastResult
}

// NewSession creates a session with a fresh override map. store may be nil.
func NewSession(
	service *forecast.ForecastService,
	activityRepo repositories.ActivityRepository,
	store events.EventStore,
) *Session {
	id := uuid.NewString()
	overrides := override.NewMap()
	if store != nil {
		overrides = override.NewRecordedMap(store, id)
	}
	return &Session{
		id:           id,
		service:      service,
		activityRepo: activityRepo,
		store:        store,
		overrides:    overrides,
	}
}

// ID returns the session id, also used as its event stream id
func (s *Session) ID() string {
	return s.id
}

// Overrides exposes the session's override map
func (s *Session) Overrides() *override.Map {
	return s.overrides
}

// Result returns the latest computed forecast, or nil before the first run
func (s *Session) Result() *dto.ForecastResult {
	return s.result
}

// Recompute reruns the whole forecast. Overrides are kept; they are keyed by
// rig and month label and re-applied on read.
func (s *Session) Recompute(ctx context.Context, req PlanningRequest) (*dto.ForecastResult, error) {
	activities := req.Activities
	if activities == nil {
		if s.activityRepo == nil {
			return nil, fmt.Errorf("no activities provided and no activity repository configured")
		}
		loaded, err := s.activityRepo.GetActivities(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load activities: %w", err)
		}
		activities = loaded
	}

	result, err := s.service.Run(ctx, forecast.ForecastRequest{
		Activities:     activities,
		StartMonth:     req.StartMonth,
		HorizonMonths:  req.HorizonMonths,
		RigFilter:      req.RigFilter,
		LocationFilter: req.LocationFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute forecast: %w", err)
	}
	s.result = result

	if s.store != nil {
		rejected := 0
		for _, issue := range result.Issues {
			if issue.Severity == entities.SeverityRejected {
				rejected++
			}
		}
		_ = s.store.AppendEvent(s.id, events.NewEvent(events.ForecastComputedEvent, s.id, events.ForecastComputed{
			RunID:    result.RunID,
			RuleSet:  result.RuleSet,
			Rigs:     len(result.Forecast.RigDemands),
			Months:   len(result.Forecast.MonthlyColumns),
			Rejected: rejected,
		}))
	}

	return result, nil
}

// SetOverride edits one cell; invalid values are discarded
func (s *Session) SetOverride(
	rigName string,
	month entities.MonthLabel,
	value float64,
	activityType *entities.ActivityType,
) bool {
	return s.overrides.Set(s.service.Validator().CanonicalRigName(rigName), month, value, activityType)
}

// ResetAll drops every override without recomputing
func (s *Session) ResetAll() {
	s.overrides.ResetAll()
}

// Overlay returns the current forecast viewed through the session's overrides
func (s *Session) Overlay() (*override.Overlay, error) {
	if s.result == nil {
		return nil, fmt.Errorf("session %s has no forecast yet", s.id)
	}
	return override.NewOverlay(s.result.Forecast, s.overrides), nil
}

// GetValue reads one cell through the overlay
func (s *Session) GetValue(rigName string, month entities.MonthLabel) (float64, error) {
	overlay, err := s.Overlay()
	if err != nil {
		return 0, err
	}
	return overlay.GetValue(s.service.Validator().CanonicalRigName(rigName), month), nil
}

// RunPlanning recomputes and returns the overlaid forecast with its summaries
func (s *Session) RunPlanning(ctx context.Context, req PlanningRequest) (*PlanningResult, error) {
	result, err := s.Recompute(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(result)
}

// Snapshot summarizes the latest forecast with and without overrides
func (s *Session) Snapshot(result *dto.ForecastResult) (*PlanningResult, error) {
	overlay := override.NewOverlay(result.Forecast, s.overrides)
	applied := overlay.Apply()

	overlaid, err := summary.Summarize(applied)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize forecast: %w", err)
	}
	baseline, err := summary.Summarize(result.Forecast)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize baseline forecast: %w", err)
	}

	return &PlanningResult{
		Result:          result,
		Forecast:        applied,
		Summary:         overlaid,
		BaselineSummary: baseline,
		Overrides:       s.overrides.Len(),
		PlanningDate:    time.Now(),
	}, nil
}
