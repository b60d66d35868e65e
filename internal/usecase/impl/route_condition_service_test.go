package impl

import (
	"context"
	"testing"
	"time"

	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteConditionSync_RefreshRouteConditions(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	dakar := entity.Locality{ID: uuid.New(), Name: "Dakar", Latitude: 14.6928, Longitude: -17.4467}
	pikineLoc := entity.Locality{ID: uuid.New(), Name: "Pikine", Latitude: 14.7544, Longitude: -17.3942}

	conditionRepo := &stubConditionRepo{}
	provider := &stubRouteProvider{leg: &service.RouteLeg{
		Minutes:        20,
		TrafficMinutes: 36,
		DistanceKm:     12.5,
		Source:         "maps",
	}}
	s := &routeConditionService{
		localityRepo:  &stubLocalityRepo{localities: []entity.Locality{dakar, pikineLoc}},
		conditionRepo: conditionRepo,
		routeTime:     provider,
		logger:        testLogger(),
		now:           func() time.Time { return now },
	}

	report, err := s.RefreshRouteConditions(context.Background())
	require.NoError(t, err)

	// Only the Dakar-Pikine corridor resolves against this locality set.
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, len(majorRoutes)-1, report.Skipped)

	condition := conditionRepo.condition
	require.NotNil(t, condition)
	assert.Equal(t, dakar.ID, condition.SourceLocalityID)
	assert.Equal(t, pikineLoc.ID, condition.DestinationLocalityID)
	assert.InDelta(t, 1.8, condition.DelayFactor, 1e-9)
	assert.Equal(t, 36, condition.TravelMinutes)
	assert.Equal(t, now, condition.UpdatedAt)
}

func TestRouteConditionSync_ProviderFailureCounted(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	dakar := entity.Locality{ID: uuid.New(), Name: "Dakar"}
	pikineLoc := entity.Locality{ID: uuid.New(), Name: "Pikine"}

	s := &routeConditionService{
		localityRepo:  &stubLocalityRepo{localities: []entity.Locality{dakar, pikineLoc}},
		conditionRepo: &stubConditionRepo{},
		routeTime:     &stubRouteProvider{err: service.ErrRouteUnavailable},
		logger:        testLogger(),
		now:           func() time.Time { return now },
	}

	report, err := s.RefreshRouteConditions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Processed)
}

func TestBuildRouteCondition_StaticLegKeepsFreeFlow(t *testing.T) {
	now := time.Now()
	origin := &entity.Locality{ID: uuid.New()}
	dest := &entity.Locality{ID: uuid.New()}

	condition := buildRouteCondition(origin, dest, &service.RouteLeg{
		Minutes:    25,
		DistanceKm: 18,
		Source:     "osrm",
	}, now)

	assert.InDelta(t, 1.0, condition.DelayFactor, 1e-9)
	assert.Equal(t, 25, condition.TravelMinutes)
	assert.Equal(t, entity.RouteStateForDelay(1.0), condition.State)
}
