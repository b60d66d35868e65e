package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/domain/service"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubConditionRepo struct {
	condition *entity.RouteCondition
	err       error
	deleted   int64
}

func (r *stubConditionRepo) FindByRoute(context.Context, uuid.UUID, uuid.UUID) (*entity.RouteCondition, error) {
	return r.condition, r.err
}

func (r *stubConditionRepo) Upsert(_ context.Context, condition *entity.RouteCondition) error {
	r.condition = condition

	return r.err
}

func (r *stubConditionRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return r.deleted, r.err
}

type stubPositionRepo struct {
	positions map[uuid.UUID]*entity.UserPosition
	disabled  int64
}

func (r *stubPositionRepo) FindByUser(_ context.Context, userID uuid.UUID) (*entity.UserPosition, error) {
	if p, ok := r.positions[userID]; ok {
		return p, nil
	}

	return nil, repository.ErrPositionNotFound
}

func (r *stubPositionRepo) Upsert(_ context.Context, p *entity.UserPosition) error {
	if r.positions == nil {
		r.positions = map[uuid.UUID]*entity.UserPosition{}
	}
	r.positions[p.UserID] = p

	return nil
}

func (r *stubPositionRepo) ListSharingUpdatedSince(_ context.Context, since time.Time) ([]*entity.UserPosition, error) {
	var out []*entity.UserPosition
	for _, p := range r.positions {
		if p.SharingEnabled && !p.UpdatedAt.Before(since) {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *stubPositionRepo) UpdateNearestLocality(_ context.Context, userID, localityID uuid.UUID) error {
	if p, ok := r.positions[userID]; ok {
		p.NearestLocalityID = localityID
	}

	return nil
}

func (r *stubPositionRepo) DisableSharingUntouchedSince(context.Context, time.Time) (int64, error) {
	return r.disabled, nil
}

type stubEstimateRepo struct {
	created []*entity.TravelEstimate
	latest  map[uuid.UUID]*entity.TravelEstimate
	deleted int64
}

func (r *stubEstimateRepo) Create(_ context.Context, e *entity.TravelEstimate) error {
	r.created = append(r.created, e)
	if r.latest == nil {
		r.latest = map[uuid.UUID]*entity.TravelEstimate{}
	}
	r.latest[e.UserID] = e

	return nil
}

func (r *stubEstimateRepo) FindLatest(_ context.Context, userID, _ uuid.UUID) (*entity.TravelEstimate, error) {
	return r.latest[userID], nil
}

func (r *stubEstimateRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return r.deleted, nil
}

type stubWeatherRepo struct {
	impact *entity.WeatherImpact
}

func (r *stubWeatherRepo) FindByRegion(context.Context, uuid.UUID) (*entity.WeatherImpact, error) {
	return r.impact, nil
}

func (r *stubWeatherRepo) Upsert(_ context.Context, impact *entity.WeatherImpact) error {
	r.impact = impact

	return nil
}

type stubRouteProvider struct {
	leg   *service.RouteLeg
	err   error
	calls int
}

func (p *stubRouteProvider) Duration(context.Context, float64, float64, float64, float64, time.Time) (*service.RouteLeg, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}

	return p.leg, nil
}

type stubQueueRepo struct {
	queues  []*entity.QueueSnapshot
	applied map[uuid.UUID][]repository.PositionMove
}

func (r *stubQueueRepo) ListActiveQueues(context.Context) ([]*entity.QueueSnapshot, error) {
	return r.queues, nil
}

func (r *stubQueueRepo) GetQueue(_ context.Context, queueID uuid.UUID) (*entity.QueueSnapshot, error) {
	for _, q := range r.queues {
		if q.QueueID == queueID {
			return q, nil
		}
	}

	return nil, repository.ErrQueueNotFound
}

func (r *stubQueueRepo) ApplyReorder(_ context.Context, queueID uuid.UUID, moves []repository.PositionMove) error {
	if r.applied == nil {
		r.applied = map[uuid.UUID][]repository.PositionMove{}
	}
	r.applied[queueID] = append(r.applied[queueID], moves...)

	return nil
}

type stubDispatcher struct {
	notices []*service.DepartureNotice
	err     error
}

func (d *stubDispatcher) DispatchDepartureNotice(_ context.Context, notice *service.DepartureNotice) error {
	if d.err != nil {
		return d.err
	}
	d.notices = append(d.notices, notice)

	return nil
}

func (d *stubDispatcher) Close() error { return nil }

type stubAppointmentRepo struct {
	appointments []*entity.Appointment
	notified     []uuid.UUID
}

func (r *stubAppointmentRepo) ListUpcoming(context.Context, time.Time, time.Time) ([]*entity.Appointment, error) {
	return r.appointments, nil
}

func (r *stubAppointmentRepo) MarkNotified(_ context.Context, appointmentID uuid.UUID, at time.Time) error {
	r.notified = append(r.notified, appointmentID)
	for _, a := range r.appointments {
		if a.ID == appointmentID {
			t := at
			a.LastNotifiedAt = &t
		}
	}

	return nil
}

type stubLocalityRepo struct {
	localities []entity.Locality
}

func (r *stubLocalityRepo) ListLocalities(context.Context) ([]entity.Locality, error) {
	return r.localities, nil
}
