package usecase

import "context"

// JobReport summarizes one periodic job run for logging.
type JobReport struct {
	Processed int
	Skipped   int
	Failed    int
}

// PositionSync recomputes derived position data.
type PositionSync interface {
	// RefreshNearestLocalities recomputes the nearest locality for recently
	// updated, sharing-enabled positions.
	RefreshNearestLocalities(ctx context.Context) (JobReport, error)
}

// EstimateSync computes estimates for active tickets.
type EstimateSync interface {
	// ComputeEstimates creates estimates for waiting/called tickets whose
	// owner shares a fresh position and has no fresh estimate. Idempotent:
	// an immediate re-run creates nothing new.
	ComputeEstimates(ctx context.Context) (JobReport, error)
}

// ReorderEvaluator applies the planner across all active queues.
type ReorderEvaluator interface {
	// EvaluateReorders plans and commits position changes queue by queue,
	// serializing application per queue.
	EvaluateReorders(ctx context.Context) (JobReport, error)
}

// DepartureNotifier dispatches "time to leave" notices.
type DepartureNotifier interface {
	// DispatchDepartureNotices scans upcoming appointments and notifies
	// customers inside their departure window, at most once per appointment.
	DispatchDepartureNotices(ctx context.Context) (JobReport, error)
}

// RouteConditionSync refreshes observed traffic conditions.
type RouteConditionSync interface {
	// RefreshRouteConditions re-queries the provider chain for the configured
	// major routes and upserts conditions.
	RefreshRouteConditions(ctx context.Context) (JobReport, error)
}

// Cleaner removes expired data.
type Cleaner interface {
	// Cleanup deletes stale estimates and conditions and disables sharing for
	// abandoned positions.
	Cleanup(ctx context.Context) (JobReport, error)
}
