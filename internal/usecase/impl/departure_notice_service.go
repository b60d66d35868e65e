package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smartqueue/internal/domain/repository"
	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"
	"smartqueue/internal/util"
)

// noticeLookahead bounds which appointments the job considers.
const noticeLookahead = 2 * time.Hour

type departureNoticeService struct {
	estimator       usecase.TravelEstimator
	appointmentRepo repository.AppointmentRepository
	dispatcher      service.NotificationDispatcher
	logger          *slog.Logger
	now             func() time.Time
}

// NewDepartureNotifier builds the departure reminder job.
func NewDepartureNotifier(
	estimator usecase.TravelEstimator,
	appointmentRepo repository.AppointmentRepository,
	dispatcher service.NotificationDispatcher,
	logger *slog.Logger,
) usecase.DepartureNotifier {
	return &departureNoticeService{
		estimator:       estimator,
		appointmentRepo: appointmentRepo,
		dispatcher:      dispatcher,
		logger:          logger,
		now:             time.Now,
	}
}

// DispatchDepartureNotices notifies customers whose recommended departure for
// an upcoming appointment is at most five minutes away. MarkNotified persists
// the dedup flag, so an immediate re-run sends nothing twice.
func (s *departureNoticeService) DispatchDepartureNotices(ctx context.Context) (usecase.JobReport, error) {
	var report usecase.JobReport

	now := s.now()
	appointments, err := s.appointmentRepo.ListUpcoming(ctx, now, now.Add(noticeLookahead))
	if err != nil {
		return report, errors.Wrap(err, "failed to list upcoming appointments")
	}

	for _, appointment := range appointments {
		if ctx.Err() != nil {
			return report, errors.Wrap(ctx.Err(), "departure dispatch canceled")
		}

		if appointment.LastNotifiedAt != nil {
			report.Skipped++

			continue
		}

		estimate, err := s.estimator.EstimateForUser(ctx, appointment.UserID, appointment.DestinationID, appointment.DestLatitude, appointment.DestLongitude, now)
		if err != nil {
			if errors.Is(err, service.ErrPositionUnavailable) || errors.Is(err, service.ErrLocalityUnresolved) {
				report.Skipped++

				continue
			}

			s.logger.Error("departure estimate failed",
				slog.String("appointment_id", appointment.ID.String()),
				slog.Any("error", err),
			)
			report.Failed++

			continue
		}

		// The customer should leave travel-time before the appointment;
		// notify inside the five minutes leading up to that moment.
		recommendedDeparture := appointment.ScheduledAt.Add(-time.Duration(estimate.TravelMinutes) * time.Minute)
		notifyFrom := recommendedDeparture.Add(-5 * time.Minute)
		if now.Before(notifyFrom) || now.After(recommendedDeparture) {
			report.Skipped++

			continue
		}

		notice := &service.DepartureNotice{
			AppointmentID: appointment.ID.String(),
			UserID:        appointment.UserID.String(),
			DestinationID: appointment.DestinationID.String(),
			Message: fmt.Sprintf(
				"Your appointment is at %s. Current travel time is %s. Time to leave!",
				appointment.ScheduledAt.Format("15:04"),
				util.FormatDuration(time.Duration(estimate.TravelMinutes)*time.Minute),
			),
			TravelMinutes: estimate.TravelMinutes,
			Priority:      service.PriorityHigh,
		}

		if err := s.dispatcher.DispatchDepartureNotice(ctx, notice); err != nil {
			s.logger.Error("departure notice dispatch failed",
				slog.String("appointment_id", appointment.ID.String()),
				slog.Any("error", err),
			)
			report.Failed++

			continue
		}

		if err := s.appointmentRepo.MarkNotified(ctx, appointment.ID, now); err != nil {
			s.logger.Error("failed to mark appointment notified",
				slog.String("appointment_id", appointment.ID.String()),
				slog.Any("error", err),
			)
		}

		report.Processed++
	}

	return report, nil
}
