package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain/availability"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/booking"
	"go.uber.org/zap"
)

// SagaStep represents a single step in a saga with execute and compensate actions.
type SagaStep struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga orchestrates a sequence of steps with compensating transactions on failure.
type Saga struct {
	name   string
	steps  []SagaStep
	logger *zap.Logger
}

// NewSaga creates a new saga orchestrator.
func NewSaga(name string, logger *zap.Logger) *Saga {
	return &Saga{
		name:   name,
		steps:  make([]SagaStep, 0),
		logger: logger,
	}
}

// AddStep appends a step to the saga.
func (s *Saga) AddStep(step SagaStep) {
	s.steps = append(s.steps, step)
}

// Execute runs all saga steps in order. On failure, it compensates executed steps in reverse order.
func (s *Saga) Execute(ctx context.Context) error {
	s.logger.Info("saga started", zap.String("saga", s.name))

	executedSteps := make([]SagaStep, 0, len(s.steps))

	for _, step := range s.steps {
		s.logger.Info("executing saga step",
			zap.String("saga", s.name),
			zap.String("step", step.Name),
		)

		if err := step.Execute(ctx); err != nil {
			s.logger.Error("saga step failed, starting compensation",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)

			// Compensate executed steps in reverse order
			for i := len(executedSteps) - 1; i >= 0; i-- {
				compensateStep := executedSteps[i]
				if compensateStep.Compensate != nil {
					s.logger.Info("compensating saga step",
						zap.String("saga", s.name),
						zap.String("step", compensateStep.Name),
					)
					if compErr := compensateStep.Compensate(ctx); compErr != nil {
						s.logger.Error("compensation failed",
							zap.String("saga", s.name),
							zap.String("step", compensateStep.Name),
							zap.Error(compErr),
						)
					}
				}
			}

			return fmt.Errorf("saga '%s' failed at step '%s': %w", s.name, step.Name, err)
		}

		executedSteps = append(executedSteps, step)
	}

	s.logger.Info("saga completed successfully", zap.String("saga", s.name))
	return nil
}

// BookingSagaService orchestrates the booking workflows that span the bookings
// table and the availability ledger. Each ledger step is itself one atomic
// multi-date transaction; the saga adds cross-entity compensation on top.
type BookingSagaService struct {
	bookings booking.Repository
	ledger   availability.Ledger
	logger   *zap.Logger
}

// NewBookingSagaService creates a new BookingSagaService.
func NewBookingSagaService(bookings booking.Repository, ledger availability.Ledger, logger *zap.Logger) *BookingSagaService {
	return &BookingSagaService{bookings: bookings, ledger: ledger, logger: logger}
}

// ConfirmBookingSaga persists a pending booking, reserves its inventory, and
// auto-confirms it. A booking whose later steps fail is compensated to
// cancelled (never deleted) and its hold released.
func (s *BookingSagaService) ConfirmBookingSaga(ctx context.Context, b *booking.Booking, totalRooms int) error {
	dates := b.Stay().Dates()
	rooms := b.RoomsBooked()

	saga := NewSaga("confirm_booking", s.logger)

	// Step 1: Persist the pending booking
	saga.AddStep(SagaStep{
		Name: "save_booking",
		Execute: func(ctx context.Context) error {
			return s.bookings.Save(ctx, b)
		},
		Compensate: func(ctx context.Context) error {
			if err := b.Cancel(); err != nil {
				return err
			}
			b.IncrementVersion()
			return s.bookings.Update(ctx, b)
		},
	})

	// Step 2: Reserve inventory for every date of the stay in one transaction
	saga.AddStep(SagaStep{
		Name: "reserve_inventory",
		Execute: func(ctx context.Context) error {
			return s.ledger.ApplyDelta(ctx, b.RoomID(), totalRooms, dates, rooms)
		},
		Compensate: func(ctx context.Context) error {
			return s.ledger.ApplyDelta(ctx, b.RoomID(), totalRooms, dates, -rooms)
		},
	})

	// Step 3: Auto-confirm and persist
	saga.AddStep(SagaStep{
		Name: "confirm_booking",
		Execute: func(ctx context.Context) error {
			if err := b.Confirm(); err != nil {
				return err
			}
			b.IncrementVersion()
			return s.bookings.Update(ctx, b)
		},
		Compensate: nil,
	})

	return saga.Execute(ctx)
}

// RescheduleBookingSaga moves a booking's hold to a new stay and persists the
// updated aggregate. The aggregate must already carry the new stay details;
// oldDates/oldRooms describe the hold being replaced.
func (s *BookingSagaService) RescheduleBookingSaga(
	ctx context.Context,
	b *booking.Booking,
	totalRooms int,
	oldDates []time.Time,
	oldRooms int,
) error {
	newDates := b.Stay().Dates()
	newRooms := b.RoomsBooked()

	saga := NewSaga("reschedule_booking", s.logger)

	// Step 1: Release the old hold and acquire the new one atomically, so the
	// booking's own prior hold never blocks its new range.
	saga.AddStep(SagaStep{
		Name: "transfer_hold",
		Execute: func(ctx context.Context) error {
			return s.ledger.TransferHold(ctx, b.RoomID(), totalRooms, oldDates, oldRooms, newDates, newRooms)
		},
		Compensate: func(ctx context.Context) error {
			return s.ledger.TransferHold(ctx, b.RoomID(), totalRooms, newDates, newRooms, oldDates, oldRooms)
		},
	})

	// Step 2: Persist the rescheduled booking
	saga.AddStep(SagaStep{
		Name: "update_booking",
		Execute: func(ctx context.Context) error {
			b.IncrementVersion()
			return s.bookings.Update(ctx, b)
		},
		Compensate: nil,
	})

	return saga.Execute(ctx)
}

// CancelBookingSaga releases the booking's inventory and persists the
// cancelled state.
func (s *BookingSagaService) CancelBookingSaga(ctx context.Context, b *booking.Booking, totalRooms int) error {
	dates := b.Stay().Dates()
	rooms := b.RoomsBooked()

	saga := NewSaga("cancel_booking", s.logger)

	// Step 1: Release inventory for every date of the stay
	saga.AddStep(SagaStep{
		Name: "release_inventory",
		Execute: func(ctx context.Context) error {
			return s.ledger.ApplyDelta(ctx, b.RoomID(), totalRooms, dates, -rooms)
		},
		Compensate: func(ctx context.Context) error {
			return s.ledger.ApplyDelta(ctx, b.RoomID(), totalRooms, dates, rooms)
		},
	})

	// Step 2: Persist the cancelled state
	saga.AddStep(SagaStep{
		Name: "cancel_booking",
		Execute: func(ctx context.Context) error {
			if err := b.Cancel(); err != nil {
				return err
			}
			b.IncrementVersion()
			return s.bookings.Update(ctx, b)
		},
		Compensate: nil,
	})

	return saga.Execute(ctx)
}
