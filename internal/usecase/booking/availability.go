package booking

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type GetAvailability struct {
	repo  domain.Repository
	sched Schedule
}

func NewGetAvailability(repo domain.Repository, sched Schedule) *GetAvailability {
	return &GetAvailability{repo: repo, sched: sched}
}

// Execute lists the free slots of a worker on a given day. Slots that
// already started (or fall inside the advance window) are left out.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	worker, err := uc.repo.GetUser(ctx, in.WorkerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeWorkerNotFound)
		}
		return nil, err
	}
	if worker.Role != roles.Worker.String() || !worker.Active {
		return nil, httperr.ErrBusiness(httperr.CodeWorkerNotFound)
	}

	grid, err := uc.sched.Hours.Grid(in.Date, uc.sched.Loc)
	if err != nil {
		return nil, err
	}

	taken, err := uc.repo.TakenTimes(ctx, in.WorkerID, in.Date)
	if err != nil {
		return nil, err
	}

	return domain.FreeSlots(grid, uc.sched.Hours.Step, taken, uc.sched.earliest()), nil
}
