package get_court_availability

import (
	"context"

	getCourtAvailability "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_court_availability"
)

type GetCourtAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getCourtAvailability.Request) (*getCourtAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
