package get_booked_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	getBookedSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_booked_slots"
)

const (
	msgMissingCourtIDs = "параметр courtIds обязателен"
	msgInvalidCourtIDs = "некорректный список ID кортов"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequest  = "некорректный запрос"
	msgCourtNotFound   = "корт не найден"
)

type Handler struct {
	useCase GetBookedSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetBookedSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/venues/booked-slots
// Query params: courtIds (required, csv), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	courtIDsStr := query.Get("courtIds")
	if courtIDsStr == "" {
		h.logger.Warn("GET /venues/booked-slots - Missing court IDs")
		handlers.RespondBadRequest(w, msgMissingCourtIDs)
		return
	}

	courtIDs, err := ParseCourtIDs(courtIDsStr)
	if err != nil {
		h.logger.Warn("GET /venues/booked-slots - Invalid court IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtIDs)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /venues/booked-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(courtIDs, dateStr)
	if err != nil {
		h.logger.Warn("GET /venues/booked-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getBookedSlots.ErrInvalidInput):
			h.logger.Warn("GET /venues/booked-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getBookedSlots.ErrCourtNotFound):
			h.logger.Warn("GET /venues/booked-slots - Court not found: %v", err)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, domain.ErrLookup):
			h.logger.Error("GET /venues/booked-slots - Reservation lookup failed: court_ids=%v, error=%v", courtIDs, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /venues/booked-slots - Failed to get booked slots: court_ids=%v, error=%v", courtIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /venues/booked-slots - Booked slots retrieved: courts=%d, booked=%d", len(courtIDs), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
