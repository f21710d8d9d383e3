package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/ledger"
	createReservation "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidItem        = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput       = "некорректные данные бронирования"
	msgSlotConflict       = "выбранные слоты уже заняты"
	msgCourtNotFound      = "корт не найден"
	msgCourtInactive      = "корт недоступен для бронирования"
	msgInvalidTimeSlot    = "время не совпадает с началом слота корта"
	msgDateInPast         = "нельзя забронировать прошедшую дату"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
// 201 новая группа, 200 повтор запроса с тем же набором слотов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItem)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *domain.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /reservations - Slots already reserved: owner=%q, conflicts=%d", req.OwnerRef, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, handlers.FromConflictError(msgSlotConflict, conflictErr))

		case errors.Is(err, createReservation.ErrInvalidInput), errors.Is(err, ledger.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: owner=%q, error=%v", req.OwnerRef, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrCourtNotFound):
			h.logger.Warn("POST /reservations - Court not found: %v", err)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createReservation.ErrCourtInactive):
			h.logger.Warn("POST /reservations - Court inactive: %v", err)
			handlers.RespondUnprocessable(w, msgCourtInactive)

		case errors.Is(err, createReservation.ErrInvalidTimeSlot):
			h.logger.Warn("POST /reservations - Off-grid slot: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidTimeSlot)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Date in the past: %v", err)
			handlers.RespondUnprocessable(w, msgDateInPast)

		case errors.Is(err, domain.ErrLookup), errors.Is(err, domain.ErrCommit):
			h.logger.Error("POST /reservations - Storage unavailable: owner=%q, error=%v", req.OwnerRef, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /reservations - Failed to reserve: owner=%q, error=%v", req.OwnerRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /reservations - Reservation group ready: group_id=%s, owner=%q, items=%d, replayed=%t",
		result.Group.ID, req.OwnerRef, len(result.Group.Reservations), result.Replayed)
	handlers.RespondJSON(w, status, handlers.FromReservationGroup(result.Group))
}
