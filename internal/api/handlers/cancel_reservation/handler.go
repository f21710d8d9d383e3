package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/ledger"
)

const (
	msgInvalidGroupID = "некорректный ID группы бронирований"
	msgNotFound       = "группа бронирований не найдена"
	msgCannotCancel   = "бронирование не может быть отменено"
)

type Handler struct {
	ledger ReservationCanceller
	logger Logger
}

func NewHandler(ledger ReservationCanceller, logger Logger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle PATCH /api/v1/reservation-groups/{groupId}/cancel
// Освобождает все слоты группы, повторная отмена не является ошибкой
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["groupId"])
	if err != nil {
		h.logger.Warn("PATCH /reservation-groups/{id}/cancel - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	group, err := h.ledger.Cancel(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrGroupNotFound):
			h.logger.Warn("PATCH /reservation-groups/{id}/cancel - Group not found: group_id=%s", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservation-groups/{id}/cancel - Cannot cancel: group_id=%s, error=%v", groupID, err)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		case errors.Is(err, domain.ErrLookup), errors.Is(err, domain.ErrCommit):
			h.logger.Error("PATCH /reservation-groups/{id}/cancel - Storage unavailable: group_id=%s, error=%v", groupID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /reservation-groups/{id}/cancel - Failed to cancel: group_id=%s, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservation-groups/{id}/cancel - Group cancelled: group_id=%s, slots=%d", groupID, len(group.Reservations))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromReservationGroup(group))
}
