package confirm_reservation

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
	msgCannotConfirm  = "отмененное бронирование не может быть подтверждено"
)

type Handler struct {
	ledger ReservationConfirmer
	logger Logger
}

func NewHandler(ledger ReservationConfirmer, logger Logger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle PATCH /api/v1/reservation-groups/{groupId}/confirm
// Вызывается сервисом заказов после успешной оплаты, повторный вызов возвращает ту же группу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["groupId"])
	if err != nil {
		h.logger.Warn("PATCH /reservation-groups/{id}/confirm - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	group, err := h.ledger.Confirm(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrGroupNotFound):
			h.logger.Warn("PATCH /reservation-groups/{id}/confirm - Group not found: group_id=%s", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservation-groups/{id}/confirm - Cannot confirm: group_id=%s, error=%v", groupID, err)
			handlers.RespondError(w, http.StatusConflict, msgCannotConfirm)

		case errors.Is(err, domain.ErrLookup), errors.Is(err, domain.ErrCommit):
			h.logger.Error("PATCH /reservation-groups/{id}/confirm - Storage unavailable: group_id=%s, error=%v", groupID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /reservation-groups/{id}/confirm - Failed to confirm: group_id=%s, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservation-groups/{id}/confirm - Group confirmed: group_id=%s", groupID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromReservationGroup(group))
}
