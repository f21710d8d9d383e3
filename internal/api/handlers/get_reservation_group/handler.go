package get_reservation_group

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
)

type Handler struct {
	ledger ReservationLedger
	logger Logger
}

func NewHandler(ledger ReservationLedger, logger Logger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle GET /api/v1/reservation-groups/{groupId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["groupId"])
	if err != nil {
		h.logger.Warn("GET /reservation-groups/{id} - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	group, err := h.ledger.GetGroup(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrGroupNotFound):
			h.logger.Warn("GET /reservation-groups/{id} - Group not found: group_id=%s", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrLookup):
			h.logger.Error("GET /reservation-groups/{id} - Lookup failed: group_id=%s, error=%v", groupID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /reservation-groups/{id} - Failed to get group: group_id=%s, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromReservationGroup(group))
}
