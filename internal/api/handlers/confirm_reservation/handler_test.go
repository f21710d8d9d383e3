package confirm_reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/ledger"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockLedger struct {
	ConfirmFunc func(ctx context.Context, groupID uuid.UUID) (*domain.ReservationGroup, error)
}

func (m *mockLedger) Confirm(ctx context.Context, groupID uuid.UUID) (*domain.ReservationGroup, error) {
	return m.ConfirmFunc(ctx, groupID)
}

func newRequest(groupID string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/reservation-groups/"+groupID+"/confirm", nil)
	return mux.SetURLVars(r, map[string]string{"groupId": groupID})
}

func TestHandle_Confirmed(t *testing.T) {
	id := uuid.New()
	l := &mockLedger{ConfirmFunc: func(_ context.Context, groupID uuid.UUID) (*domain.ReservationGroup, error) {
		assert.Equal(t, id, groupID)
		return &domain.ReservationGroup{ID: id, Status: domain.StatusConfirmed}, nil
	}}

	w := httptest.NewRecorder()
	NewHandler(l, nopLogger{}).Handle(w, newRequest(id.String()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		groupID string
		err     error
		status  int
	}{
		{name: "invalid id", groupID: "not-a-uuid", status: http.StatusBadRequest},
		{name: "not found", groupID: uuid.NewString(), err: ledger.ErrGroupNotFound, status: http.StatusNotFound},
		{name: "cancelled group", groupID: uuid.NewString(), err: fmt.Errorf("%w: cancelled -> confirmed", domain.ErrInvalidTransition), status: http.StatusConflict},
		{name: "commit", groupID: uuid.NewString(), err: fmt.Errorf("%w: timeout", domain.ErrCommit), status: http.StatusServiceUnavailable},
		{name: "internal", groupID: uuid.NewString(), err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &mockLedger{ConfirmFunc: func(context.Context, uuid.UUID) (*domain.ReservationGroup, error) {
				return nil, tt.err
			}}

			w := httptest.NewRecorder()
			NewHandler(l, nopLogger{}).Handle(w, newRequest(tt.groupID))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
