package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressRouter(h *Handlers) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.POST("/addresses", asUser(h.CreateAddress))
		r.DELETE("/addresses/:id", asUser(h.DeleteAddress))
	}
}

func addressBody(isDefault bool) gin.H {
	return gin.H{
		"fullName":  "Thandi Mokoena",
		"phone":     "+27110000000",
		"line1":     "12 Oak Lane",
		"city":      "Johannesburg",
		"province":  "Gauteng",
		"isDefault": isDefault,
	}
}

func TestCreateAddressFirstBecomesDefault(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO addresses").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE addresses SET is_default = 0").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w, envelope := doJSON(t, http.MethodPost, "/addresses", addressBody(false), addressRouter(h))

	require.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, envelope)
	assert.Equal(t, true, data["isDefault"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAddressDefaultUnsetsOthers(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO addresses").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("UPDATE addresses SET is_default = 0").
		WithArgs(testUserID, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	w, _ := doJSON(t, http.MethodPost, "/addresses", addressBody(true), addressRouter(h))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAddressNonDefaultWhenOthersExist(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO addresses").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	w, envelope := doJSON(t, http.MethodPost, "/addresses", addressBody(false), addressRouter(h))

	require.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, envelope)
	assert.Equal(t, false, data["isDefault"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAddressBlockedWhenSubscriptionUsesIt(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w, envelope := doJSON(t, http.MethodDelete, "/addresses/3", nil, addressRouter(h))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Address is used by an active subscription", envelope["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}
