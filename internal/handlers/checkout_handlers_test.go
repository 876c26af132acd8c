package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutRouter(h *Handlers) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.POST("/checkout", asUser(h.Checkout))
	}
}

func checkoutBody(method string) gin.H {
	return gin.H{
		"subscription_id": 7,
		"week_start":      "2025-10-27",
		"shipping_details": gin.H{
			"full_name":      "Thandi Mokoena",
			"phone":          "+27110000000",
			"street_address": "12 Oak Lane",
			"city":           "Johannesburg",
			"province":       "Gauteng",
		},
		"payment_details": gin.H{"method": method},
	}
}

func expectOwnedSubscription(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT user_id FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(testUserID))
}

func TestCheckoutComputesTotalsAndClearsSelections(t *testing.T) {
	h, mock := newTestHandlers(t)

	// 4 x 16.50 + 2 x 20.00 = 106.00; 10% off = 10.60; total 95.40.
	mock.ExpectBegin()
	expectOwnedSubscription(mock)
	mock.ExpectQuery("FROM weekly_meal_selections").
		WillReturnRows(sqlmock.NewRows([]string{"meal_id", "name", "quantity", "price"}).
			AddRow(1, "Grilled Chicken Bowl", 4, 16.50).
			AddRow(2, "Salmon Teriyaki", 2, 20.00))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("DELETE FROM weekly_meal_selections").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, envelope := doJSON(t, http.MethodPost, "/checkout", checkoutBody("card"), checkoutRouter(h))

	require.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, envelope)
	assert.InDelta(t, 106.00, data["subtotal"], 0.001)
	assert.InDelta(t, 10.60, data["discount"], 0.001)
	assert.InDelta(t, 95.40, data["totalAmount"], 0.001)
	assert.Equal(t, "paid", data["paymentStatus"])
	assert.Len(t, data["items"], 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutFailsWhenWeekHasNoSelections(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	expectOwnedSubscription(mock)
	mock.ExpectQuery("FROM weekly_meal_selections").
		WillReturnRows(sqlmock.NewRows([]string{"meal_id", "name", "quantity", "price"}))
	mock.ExpectRollback()

	w, envelope := doJSON(t, http.MethodPost, "/checkout", checkoutBody("card"), checkoutRouter(h))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No meals selected for this week", envelope["error"])
	// No order, item, or delivery writes were expected, so any attempt
	// to persist would have failed the mock.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutDeclinedPaymentPersistsNothing(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	expectOwnedSubscription(mock)
	mock.ExpectQuery("FROM weekly_meal_selections").
		WillReturnRows(sqlmock.NewRows([]string{"meal_id", "name", "quantity", "price"}).
			AddRow(1, "Grilled Chicken Bowl", 2, 15.00))
	mock.ExpectRollback()

	w, envelope := doJSON(t, http.MethodPost, "/checkout", checkoutBody("declined"), checkoutRouter(h))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, envelope["error"], "Payment failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutForbiddenForNonOwner(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(99)))
	mock.ExpectRollback()

	w, _ := doJSON(t, http.MethodPost, "/checkout", checkoutBody("card"), checkoutRouter(h))

	require.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulateAuthorization(t *testing.T) {
	assert.NoError(t, simulateAuthorization("card", 95.40))
	assert.NoError(t, simulateAuthorization("eft", 10.00))
	assert.Error(t, simulateAuthorization("declined", 95.40))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.60, round2(106.00*0.10))
	assert.Equal(t, 95.40, round2(106.00-10.60))
	assert.Equal(t, 0.0, round2(0))
}
