package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRouter(h *Handlers) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.GET("/cart", asUser(h.GetCart))
		r.POST("/cart/add", asUser(h.AddToCart))
		r.PUT("/cart/items/:mealId", asUser(h.UpdateCartItem))
	}
}

func TestGetCartComputesSubtotalFromLivePrices(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT id FROM carts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("FROM cart_items").
		WillReturnRows(sqlmock.NewRows([]string{"meal_id", "name", "price", "quantity"}).
			AddRow(1, "Grilled Chicken Bowl", 15.00, 2))

	w, envelope := doJSON(t, http.MethodGet, "/cart", nil, cartRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, envelope)
	assert.InDelta(t, 30.00, data["subtotal"], 0.001)
	assert.EqualValues(t, 2, data["totalItems"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCartEmptyWhenNoCartExists(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT id FROM carts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w, envelope := doJSON(t, http.MethodGet, "/cart", nil, cartRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, envelope)
	assert.InDelta(t, 0.0, data["subtotal"], 0.001)
	assert.EqualValues(t, 0, data["totalItems"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartIncrementsExistingRow(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM meals").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT id FROM carts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO cart_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, envelope := doJSON(t, http.MethodPost, "/cart/add", gin.H{
		"meal_id":  1,
		"quantity": 2,
	}, cartRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartCreatesCartOnFirstAdd(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM meals").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT id FROM carts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO carts").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO cart_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, _ := doJSON(t, http.MethodPost, "/cart/add", gin.H{
		"meal_id":  1,
		"quantity": 1,
	}, cartRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCartItemZeroQuantityRemovesItem(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT id FROM carts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("DELETE FROM cart_items").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w, envelope := doJSON(t, http.MethodPut, "/cart/items/1", gin.H{
		"quantity": 0,
	}, cartRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Item removed from cart", envelope["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
