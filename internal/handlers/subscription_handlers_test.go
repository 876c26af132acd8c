package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configureRouter(h *Handlers) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.POST("/configure", asUser(h.ConfigureSubscription))
	}
}

func configureBody() gin.H {
	return gin.H{
		"plan_id":            2,
		"address_id":         3,
		"meals_per_week":     10,
		"portion":            "regular",
		"protein_preference": "mixed",
		"start_date":         "2025-11-03",
	}
}

func subscriptionRow() *sqlmock.Rows {
	now := time.Now()
	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "user_id", "plan_id", "address_id", "meals_per_week",
		"portion", "protein_preference", "start_date", "status", "created_at", "updated_at",
	}).AddRow(7, testUserID, 2, 3, 10, "regular", "mixed", start, "active", now, now)
}

func TestConfigureSubscriptionCreatesWhenAbsent(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM plans p").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery("SELECT id FROM addresses").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO meal_subscriptions").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM meal_subscriptions WHERE id").
		WillReturnRows(subscriptionRow())

	w, envelope := doJSON(t, http.MethodPost, "/configure", configureBody(), configureRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, envelope)
	assert.EqualValues(t, 7, data["id"])
	assert.EqualValues(t, 10, data["mealsPerWeek"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigureSubscriptionUpdatesExisting(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM plans p").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery("SELECT id FROM addresses").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE meal_subscriptions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM meal_subscriptions WHERE id").
		WillReturnRows(subscriptionRow())

	w, _ := doJSON(t, http.MethodPost, "/configure", configureBody(), configureRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentMonday(t *testing.T) {
	wednesday := time.Date(2025, 10, 29, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-27", currentMonday(wednesday).Format("2006-01-02"))

	monday := time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-27", currentMonday(monday).Format("2006-01-02"))

	sunday := time.Date(2025, 11, 2, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-27", currentMonday(sunday).Format("2006-01-02"))
}

func TestConfigureSubscriptionRejectsUnknownPlan(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("FROM plans p").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w, envelope := doJSON(t, http.MethodPost, "/configure", configureBody(), configureRouter(h))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Plan not found", envelope["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}
