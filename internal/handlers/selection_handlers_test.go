package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectMealsRouter(h *Handlers) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.POST("/select-meals", asUser(h.SelectMeals))
	}
}

func TestSelectMealsRejectsOverQuota(t *testing.T) {
	h, mock := newTestHandlers(t)

	// Limit 10, with 6 + 4 already selected on other meals. Adding one
	// more meal must fail even though each write passed on its own.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, meals_per_week FROM meal_subscriptions").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "meals_per_week"}).AddRow(testUserID, 10))
	mock.ExpectQuery("FROM weekly_meal_selections").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(10))
	mock.ExpectRollback()

	w, envelope := doJSON(t, http.MethodPost, "/select-meals", gin.H{
		"subscription_id": 7,
		"week_start":      "2025-10-27",
		"meal_id":         3,
		"quantity":        1,
	}, selectMealsRouter(h))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["error"], "11")
	assert.Contains(t, envelope["error"], "10")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectMealsUpsertsWithinQuota(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, meals_per_week FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "meals_per_week"}).AddRow(testUserID, 10))
	mock.ExpectQuery("FROM weekly_meal_selections").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(6))
	mock.ExpectQuery("SELECT id FROM meals").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("INSERT INTO weekly_meal_selections").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, envelope := doJSON(t, http.MethodPost, "/select-meals", gin.H{
		"subscription_id": 7,
		"week_start":      "2025-10-27",
		"meal_id":         3,
		"quantity":        4,
	}, selectMealsRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, envelope)
	assert.EqualValues(t, 10, data["totalSelected"])
	assert.EqualValues(t, 10, data["limit"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectMealsQuantityZeroRemovesRow(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, meals_per_week FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "meals_per_week"}).AddRow(testUserID, 10))
	mock.ExpectExec("DELETE FROM weekly_meal_selections").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, envelope := doJSON(t, http.MethodPost, "/select-meals", gin.H{
		"subscription_id": 7,
		"week_start":      "2025-10-27",
		"meal_id":         3,
		"quantity":        0,
	}, selectMealsRouter(h))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No selection for this meal", envelope["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectMealsRejectsNonMondayWeekStart(t *testing.T) {
	h, mock := newTestHandlers(t)

	// 2025-10-28 is a Tuesday; nothing should touch the database.
	w, envelope := doJSON(t, http.MethodPost, "/select-meals", gin.H{
		"subscription_id": 7,
		"week_start":      "2025-10-28",
		"meal_id":         3,
		"quantity":        1,
	}, selectMealsRouter(h))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, envelope["error"], "Monday")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectMealsForbiddenForNonOwner(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, meals_per_week FROM meal_subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "meals_per_week"}).AddRow(int64(99), 10))
	mock.ExpectRollback()

	w, envelope := doJSON(t, http.MethodPost, "/select-meals", gin.H{
		"subscription_id": 7,
		"week_start":      "2025-10-27",
		"meal_id":         3,
		"quantity":        1,
	}, selectMealsRouter(h))

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, envelope["success"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParseWeekStart(t *testing.T) {
	monday, err := parseWeekStart("2025-10-27")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-27", monday.Format("2006-01-02"))

	_, err = parseWeekStart("2025-10-29")
	assert.Error(t, err)

	_, err = parseWeekStart("not-a-date")
	assert.Error(t, err)
}
