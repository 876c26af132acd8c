package handlers

import (
	"net/http"

	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Catalog Handlers (meals, foods, plans) ---
//

const mealColumns = `id, name, description, meal_type, price, calories, protein, carbs, fats, fiber,
	is_vegan, is_vegetarian, is_gluten_free, is_dairy_free, prep_time_mins, difficulty, active,
	created_at, updated_at`

func scanMeal(rows interface{ Scan(...interface{}) error }) (models.Meal, error) {
	var m models.Meal
	err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.MealType, &m.Price,
		&m.Calories, &m.Protein, &m.Carbs, &m.Fats, &m.Fiber,
		&m.IsVegan, &m.IsVegetarian, &m.IsGlutenFree, &m.IsDairyFree,
		&m.PrepTimeMins, &m.Difficulty, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// GetMeals is the handler for GET /v1/meals
// Optional filters: type (meal_type), vegan=true, q (name search).
func (h *Handlers) GetMeals(c *gin.Context) {
	query := "SELECT " + mealColumns + " FROM meals WHERE active = 1"
	args := []interface{}{}

	if mealType := c.Query("type"); mealType != "" {
		query += " AND meal_type = ?"
		args = append(args, mealType)
	}
	if c.Query("vegan") == "true" {
		query += " AND is_vegan = 1"
	}
	if q := c.Query("q"); q != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+q+"%")
	}
	query += " ORDER BY name ASC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load meals")
		return
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan meal")
			return
		}
		meals = append(meals, m)
	}

	respondOK(c, http.StatusOK, "Meals", meals)
}

// GetWeeklyMenu is the handler for GET /v1/meals/menu?week_start=
// The menu is the active catalog grouped by meal type; the week key is
// validated so clients can only browse real Monday-keyed weeks.
func (h *Handlers) GetWeeklyMenu(c *gin.Context) {
	weekStart, err := parseWeekStart(c.Query("week_start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.DB.Query("SELECT " + mealColumns + " FROM meals WHERE active = 1 ORDER BY meal_type, name")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load menu")
		return
	}
	defer rows.Close()

	menu := map[string][]models.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan meal")
			return
		}
		menu[m.MealType] = append(menu[m.MealType], m)
	}

	respondOK(c, http.StatusOK, "Weekly menu", gin.H{
		"weekStart": weekStart.Format("2006-01-02"),
		"menu":      menu,
	})
}

// SearchFoods is the handler for GET /v1/foods?q=
// Returns shared foods plus the caller's custom entries.
func (h *Handlers) SearchFoods(c *gin.Context) {
	userID := currentUserID(c)
	q := c.Query("q")

	rows, err := h.DB.Query(`
		SELECT id, name, brand, calories, protein, carbs, fat, fiber, is_custom, created_by, created_at
		FROM foods
		WHERE name LIKE ? AND (is_custom = 0 OR created_by = ?)
		ORDER BY name ASC
		LIMIT 50`, "%"+q+"%", userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to search foods")
		return
	}
	defer rows.Close()

	foods := []models.Food{}
	for rows.Next() {
		var f models.Food
		err := rows.Scan(&f.ID, &f.Name, &f.Brand, &f.Calories, &f.Protein,
			&f.Carbs, &f.Fat, &f.Fiber, &f.IsCustom, &f.CreatedBy, &f.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan food")
			return
		}
		foods = append(foods, f)
	}

	respondOK(c, http.StatusOK, "Foods", foods)
}

// CustomFoodInput is the body for adding a private food (per 100 g).
type CustomFoodInput struct {
	Name     string  `json:"name" binding:"required"`
	Brand    *string `json:"brand"`
	Calories int     `json:"calories" binding:"required,gt=0"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fat      float64 `json:"fat" binding:"gte=0"`
	Fiber    float64 `json:"fiber" binding:"gte=0"`
}

// CreateCustomFood is the handler for POST /v1/foods/custom
func (h *Handlers) CreateCustomFood(c *gin.Context) {
	userID := currentUserID(c)

	var input CustomFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO foods (name, brand, calories, protein, carbs, fat, fiber, is_custom, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, NOW())`,
		input.Name, input.Brand, input.Calories, input.Protein, input.Carbs,
		input.Fat, input.Fiber, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create food")
		return
	}
	foodID, _ := result.LastInsertId()

	respondOK(c, http.StatusCreated, "Custom food created", gin.H{"foodId": foodID})
}

// GetPlans is the handler for GET /v1/plans
// Lists the purchasable plans of active products.
func (h *Handlers) GetPlans(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT p.id, p.product_id, p.name, p.billing_interval, p.price_amount, p.currency,
		       p.is_default, p.sort_order, p.created_at, pr.name
		FROM plans p
		JOIN products pr ON p.product_id = pr.id
		WHERE pr.active = 1
		ORDER BY p.sort_order ASC, p.price_amount ASC`)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load plans")
		return
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		var p models.Plan
		err := rows.Scan(&p.ID, &p.ProductID, &p.Name, &p.Interval, &p.PriceAmount,
			&p.Currency, &p.IsDefault, &p.SortOrder, &p.CreatedAt, &p.ProductName)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan plan")
			return
		}
		plans = append(plans, p)
	}

	respondOK(c, http.StatusOK, "Plans", plans)
}
