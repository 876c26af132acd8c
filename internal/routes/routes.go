package routes

import (
	"net/http"

	"github.com/fitfuel/fitfuel-golang/internal/handlers"
	"github.com/fitfuel/fitfuel-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the local frontend to talk to the API with the
// Authorization header attached.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)

		// --- Public Catalog Routes ---
		v1.GET("/meals", h.GetMeals)
		v1.GET("/meals/menu", h.GetWeeklyMenu)
		v1.GET("/plans", h.GetPlans)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(h.DB))
		{
			// --- Profile & Onboarding ---
			auth.GET("/profile/me", h.GetMyProfile)
			auth.POST("/profile", h.UpsertProfile)

			// --- Macro Planner ---
			auth.POST("/macro-plans/calculate", h.CalculateMacros)
			auth.POST("/macro-plans", h.SaveMacroPlan)
			auth.GET("/macro-plans/active", h.GetActiveMacroPlan)

			// --- Foods ---
			auth.GET("/foods", h.SearchFoods)
			auth.POST("/foods/custom", h.CreateCustomFood)

			// --- Food Diary ---
			auth.POST("/food-diary", h.CreateDiaryEntry)
			auth.GET("/food-diary", h.GetDiary)
			auth.GET("/food-diary/summary", h.GetDiarySummary)
			auth.DELETE("/food-diary/:id", h.DeleteDiaryEntry)

			// --- Workouts ---
			auth.GET("/workouts", h.GetMyWorkouts)
			auth.POST("/workouts", h.CreateWorkout)
			auth.PUT("/workouts/:id", h.UpdateWorkout)
			auth.DELETE("/workouts/:id", h.DeleteWorkout)
			auth.POST("/workouts/:id/complete", h.CompleteWorkout)

			// --- Addresses & Payment Methods ---
			auth.POST("/addresses", h.CreateAddress)
			auth.GET("/addresses", h.GetMyAddresses)
			auth.PUT("/addresses/:id", h.UpdateAddress)
			auth.DELETE("/addresses/:id", h.DeleteAddress)
			auth.POST("/payment-methods", h.CreatePaymentMethod)
			auth.GET("/payment-methods", h.GetMyPaymentMethods)
			auth.PATCH("/payment-methods/:id/default", h.SetDefaultPaymentMethod)
			auth.DELETE("/payment-methods/:id", h.DeletePaymentMethod)

			// --- Meal Workflow (configure -> select -> checkout) ---
			auth.POST("/meal-workflow/configure", h.ConfigureSubscription)
			auth.GET("/meal-workflow/current", h.GetCurrentSubscription)
			auth.POST("/meal-workflow/select-meals", h.SelectMeals)
			auth.GET("/meal-workflow/selections", h.GetWeekSelections)
			auth.POST("/meal-workflow/checkout", h.Checkout)

			// --- Orders & Deliveries ---
			auth.GET("/orders", h.GetMyOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)
			auth.GET("/deliveries/upcoming", h.GetUpcomingDeliveries)

			// --- Cart (one-off purchases) ---
			auth.GET("/cart", h.GetCart)
			auth.POST("/cart/add", h.AddToCart)
			auth.PUT("/cart/items/:mealId", h.UpdateCartItem)
			auth.DELETE("/cart/items/:mealId", h.RemoveCartItem)
			auth.DELETE("/cart/clear", h.ClearCart)

			// --- Chat ---
			auth.GET("/chat/threads", h.GetMyThreads)
			auth.POST("/chat/threads", h.CreateThread)
			auth.GET("/chat/messages", h.GetThreadMessages)
			auth.POST("/chat/messages", h.SendMessage)
			auth.PATCH("/chat/messages/:id/read", h.MarkMessageRead)

			// --- Dashboard & Analytics ---
			auth.GET("/dashboard/today", h.GetTodayDashboard)
			auth.GET("/analytics/weekly", h.GetWeeklyAnalytics)

			// --- AI Assistant ---
			auth.POST("/ai/chat", h.AIChat)
			auth.GET("/ai/history", h.GetAIChatHistory)

			// --- Coach Routes (Role Guarded) ---
			coach := auth.Group("/coach")
			coach.Use(middleware.CoachMiddleware())
			{
				coach.GET("/clients", h.GetCoachClients)
				coach.GET("/clients/:id", h.GetCoachClientDetail)
				coach.GET("/revenue-by-day", h.GetRevenueByDay)
				coach.GET("/dashboard-stats", h.GetCoachDashboardStats)
			}
		}
	}

	return router
}
