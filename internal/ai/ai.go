package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// AIService holds the Gemini client and the read-only database connection.
type AIService struct {
	Client *genai.Client
	DB     *sql.DB
}

// NewAIService initializes the Gemini client.
func NewAIService(apiKey string, dbReadOnly *sql.DB) (*AIService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &AIService{Client: client, DB: dbReadOnly}, nil
}

// GenerateResponse answers one nutrition question. The model may issue
// read-only SELECTs through the run_readonly_sql tool; the loop feeds
// tool results back until it produces text. Returns the answer and the
// total token count for the exchange.
func (s *AIService) GenerateResponse(ctx context.Context, userID int64, userMessage string, modelName string) (string, int, error) {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := s.Client.GenerativeModel(modelName)

	sqlTool := &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "run_readonly_sql",
				Description: "Executes a READ-ONLY SQL query (SELECT only) to answer questions.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "The MySQL SELECT query to execute.",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
	model.Tools = []*genai.Tool{sqlTool}

	schemaContext := s.getSchemaDefinition()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(`
			You are the FitFuel nutrition assistant talking to user %d.
			Access: MySQL database (run_readonly_sql).
			Schema: %s
			Rules: SELECT only. Only query rows belonging to user %d where a
			user_id column exists. Be concise and practical about food,
			macros, workouts and meal plans. Never give medical advice.
		`, userID, schemaContext, userID))},
	}

	cs := model.StartChat()
	res, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", 0, fmt.Errorf("error sending message: %w", err)
	}

	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens = int(res.UsageMetadata.TotalTokenCount)
	}

	for {
		if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
			return "No response.", totalTokens, nil
		}
		part := res.Candidates[0].Content.Parts[0]

		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			return fmt.Sprintf("%v", part), totalTokens, nil
		}

		if funcCall.Name != "run_readonly_sql" {
			return "", totalTokens, fmt.Errorf("unknown function: %s", funcCall.Name)
		}

		query, ok := funcCall.Args["query"].(string)
		if !ok {
			return "", totalTokens, fmt.Errorf("invalid query argument")
		}
		log.Printf("AI running SQL: %s", query)

		sqlResult, sqlErr := s.runReadOnlyQuery(query)
		if sqlErr != nil {
			sqlResult = fmt.Sprintf("SQL Error: %v", sqlErr)
		}

		res, err = cs.SendMessage(ctx, genai.FunctionResponse{
			Name:     "run_readonly_sql",
			Response: map[string]interface{}{"result": sqlResult},
		})
		if err != nil {
			return "", totalTokens, fmt.Errorf("tool response error: %w", err)
		}
		if res.UsageMetadata != nil {
			totalTokens = int(res.UsageMetadata.TotalTokenCount)
		}
	}
}

// runReadOnlyQuery executes a SELECT against the read-only pool and
// marshals the rows as JSON for the model.
func (s *AIService) runReadOnlyQuery(query string) (string, error) {
	normalized := strings.ToUpper(query)
	if strings.Contains(normalized, "UPDATE") || strings.Contains(normalized, "DELETE") || strings.Contains(normalized, "DROP") || strings.Contains(normalized, "INSERT") {
		return "", fmt.Errorf("security violation: modify operations are not allowed")
	}
	rows, err := s.DB.Query(query)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	columns, _ := rows.Columns()
	count := len(columns)
	tableData := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, count)
		valuePtrs := make([]interface{}, count)
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		rows.Scan(valuePtrs...)
		entry := make(map[string]interface{})
		for i, col := range columns {
			var v interface{}
			val := values[i]
			b, ok := val.([]byte)
			if ok {
				v = string(b)
			} else {
				v = val
			}
			entry[col] = v
		}
		tableData = append(tableData, entry)
	}
	jsonData, err := json.Marshal(tableData)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (s *AIService) getSchemaDefinition() string {
	return `
	- users (id, role [client, coach], status, email, full_name, phone_number)
	- user_profiles (user_id, date_of_birth, gender, height, weight, unit_system [metric, imperial], goal, goal_rate_lbs_per_week, target_weight, dietary_preference, activity_level, workouts_per_week)
	- foods (id, name, brand, calories, protein, carbs, fat, fiber, is_custom, created_by) -- macros per 100 g
	- meals (id, name, meal_type [breakfast, lunch, dinner, snack], price, calories, protein, carbs, fats, fiber, is_vegan, is_vegetarian, is_gluten_free, is_dairy_free, active)
	- food_diary_entries (id, user_id, food_id, meal_id, date, meal_time, servings, notes)
	- workouts (id, user_id, name, duration_mins, level, calories_burned, date, completed)
	- workout_logs (id, user_id, workout_id, date, completed, satisfaction, calories_burned)
	- macro_plans (id, user_id, calorie_target, protein_g, carbs_g, fats_g, active)
	- products (id, slug, name, active)
	- plans (id, product_id, name, billing_interval, price_amount, currency, is_default, sort_order)
	- meal_subscriptions (id, user_id, plan_id, address_id, meals_per_week, portion, protein_preference, start_date, status)
	- weekly_meal_selections (id, subscription_id, week_start, meal_id, quantity)
	- orders (id, order_no, user_id, subscription_id, week_start, subtotal, discount, delivery_fee, total_amount, payment_status, status, scheduled_date, created_at)
	- order_items (id, order_id, meal_id, meal_name, quantity, price_per_item, total_price)
	- deliveries (id, subscription_id, order_id, scheduled_date, status)
	- ai_chat_history (id, user_id, user_message, ai_response, tokens_used, created_at)
	`
}
