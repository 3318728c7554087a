package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"caloriecam/models"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

const geminiPrompt = `Analyse the food items in this image. For every item you can identify give its name, the estimated calories, an approximate serving size (for example "1 medium", "about 100g") and how confident you are in the calorie estimate ("high", "medium" or "low"). Also give the total estimated calories for all items. If you are unsure, the image quality is poor, or items cannot be identified, add a short note.

Reply with a single valid JSON object and nothing else: no text, explanation or markdown fences around it. Use double quotes for every key and string value and no trailing commas.

Example of the required structure:
{
  "totalCalories": 250,
  "items": [
    {"name": "Apple", "calories": 95, "servingSize": "1 medium", "confidence": "high"},
    {"name": "Banana", "calories": 105, "servingSize": "1 medium", "confidence": "medium"}
  ],
  "notes": "The image is clear. Both items were identified with reasonable confidence."
}

If you cannot identify any food or estimate calories reliably, set "totalCalories" to 0, "items" to an empty array and explain why in "notes".
If an internal error happens during analysis you may add an "error" field next to "notes".`

var fenceRegex = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// GeminiService estimates calories with a Gemini model.
type GeminiService struct {
	client *genai.Client // nil when no API key is configured
	model  string
}

// NewGeminiService builds the Gemini client. baseURL overrides the public
// endpoint and may be empty.
func NewGeminiService(ctx context.Context, apiKey, model, baseURL string) (*GeminiService, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	s := &GeminiService{model: model}
	if apiKey == "" {
		return s, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: 60 * time.Second},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *GeminiService) Estimate(ctx context.Context, image []byte, mimeType string) (*models.CalorieEstimation, error) {
	if s.client == nil {
		return nil, ErrEstimatorNotConfigured
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(geminiPrompt),
		}, genai.RoleUser),
	}
	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return failedEstimation("request blocked",
			fmt.Sprintf("The image could not be analysed (%s). Please try another photo.", resp.PromptFeedback.BlockReason)), nil
	}
	return ParseEstimation(resp.Text()), nil
}

// ParseEstimation decodes the model's reply. Anything that does not match
// the expected shape becomes a failed estimation rather than an error.
func ParseEstimation(raw string) *models.CalorieEstimation {
	jsonStr := strings.TrimSpace(raw)
	if m := fenceRegex.FindStringSubmatch(jsonStr); m != nil && m[2] != "" {
		jsonStr = strings.TrimSpace(m[2])
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return failedEstimation("invalid JSON",
			fmt.Sprintf("The AI reply could not be processed; it may not have returned JSON. Details: %v", err))
	}

	total, okTotal := parsed["totalCalories"].(float64)
	rawItems, okItems := parsed["items"].([]any)
	if !okTotal || !okItems {
		return failedEstimation("unexpected response format",
			"The AI reply did not have the expected structure. Please try again.")
	}

	items := make([]models.FoodItemDetail, 0, len(rawItems))
	for _, ri := range rawItems {
		obj, _ := ri.(map[string]any)
		name, okName := obj["name"].(string)
		calories, okCal := obj["calories"].(float64)
		if !okName || !okCal {
			return failedEstimation("unexpected item format",
				"The AI reply contained a food item in an unexpected format. Please try again.")
		}
		item := models.FoodItemDetail{Name: name, Calories: calories}
		item.ServingSize, _ = obj["servingSize"].(string)
		item.Confidence, _ = obj["confidence"].(string)
		items = append(items, item)
	}

	est := &models.CalorieEstimation{TotalCalories: total, Items: items}
	est.Notes, _ = parsed["notes"].(string)
	est.Error, _ = parsed["error"].(string)
	return est
}
