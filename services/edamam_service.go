package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEdamamBaseURL = "https://api.edamam.com"
	GramMeasureURI       = "http://www.edamam.com/ontologies/edamam.owl#Measure_gram"
	energyNutrient       = "ENERC_KCAL"
)

// FoodMatch is a food database hit for a free-text query.
type FoodMatch struct {
	FoodID      string
	Label       string
	Category    string
	KcalPer100g float64
}

type EdamamService struct {
	foodAppID, foodAppKey   string
	nutriAppID, nutriAppKey string
	baseURL                 string
	client                  *http.Client
}

func NewEdamamService(foodAppID, foodAppKey, nutriAppID, nutriAppKey, baseURL string) *EdamamService {
	if baseURL == "" {
		baseURL = DefaultEdamamBaseURL
	}
	return &EdamamService{
		foodAppID:   foodAppID,
		foodAppKey:  foodAppKey,
		nutriAppID:  nutriAppID,
		nutriAppKey: nutriAppKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type foodParserResponse struct {
	Parsed []struct {
		Food edamamFood `json:"food"`
	} `json:"parsed"`
	Hints []struct {
		Food edamamFood `json:"food"`
	} `json:"hints"`
}

type edamamFood struct {
	FoodID    string             `json:"foodId"`
	Label     string             `json:"label"`
	Category  string             `json:"category"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// SearchFoods calls the food database parser. Exact parses come first,
// followed by the looser hints.
func (s *EdamamService) SearchFoods(ctx context.Context, query string) ([]FoodMatch, error) {
	q := url.Values{}
	q.Set("ingr", query)
	q.Set("app_id", s.foodAppID)
	q.Set("app_key", s.foodAppKey)
	u := s.baseURL + "/api/food-database/v2/parser?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Edamam parser request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Edamam parser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam parser API error %d: %s", resp.StatusCode, string(body))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse Edamam parser JSON: %w", err)
	}

	results := make([]FoodMatch, 0, len(pr.Parsed)+len(pr.Hints))
	seen := map[string]bool{}
	add := func(f edamamFood) {
		if f.FoodID == "" || seen[f.FoodID] {
			return
		}
		seen[f.FoodID] = true
		results = append(results, FoodMatch{
			FoodID:      f.FoodID,
			Label:       f.Label,
			Category:    f.Category,
			KcalPer100g: f.Nutrients[energyNutrient],
		})
	}
	for _, p := range pr.Parsed {
		add(p.Food)
	}
	for _, h := range pr.Hints {
		add(h.Food)
	}
	return results, nil
}

type nutritionResponse struct {
	Calories       float64 `json:"calories"`
	TotalNutrients map[string]struct {
		Quantity float64 `json:"quantity"`
	} `json:"totalNutrients"`
}

// AnalyzeFood calls the nutrients endpoint for qty units of measureURI of
// one food and returns the flattened nutrient quantities.
func (s *EdamamService) AnalyzeFood(ctx context.Context, foodID, measureURI string, qty float64) (map[string]float64, error) {
	payload := map[string]any{
		"ingredients": []map[string]any{{
			"quantity":   qty,
			"measureURI": measureURI,
			"foodId":     foodID,
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nutrition payload: %w", err)
	}

	q := url.Values{}
	q.Set("app_id", s.nutriAppID)
	q.Set("app_key", s.nutriAppKey)
	u := s.baseURL + "/api/food-database/v2/nutrients?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam nutrition API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var nr nutritionResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}

	nut := make(map[string]float64, len(nr.TotalNutrients)+1)
	for k, v := range nr.TotalNutrients {
		nut[k] = v.Quantity
	}
	if _, ok := nut[energyNutrient]; !ok && nr.Calories > 0 {
		nut[energyNutrient] = nr.Calories
	}
	return nut, nil
}

// CaloriesFor returns the kcal of grams of the best match for query.
// ok is false when the database knows no such food.
func (s *EdamamService) CaloriesFor(ctx context.Context, query string, grams float64) (match FoodMatch, kcal float64, ok bool, err error) {
	matches, err := s.SearchFoods(ctx, query)
	if err != nil || len(matches) == 0 {
		return FoodMatch{}, 0, false, err
	}
	match = matches[0]
	nut, err := s.AnalyzeFood(ctx, match.FoodID, GramMeasureURI, grams)
	if err != nil {
		return match, 0, false, err
	}
	if kcal, found := nut[energyNutrient]; found {
		return match, kcal, true, nil
	}
	// the parser hint already carries a per-100g figure
	return match, match.KcalPer100g * grams / 100, match.KcalPer100g > 0, nil
}
