package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEdamamServer(t *testing.T, nutrientsStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/food-database/v2/parser", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "food-id", r.URL.Query().Get("app_id"))
		if r.URL.Query().Get("ingr") == "unknown" {
			_ = json.NewEncoder(w).Encode(map[string]any{"hints": []any{}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"parsed": []any{map[string]any{"food": map[string]any{
				"foodId": "food_apple", "label": "Apple", "category": "Generic foods",
				"nutrients": map[string]any{"ENERC_KCAL": 52},
			}}},
			"hints": []any{
				map[string]any{"food": map[string]any{"foodId": "food_apple", "label": "Apple"}},
				map[string]any{"food": map[string]any{"foodId": "food_apple_juice", "label": "Apple juice"}},
			},
		})
	})
	mux.HandleFunc("/api/food-database/v2/nutrients", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "nutri-id", r.URL.Query().Get("app_id"))
		var body struct {
			Ingredients []struct {
				Quantity   float64 `json:"quantity"`
				MeasureURI string  `json:"measureURI"`
				FoodID     string  `json:"foodId"`
			} `json:"ingredients"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if nutrientsStatus != http.StatusOK {
			w.WriteHeader(nutrientsStatus)
			return
		}
		qty := body.Ingredients[0].Quantity
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalNutrients": map[string]any{
				"ENERC_KCAL": map[string]any{"quantity": 0.52 * qty},
				"PROCNT":     map[string]any{"quantity": 0.003 * qty},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEdamamService_SearchFoodsDeduplicates(t *testing.T) {
	srv := newEdamamServer(t, http.StatusOK)
	svc := NewEdamamService("food-id", "food-key", "nutri-id", "nutri-key", srv.URL)

	matches, err := svc.SearchFoods(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "food_apple", matches[0].FoodID)
	assert.Equal(t, 52.0, matches[0].KcalPer100g)
	assert.Equal(t, "Apple juice", matches[1].Label)
}

func TestEdamamService_CaloriesFor(t *testing.T) {
	srv := newEdamamServer(t, http.StatusOK)
	svc := NewEdamamService("food-id", "food-key", "nutri-id", "nutri-key", srv.URL)

	match, kcal, ok, err := svc.CaloriesFor(context.Background(), "apple", 200)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Apple", match.Label)
	assert.InDelta(t, 104, kcal, 1e-9)

	_, _, ok, err = svc.CaloriesFor(context.Background(), "unknown", 100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEdamamService_NutrientsError(t *testing.T) {
	srv := newEdamamServer(t, http.StatusUnauthorized)
	svc := NewEdamamService("food-id", "food-key", "nutri-id", "nutri-key", srv.URL)

	_, _, ok, err := svc.CaloriesFor(context.Background(), "apple", 100)
	assert.False(t, ok)
	assert.ErrorContains(t, err, "401")
}
