package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"caloriecam/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	usersSheet    = "Users"
	profilesSheet = "Profiles"
	mealsSheet    = "Meals"
)

var (
	userHeader    = []interface{}{"User ID", "Email", "Password Hash", "Created At"}
	profileHeader = []interface{}{"User ID", "Name", "Weight (kg)", "Height (cm)", "Updated At"}
	mealHeader    = []interface{}{"User ID", "Date", "Meal ID", "Timestamp", "Total Calories", "Items", "Notes", "Error", "Image URL"}
)

// SheetsStore keeps accounts, profiles and meal logs in a Google spreadsheet
// with "Users", "Profiles" and "Meals" tabs. Row 1 of each tab is a header.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string

	// writers hold it exclusively across read-modify-write cycles, readers
	// share it, so a load never observes a half-written tab
	mu sync.RWMutex
}

// NewSheetsStore authenticates with a service-account credentials file.
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsStore, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}
	return NewSheetsStoreWithService(srv, spreadsheetID), nil
}

func NewSheetsStoreWithService(srv *sheets.Service, spreadsheetID string) *SheetsStore {
	return &SheetsStore{service: srv, spreadsheetID: spreadsheetID}
}

// TestConnection reads the first header cell of the profiles tab.
func (s *SheetsStore) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, profilesSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

func (s *SheetsStore) LoadProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.readRows(ctx, profilesSheet+"!A2:E")
	if err != nil {
		return nil, err
	}
	key := userKey(userID)
	for _, row := range rows {
		if cellString(row, 0) != key {
			continue
		}
		p := &models.UserProfile{
			UserID:   userID,
			Name:     cellString(row, 1),
			WeightKg: cellFloat(row, 2),
			HeightCm: cellFloat(row, 3),
		}
		if ts, err := time.Parse(time.RFC3339, cellString(row, 4)); err == nil {
			p.UpdatedAt = ts
		}
		return p, nil
	}
	return nil, ErrProfileNotFound
}

func (s *SheetsStore) SaveProfile(ctx context.Context, userID uint, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows(ctx, profilesSheet+"!A2:E")
	if err != nil {
		return err
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	row := []interface{}{
		userKey(userID),
		profile.Name,
		profile.WeightKg,
		profile.HeightCm,
		profile.UpdatedAt.Format(time.RFC3339),
	}

	key := userKey(userID)
	for i, existing := range rows {
		if cellString(existing, 0) != key {
			continue
		}
		rowNum := i + 2
		rng := fmt.Sprintf("%s!A%d:E%d", profilesSheet, rowNum, rowNum)
		_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, &sheets.ValueRange{
			Values: [][]interface{}{row},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update profile row: %w", err)
		}
		return nil
	}

	if len(rows) == 0 {
		// empty tab: lay down the header together with the first row
		return s.writeSheet(ctx, profilesSheet, profileHeader, [][]interface{}{row}, 0)
	}
	_, err = s.service.Spreadsheets.Values.Append(s.spreadsheetID, profilesSheet+"!A:E", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append profile row: %w", err)
	}
	return nil
}

func (s *SheetsStore) ClearProfile(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rewriteWithout(ctx, mealsSheet, "!A2:I", mealHeader, userID, nil); err != nil {
		return err
	}
	return s.rewriteWithout(ctx, profilesSheet, "!A2:E", profileHeader, userID, nil)
}

func (s *SheetsStore) LoadDailyLogs(ctx context.Context, userID uint) ([]models.DailyLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.readRows(ctx, mealsSheet+"!A2:I")
	if err != nil {
		return nil, err
	}
	key := userKey(userID)
	var meals []models.Meal
	for i, row := range rows {
		if cellString(row, 0) != key {
			continue
		}
		m, err := mealFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("meals row %d: %w", i+2, err)
		}
		m.UserID = userID
		meals = append(meals, m)
	}
	return groupMeals(meals), nil
}

func (s *SheetsStore) SaveDailyLogs(ctx context.Context, userID uint, logs []models.DailyLogEntry) error {
	var fresh [][]interface{}
	for _, l := range logs {
		for _, m := range l.Meals {
			m.Date = l.Date
			row, err := mealToRow(userID, m)
			if err != nil {
				return err
			}
			fresh = append(fresh, row)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewriteWithout(ctx, mealsSheet, "!A2:I", mealHeader, userID, fresh)
}

// rewriteWithout rewrites a tab keeping every row not owned by userID and
// appending extra.
func (s *SheetsStore) rewriteWithout(ctx context.Context, sheet, dataRange string, header []interface{}, userID uint, extra [][]interface{}) error {
	rows, err := s.readRows(ctx, sheet+dataRange)
	if err != nil {
		return err
	}
	key := userKey(userID)
	kept := make([][]interface{}, 0, len(rows)+len(extra))
	for _, row := range rows {
		if cellString(row, 0) != key {
			kept = append(kept, row)
		}
	}
	kept = append(kept, extra...)
	return s.writeSheet(ctx, sheet, header, kept, len(rows))
}

func (s *SheetsStore) readRows(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// writeSheet writes header plus rows from A1 over the current contents,
// then clears the rows left over from a longer previous write. A failed
// write leaves the old rows in place.
func (s *SheetsStore) writeSheet(ctx context.Context, sheet string, header []interface{}, rows [][]interface{}, previous int) error {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, header)
	values = append(values, rows...)
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, sheet+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	if previous <= len(rows) {
		return nil
	}
	stale := fmt.Sprintf("%s!A%d:Z", sheet, len(values)+1)
	_, err = s.service.Spreadsheets.Values.Clear(s.spreadsheetID, stale, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", stale, err)
	}
	return nil
}

func mealToRow(userID uint, m models.Meal) ([]interface{}, error) {
	est := m.Estimation()
	items, err := json.Marshal(est.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items of meal %s: %w", m.ID, err)
	}
	return []interface{}{
		userKey(userID),
		m.Date,
		m.ID,
		m.Timestamp.UTC().Format(time.RFC3339Nano),
		m.TotalCalories,
		string(items),
		m.Notes,
		m.Error,
		m.ImageURL,
	}, nil
}

func mealFromRow(row []interface{}) (models.Meal, error) {
	ts, err := time.Parse(time.RFC3339Nano, cellString(row, 3))
	if err != nil {
		return models.Meal{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	var items []models.FoodItemDetail
	if raw := cellString(row, 5); raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return models.Meal{}, fmt.Errorf("invalid items: %w", err)
		}
	}
	est := models.CalorieEstimation{
		TotalCalories: cellFloat(row, 4),
		Items:         items,
		Notes:         cellString(row, 6),
		Error:         cellString(row, 7),
	}
	m := models.NewMeal(cellString(row, 2), est, ts, cellString(row, 8))
	m.Date = cellString(row, 1)
	return m, nil
}

func (s *SheetsStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows(ctx, usersSheet+"!A2:D")
	if err != nil {
		return err
	}
	var maxID uint64
	for _, row := range rows {
		if strings.EqualFold(cellString(row, 1), user.Email) {
			return ErrEmailTaken
		}
		if id, err := strconv.ParseUint(cellString(row, 0), 10, 64); err == nil && id > maxID {
			maxID = id
		}
	}

	now := time.Now().UTC()
	user.ID = uint(maxID + 1)
	user.CreatedAt, user.UpdatedAt = now, now
	row := []interface{}{userKey(user.ID), user.Email, user.Password, now.Format(time.RFC3339)}

	if len(rows) == 0 {
		return s.writeSheet(ctx, usersSheet, userHeader, [][]interface{}{row}, 0)
	}
	_, err = s.service.Spreadsheets.Values.Append(s.spreadsheetID, usersSheet+"!A:D", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append user row: %w", err)
	}
	return nil
}

func (s *SheetsStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.readRows(ctx, usersSheet+"!A2:D")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if !strings.EqualFold(cellString(row, 1), email) {
			continue
		}
		id, err := strconv.ParseUint(cellString(row, 0), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("users row for %s: invalid id: %w", email, err)
		}
		u := &models.User{ID: uint(id), Email: cellString(row, 1), Password: cellString(row, 2)}
		if ts, err := time.Parse(time.RFC3339, cellString(row, 3)); err == nil {
			u.CreatedAt, u.UpdatedAt = ts, ts
		}
		return u, nil
	}
	return nil, ErrUserNotFound
}

func userKey(userID uint) string { return strconv.FormatUint(uint64(userID), 10) }

func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func cellFloat(row []interface{}, i int) float64 {
	if i >= len(row) {
		return 0
	}
	if f, ok := row[i].(float64); ok {
		return f
	}
	f, err := strconv.ParseFloat(cellString(row, i), 64)
	if err != nil {
		return 0
	}
	return f
}
