package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"caloriecam/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/sirupsen/logrus"
)

// labelServingGrams is the portion assumed for every recognised label.
const labelServingGrams = 100

// labels Rekognition returns for almost any meal photo
var genericLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "plate": true, "lunch": true,
	"dinner": true, "breakfast": true, "produce": true, "plant": true,
	"cutlery": true, "fork": true, "spoon": true, "table": true, "tableware": true,
}

// DetectLabelsAPI is the part of the Rekognition client the service uses.
type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Label is one object Rekognition found on the image.
type Label struct {
	Name       string
	Confidence float64
}

type RekognitionService struct {
	client DetectLabelsAPI
}

func NewRekognitionService(ctx context.Context, region string) (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for rekognition: %w", err)
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

func NewRekognitionServiceWithClient(client DetectLabelsAPI) *RekognitionService {
	return &RekognitionService{client: client}
}

// RecognizeLabels returns the top labels of the image bytes.
func (r *RekognitionService) RecognizeLabels(ctx context.Context, image []byte) ([]Label, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, Label{Name: *l.Name, Confidence: float64(aws.ToFloat32(l.Confidence))})
	}
	return labels, nil
}

// NutritionLookup resolves a food name to its calories.
type NutritionLookup interface {
	CaloriesFor(ctx context.Context, query string, grams float64) (FoodMatch, float64, bool, error)
}

// LabelEstimator estimates calories by recognising labels on the photo
// and looking each one up in the Edamam food database.
type LabelEstimator struct {
	labels    *RekognitionService
	nutrition NutritionLookup
	log       logrus.FieldLogger
}

func NewLabelEstimator(labels *RekognitionService, nutrition NutritionLookup, log logrus.FieldLogger) *LabelEstimator {
	return &LabelEstimator{labels: labels, nutrition: nutrition, log: log}
}

func (e *LabelEstimator) Estimate(ctx context.Context, image []byte, mimeType string) (*models.CalorieEstimation, error) {
	labels, err := e.labels.RecognizeLabels(ctx, image)
	if err != nil {
		return nil, err
	}

	est := &models.CalorieEstimation{Items: []models.FoodItemDetail{}}
	var skipped []string
	for _, l := range labels {
		if genericLabels[strings.ToLower(l.Name)] {
			continue
		}
		_, kcal, ok, err := e.nutrition.CaloriesFor(ctx, l.Name, labelServingGrams)
		if err != nil {
			e.log.WithError(err).WithField("label", l.Name).Warn("nutrition lookup failed")
			skipped = append(skipped, l.Name)
			continue
		}
		if !ok {
			skipped = append(skipped, l.Name)
			continue
		}
		kcal = math.Round(kcal)
		est.Items = append(est.Items, models.FoodItemDetail{
			Name:        l.Name,
			Calories:    kcal,
			ServingSize: fmt.Sprintf("about %dg", labelServingGrams),
			Confidence:  confidenceLevel(l.Confidence),
		})
		est.TotalCalories += kcal
	}

	if len(est.Items) == 0 {
		return failedEstimation("no food identified",
			"No food could be clearly identified on the image. Try a sharper photo or another angle."), nil
	}
	if len(skipped) > 0 {
		est.Notes = "Not counted: " + strings.Join(skipped, ", ") + "."
	}
	return est, nil
}

func confidenceLevel(c float64) string {
	switch {
	case c >= 90:
		return "high"
	case c >= 80:
		return "medium"
	default:
		return "low"
	}
}
