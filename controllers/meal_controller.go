package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"caloriecam/middlewares"
	"caloriecam/models"
	"caloriecam/services"
	"caloriecam/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ImageUploader stores a meal photo and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType, prefix, name string) (string, error)
}

type MealController struct {
	estimator services.Estimator
	logs      *services.LogService
	uploader  ImageUploader // nil disables photo upload
	log       logrus.FieldLogger
}

func NewMealController(estimator services.Estimator, logs *services.LogService, uploader ImageUploader, log logrus.FieldLogger) *MealController {
	return &MealController{estimator: estimator, logs: logs, uploader: uploader, log: log}
}

type AnalyzeInput struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	MimeType    string `json:"mime_type"`
}

// Analyze estimates the calories on a photo without logging anything.
// An estimation that carries its own error is still a 200.
func (mc *MealController) Analyze(c *gin.Context) {
	var input AnalyzeInput
	if !bindJSON(c, &input) {
		return
	}
	data, mimeType, err := utils.ParseDataURI(input.ImageBase64, input.MimeType)
	if err != nil {
		respondError(c, mc.log, err)
		return
	}

	est, err := mc.estimator.Estimate(c.Request.Context(), data, mimeType)
	if err != nil {
		if errors.Is(err, services.ErrEstimatorNotConfigured) {
			respondError(c, mc.log, err)
			return
		}
		middlewares.Logger(c, mc.log).WithError(err).Error("calorie estimation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "calorie analysis is unavailable, please try again"})
		return
	}
	c.JSON(http.StatusOK, est)
}

type LogMealInput struct {
	Estimation  models.CalorieEstimation `json:"estimation"`
	ImageBase64 string                   `json:"image_base64"`
	MimeType    string                   `json:"mime_type"`
}

// LogMeal adds an estimation to today's log, uploading the photo first when
// one is attached and uploads are enabled.
func (mc *MealController) LogMeal(c *gin.Context) {
	var input LogMealInput
	if !bindJSON(c, &input) {
		return
	}
	est := input.Estimation
	if est.TotalCalories < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_calories must not be negative"})
		return
	}
	if est.Failed() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot log a failed analysis"})
		return
	}
	if est.Items == nil {
		est.Items = []models.FoodItemDetail{}
	}

	uid := c.GetUint("userID")
	imageURL := ""
	if input.ImageBase64 != "" && mc.uploader != nil {
		data, mimeType, err := utils.ParseDataURI(input.ImageBase64, input.MimeType)
		if err != nil {
			respondError(c, mc.log, err)
			return
		}
		imageURL, err = mc.uploader.Upload(c.Request.Context(), data, mimeType, "meal-photos", strconv.FormatUint(uint64(uid), 10))
		if err != nil {
			// the meal is still worth logging without its photo
			middlewares.Logger(c, mc.log).WithError(err).Warn("meal photo upload failed")
			imageURL = ""
		}
	}

	meal, err := mc.logs.AddMeal(c.Request.Context(), uid, est, imageURL)
	if err != nil {
		respondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// DeleteMeal removes a meal from today's log.
func (mc *MealController) DeleteMeal(c *gin.Context) {
	if err := mc.logs.DeleteMeal(c.Request.Context(), c.GetUint("userID"), c.Param("id")); err != nil {
		respondError(c, mc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
