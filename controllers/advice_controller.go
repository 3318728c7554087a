package controllers

import (
	"net/http"
	"strconv"

	"caloriecam/services"
	"caloriecam/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdviceController struct {
	advice *services.AdviceService
	log    logrus.FieldLogger
}

func NewAdviceController(advice *services.AdviceService, log logrus.FieldLogger) *AdviceController {
	return &AdviceController{advice: advice, log: log}
}

func (ac *AdviceController) Dashboard(c *gin.Context) {
	d, err := ac.advice.Dashboard(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// SuggestExercises answers GET /exercises/suggest?calories=N.
func (ac *AdviceController) SuggestExercises(c *gin.Context) {
	calories, err := strconv.ParseFloat(c.Query("calories"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "calories must be a number"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": utils.SuggestExercises(calories)})
}

func (ac *AdviceController) Exercises(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"exercises": utils.AvailableExercises()})
}
