package controllers

import (
	"net/http"
	"time"

	"caloriecam/models"
	"caloriecam/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProfileController struct {
	store services.Store
	log   logrus.FieldLogger
}

func NewProfileController(store services.Store, log logrus.FieldLogger) *ProfileController {
	return &ProfileController{store: store, log: log}
}

type ProfileInput struct {
	Name     string  `json:"name"`
	WeightKg float64 `json:"weight_kg" binding:"required,gt=0,lt=700"`
	HeightCm float64 `json:"height_cm" binding:"required,gt=0,lt=300"`
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	profile, err := pc.store.LoadProfile(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile replaces the whole profile.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetUint("userID")
	profile := models.UserProfile{
		UserID:    uid,
		Name:      input.Name,
		WeightKg:  input.WeightKg,
		HeightCm:  input.HeightCm,
		UpdatedAt: time.Now().UTC(),
	}
	if err := pc.store.SaveProfile(c.Request.Context(), uid, profile); err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteProfile drops the profile and every meal log of the caller.
func (pc *ProfileController) DeleteProfile(c *gin.Context) {
	if err := pc.store.ClearProfile(c.Request.Context(), c.GetUint("userID")); err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
