package routes

import (
	"net/http"

	"caloriecam/controllers"
	"caloriecam/middlewares"
	"caloriecam/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Dependencies are the handlers the router mounts.
type Dependencies struct {
	Log       logrus.FieldLogger
	JWTSecret string

	Auth     *controllers.AuthController
	Profile  *controllers.ProfileController
	Meals    *controllers.MealController
	Logs     *controllers.LogController
	Advice   *controllers.AdviceController
	Realtime *controllers.RealtimeController
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log), middlewares.Metrics())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
	}

	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware(d.JWTSecret))
	{
		protected.GET("/user/profile", d.Profile.GetProfile)
		protected.PUT("/user/profile", d.Profile.UpdateProfile)
		protected.DELETE("/user/profile", d.Profile.DeleteProfile)

		imageBody := middlewares.BodyLimit(utils.MaxImageRequestBytes)
		protected.POST("/meals/analyze", imageBody, d.Meals.Analyze)
		protected.POST("/meals", imageBody, d.Meals.LogMeal)
		protected.DELETE("/meals/:id", d.Meals.DeleteMeal)

		protected.GET("/logs", d.Logs.History)
		protected.GET("/logs/today", d.Logs.Today)
		protected.GET("/logs/weekly", d.Logs.Weekly)
		protected.GET("/logs/export", d.Logs.Export)

		protected.GET("/advice", d.Advice.Dashboard)
		protected.GET("/exercises", d.Advice.Exercises)
		protected.GET("/exercises/suggest", d.Advice.SuggestExercises)

		protected.GET("/ws/alerts", d.Realtime.AlertsWS)
	}

	return r
}
