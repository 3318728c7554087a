package services

import (
	"context"
	"errors"
	"time"

	"caloriecam/models"

	"github.com/sirupsen/logrus"
)

var ErrEstimatorNotConfigured = errors.New("calorie estimator is not configured")

// Estimator turns a food photo into a calorie estimation. A returned
// estimation may itself carry an Error when the image could not be
// analysed; the Go error is reserved for transport and setup problems.
type Estimator interface {
	Estimate(ctx context.Context, image []byte, mimeType string) (*models.CalorieEstimation, error)
}

// InstrumentedEstimator records metrics and logs around another Estimator.
type InstrumentedEstimator struct {
	next    Estimator
	backend string
	log     logrus.FieldLogger
}

func NewInstrumentedEstimator(next Estimator, backend string, log logrus.FieldLogger) *InstrumentedEstimator {
	return &InstrumentedEstimator{next: next, backend: backend, log: log}
}

func (e *InstrumentedEstimator) Estimate(ctx context.Context, image []byte, mimeType string) (*models.CalorieEstimation, error) {
	start := time.Now()
	est, err := e.next.Estimate(ctx, image, mimeType)
	elapsed := time.Since(start)
	AnalysisDuration.WithLabelValues(e.backend).Observe(elapsed.Seconds())

	entry := e.log.WithFields(logrus.Fields{
		"backend":    e.backend,
		"bytes":      len(image),
		"mime_type":  mimeType,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	switch {
	case err != nil:
		Analyses.WithLabelValues(e.backend, "error").Inc()
		entry.WithError(err).Error("calorie estimation failed")
	case est.Failed():
		Analyses.WithLabelValues(e.backend, "rejected").Inc()
		entry.WithField("reason", est.Error).Warn("image could not be analysed")
	default:
		Analyses.WithLabelValues(e.backend, "ok").Inc()
		entry.WithFields(logrus.Fields{"items": len(est.Items), "calories": est.TotalCalories}).Info("calorie estimation done")
	}
	return est, err
}

// failedEstimation is the value returned when analysis fails inside the
// estimator contract.
func failedEstimation(reason, notes string) *models.CalorieEstimation {
	return &models.CalorieEstimation{
		TotalCalories: 0,
		Items:         []models.FoodItemDetail{},
		Notes:         notes,
		Error:         reason,
	}
}
