package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
)

// GetFinancialSummary aggregates charge totals for the caller's provider.
func GetFinancialSummary(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	var summary struct {
		TotalCharges     int64     `json:"total_charges"`
		PendingCount     int64     `json:"pending_count"`
		PaidCount        int64     `json:"paid_count"`
		CanceledCount    int64     `json:"canceled_count"`
		DisputedCount    int64     `json:"disputed_count"`
		TotalRevenue     float64   `json:"total_revenue"`
		TotalOutstanding float64   `json:"total_outstanding"`
		TotalRefunded    float64   `json:"total_refunded"`
		LastUpdated      time.Time `json:"last_updated"`
	}

	base := func() *gorm.DB {
		return db.DB.Table("charges").
			Joins("JOIN enrollments ON enrollments.id = charges.enrollment_id").
			Joins("JOIN services ON services.id = enrollments.service_id").
			Where("services.provider_id = ?", provider.ID)
	}

	base().Count(&summary.TotalCharges)
	base().Where("charges.status = ?", models.ChargePending).Count(&summary.PendingCount)
	base().Where("charges.status IN (?)", []models.ChargeStatus{
		models.ChargePaid, models.ChargePartiallyRefunded, models.ChargeRefunded,
	}).Count(&summary.PaidCount)
	base().Where("charges.status = ?", models.ChargeCanceled).Count(&summary.CanceledCount)
	base().Where("charges.status = ?", models.ChargeInDispute).Count(&summary.DisputedCount)

	type sumResult struct {
		Total float64
	}
	var revenue, outstanding, refunded sumResult

	base().Where("charges.status IN (?)", []models.ChargeStatus{
		models.ChargePaid, models.ChargePartiallyRefunded, models.ChargeRefunded,
	}).Select("COALESCE(SUM(charges.amount), 0) as total").Scan(&revenue)
	base().Where("charges.status = ?", models.ChargePending).
		Select("COALESCE(SUM(charges.amount), 0) as total").Scan(&outstanding)
	base().Select("COALESCE(SUM(charges.refunded_amount), 0) as total").Scan(&refunded)

	summary.TotalRevenue = revenue.Total
	summary.TotalOutstanding = outstanding.Total
	summary.TotalRefunded = refunded.Total
	summary.LastUpdated = time.Now()

	return c.JSON(summary)
}

// GetOperationalMetrics aggregates enrollment and catalog counts for the
// caller's provider.
func GetOperationalMetrics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	provider, err := providerForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider profile not found",
		})
	}

	var metrics struct {
		TotalEnrollments     int64     `json:"total_enrollments"`
		ActiveEnrollments    int64     `json:"active_enrollments"`
		PausedEnrollments    int64     `json:"paused_enrollments"`
		CancelledEnrollments int64     `json:"cancelled_enrollments"`
		ActiveServices       int64     `json:"active_services"`
		UpcomingCharges      int64     `json:"upcoming_charges"`
		LastUpdated          time.Time `json:"last_updated"`
	}

	enrollmentBase := func() *gorm.DB {
		return db.DB.Table("enrollments").
			Joins("JOIN services ON services.id = enrollments.service_id").
			Where("services.provider_id = ?", provider.ID)
	}

	enrollmentBase().Count(&metrics.TotalEnrollments)
	enrollmentBase().Where("enrollments.status = ?", models.EnrollmentActive).Count(&metrics.ActiveEnrollments)
	enrollmentBase().Where("enrollments.status = ?", models.EnrollmentPaused).Count(&metrics.PausedEnrollments)
	enrollmentBase().Where("enrollments.status = ?", models.EnrollmentCancelled).Count(&metrics.CancelledEnrollments)

	db.DB.Model(&models.Service{}).
		Where("provider_id = ? AND is_active = ?", provider.ID, true).
		Count(&metrics.ActiveServices)

	weekAhead := time.Now().AddDate(0, 0, 7)
	db.DB.Table("charges").
		Joins("JOIN enrollments ON enrollments.id = charges.enrollment_id").
		Joins("JOIN services ON services.id = enrollments.service_id").
		Where("services.provider_id = ? AND charges.status = ? AND charges.due_date <= ?",
			provider.ID, models.ChargePending, weekAhead).
		Count(&metrics.UpcomingCharges)

	metrics.LastUpdated = time.Now()
	return c.JSON(metrics)
}
