package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/models"
	"github.com/controlapag/controlapag-api/utils"
)

// StartCronJobs initializes the scheduler for charge generation and due
// reminders.
func StartCronJobs() {
	c := cron.New()
	// Generate due charges every morning, remind later in the day
	_, err := c.AddFunc("0 6 * * *", GenerateRecurringCharges)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	_, err = c.AddFunc("0 9 * * *", sendChargeReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("✅ Cron scheduler started for charge generation and reminders")
}

// GenerateRecurringCharges walks active recurring enrollments and creates the
// pending charges that have come due, honoring charge exceptions.
func GenerateRecurringCharges() {
	var enrollments []models.Enrollment
	err := db.DB.Preload("ChargeSchedule").Preload("Service").Preload("Client.User").
		Joins("JOIN charge_schedules ON charge_schedules.enrollment_id = enrollments.id").
		Where("enrollments.status = ? AND charge_schedules.billing_model = ?",
			models.EnrollmentActive, models.BillingModelRecurring).
		Find(&enrollments).Error
	if err != nil {
		log.Printf("Error fetching enrollments for charge generation: %v", err)
		return
	}

	today := truncateToDay(time.Now())
	created := 0
	for i := range enrollments {
		n, err := generateChargesFor(&enrollments[i], today)
		if err != nil {
			log.Printf("Charge generation failed for enrollment %s: %v", enrollments[i].ID, err)
			continue
		}
		created += n
	}
	log.Printf("Charge generation pass complete: %d charges created", created)
}

func generateChargesFor(e *models.Enrollment, today time.Time) (int, error) {
	cs := e.ChargeSchedule
	if cs == nil {
		return 0, fmt.Errorf("enrollment has no charge schedule")
	}

	next := nextDueDate(e, cs)
	created := 0
	for !next.After(today) {
		if e.EndDate != nil && next.After(*e.EndDate) {
			break
		}

		dueDate := next
		amount := e.Price
		skip := false

		var exception models.ChargeException
		if db.DB.Where("enrollment_id = ? AND original_charge_date = ?", e.ID, next).
			First(&exception).RowsAffected > 0 {
			switch exception.Action {
			case models.ExceptionSkip:
				skip = true
			case models.ExceptionPostpone:
				dueDate = *exception.NewDueDate
			case models.ExceptionModifyAmount:
				amount = *exception.NewAmount
			}
		}

		if !skip && !chargeExists(e.ID, dueDate) {
			charge := models.Charge{
				EnrollmentID: e.ID,
				Amount:       amount,
				DueDate:      dueDate,
				Status:       models.ChargePending,
			}
			if err := db.DB.Create(&charge).Error; err != nil {
				return created, err
			}
			created++
		}

		next = utils.NextChargeDate(cs, next)
	}
	return created, nil
}

// nextDueDate computes the first ungenerated due date for an enrollment:
// the interval after the latest charge, or the schedule's first occurrence on
// a fresh enrollment.
func nextDueDate(e *models.Enrollment, cs *models.ChargeSchedule) time.Time {
	var latest models.Charge
	if db.DB.Where("enrollment_id = ?", e.ID).
		Order("due_date DESC").
		First(&latest).RowsAffected > 0 {
		var postponements []models.ChargeException
		db.DB.Where("enrollment_id = ? AND action = ?", e.ID, models.ExceptionPostpone).
			Find(&postponements)
		return nextOccurrenceAfter(cs, latest.DueDate, postponements)
	}

	first := truncateToDay(e.StartDate)
	switch ptrInterval(cs) {
	case models.IntervalMonthly, models.IntervalYearly:
		candidate := time.Date(first.Year(), first.Month(), cs.ChargeDay, 0, 0, 0, 0, first.Location())
		if cs.ChargeDay >= 1 && !candidate.Before(first) {
			return candidate
		}
		return utils.NextChargeDate(cs, first)
	default:
		return first
	}
}

// nextOccurrenceAfter advances the cadence from the latest generated charge.
// A postponed charge is stored under its moved due date, so the advance base
// is the exception's original occurrence; advancing from the moved date would
// shift every following daily or weekly occurrence by the postponement offset.
func nextOccurrenceAfter(cs *models.ChargeSchedule, latestDue time.Time, postponements []models.ChargeException) time.Time {
	base := latestDue
	for i := range postponements {
		ex := &postponements[i]
		if ex.NewDueDate != nil && ex.NewDueDate.Equal(latestDue) {
			base = ex.OriginalChargeDate
			break
		}
	}
	return utils.NextChargeDate(cs, base)
}

func ptrInterval(cs *models.ChargeSchedule) models.RecurrenceInterval {
	if cs.RecurrenceInterval == nil {
		return models.IntervalMonthly
	}
	return *cs.RecurrenceInterval
}

func chargeExists(enrollmentID uuid.UUID, dueDate time.Time) bool {
	var count int64
	db.DB.Model(&models.Charge{}).
		Where("enrollment_id = ? AND due_date = ?", enrollmentID, dueDate).
		Count(&count)
	return count > 0
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sendChargeReminders emails clients about pending charges due in the next
// three days.
func sendChargeReminders() {
	var charges []models.Charge
	now := time.Now()
	until := now.AddDate(0, 0, 3)

	err := db.DB.Preload("Enrollment.Service").Preload("Enrollment.Client.User").
		Where("status = ? AND due_date BETWEEN ? AND ?", models.ChargePending, now, until).
		Find(&charges).Error
	if err != nil {
		log.Printf("Error fetching charges for reminders: %v", err)
		return
	}

	for _, charge := range charges {
		if err := sendReminderEmail(&charge); err != nil {
			log.Printf("Failed to send reminder for charge %s: %v", charge.ID, err)
			continue
		}
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(charge *models.Charge) error {
	if charge.Enrollment == nil || charge.Enrollment.Client == nil || charge.Enrollment.Client.User == nil {
		return fmt.Errorf("charge %s has no client to notify", charge.ID)
	}
	client := charge.Enrollment.Client.User
	serviceName := ""
	if charge.Enrollment.Service != nil {
		serviceName = charge.Enrollment.Service.Name
	}

	subject := fmt.Sprintf("Reminder: Upcoming Charge - %s", serviceName)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder that you have a charge coming due.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Amount:</strong> %s</li>
			<li><strong>Due Date:</strong> %s</li>
		</ul>
		<p>If you have already paid, please disregard this message.</p>
		<p>Best regards,</p>
		<p>ControlaPAG</p>
	`, client.Username, serviceName,
		charge.Amount.StringFixed(2),
		charge.DueDate.Format("2006-01-02"))

	return utils.SendEmail(client.Email, subject, body)
}
