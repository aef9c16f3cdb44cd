package db

import (
	"fmt"
	"log"

	"github.com/controlapag/controlapag-api/models"
)

func Migrate() {
	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Provider{},
		&models.Client{},
		&models.Service{},
		&models.Enrollment{},
		&models.ChargeSchedule{},
		&models.ServiceSchedule{},
		&models.Charge{},
		&models.ChargeException{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
