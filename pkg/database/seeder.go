package database

import (
	"log"

	"barba-negra-app/config"
	"barba-negra-app/internal/models"
	"barba-negra-app/internal/utils"

	"gorm.io/gorm"
)

func SeedRolesAndAdmin() {
	roles := []string{"admin", "manager", "barber", "biller"}
	for _, r := range roles {
		var role models.Role
		if err := DB.FirstOrCreate(&role, models.Role{Name: r}).Error; err != nil {
			log.Printf("Failed to seed role %s: %v", r, err)
		}
	}

	var adminRole models.Role
	DB.Where("name = ?", "admin").First(&adminRole)

	var adminUser models.User
	if err := DB.Where("employee_id = ?", config.AppConfig.Defaults.AdminEmployeeID).First(&adminUser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			hashedPassword, _ := utils.HashPassword(config.AppConfig.Defaults.AdminPassword)
			admin := models.User{
				EmployeeID:   config.AppConfig.Defaults.AdminEmployeeID,
				Username:     "Administrador",
				PasswordHash: hashedPassword,
				RoleID:       adminRole.ID,
				IsActive:     true,
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("Failed to seed admin user: %v", err)
			} else {
				log.Println("Admin user seeded successfully.")
			}
		}
	}
}

// SeedBaseServices inserts the standard service catalog on first boot so
// billing works out of the box.
func SeedBaseServices() {
	services := []models.Service{
		{Name: "Corte clásico", Price: 12.00, DurationMin: 30},
		{Name: "Corte + barba", Price: 18.00, DurationMin: 45},
		{Name: "Afeitado tradicional", Price: 10.00, DurationMin: 25},
		{Name: "Arreglo de barba", Price: 8.00, DurationMin: 20},
	}
	for _, s := range services {
		var existing models.Service
		if err := DB.Where("name = ?", s.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			svc := s
			svc.IsActive = true
			if err := DB.Create(&svc).Error; err != nil {
				log.Printf("Failed to seed service %s: %v", s.Name, err)
			}
		}
	}
}
