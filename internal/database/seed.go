package database

import (
	"fmt"

	"github.com/ymezzour/plant-task-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// demoPassword is shared by every seeded account.
const demoPassword = "demo123"

var seedUsers = []models.User{
	{ID: "user-1", FirstName: "Amina", LastName: "El Fassi", Email: "chef.production@asment.ma", Role: models.RoleDepartmentHead, Department: models.DepartmentProduction, AvatarURL: "https://picsum.photos/id/1027/100/100"},
	{ID: "user-2", FirstName: "Youssef", LastName: "Alami", Email: "ilyass.ait@asment.ma", Role: models.RoleEngineer, Department: models.DepartmentMaintenance, AvatarURL: "https://picsum.photos/id/1005/100/100"},
	{ID: "user-3", FirstName: "Karim", LastName: "Tazi", Email: "ahmed.tech@asment.ma", Role: models.RoleTechnician, Department: models.DepartmentMaintenance, AvatarURL: "https://picsum.photos/id/1011/100/100", Phone: "+212 6 12 34 56 78"},
	{ID: "user-4", FirstName: "Fatima", LastName: "Idrissi", Email: "fatima.zahra@asment.ma", Role: models.RoleTechnician, Department: models.DepartmentProduction, AvatarURL: "https://picsum.photos/id/1025/100/100"},
	{ID: "user-5", FirstName: "Omar", LastName: "Berrada", Email: "rachid.ouafi@asment.ma", Role: models.RoleTechnician, Department: models.DepartmentTechnology, AvatarURL: "https://picsum.photos/id/1012/100/100"},
	{ID: "user-6", FirstName: "Kenza", LastName: "Bennani", Email: "aicha.bennani@asment.ma", Role: models.RoleEngineer, Department: models.DepartmentQuality, AvatarURL: "https://picsum.photos/id/1013/100/100"},
	{ID: "user-admin", FirstName: "Said", LastName: "Alaoui", Email: "admin@asment.ma", Role: models.RoleAdmin, Department: models.DepartmentAdminHR, AvatarURL: "https://picsum.photos/id/10/100/100"},
}

// Seed inserts the demo user roster when the users table is empty. Accounts
// are otherwise managed by an external admin process; there is no signup
// endpoint.
func Seed() error {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]models.User, len(seedUsers))
	copy(users, seedUsers)
	for i := range users {
		users[i].PasswordHash = string(hash)
	}

	if err := DB.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	return nil
}
