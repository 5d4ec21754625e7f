package database

import (
	"fmt"
	"log"

	"api/config"
	"api/models"
	"api/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

var AdminUsername = "admin"
var DefaultPassword = "admin"

// PresetModelName is the evaluation model seeded at startup
var PresetModelName = "芒果"

// InitDB initializes the database connection, migrates the models and populates the database with default values if needed
func InitDB() {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=Asia/Shanghai", config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	Populate()
}

// Migrate runs the schema migration for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.EvaluationModel{},
		&models.EvaluationParameter{},
		&models.Competition{},
		&models.CompetitionJudge{},
		&models.CompetitionEntry{},
		&models.Rating{},
	)
}

// Populate populates the database with default values if needed
func Populate() {
	var countUser int64

	// Create a default administrator if the user table is empty
	DB.Model(&models.User{}).Count(&countUser)
	if countUser == 0 {
		password := DefaultPassword
		if config.DefaultPassword != "" {
			password = config.DefaultPassword
		}

		hashed, err := utils.HashPassword(password)
		if err != nil {
			panic(err)
		}

		admin := models.User{
			Username: AdminUsername,
			Password: hashed,
			IsAdmin:  true,
		}
		DB.Create(&admin)
		log.Println("Default user admin created")
	}

	// Seed the preset evaluation model if it does not exist yet
	var countPreset int64
	DB.Model(&models.EvaluationModel{}).Where("name = ? AND deleted_at IS NULL", PresetModelName).Count(&countPreset)
	if countPreset == 0 {
		preset := models.EvaluationModel{Name: PresetModelName}
		if err := DB.Create(&preset).Error; err != nil {
			log.Println("Failed to create preset evaluation model: ", err)
			return
		}

		parameters := []struct {
			Name   string
			Weight int
		}{
			{"外观", 10},
			{"风味", 24},
			{"滋味", 16},
			{"质构", 18},
			{"形状", 22},
			{"营养", 10},
		}
		for i, p := range parameters {
			parameter := models.EvaluationParameter{
				ModelID:      preset.ID,
				Name:         p.Name,
				Weight:       p.Weight,
				DisplayOrder: i + 1,
			}
			if err := DB.Create(&parameter).Error; err != nil {
				log.Println("Failed to create preset parameter: ", err)
			}
		}
		log.Println("Preset evaluation model created: ", PresetModelName)
	}
}
