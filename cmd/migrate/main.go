package main

import (
	"log"
	"os"

	"job-board-be/internal/model"
	"job-board-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	models := []interface{}{
		&model.User{},
		&model.SubscriptionPlan{},
		&model.Subscription{},
		&model.Notification{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Seed the plan catalog (idempotent by slug)
	log.Println("Seeding plan catalog...")
	seedPlans := []model.SubscriptionPlan{
		{
			Name:               "Basic",
			Slug:               "basic",
			Description:        "Job applications with CV generator",
			Price:              49000,
			DurationDays:       30,
			CvGeneratorEnabled: true,
			AssessmentQuota:    3,
			SortOrder:          1,
			IsActive:           true,
		},
		{
			Name:               "Professional",
			Slug:               "professional",
			Description:        "Unlimited assessments and priority review",
			Price:              99000,
			DurationDays:       30,
			CvGeneratorEnabled: true,
			AssessmentQuota:    -1,
			PriorityReview:     true,
			SortOrder:          2,
			IsActive:           true,
		},
		{
			Name:               "Professional Yearly",
			Slug:               "professional-yearly",
			Description:        "Professional plan billed yearly",
			Price:              990000,
			DurationDays:       365,
			CvGeneratorEnabled: true,
			AssessmentQuota:    -1,
			PriorityReview:     true,
			SortOrder:          3,
			IsActive:           true,
		},
	}
	for _, plan := range seedPlans {
		var count int64
		db.Model(&model.SubscriptionPlan{}).Where("slug = ?", plan.Slug).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&plan).Error; err != nil {
			log.Printf("Warn: Failed to seed plan %s: %v", plan.Slug, err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
