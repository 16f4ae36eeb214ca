package main

import (
	"log"
	"os"

	"survey-bot-be/internal/model"
	"survey-bot-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Survey Catalog...")

	segments := []model.Segment{
		{Name: "SEGMENT UTARA"},
		{Name: "SEGMENT SELATAN"},
		{Name: "SEGMENT TIMUR"},
		{Name: "SEGMENT BARAT"},
	}

	for _, s := range segments {
		var existing model.Segment
		if err := db.Where("name = ?", s.Name).First(&existing).Error; err == nil {
			log.Printf("Segment '%s' already exists, skipping...", s.Name)
			continue
		}

		if err := db.Create(&s).Error; err != nil {
			log.Printf("Error creating segment '%s': %v", s.Name, err)
		} else {
			log.Printf("Created segment: %s", s.Name)
		}
	}

	designators := []model.Designator{
		{Code: "DES-AC-OF-SM-24", Category: "KABEL UDARA", Description: "Penarikan kabel udara 24 core", Unit: "meter", MaterialValue: 15000, ServiceValue: 8500},
		{Code: "DES-AC-OF-SM-48", Category: "KABEL UDARA", Description: "Penarikan kabel udara 48 core", Unit: "meter", MaterialValue: 24000, ServiceValue: 9500},
		{Code: "DES-DC-OF-SM-24", Category: "KABEL TANAH", Description: "Penggelaran kabel tanah 24 core", Unit: "meter", MaterialValue: 21000, ServiceValue: 16000},
		{Code: "DES-PU-S7-140", Category: "TIANG", Description: "Pemasangan tiang besi 7 meter", Unit: "batang", MaterialValue: 1250000, ServiceValue: 450000},
		{Code: "DES-PU-S9-140", Category: "TIANG", Description: "Pemasangan tiang besi 9 meter", Unit: "batang", MaterialValue: 1780000, ServiceValue: 520000},
		{Code: "DES-ODP-PB-8", Category: "ODP", Description: "Instalasi ODP pole 8 port", Unit: "unit", MaterialValue: 950000, ServiceValue: 350000},
		{Code: "DES-ODP-CA-16", Category: "ODP", Description: "Instalasi ODP closure aerial 16 port", Unit: "unit", MaterialValue: 1450000, ServiceValue: 400000},
		{Code: "DES-OS-SM-1", Category: "SPLICING", Description: "Penyambungan serat optik per core", Unit: "core", MaterialValue: 35000, ServiceValue: 27500},
	}

	for _, d := range designators {
		var existing model.Designator
		if err := db.Where("code = ?", d.Code).First(&existing).Error; err == nil {
			log.Printf("Designator '%s' already exists, skipping...", d.Code)
			continue
		}

		if err := db.Create(&d).Error; err != nil {
			log.Printf("Error creating designator '%s': %v", d.Code, err)
		} else {
			log.Printf("Created designator: %s (%s)", d.Code, d.Category)
		}
	}

	log.Println("Catalog seeding completed!")
}
