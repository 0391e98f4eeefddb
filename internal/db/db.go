package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/DekuWorks/241RunnersAwareness-sub005/config"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
)

var DB *gorm.DB

func InitDB(cfg config.Config) *gorm.DB {
	if cfg.DatabaseURL == "" {
		log.Fatal("InitDB: DATABASE_URL is not set")
	}
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("InitDB: failed to connect: %v", err)
	}
	DB = conn

	if err := DB.AutoMigrate(
		&models.TopicSubscription{},
		&models.BroadcastArchive{},
	); err != nil {
		log.Fatalf("InitDB: migration failed: %v", err)
	}
	log.Println("DB migrations complete")
	return DB
}
