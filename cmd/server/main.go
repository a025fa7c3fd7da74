package main

import (
	"log"

	"github.com/cinelog/cinelog-backend/internal/config"
	"github.com/cinelog/cinelog-backend/internal/model"
	"github.com/cinelog/cinelog-backend/internal/server"
	"github.com/cinelog/cinelog-backend/internal/service"
	"github.com/cinelog/cinelog-backend/pkg/database"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := seedBadges(db); err != nil {
		log.Fatalf("failed to seed badges: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, running without redis (no cache, rate limits, or live notifications)")
	}

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Movie{},
		&model.Review{},
		&model.ReviewLike{},
		&model.WatchedMovie{},
		&model.PersonalList{},
		&model.PersonalListItem{},
		&model.Comment{},
		&model.UserScore{},
		&model.PointLog{},
		&model.ActionLog{},
		&model.Badge{},
		&model.UserBadge{},
		&model.Notification{},
	)
}

func seedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "Administrator"},
		{Name: "member", Description: "Regular member"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// seedBadges materializes the badge catalog as rows so earned badges can
// reference them. Existing rows are left untouched.
func seedBadges(db *gorm.DB) error {
	for _, spec := range service.BadgeCatalog {
		badge := model.Badge{
			BadgeID:      spec.ID,
			Name:         spec.Name,
			Description:  spec.Description,
			RewardPoints: spec.RewardPoints,
			Icon:         spec.Icon,
			Color:        spec.Color,
		}
		if err := db.Where("badge_id = ?", spec.ID).
			Attrs(badge).
			FirstOrCreate(&badge).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@cinelog.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Username:     "admin",
		Email:        "admin@cinelog.local",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded (admin@cinelog.local / admin123)")
	return nil
}
