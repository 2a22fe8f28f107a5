package database

import (
	"fmt"
	"log"

	"qurio_backend/internal/config"
	"qurio_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 执行建表与种子数据，测试环境（sqlite）亦复用
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.QuizAttempt{},
		&model.Answer{},
	)
	if err != nil {
		return err
	}

	// 默认管理员账号，首次启动时创建
	var count int64
	db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &model.User{
			Name:     "Super Admin",
			Username: "admin",
			Password: string(hashed),
			Role:     model.Admin,
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		log.Println("Default admin account seeded (username: admin)")
	}

	return nil
}
