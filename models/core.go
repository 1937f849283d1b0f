package models

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/MarkMap/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase 初始化数据库连接并迁移表结构
func InitDatabase() error {
	var err error
	switch config.DBType {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(config.DSN), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
	case "mysql":
		DB, err = gorm.Open(mysql.Open(config.DSN), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
	default:
		// 默认使用SQLite，数据库文件放在下载目录下
		if err := os.MkdirAll(config.Download, os.ModePerm); err != nil {
			log.Printf("创建存储目录失败: %v", err)
			return err
		}
		dbPath := filepath.Join(config.Download, config.Dbname+".db")
		log.Printf("数据库路径: %s", dbPath)
		DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
	}
	if err != nil {
		log.Printf("连接数据库失败: %v", err)
		return err
	}
	if config.DBType == "sqlite" || config.DBType == "" {
		DB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(DB); err != nil {
		log.Printf("数据库迁移失败: %v", err)
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// Migrate 创建全部表结构，测试时也复用
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&AuthToken{},
		&UserProfile{},
		&Map{},
		&MapLayer{},
		&Category{},
		&PointOfInterest{},
		&SharedMap{},
		&EditRecord{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
