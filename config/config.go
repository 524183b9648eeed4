package config

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port           string
	BindAddress    string
	StorageBackend string // "redis", "postgres" or "memory"
	RedisHost      string
	RedisPort      string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	GeminiAPIKey   string
	GeminiModel    string
	JWTSecret      string
	// TeacherPassphraseHash is the bcrypt hash of the shared teacher
	// passphrase. When empty, TeacherPassphrase is hashed at startup.
	TeacherPassphraseHash string
	TeacherPassphrase     string
}

func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		BindAddress:           getEnv("BIND_ADDRESS", "localhost"),
		StorageBackend:        getEnv("STORAGE_BACKEND", "redis"),
		RedisHost:             getEnv("REDIS_HOST", "localhost"),
		RedisPort:             getEnv("REDIS_PORT", "6379"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "engsmart"),
		DBPassword:            getEnv("DB_PASSWORD", "engsmart123"),
		DBName:                getEnv("DB_NAME", "engsmart"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-3-pro-preview"),
		JWTSecret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		TeacherPassphraseHash: getEnv("TEACHER_PASSPHRASE_HASH", ""),
		TeacherPassphrase:     getEnv("TEACHER_PASSPHRASE", "engsmart2024"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	return client
}
