package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"alfredoptarigan/idea-evaluator/internal/models"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type LLMConfig struct {
	// Provider selects the backing model API: gemini, openai or anthropic.
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

type StorageConfig struct {
	DataDir      string
	TaxonomyPath string
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	RequestTimeout    time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "idea_evaluator"),
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "gemini"),
			APIKey:   getEnv("LLM_API_KEY", ""),
			Model:    getEnv("LLM_MODEL", ""),
			BaseURL:  getEnv("LLM_BASE_URL", ""),
		},
		Storage: StorageConfig{
			DataDir:      getEnv("DATA_DIR", "./data"),
			TaxonomyPath: getEnv("TAXONOMY_PATH", "./taxonomy.json"),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 8),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
			RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", "120s"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// LoadTaxonomy reads the closed theme and industry lists from the
// configured JSON file. A missing file yields an empty taxonomy and every
// idea ends up unclassified.
func (c *Config) LoadTaxonomy() (models.Taxonomy, error) {
	var taxonomy models.Taxonomy

	data, err := os.ReadFile(c.Storage.TaxonomyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return taxonomy, nil
		}
		return taxonomy, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	if err := json.Unmarshal(data, &taxonomy); err != nil {
		return taxonomy, fmt.Errorf("failed to parse taxonomy file %s: %w", c.Storage.TaxonomyPath, err)
	}
	return taxonomy, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
