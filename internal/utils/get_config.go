package utils

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	AppPort     string `yaml:"APP_PORT" env:"APP_PORT"`
	FrontendURL string `yaml:"FRONTEND_URL" env:"FRONTEND_URL"`

	// Database configuration
	DBUser     string `yaml:"DB_USER" env:"DB_USER"`
	DBName     string `yaml:"DB_NAME" env:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT" env:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST" env:"DB_HOST"`

	// Redis, optional. Token revocation and the rate limiter fall back to
	// the database and memory when REDIS_HOST is empty.
	RedisHost     string `yaml:"REDIS_HOST" env:"REDIS_HOST"`
	RedisPort     int    `yaml:"REDIS_PORT" env:"REDIS_PORT"`
	RedisPassword string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"REDIS_DB" env:"REDIS_DB"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES" env:"JWT_TTL_MINUTES"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL" env:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST" env:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT" env:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME" env:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL" env:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD" env:"SMTP_AUTH_PASSWORD"`

	// Midtrans configuration
	ClientKey string `yaml:"CLIENT_KEY" env:"CLIENT_KEY"`
	ServerKey string `yaml:"SERVER_KEY" env:"SERVER_KEY"`
	IsProd    bool   `yaml:"IsProd" env:"IS_PROD"`

	// Subscription prices in rupiah
	SubscriptionMonthlyPrice int64 `yaml:"SUBSCRIPTION_MONTHLY_PRICE" env:"SUBSCRIPTION_MONTHLY_PRICE"`
	SubscriptionYearlyPrice  int64 `yaml:"SUBSCRIPTION_YEARLY_PRICE" env:"SUBSCRIPTION_YEARLY_PRICE"`

	// S3 compatible storage (Cloudflare R2)
	AWSS3Bucket    string `yaml:"AWS_S3_BUCKET" env:"AWS_S3_BUCKET"`
	AWSS3Region    string `yaml:"AWS_S3_REGION" env:"AWS_S3_REGION"`
	AWSS3Endpoint  string `yaml:"AWS_S3_ENDPOINT" env:"AWS_S3_ENDPOINT"`
	AWSS3PublicURL string `yaml:"AWS_S3_PUBLIC_URL" env:"AWS_S3_PUBLIC_URL"`
	AWSAccessKey   string `yaml:"AWS_ACCESS_KEY" env:"AWS_ACCESS_KEY"`
	AWSSecretKey   string `yaml:"AWS_SECRET_KEY" env:"AWS_SECRET_KEY"`

	// OpenRouter
	OpenRouterAPIKey string   `yaml:"OPENROUTER_API_KEY" env:"OPENROUTER_API_KEY"`
	AIBaseURL        string   `yaml:"AI_BASE_URL" env:"AI_BASE_URL"`
	AIModels         []string `yaml:"AI_MODELS" env:"AI_MODELS" envSeparator:","`
	AIVisionModels   []string `yaml:"AI_VISION_MODELS" env:"AI_VISION_MODELS" envSeparator:","`
}

const (
	defaultAppPort       = "3000"
	defaultFrontendURL   = "http://localhost:3000"
	defaultJWTTTLMinutes = 120
	defaultRedisPort     = 6379
	defaultAIBaseURL     = "https://openrouter.ai/api/v1"
)

var (
	defaultAIModels = []string{
		"google/gemini-2.0-flash-exp:free",
		"meta-llama/llama-3.3-70b-instruct:free",
		"mistralai/mistral-7b-instruct:free",
	}
	defaultAIVisionModels = []string{
		"google/gemini-2.0-flash-exp:free",
		"meta-llama/llama-3.2-11b-vision-instruct:free",
	}
)

var (
	config   Config
	configMu sync.RWMutex
)

// LoadConfig reads config.yaml, then .env, then the process environment.
// Later sources override earlier ones.
func LoadConfig() {
	cfg := readConfig("config.yaml", ".env")

	configMu.Lock()
	config = cfg
	configMu.Unlock()
}

func readConfig(yamlPath string, envFiles ...string) Config {
	var cfg Config

	file, err := os.ReadFile(yamlPath)
	if err != nil {
		log.Debugf("config file %s not loaded: %v", yamlPath, err)
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		log.Errorf("Error parsing YAML file: %s", err)
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Warnf("failed to load %s: %v", f, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		log.Errorf("Error parsing environment: %s", err)
	}

	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.AppPort == "" {
		cfg.AppPort = defaultAppPort
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = defaultFrontendURL
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.JWTTTLMinutes <= 0 {
		cfg.JWTTTLMinutes = defaultJWTTTLMinutes
	}
	if cfg.RedisPort == 0 {
		cfg.RedisPort = defaultRedisPort
	}
	if cfg.SubscriptionMonthlyPrice <= 0 {
		cfg.SubscriptionMonthlyPrice = 29000
	}
	if cfg.SubscriptionYearlyPrice <= 0 {
		cfg.SubscriptionYearlyPrice = 1000000
	}
	if cfg.AWSS3Region == "" {
		cfg.AWSS3Region = "auto"
	}
	if cfg.AIBaseURL == "" {
		cfg.AIBaseURL = defaultAIBaseURL
	}
	if len(cfg.AIModels) == 0 {
		cfg.AIModels = append([]string(nil), defaultAIModels...)
	}
	if len(cfg.AIVisionModels) == 0 {
		cfg.AIVisionModels = append([]string(nil), defaultAIVisionModels...)
	}
}

// GetAppConfig returns a copy of the loaded configuration.
func GetAppConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

func getBoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func GetConfig(key string) string {
	cfg := GetAppConfig()

	switch key {
	case "APP_PORT":
		return cfg.AppPort
	case "FRONTEND_URL":
		return cfg.FrontendURL
	case "DB_USER":
		return cfg.DBUser
	case "DB_NAME":
		return cfg.DBName
	case "DB_PASSWORD":
		return cfg.DBPassword
	case "DB_PORT":
		return cfg.DBPort
	case "DB_HOST":
		return cfg.DBHost
	case "REDIS_HOST":
		return cfg.RedisHost
	case "REDIS_PORT":
		return strconv.Itoa(cfg.RedisPort)
	case "REDIS_PASSWORD":
		return cfg.RedisPassword
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "JWT_TTL_MINUTES":
		return strconv.Itoa(cfg.JWTTTLMinutes)
	case "APP_URL":
		return cfg.AppURL
	case "SMTP_HOST":
		return cfg.SMTPHost
	case "SMTP_PORT":
		return cfg.SMTPPort
	case "SMTP_SENDER_NAME":
		return cfg.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return cfg.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return cfg.SMTPAuthPassword
	case "CLIENT_KEY":
		return cfg.ClientKey
	case "SERVER_KEY":
		return cfg.ServerKey
	case "IsProd":
		return getBoolString(cfg.IsProd)
	case "SUBSCRIPTION_MONTHLY_PRICE":
		return strconv.FormatInt(cfg.SubscriptionMonthlyPrice, 10)
	case "SUBSCRIPTION_YEARLY_PRICE":
		return strconv.FormatInt(cfg.SubscriptionYearlyPrice, 10)
	case "AWS_S3_BUCKET":
		return cfg.AWSS3Bucket
	case "AWS_S3_REGION":
		return cfg.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return cfg.AWSS3Endpoint
	case "AWS_S3_PUBLIC_URL":
		return cfg.AWSS3PublicURL
	case "AWS_ACCESS_KEY":
		return cfg.AWSAccessKey
	case "AWS_SECRET_KEY":
		return cfg.AWSSecretKey
	case "OPENROUTER_API_KEY":
		return cfg.OpenRouterAPIKey
	case "AI_BASE_URL":
		return cfg.AIBaseURL
	case "AI_MODELS":
		return strings.Join(cfg.AIModels, ",")
	case "AI_VISION_MODELS":
		return strings.Join(cfg.AIVisionModels, ",")
	default:
		return ""
	}
}
