package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	PostgresURL    string
	MongoURL       string
	MongoDatabase  string
	// MirrorMongoURL names a Mongo copy of the books that consistency
	// repair pushes missing records to. Optional.
	MirrorMongoURL string
	DBType         string
	Port           string
	RedisAddress   string
	CommissionRate decimal.Decimal
	PDFSavePath    string
	TemplateDir    string
	LogLevel       string
	AllowedOrigins []string
	R2             R2Config
}

// R2Config is the Cloudflare R2 bucket documents are uploaded to. Upload is
// disabled when Bucket is empty.
type R2Config struct {
	Bucket          string
	AccountID       string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

func (r R2Config) Enabled() bool {
	return r.Bucket != "" && r.AccountID != "" && r.AccessKeyID != "" && r.SecretAccessKey != ""
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		MongoURL:       os.Getenv("MONGO_URL"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "hariomtransport"),
		MirrorMongoURL: os.Getenv("MIRROR_MONGO_URL"),
		DBType:         getEnv("DB_TYPE", "postgres"),
		Port:           getEnv("PORT", "8080"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		PDFSavePath:    getEnv("PDF_SAVE_PATH", "./pdfs"),
		TemplateDir:    getEnv("TEMPLATE_DIR", "./templates"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		R2: R2Config{
			Bucket:          os.Getenv("R2_BUCKET"),
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			PublicURL:       os.Getenv("R2_PUBLIC_URL"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		},
	}

	cfg.CommissionRate = decimal.NewFromInt(6)
	if v := os.Getenv("COMMISSION_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.IsNegative() {
			log.Printf("invalid COMMISSION_RATE %q, using %s", v, cfg.CommissionRate)
		} else {
			cfg.CommissionRate = rate
		}
	}

	origins := getEnv("ALLOWED_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
