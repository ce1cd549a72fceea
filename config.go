package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"catalog-service/database"
	aws_pkg "catalog-service/pkg/aws"
)

const dbCredentialsSecret = "catalog/DB_CREDENTIALS"

// Config holds all configuration for the catalog service.
type Config struct {
	Port   string
	AppEnv string

	Postgres database.PostgresConfig

	MongoURI             string
	MongoDB              string
	MongoImageCollection string

	// ImageStore selects the image backend: "mongo" or "s3".
	ImageStore string
	AWS        aws_pkg.Options
	S3Bucket   string
	S3Prefix   string

	CatalogSNSTopicARN string

	RedisURL string
	CacheTTL time.Duration

	ImageLookupConcurrency int
	MaxImageSize           int64
	RequestTimeout         time.Duration
	RateLimitPerMinute     int
	RateLimitBurst         int
	SeedData               bool
	CORSAllowedOrigins     []string

	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is honored.
	TrustedProxies []string
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override of the database credentials.
func LoadConfig() (*Config, error) {
	return loadConfig(context.Background(), nil)
}

// loadConfig takes the secrets source explicitly so tests can stub it. A nil
// source builds one from the AWS config when AWS_USE_SECRETS=true.
func loadConfig(ctx context.Context, secrets secretSource) (*Config, error) {
	cfg := &Config{
		Port:   getEnv("PORT", "8083"),
		AppEnv: getEnv("APP_ENV", "production"),
		Postgres: database.PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              getEnv("MONGO_DB", "catalog"),
		MongoImageCollection: getEnv("MONGO_IMAGE_COLLECTION", "product_images"),
		ImageStore:           strings.ToLower(getEnv("IMAGE_STORE", "mongo")),
		AWS: aws_pkg.Options{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		S3Bucket:           os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:           getEnv("AWS_S3_PREFIX", "product-images/"),
		CatalogSNSTopicARN: os.Getenv("CATALOG_SNS_TOPIC_ARN"),
		RedisURL:           os.Getenv("REDIS_URL"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5000")),
		TrustedProxies:     splitList(os.Getenv("TRUSTED_PROXIES")),
	}

	var err error
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ImageLookupConcurrency, err = getInt("IMAGE_LOOKUP_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	maxMB, err := getInt("MAX_IMAGE_SIZE_MB", 5)
	if err != nil {
		return nil, err
	}
	cfg.MaxImageSize = int64(maxMB) << 20
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 600); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 100); err != nil {
		return nil, err
	}
	if cfg.SeedData, err = getBool("SEED_DATA", true); err != nil {
		return nil, err
	}

	// Override DB credentials from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if secrets == nil {
			if awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.AWS); err == nil {
				secrets = aws_pkg.NewSecretsClient(awsCfg)
			}
		}
		if secrets != nil {
			applyDBSecret(ctx, secrets, &cfg.Postgres)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type secretSource interface {
	GetJSONSecret(ctx context.Context, name string, v interface{}) error
}

func applyDBSecret(ctx context.Context, secrets secretSource, pg *database.PostgresConfig) {
	var m map[string]string
	if err := secrets.GetJSONSecret(ctx, dbCredentialsSecret, &m); err != nil {
		return
	}
	overrides := map[string]*string{
		"POSTGRES_USER":     &pg.User,
		"POSTGRES_PASSWORD": &pg.Password,
		"POSTGRES_DB":       &pg.DBName,
		"POSTGRES_HOST":     &pg.Host,
		"POSTGRES_PORT":     &pg.Port,
	}
	for key, dst := range overrides {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
}

func (c *Config) validate() error {
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" || c.Postgres.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	switch c.ImageStore {
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when IMAGE_STORE=mongo")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", c.ImageStore)
	}
	if c.ImageLookupConcurrency <= 0 {
		return fmt.Errorf("IMAGE_LOOKUP_CONCURRENCY must be positive")
	}
	if c.MaxImageSize <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE_MB must be positive")
	}
	if c.RateLimitPerMinute > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
