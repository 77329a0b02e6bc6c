package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env string

	// SQL Server billing database
	DB DBConfig

	// CBMS portal (templates + login)
	CBMS CBMSConfig

	// Taxpayer portal (ledger template)
	PortalBaseURL string

	// Report header details
	TaxpayerPAN string
	OfficeName  string

	// Output directories
	SheetsDir   string
	BackupDir   string
	TemplateDir string

	// Keep a local copy of fetched templates
	SaveTemplates bool

	// S3 backup storage
	S3 S3Config
}

// DBConfig holds SQL Server connection settings
type DBConfig struct {
	Server   string
	Port     int
	Database string
	User     string
	Password string
}

// URL builds the sqlserver connection string for the go-mssqldb driver.
func (d DBConfig) URL() string {
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Server, d.Port),
		RawQuery: url.Values{"database": []string{d.Database}}.Encode(),
	}
	return u.String()
}

// CBMSConfig holds CBMS portal credentials
type CBMSConfig struct {
	BaseURL  string
	PAN      string
	LoginID  string
	Password string
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// TemplateMD5 maps book names to the published checksum of their template.
// Content fetched from the portals is untrusted until it matches.
var TemplateMD5 = map[string]string{
	"purchase": "6d9ca675290786724f2c626f50309037",
	"sales":    "771f7a36bc5518303751f41afb361f48",
	"File 1L+": "d73ff4586f22c333a5ea17e0e4c3de95",
}

// BackupPattern matches billing-software backup files in cloud storage.
const BackupPattern = `VatBillingSoftware_\d+_\d+\.bak`

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "1433"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT must be an integer: %w", err)
	}

	cfg := &Config{
		Env: getEnv("ENV", "development"),
		DB: DBConfig{
			Server:   getEnv("DB_SERVER", "localhost"),
			Port:     port,
			Database: getEnv("DB_NAME", "VatBillingSoftware"),
			User:     getEnv("DB_USER", "sa"),
			Password: getEnv("DB_PASSWORD", ""),
		},
		CBMS: CBMSConfig{
			BaseURL:  getEnv("CBMS_BASE_URL", "https://cbms.ird.gov.np:8051"),
			PAN:      getEnv("CBMS_PAN", ""),
			LoginID:  getEnv("CBMS_LOGIN_ID", ""),
			Password: getEnv("CBMS_PASSWORD", ""),
		},
		PortalBaseURL: getEnv("PORTAL_BASE_URL", "https://taxpayerportal.ird.gov.np"),
		TaxpayerPAN:   getEnv("TAXPAYER_PAN", ""),
		OfficeName:    getEnv("OFFICE_NAME", ""),
		SheetsDir:     getEnv("SHEETS_DIR", "sheets"),
		BackupDir:     getEnv("BACKUP_DIR", "backup"),
		TemplateDir:   getEnv("TEMPLATE_DIR", "templates"),
		SaveTemplates: getEnv("SAVE_TEMPLATES", "false") == "true",
		S3: S3Config{
			Region:          getEnv("S3_REGION", "ap-south-1"),
			Bucket:          getEnv("S3_BUCKET", "vatkhata-backups"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.TaxpayerPAN == "" {
		return fmt.Errorf("TAXPAYER_PAN is required")
	}
	if c.OfficeName == "" {
		return fmt.Errorf("OFFICE_NAME is required")
	}
	// Every report run logs in to CBMS for the templates; missing credentials
	// should fail here, not as a portal error mid-run.
	if c.CBMS.PAN == "" {
		return fmt.Errorf("CBMS_PAN is required")
	}
	if c.CBMS.LoginID == "" {
		return fmt.Errorf("CBMS_LOGIN_ID is required")
	}
	if c.CBMS.Password == "" {
		return fmt.Errorf("CBMS_PASSWORD is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
