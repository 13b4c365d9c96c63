// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/andresuchdata/roasboard/backend-go/internal/bidding"
	"github.com/andresuchdata/roasboard/backend-go/internal/simulation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	App        AppConfig
	Cache      CacheConfig
	Source     SourceConfig
	Firestore  FirestoreConfig
	Storage    StorageConfig
	Metrics    MetricsConfig
	Drive      DriveConfig
	Bidding    bidding.Config
	Simulation simulation.Config
}

type ServerConfig struct {
	Port            string
	Mode            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	DataDir  string
	LogLevel string
}

type CacheConfig struct {
	Enabled             bool
	Driver              string
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// SourceConfig selects where SKU records are read from: mock, postgres or firestore.
type SourceConfig struct {
	Driver   string
	MockSeed uint64
}

type FirestoreConfig struct {
	ProjectID       string
	Collection      string
	CredentialsFile string
	CredentialsJSON string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

type MetricsConfig struct {
	Enabled bool
	Port    string
}

// DriveConfig points the snapshot watcher at a Google Drive folder. FolderPath is resolved
// from the Drive root when FolderID is empty.
type DriveConfig struct {
	Enabled             bool
	FolderID            string
	FolderPath          string
	CredentialsFile     string
	CredentialsJSON     string
	PollIntervalSeconds int
}

var (
	once     sync.Once
	instance *Config
)

// Load returns the process-wide configuration, reading .env and the environment once.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()
		instance = New()
	})

	return instance
}

// New builds a configuration from defaults and the current environment.
func New() *Config {
	setDefaults()

	// Read from environment variables
	viper.AutomaticEnv()

	ensureDir(viper.GetString("APP_DATA_DIR"))

	return &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			Mode:            viper.GetString("SERVER_MODE"),
			ReadTimeout:     viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:    viper.GetInt("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: viper.GetInt("SERVER_SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		App: AppConfig{
			DataDir:  viper.GetString("APP_DATA_DIR"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Cache: CacheConfig{
			Enabled:             viper.GetBool("CACHE_ENABLED"),
			Driver:              viper.GetString("CACHE_DRIVER"),
			RedisURL:            viper.GetString("REDIS_URL"),
			RedisHost:           viper.GetString("REDIS_HOST"),
			RedisPort:           viper.GetString("REDIS_PORT"),
			RedisPassword:       viper.GetString("REDIS_PASSWORD"),
			RedisDB:             viper.GetInt("REDIS_DB"),
			DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
		Source: SourceConfig{
			Driver:   viper.GetString("SOURCE_DRIVER"),
			MockSeed: viper.GetUint64("SOURCE_MOCK_SEED"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       viper.GetString("FIRESTORE_PROJECT_ID"),
			Collection:      viper.GetString("FIRESTORE_COLLECTION"),
			CredentialsFile: viper.GetString("FIRESTORE_CREDENTIALS_FILE"),
			CredentialsJSON: viper.GetString("FIRESTORE_CREDENTIALS_JSON"),
		},
		Storage: StorageConfig{
			Enabled:   viper.GetBool("STORAGE_ENABLED"),
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			Prefix:    viper.GetString("STORAGE_PREFIX"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Port:    viper.GetString("METRICS_PORT"),
		},
		Drive: DriveConfig{
			Enabled:             viper.GetBool("DRIVE_ENABLED"),
			FolderID:            viper.GetString("DRIVE_FOLDER_ID"),
			FolderPath:          viper.GetString("DRIVE_FOLDER_PATH"),
			CredentialsFile:     viper.GetString("DRIVE_CREDENTIALS_FILE"),
			CredentialsJSON:     viper.GetString("DRIVE_CREDENTIALS_JSON"),
			PollIntervalSeconds: viper.GetInt("DRIVE_POLL_INTERVAL_SECONDS"),
		},
		Bidding: bidding.Config{
			ROASCap:               viper.GetFloat64("BIDDING_ROAS_CAP"),
			ROASWeight:            viper.GetFloat64("BIDDING_ROAS_WEIGHT"),
			MarginWeight:          viper.GetFloat64("BIDDING_MARGIN_WEIGHT"),
			ConversionCap:         viper.GetFloat64("BIDDING_CONVERSION_CAP"),
			ConversionWeight:      viper.GetFloat64("BIDDING_CONVERSION_WEIGHT"),
			InventoryBonus:        viper.GetFloat64("BIDDING_INVENTORY_BONUS"),
			InventoryBonusAt:      viper.GetInt("BIDDING_INVENTORY_BONUS_AT"),
			TopRankCutoff:         viper.GetInt("BIDDING_TOP_RANK_CUTOFF"),
			MiddleRankCutoff:      viper.GetInt("BIDDING_MIDDLE_RANK_CUTOFF"),
			TopBase:               viper.GetFloat64("BIDDING_TOP_BASE"),
			TopMarginFactor:       viper.GetFloat64("BIDDING_TOP_MARGIN_FACTOR"),
			MidBase:               viper.GetFloat64("BIDDING_MID_BASE"),
			MidMarginFactor:       viper.GetFloat64("BIDDING_MID_MARGIN_FACTOR"),
			LowBase:               viper.GetFloat64("BIDDING_LOW_BASE"),
			LowROASFactor:         viper.GetFloat64("BIDDING_LOW_ROAS_FACTOR"),
			LimitedInventoryBelow: viper.GetInt("BIDDING_LIMITED_INVENTORY_BELOW"),
			LimitedInventoryScale: viper.GetFloat64("BIDDING_LIMITED_INVENTORY_SCALE"),
			ScaleUpEfficiency:     viper.GetFloat64("BIDDING_SCALE_UP_EFFICIENCY"),
			ScaleDownEfficiency:   viper.GetFloat64("BIDDING_SCALE_DOWN_EFFICIENCY"),
		},
		Simulation: simulation.Config{
			PriceElasticity:           viper.GetFloat64("SIMULATION_PRICE_ELASTICITY"),
			HighRiskROASBelow:         viper.GetFloat64("SIMULATION_HIGH_RISK_ROAS_BELOW"),
			HighRiskInventoryBelow:    viper.GetInt("SIMULATION_HIGH_RISK_INVENTORY_BELOW"),
			MediumRiskROASBelow:       viper.GetFloat64("SIMULATION_MEDIUM_RISK_ROAS_BELOW"),
			MediumRiskInventoryBelow:  viper.GetInt("SIMULATION_MEDIUM_RISK_INVENTORY_BELOW"),
			LargeSpendIncreasePercent: viper.GetFloat64("SIMULATION_LARGE_SPEND_INCREASE_PERCENT"),
			StrongROASGainPercent:     viper.GetFloat64("SIMULATION_STRONG_ROAS_GAIN_PERCENT"),
			ROASDeclinePercent:        viper.GetFloat64("SIMULATION_ROAS_DECLINE_PERCENT"),
			StrongProfitGainPercent:   viper.GetFloat64("SIMULATION_STRONG_PROFIT_GAIN_PERCENT"),
			MaxRiskFactors:            viper.GetInt("SIMULATION_MAX_RISK_FACTORS"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "roasboard")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("APP_DATA_DIR", "./data/output")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("CACHE_DRIVER", "redis")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
	viper.SetDefault("SOURCE_DRIVER", "mock")
	viper.SetDefault("SOURCE_MOCK_SEED", 42)
	viper.SetDefault("FIRESTORE_PROJECT_ID", "")
	viper.SetDefault("FIRESTORE_COLLECTION", "skus")
	viper.SetDefault("FIRESTORE_CREDENTIALS_FILE", "")
	viper.SetDefault("FIRESTORE_CREDENTIALS_JSON", "")
	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("STORAGE_ENDPOINT", "")
	viper.SetDefault("STORAGE_ACCESS_KEY", "")
	viper.SetDefault("STORAGE_SECRET_KEY", "")
	viper.SetDefault("STORAGE_BUCKET", "roasboard-reports")
	viper.SetDefault("STORAGE_REGION", "")
	viper.SetDefault("STORAGE_PREFIX", "exports")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PORT", "9090")
	viper.SetDefault("DRIVE_ENABLED", false)
	viper.SetDefault("DRIVE_FOLDER_ID", "")
	viper.SetDefault("DRIVE_FOLDER_PATH", "")
	viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
	viper.SetDefault("DRIVE_CREDENTIALS_JSON", "")
	viper.SetDefault("DRIVE_POLL_INTERVAL_SECONDS", 300)

	b := bidding.DefaultConfig()
	viper.SetDefault("BIDDING_ROAS_CAP", b.ROASCap)
	viper.SetDefault("BIDDING_ROAS_WEIGHT", b.ROASWeight)
	viper.SetDefault("BIDDING_MARGIN_WEIGHT", b.MarginWeight)
	viper.SetDefault("BIDDING_CONVERSION_CAP", b.ConversionCap)
	viper.SetDefault("BIDDING_CONVERSION_WEIGHT", b.ConversionWeight)
	viper.SetDefault("BIDDING_INVENTORY_BONUS", b.InventoryBonus)
	viper.SetDefault("BIDDING_INVENTORY_BONUS_AT", b.InventoryBonusAt)
	viper.SetDefault("BIDDING_TOP_RANK_CUTOFF", b.TopRankCutoff)
	viper.SetDefault("BIDDING_MIDDLE_RANK_CUTOFF", b.MiddleRankCutoff)
	viper.SetDefault("BIDDING_TOP_BASE", b.TopBase)
	viper.SetDefault("BIDDING_TOP_MARGIN_FACTOR", b.TopMarginFactor)
	viper.SetDefault("BIDDING_MID_BASE", b.MidBase)
	viper.SetDefault("BIDDING_MID_MARGIN_FACTOR", b.MidMarginFactor)
	viper.SetDefault("BIDDING_LOW_BASE", b.LowBase)
	viper.SetDefault("BIDDING_LOW_ROAS_FACTOR", b.LowROASFactor)
	viper.SetDefault("BIDDING_LIMITED_INVENTORY_BELOW", b.LimitedInventoryBelow)
	viper.SetDefault("BIDDING_LIMITED_INVENTORY_SCALE", b.LimitedInventoryScale)
	viper.SetDefault("BIDDING_SCALE_UP_EFFICIENCY", b.ScaleUpEfficiency)
	viper.SetDefault("BIDDING_SCALE_DOWN_EFFICIENCY", b.ScaleDownEfficiency)

	s := simulation.DefaultConfig()
	viper.SetDefault("SIMULATION_PRICE_ELASTICITY", s.PriceElasticity)
	viper.SetDefault("SIMULATION_HIGH_RISK_ROAS_BELOW", s.HighRiskROASBelow)
	viper.SetDefault("SIMULATION_HIGH_RISK_INVENTORY_BELOW", s.HighRiskInventoryBelow)
	viper.SetDefault("SIMULATION_MEDIUM_RISK_ROAS_BELOW", s.MediumRiskROASBelow)
	viper.SetDefault("SIMULATION_MEDIUM_RISK_INVENTORY_BELOW", s.MediumRiskInventoryBelow)
	viper.SetDefault("SIMULATION_LARGE_SPEND_INCREASE_PERCENT", s.LargeSpendIncreasePercent)
	viper.SetDefault("SIMULATION_STRONG_ROAS_GAIN_PERCENT", s.StrongROASGainPercent)
	viper.SetDefault("SIMULATION_ROAS_DECLINE_PERCENT", s.ROASDeclinePercent)
	viper.SetDefault("SIMULATION_STRONG_PROFIT_GAIN_PERCENT", s.StrongProfitGainPercent)
	viper.SetDefault("SIMULATION_MAX_RISK_FACTORS", s.MaxRiskFactors)
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
