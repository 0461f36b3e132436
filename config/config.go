package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Addr string `yaml:"-"` // computed after load, not read from file
	} `yaml:"server"`
	Embedding struct {
		APIKey     string `yaml:"api_key"`
		Model      string `yaml:"model"`
		BaseURL    string `yaml:"base_url"`
		Dimension  int    `yaml:"dimension"`   // expected vector length, e.g. 384
		TimeoutSec int    `yaml:"timeout_sec"` // per-request timeout, seconds
	} `yaml:"embedding"`
	Catalog struct {
		Path string `yaml:"path"` // JSON file with poses and precomputed embeddings
	} `yaml:"catalog"`
	Engine struct {
		Concurrency int `yaml:"concurrency"` // parallel item scoring; 0/1 = sequential
	} `yaml:"engine"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	DB struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"` // computed after load
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // minutes
	} `yaml:"database"`
	History struct {
		RetentionDays int `yaml:"retention_days"` // prune history rows older than this
		ListLimit     int `yaml:"list_limit"`     // max rows returned by the history endpoint
	} `yaml:"history"`
	Scheduler struct {
		CheckIntervalSec int `yaml:"check_interval_sec"`
		CleanupHour      int `yaml:"cleanup_hour"`
		CleanupMinute    int `yaml:"cleanup_minute"`
	} `yaml:"scheduler"`
}

// HistoryEnabled reports whether recommendation history persistence is
// configured. The engine never requires a database; history is additive.
func (c *Config) HistoryEnabled() bool {
	return c.DB.DSN != ""
}

func Load() *Config {
	// Load .env first; missing file is fine, system env still applies.
	_ = godotenv.Load()

	var cfg Config

	if data, err := os.ReadFile("config.yaml"); err == nil {
		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			log.Printf("Error loading config.yaml: %v, falling back to environment variables", err)
			return loadFromEnv()
		}
		log.Println("Loading configuration from config.yaml")

		cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

		// Secrets come from the environment when present.
		if envUsername := os.Getenv("DATABASE_USERNAME"); envUsername != "" {
			cfg.DB.Username = envUsername
		}
		if envPassword := os.Getenv("DATABASE_PASSWORD"); envPassword != "" {
			cfg.DB.Password = envPassword
		}
		if envAPIKey := os.Getenv("EMBEDDING_API_KEY"); envAPIKey != "" {
			cfg.Embedding.APIKey = envAPIKey
		}
		if envPath := os.Getenv("CATALOG_PATH"); envPath != "" {
			cfg.Catalog.Path = envPath
		}

		if cfg.DB.DSN == "" && cfg.DB.Host != "" {
			cfg.DB.DSN = buildDSN(&cfg)
		}

		applyDefaults(&cfg)
		return &cfg
	}

	return loadFromEnv()
}

func loadFromEnv() *Config {
	// Minimal configuration when config.yaml is unavailable.
	var cfg Config

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	cfg.Embedding.APIKey = os.Getenv("EMBEDDING_API_KEY")
	cfg.Embedding.Model = getenv("EMBEDDING_MODEL", "BAAI/bge-small-en-v1.5")
	cfg.Embedding.BaseURL = getenv("EMBEDDING_BASE_URL", "https://api.siliconflow.cn/v1")
	cfg.Catalog.Path = getenv("CATALOG_PATH", "yoga_embeddings.json")

	if username := os.Getenv("DATABASE_USERNAME"); username != "" {
		cfg.DB.Username = username
	}
	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	} else if cfg.DB.Host != "" {
		cfg.DB.DSN = buildDSN(&cfg)
	}

	applyDefaults(&cfg)
	log.Println("Configuration loaded from environment, some settings may be missing")
	return &cfg
}

func buildDSN(cfg *Config) string {
	if cfg.DB.Charset == "" {
		cfg.DB.Charset = "utf8mb4"
	}
	parseTime := ""
	if cfg.DB.ParseTime {
		parseTime = "&parseTime=true"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Database,
		cfg.DB.Charset,
		parseTime)
}

func applyDefaults(cfg *Config) {
	if cfg.Embedding.Dimension <= 0 {
		cfg.Embedding.Dimension = 384
	}
	if cfg.Embedding.TimeoutSec <= 0 {
		cfg.Embedding.TimeoutSec = 15
	}
	if cfg.Engine.Concurrency <= 0 {
		cfg.Engine.Concurrency = 1
	}
	if cfg.History.RetentionDays <= 0 {
		cfg.History.RetentionDays = 30
	}
	if cfg.History.ListLimit <= 0 {
		cfg.History.ListLimit = 20
	}
	if cfg.Scheduler.CheckIntervalSec <= 0 {
		cfg.Scheduler.CheckIntervalSec = 60
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
