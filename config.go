package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config collects every tunable of the service. Values come from an optional
// config file in the working directory with environment variables taking
// precedence.
type Config struct {
	Port      int    `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`

	AdminBaseURL  string        `mapstructure:"admin_base_url"`
	StatsURL      string        `mapstructure:"stats_url"`
	ClientTimeout time.Duration `mapstructure:"client_timeout"`

	PendingTTL    time.Duration `mapstructure:"pending_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	OCRTimeout    time.Duration `mapstructure:"ocr_timeout"`

	ExpectedAmount int `mapstructure:"expected_amount"`

	JWTSecret         string `mapstructure:"jwt_secret"`
	AdminUser         string `mapstructure:"admin_user"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`

	OTPBaseURL    string `mapstructure:"otp_base_url"`
	OTPAPIKey     string `mapstructure:"otp_api_key"`
	OTPSecretKey  string `mapstructure:"otp_secret_key"`
	OTPProjectKey string `mapstructure:"otp_project_key"`

	ScreenConfigPath string `mapstructure:"screen_config_path"`
}

func loadConfig() Config {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")

	v.SetDefault("port", 4000)
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("admin_base_url", "http://localhost:5001")
	v.SetDefault("client_timeout", 15*time.Second)
	v.SetDefault("pending_ttl", 10*time.Minute)
	v.SetDefault("sweep_interval", 30*time.Second)
	v.SetDefault("ocr_timeout", 60*time.Second)
	v.SetDefault("expected_amount", 100)
	v.SetDefault("jwt_secret", "dev-insecure-secret-change") // development fallback
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("otp_base_url", "https://portal-otp.smsmkt.com")
	v.SetDefault("otp_api_key", "")
	v.SetDefault("otp_secret_key", "")
	v.SetDefault("otp_project_key", "")
	v.SetDefault("screen_config_path", "screen.json")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.WithError(err).Warn("config file unreadable, using env/defaults")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.StatsURL == "" {
		cfg.StatsURL = cfg.AdminBaseURL + "/api/stat-slip"
	}
	return cfg
}
