package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type DisplayConfig struct {
	Env           string `yaml:"env"`
	HTTPServer    `yaml:"http_server"`
	DisplayDB     `yaml:"display_db"`
	LogConfig     `yaml:"log_config"`
	Scheduler     `yaml:"scheduler"`
	Notifications `yaml:"notifications"`
	KafkaExport   `yaml:"kafka_export"`
	VideoGen      `yaml:"video_gen"`
	Migrations    `yaml:"migrations"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type DisplayDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

type Scheduler struct {
	CampaignTickSeconds    int `yaml:"campaign_tick_seconds" env-default:"5"`
	SettingsRefreshMinutes int `yaml:"settings_refresh_minutes" env-default:"30"`
	QueuePollSeconds       int `yaml:"queue_poll_seconds" env-default:"1"`
	RetryBackoffSeconds    int `yaml:"retry_backoff_seconds" env-default:"5"`
}

type Notifications struct {
	KeepaliveSeconds int `yaml:"keepalive_seconds" env-default:"30"`
	ClientBuffer     int `yaml:"client_buffer" env-default:"16"`
}

type KafkaExport struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Topic   string `yaml:"topic" env-default:"display-events"`
}

type VideoGen struct {
	BaseURL        string `yaml:"base_url"`
	PollSeconds    int    `yaml:"poll_seconds" env-default:"5"`
	TimeoutMinutes int    `yaml:"timeout_minutes" env-default:"10"`
}

type Migrations struct {
	Path string `yaml:"path"`
}

func MustLoad() *DisplayConfig {

	// Processing env config variable and file
	configPath := os.Getenv("DISPLAY_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("DISPLAY_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg DisplayConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
