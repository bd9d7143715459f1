package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	LogLevel       string `mapstructure:"log_level"`
	MaxPlayers     int    `mapstructure:"max_players"`
	RoomTTLMinutes int    `mapstructure:"room_ttl_minutes"`
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	// 优先加载 .env，允许环境变量覆盖配置文件
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigFile("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	if config.MaxPlayers <= 0 {
		config.MaxPlayers = 8
	}
	if config.RoomTTLMinutes <= 0 {
		config.RoomTTLMinutes = 30
	}

	return &config
}
