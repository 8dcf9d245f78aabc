package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

const envPrefix = "MACHIAVELLI_"

type AppConfig struct {
	Host     string `mapstructure:"host" env:"HOST"`
	Port     int    `mapstructure:"port" env:"PORT"`
	LogLevel string `mapstructure:"log_level" env:"LOG_LEVEL"`
	// 为空时只输出到控制台
	LogFile string `mapstructure:"log_file" env:"LOG_FILE"`

	// 为空时使用内置牌库
	CharacterFile string `mapstructure:"character_file" env:"CHARACTER_FILE"`
	BuildingFile  string `mapstructure:"building_file" env:"BUILDING_FILE"`
	// 为空时不保存对局结果
	ResultsDB string `mapstructure:"results_db" env:"RESULTS_DB"`

	PromptTimeout time.Duration `mapstructure:"prompt_timeout" env:"PROMPT_TIMEOUT"`
	WinBuildings  int           `mapstructure:"win_buildings" env:"WIN_BUILDINGS"`
	MinPlayers    int           `mapstructure:"min_players" env:"MIN_PLAYERS"`
	MaxRounds     int           `mapstructure:"max_rounds" env:"MAX_ROUNDS"`
	IdleRounds    int           `mapstructure:"idle_rounds" env:"IDLE_ROUNDS"`
	BotPlayers    int           `mapstructure:"bot_players" env:"BOT_PLAYERS"`
	BotDelay      time.Duration `mapstructure:"bot_delay" env:"BOT_DELAY"`

	// WebSocket 允许的 Origin，为空时不做限制
	AllowedOrigins []string `mapstructure:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	config, err := LoadConfig("app_config.json")
	if err != nil {
		panic(err)
	}

	return config
}

// LoadConfig 依次应用默认值、配置文件和 MACHIAVELLI_ 前缀的环境变量
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := env.ParseWithOptions(&config, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("prompt_timeout", "60s")
	v.SetDefault("win_buildings", 8)
	v.SetDefault("min_players", 2)
	v.SetDefault("max_rounds", 100)
	v.SetDefault("idle_rounds", 2)
	v.SetDefault("bot_delay", "500ms")
}
