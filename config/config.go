package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置结构体
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         string        `yaml:"port"`         // 监听端口
	ReadTimeout  time.Duration `yaml:"readTimeout"`  // 读取超时时间
	WriteTimeout time.Duration `yaml:"writeTimeout"` // 写入超时时间
	IdleTimeout  time.Duration `yaml:"idleTimeout"`  // 空闲超时时间
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `yaml:"host"`     // 数据库主机地址
	Port     int    `yaml:"port"`     // 数据库端口
	Username string `yaml:"username"` // 数据库用户名
	Password string `yaml:"password"` // 数据库密码
	Database string `yaml:"database"` // 数据库名称
	Charset  string `yaml:"charset"`  // 字符集
	MaxIdle  int    `yaml:"maxIdle"`  // 最大空闲连接数
	MaxOpen  int    `yaml:"maxOpen"`  // 最大打开连接数
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret     string        `yaml:"secret"`     // 对称密钥
	ExpireTime time.Duration `yaml:"expireTime"` // 令牌有效期
	Issuer     string        `yaml:"issuer"`     // 签发者
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`      // 日志级别
	Filename   string `yaml:"filename"`   // 日志文件名
	MaxSize    int    `yaml:"maxSize"`    // 单个日志文件最大大小(MB)
	MaxBackups int    `yaml:"maxBackups"` // 最大备份文件数
	MaxAge     int    `yaml:"maxAge"`     // 最大保存天数
	Compress   bool   `yaml:"compress"`   // 是否压缩
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `yaml:"host"`     // Redis主机地址
	Port     int    `yaml:"port"`     // Redis端口
	Password string `yaml:"password"` // Redis密码
	DB       int    `yaml:"db"`       // Redis数据库编号
}

// WebSocketConfig WebSocket 心跳与广播配置
type WebSocketConfig struct {
	PingInterval time.Duration `yaml:"pingInterval"` // 发送ping的间隔
	ReadTimeout  time.Duration `yaml:"readTimeout"`  // 读超时时间（未收到任何数据则断开）
	SendBuffer   int           `yaml:"sendBuffer"`   // 每个连接的发送缓冲大小
}

// LoadConfig 加载配置（混合方式：YAML文件 + 环境变量覆盖）
func LoadConfig() *Config {
	cfg := loadFromYAML("config/config.yaml")
	overrideWithEnvVars(cfg)
	return cfg
}

// loadFromYAML 从YAML文件加载配置，文件缺失或解析失败时回退默认值
func loadFromYAML(filePath string) *Config {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return getDefaultConfig()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return getDefaultConfig()
	}
	return &cfg
}

// overrideWithEnvVars 用环境变量覆盖配置（环境变量优先级更高）
func overrideWithEnvVars(cfg *Config) {
	// 服务器配置
	if port := getEnv("SERVER_PORT", ""); port != "" {
		cfg.Server.Port = port
	}
	if d := getEnvDuration("SERVER_READ_TIMEOUT", 0); d > 0 {
		cfg.Server.ReadTimeout = d
	}
	if d := getEnvDuration("SERVER_WRITE_TIMEOUT", 0); d > 0 {
		cfg.Server.WriteTimeout = d
	}
	if d := getEnvDuration("SERVER_IDLE_TIMEOUT", 0); d > 0 {
		cfg.Server.IdleTimeout = d
	}

	// 数据库配置
	if host := getEnv("DB_HOST", ""); host != "" {
		cfg.Database.Host = host
	}
	if port := getEnvInt("DB_PORT", 0); port > 0 {
		cfg.Database.Port = port
	}
	if username := getEnv("DB_USERNAME", ""); username != "" {
		cfg.Database.Username = username
	}
	if password := getEnv("DB_PASSWORD", ""); password != "" {
		cfg.Database.Password = password
	}
	if database := getEnv("DB_DATABASE", ""); database != "" {
		cfg.Database.Database = database
	}
	if maxIdle := getEnvInt("DB_MAX_IDLE", 0); maxIdle > 0 {
		cfg.Database.MaxIdle = maxIdle
	}
	if maxOpen := getEnvInt("DB_MAX_OPEN", 0); maxOpen > 0 {
		cfg.Database.MaxOpen = maxOpen
	}

	// JWT配置
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg.JWT.Secret = secret
	}
	if d := getEnvDuration("JWT_EXPIRE_TIME", 0); d > 0 {
		cfg.JWT.ExpireTime = d
	}
	if issuer := getEnv("JWT_ISSUER", ""); issuer != "" {
		cfg.JWT.Issuer = issuer
	}

	// 日志配置
	if level := getEnv("LOG_LEVEL", ""); level != "" {
		cfg.Log.Level = level
	}
	if filename := getEnv("LOG_FILENAME", ""); filename != "" {
		cfg.Log.Filename = filename
	}

	// Redis配置
	if host := getEnv("REDIS_HOST", ""); host != "" {
		cfg.Redis.Host = host
	}
	if port := getEnvInt("REDIS_PORT", 0); port > 0 {
		cfg.Redis.Port = port
	}
	if password := getEnv("REDIS_PASSWORD", ""); password != "" {
		cfg.Redis.Password = password
	}
	if db := getEnvInt("REDIS_DB", -1); db >= 0 {
		cfg.Redis.DB = db
	}

	// WebSocket配置
	if d := getEnvDuration("WS_PING_INTERVAL", 0); d > 0 {
		cfg.WebSocket.PingInterval = d
	}
	if d := getEnvDuration("WS_READ_TIMEOUT", 0); d > 0 {
		cfg.WebSocket.ReadTimeout = d
	}
	if n := getEnvInt("WS_SEND_BUFFER", 0); n > 0 {
		cfg.WebSocket.SendBuffer = n
	}
}

// getDefaultConfig 获取默认配置
func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "4000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Username: "chat_user",
			Password: "chat_pass",
			Database: "chat_app",
			Charset:  "utf8mb4",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		JWT: JWTConfig{
			Secret:     "your-secret-key",
			ExpireTime: time.Hour,
			Issuer:     "chat-app",
		},
		Log: LogConfig{
			Level:      "info",
			Filename:   "logs/app.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB:       0,
		},
		WebSocket: WebSocketConfig{
			PingInterval: 30 * time.Second,
			ReadTimeout:  90 * time.Second,
			SendBuffer:   256,
		},
	}
}

// 辅助函数：获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// 辅助函数：获取整数环境变量
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// 辅助函数：获取时间环境变量
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
