// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/haierkeys/fast-drive-service/internal/dao"
	"github.com/haierkeys/fast-drive-service/internal/service"
	"github.com/haierkeys/fast-drive-service/pkg/logger"
	"github.com/haierkeys/fast-drive-service/pkg/util"
	"github.com/haierkeys/fast-drive-service/pkg/workerpool"
	"github.com/haierkeys/fast-drive-service/pkg/writequeue"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	RunMode  string `yaml:"run-mode" default:"release"`
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout / WriteTimeout in seconds
	ReadTimeout  int `yaml:"read-timeout" default:"60"`
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen serves metrics, health and pprof; empty disables it.
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"fast-drive-Auth-Token"`
	// TokenExpiry 支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"365d"`
	// PrivateToken guards the private listener; empty leaves it open.
	PrivateToken string `yaml:"private-token"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type sqlite, mysql or postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite DSN or file path; the default keeps users in memory
	Path     string `yaml:"path" default:"file::memory:?cache=shared"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	AutoMigrate bool   `yaml:"auto-migrate" default:"true"`
	Charset     string `yaml:"charset" default:"utf8mb4"`
	ParseTime   bool   `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 支持格式：30m（分钟）、1h（小时）
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// MockAccountConfig is a demo account registered at startup.
type MockAccountConfig struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Nickname string `yaml:"nickname"`
	Password string `yaml:"password"`
}

// UserConfig 用户配置
type UserConfig struct {
	// RegisterIsEnable 注册是否启用
	RegisterIsEnable bool                `yaml:"register-is-enable" default:"true"`
	MockAccounts     []MockAccountConfig `yaml:"mock-accounts"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// SeedMockDrive fills every new drive with the demo tree.
	SeedMockDrive bool `yaml:"seed-mock-drive" default:"true"`
	// TrashRetention 回收站保留时间，0 表示永久保留
	TrashRetention string `yaml:"trash-retention" default:"30d"`
	// TrashPurgeSpec is the cron spec of the purge task.
	TrashPurgeSpec string `yaml:"trash-purge-spec" default:"@every 1h"`
	// StatsRefreshSpec is the cron spec of the drive gauge refresh.
	StatsRefreshSpec string `yaml:"stats-refresh-spec" default:"@every 30s"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent is host:port of a jaeger agent; empty disables span export.
	JaegerAgent string `yaml:"jaeger-agent"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}
	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig decodes YAML and fills defaults for fields left empty.
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}
	// defaults.Set 只填充零值字段，YAML 中显式置空的字段在此补齐
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}
	if _, err := util.ParseDuration(c.App.TrashRetention); err != nil {
		return nil, errors.Wrap(err, "app.trash-retention")
	}
	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// LoggerConfig 日志器配置
func (c *AppConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// DaoConfig 数据库连接配置
func (c *AppConfig) DaoConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// ServiceConfig extracts what the service layer reads.
func (c *AppConfig) ServiceConfig() *service.ServiceConfig {
	return &service.ServiceConfig{
		User: service.UserServiceConfig{RegisterIsEnable: c.User.RegisterIsEnable},
		App:  service.AppServiceConfig{TrashRetention: c.GetTrashRetention()},
	}
}

// GetMockAccounts 演示账号列表
func (c *AppConfig) GetMockAccounts() []service.MockAccount {
	out := make([]service.MockAccount, 0, len(c.User.MockAccounts))
	for _, a := range c.User.MockAccounts {
		if a.Email == "" || a.Password == "" {
			continue
		}
		out = append(out, service.MockAccount{
			Email:    a.Email,
			Username: a.Username,
			Nickname: a.Nickname,
			Password: a.Password,
		})
	}
	return out
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()
	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}
	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()
	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil && timeout > 0 {
		cfg.WriteTimeout = timeout
	}
	if idle, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil && idle > 0 {
		cfg.IdleTimeout = idle
	}
	return cfg
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil && expiry > 0 {
		return expiry
	}
	return 365 * 24 * time.Hour
}

// GetTrashRetention returns 0 when trash is kept forever.
func (c *AppConfig) GetTrashRetention() time.Duration {
	d, err := util.ParseDuration(c.App.TrashRetention)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetContextTimeout 请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}
