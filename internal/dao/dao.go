// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/haierkeys/fast-drive-service/internal/model"
	"github.com/haierkeys/fast-drive-service/pkg/fileurl"
	"github.com/haierkeys/fast-drive-service/pkg/util"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string // sqlite, mysql, postgres
	Path            string // sqlite DSN or file path
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// NewDBEngineWithConfig opens the user store.
// NewDBEngineWithConfig 使用配置创建数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dial, err := dialector(c)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if c.RunMode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "gorm open")
	}

	// 获取通用数据库对象 sql.DB，设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "gorm db")
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}

	// an in-memory sqlite database lives only while a connection is open
	if c.Type == "sqlite" && fileurl.IsSQLiteMemory(c.Path) {
		sqlDB.SetMaxIdleConns(max(c.MaxIdleConns, 1))
	} else {
		if d, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && d > 0 {
			sqlDB.SetConnMaxLifetime(d)
		}
		if d, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && d > 0 {
			sqlDB.SetConnMaxIdleTime(d)
		}
	}

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil && lg != nil {
		lg.Warn("gorm tracing plugin not installed", zap.Error(err))
	}

	if lg != nil {
		lg.Info("database connected", zap.String("type", c.Type))
	}
	return db, nil
}

func dialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case "postgres":
		host, port, err := net.SplitHostPort(c.Host)
		if err != nil {
			host, port = c.Host, "5432"
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Local",
			host, port, c.UserName, c.Password, c.Name,
		)), nil
	case "sqlite", "":
		if !fileurl.IsSQLiteMemory(c.Path) && !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "create sqlite dir")
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}

// Dao wraps the gorm handle and runs each table migration once.
type Dao struct {
	db          *gorm.DB
	logger      *zap.Logger
	autoMigrate bool

	mu       sync.Mutex
	migrated map[string]bool
}

func New(db *gorm.DB, lg *zap.Logger, autoMigrate bool) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{db: db, logger: lg, autoMigrate: autoMigrate, migrated: make(map[string]bool)}
}

// UseWithMigrate returns a handle bound to ctx after migrating key once.
func (d *Dao) UseWithMigrate(ctx context.Context, key string) (*gorm.DB, error) {
	if d.autoMigrate {
		d.mu.Lock()
		if !d.migrated[key] {
			if err := model.AutoMigrate(d.db, key); err != nil {
				d.mu.Unlock()
				return nil, errors.Wrapf(err, "auto migrate %s", key)
			}
			d.migrated[key] = true
			d.logger.Debug("table migrated", zap.String("model", key))
		}
		d.mu.Unlock()
	}
	return d.db.WithContext(ctx), nil
}

// Close 关闭数据库连接
func (d *Dao) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
