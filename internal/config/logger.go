package config

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConfigureLogger applies level and format to the standard logrus logger.
func ConfigureLogger(cfg LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return errors.New("unknown log format " + cfg.Format)
	}

	return nil
}

var _ logger.Interface = (*gormLogger)(nil)

// gormLogger sends gorm's logs through logrus.
type gormLogger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger() *gormLogger {
	level := logger.Warn
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		level = logger.Info
	}

	return &gormLogger{level: level, slowThreshold: 200 * time.Millisecond}
}

func (g *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		logrus.WithContext(ctx).Infof(msg, args...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		logrus.WithContext(ctx).Warnf(msg, args...)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		logrus.WithContext(ctx).Errorf(msg, args...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := logrus.WithContext(ctx).WithFields(logrus.Fields{
		"elapsed": elapsed.String(),
		"rows":    rows,
	})

	switch {
	case err != nil && g.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		entry.WithError(err).Error(sql)
	case elapsed > g.slowThreshold && g.level >= logger.Warn:
		entry.Warnf("slow query: %s", sql)
	case g.level >= logger.Info:
		entry.Trace(sql)
	}
}
