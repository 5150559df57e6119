package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sqlmysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"llm-usage-ledger/internal/core/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported db driver")

type Opts struct {
	Driver             string // postgres / mysql / sqlite
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string // silent / error / warn / info
	SlowThresholdMs    int
	PrepareStmt        bool
	Logger             *zap.Logger // 为空时 gorm 日志走默认输出
}

func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         newGormLogger(o),
		TranslateError: true, // 唯一冲突 → gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	db = db.
		Session(&gorm.Session{
			PrepareStmt:            o.PrepareStmt, // 预编译缓存，提高 QPS
			CreateBatchSize:        200,           // 批量写
			SkipDefaultTransaction: true,          // 写操作统一走 Store.Do
		})
	return db, nil
}

func dialector(o Opts) (gorm.Dialector, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		if o.Logger != nil {
			o.Logger.Info("mysql dsn", zap.String("dsn", MaskDSN(dsn)))
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(o.DSN), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
}

func newGormLogger(o Opts) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	if o.Logger == nil {
		return gormlogger.Default.LogMode(lvl)
	}
	slow := time.Duration(o.SlowThresholdMs) * time.Millisecond
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	std, err := logger.ToStdLogger(o.Logger.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		return gormlogger.Default.LogMode(lvl)
	}
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// MaskDSN 隐去 user:pass@ 中的密码
func MaskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at <= 0 {
		return dsn
	}
	head := dsn[:at]
	if i := strings.Index(head, "://"); i >= 0 {
		head = head[i+3:]
	}
	colon := strings.Index(head, ":")
	if colon < 0 {
		return dsn
	}
	start := at - len(head) + colon + 1
	return dsn[:start] + "****" + dsn[at:]
}

// normalizeMySQLDSN 接受 go-sql-driver DSN 或 (jdbc:)mysql:// URL，统一交给驱动解析再格式化。
// 固定打开 parseTime 和 clientFoundRows：影响行数按匹配行算，同值 UPDATE 不会返回 0
func normalizeMySQLDSN(input, user, pass string) string {
	in := strings.TrimSpace(input)
	if in == "" {
		return in
	}

	dsn := in
	if rest, ok := strings.CutPrefix(strings.TrimPrefix(in, "jdbc:"), "mysql://"); ok {
		var err error
		if dsn, err = mysqlURLToDSN(rest); err != nil {
			return in
		}
	}
	if !strings.Contains(dsn, "charset=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "charset=utf8mb4"
	}

	cfg, err := sqlmysql.ParseDSN(dsn)
	if err != nil {
		return in // 交给驱动报错
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

// mysqlURLToDSN 把 Navicat/JDBC 风格的 URL 参数换成 go-sql-driver 的写法
func mysqlURLToDSN(rest string) (string, error) {
	u, err := url.Parse("mysql://" + rest)
	if err != nil {
		return "", err
	}
	q := u.Query()

	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	if v := q.Get("user"); v != "" {
		user = v
	}
	if v := q.Get("password"); v != "" {
		pass = v
	}

	out := url.Values{}
	for k := range q {
		v := q.Get(k)
		switch k {
		case "user", "password", "useUnicode", "zeroDateTimeBehavior":
			// JDBC 专用，驱动不认
		case "characterEncoding":
			if q.Get("charset") == "" {
				out.Set("charset", v)
			}
		case "serverTimezone":
			out.Set("loc", v)
		case "useSSL":
			out.Set("tls", tlsMode(v))
		default:
			out.Set(k, v)
		}
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, u.Host, strings.TrimPrefix(u.Path, "/"))
	if enc := out.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn, nil
}

func tlsMode(useSSL string) string {
	switch v := strings.ToLower(useSSL); v {
	case "true", "1":
		return "true"
	case "skip-verify", "preferred":
		return v
	default:
		return "false"
	}
}
