package common

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 精簡模式仍會輸出的訊息
const (
	MsgStartup      = "啟動應用"
	MsgRequestDone  = "請求完成"
	MsgImportDone   = "目錄匯入完成"
	MsgImportFailed = "目錄匯入失敗"
	MsgShutdown     = "Shutting down server..."
	MsgExited       = "Server exited"
)

const defaultLogFile = "logs/mixology.log"

var (
	// Logger 全局日誌實例，InitLogger 前為 no-op
	Logger = zap.NewNop()
	// LogMode 由 InitLogger 讀取 LOG_MODE，"concise" 時只留生命週期與請求摘要
	LogMode string

	conciseMessages = map[string]struct{}{
		MsgStartup:     {},
		MsgRequestDone: {},
		MsgImportDone:  {},
		MsgShutdown:    {},
		MsgExited:      {},
	}

	levelColors = map[zapcore.Level]string{
		zapcore.DebugLevel: "\033[36m",
		zapcore.InfoLevel:  "\033[32m",
		zapcore.WarnLevel:  "\033[33m",
		zapcore.ErrorLevel: "\033[31m",
		zapcore.FatalLevel: "\033[35m",
	}
	levelTags = map[zapcore.Level]string{
		zapcore.DebugLevel: "DBG",
		zapcore.InfoLevel:  "INF",
		zapcore.WarnLevel:  "WRN",
		zapcore.ErrorLevel: "ERR",
		zapcore.FatalLevel: "FAT",
	}
)

// sensitiveKeys 不寫入日誌的欄位
var sensitiveKeys = []string{"password", "redis_password", "authorization"}

// 檔案輸出為 JSON，時間帶日期，級別不上色
func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
}

// 終端輸出：毫秒時間與固定寬度的彩色級別
func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := fileEncoderConfig()
	cfg.EncodeLevel = consoleLevelEncoder
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("15:04:05.000"))
	}
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

func consoleLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	tag, ok := levelTags[l]
	if !ok {
		tag = strings.ToUpper(l.String())
	}
	enc.AppendString(levelColors[l] + tag + "\033[0m")
}

// parseLevel 無法辨識時使用 info
func parseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// InitLogger 初始化日誌，同時寫入終端與 LOG_FILE（預設 logs/mixology.log）
func InitLogger(logLevel string) error {
	level := parseLevel(logLevel)

	// LOG_MODE 與 LOG_FILE 需在 .env 載入後讀取
	LogMode = os.Getenv("LOG_MODE")
	path := os.Getenv("LOG_FILE")
	if path == "" {
		path = defaultLogFile
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), zapcore.AddSync(logFile), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.AddSync(os.Stdout), level),
	)
	Logger = zap.New(core,
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("service", "mixology-matcher")),
	)
	zap.ReplaceGlobals(Logger)
	return nil
}

// filterFields 過濾敏感欄位
func filterFields(fields []zap.Field) []zap.Field {
	filtered := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		sensitive := slices.ContainsFunc(sensitiveKeys, func(key string) bool {
			return strings.EqualFold(field.Key, key)
		})
		if !sensitive {
			filtered = append(filtered, field)
		}
	}
	return filtered
}

// LogInfo 記錄信息日誌
func LogInfo(msg string, fields ...zap.Field) {
	if LogMode == "concise" {
		if _, keep := conciseMessages[msg]; !keep {
			return
		}
	}
	Logger.Info(msg, filterFields(fields)...)
}

// LogError 記錄錯誤日誌
func LogError(msg string, fields ...zap.Field) {
	Logger.Error(msg, filterFields(fields)...)
}

// LogWarn 記錄警告日誌
func LogWarn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, filterFields(fields)...)
}

// LogDebug 記錄調試日誌
func LogDebug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, filterFields(fields)...)
}

// LogFatal 記錄致命錯誤日誌
func LogFatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, filterFields(fields)...)
}

// Sync 同步日誌緩衝
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogCacheHit 記錄快取命中
func LogCacheHit(cacheType, key string) {
	LogDebug("快取命中", zap.String("類型", cacheType), zap.String("鍵", key))
}

// LogCacheMiss 記錄快取未命中
func LogCacheMiss(cacheType, key string) {
	LogDebug("快取未命中", zap.String("類型", cacheType), zap.String("鍵", key))
}

// LogImport 記錄目錄匯入結果
func LogImport(batchID string, duration time.Duration, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("batch_id", batchID), zap.Duration("耗時", duration))
	if err != nil {
		LogError(MsgImportFailed, append(fields, zap.Error(err))...)
		return
	}
	LogInfo(MsgImportDone, fields...)
}
