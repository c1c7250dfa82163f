package utils

import (
	"fmt"
	"math/big"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// NewLog writes JSON lines to <dir><name>.log, rotated by size, and mirrors
// them to stdout when console is set.
func NewLog(cfg LogConfig, name string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	file := &lumberjack.Logger{
		Filename:   fmt.Sprintf("%s%s.log", cfg.Dir, name),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), level),
	}
	if cfg.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named(name), nil
}

// UiAmount converts a raw token amount into its decimal form.
func UiAmount(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// RawAmount converts a decimal amount back into raw token units, truncating
// anything below the smallest unit.
func RawAmount(amount decimal.Decimal, decimals uint8) (uint64, error) {
	raw := amount.Shift(int32(decimals)).Truncate(0)
	if raw.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", amount)
	}
	n := raw.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("amount %s overflows u64", amount)
	}
	return n.Uint64(), nil
}

// Price is the amount of quote token paid per base token, in ui units.
func Price(baseAmount uint64, baseDecimals uint8, quoteAmount uint64, quoteDecimals uint8) decimal.Decimal {
	base := UiAmount(baseAmount, baseDecimals)
	if base.IsZero() {
		return decimal.Zero
	}
	return UiAmount(quoteAmount, quoteDecimals).DivRound(base, 12)
}
