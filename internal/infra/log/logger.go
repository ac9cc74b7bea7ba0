package log

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "hoops-auth"

// New builds the service logger. An unparsable level falls back to debug.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)

	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			fmt.Printf("bad LOG_LEVEL=%s, fallback to debug\n", level)
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
	}

	l, err := cfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("service", serviceName)), nil
}

func Must(level string) *zap.Logger {
	l, err := New(level)
	if err != nil {
		panic(err)
	}
	return l
}

// Email logs an address as its sha256 digest so that request logs never
// carry it in clear text.
func Email(email string) zap.Field {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return zap.String("email_sha256", hex.EncodeToString(sum[:]))
}
