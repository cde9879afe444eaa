// Package spmlog initializes the process-wide structured logger, adapted
// from the teacher's pkg/logging: a slog.TextHandler on stderr, level
// controlled by an env var.
package spmlog

import (
	"log/slog"
	"os"
)

const LogLevelEnvVar = "SPM_LOG_LEVEL"

func Init() error {
	logLevel, ok := os.LookupEnv(LogLevelEnvVar)
	if !ok {
		return initLogging("info")
	}
	return initLogging(logLevel)
}

func initLogging(logLevel string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(logLevel)); err != nil {
		return err
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
	return nil
}
