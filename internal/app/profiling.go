package app

import (
	"fmt"
	"log/slog"

	"github.com/grafana/pyroscope-go"

	"github.com/alanyoungcy/livescores/internal/config"
)

// startProfiler starts continuous profiling and returns its stop function.
func startProfiler(cfg config.ProfilingConfig, mode string, logger *slog.Logger) (func(), error) {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Tags: map[string]string{
			"mode": mode,
		},
		Logger: pyroscopeLogger{logger.With(slog.String("component", "pyroscope"))},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("profiling: start: %w", err)
	}

	logger.Info("profiler started",
		slog.String("server_address", cfg.ServerAddress),
		slog.String("application_name", cfg.ApplicationName),
	)
	return func() { _ = profiler.Stop() }, nil
}

// pyroscopeLogger routes profiler output through slog.
type pyroscopeLogger struct {
	logger *slog.Logger
}

func (l pyroscopeLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Errorf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
