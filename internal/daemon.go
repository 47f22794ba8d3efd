package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/fan-control/fan-control/internal/api"
	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/controller"
	"github.com/fan-control/fan-control/internal/pidfile"
	"github.com/fan-control/fan-control/internal/statistics"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	shutdownTimeout = 5 * time.Second

	// ForegroundEnv marks the detached child started by Daemonize
	ForegroundEnv = "FAN_CONTROL_FOREGROUND"
	// PidFileFdEnv tells the detached child which descriptor holds the locked pid file
	PidFileFdEnv = "FAN_CONTROL_PID_FD"

	// first descriptor after stdin, stdout and stderr
	inheritedPidFileFd = 3
)

// RunDaemon runs the control loop until it fails or the process receives
// SIGINT or SIGTERM. If pidFilePath is not empty, it is locked for the
// lifetime of the daemon.
func RunDaemon(config *configuration.Configuration, pidFilePath string) error {
	if os.Geteuid() != 0 {
		ui.Warning("Not running as root, writing to the fan might not be permitted")
	}

	if len(pidFilePath) > 0 {
		pidFile, err := lockPidFile(pidFilePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := pidFile.Release(); err != nil {
				ui.Warning("Unable to release pid file: %v", err)
			}
		}()
		ui.Debug("Locked pid file %s", pidFile.Path())
	}

	objects, err := InitializeObjects(config)
	if err != nil {
		return err
	}

	fan := objects.Fan
	if err = fan.Init(); err != nil {
		return err
	}
	defer func() {
		ui.Info("Restoring fan %s...", fan.GetId())
		if err := fan.Restore(); err != nil {
			ui.Warning("Unable to restore fan %s, make sure it is running!", fan.GetId())
		}
	}()

	fanController := controller.NewController(objects.Sensor, objects.Policy, objects.Driver, config.TickRate, config.TempRollingWindowSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	{
		// === control loop
		g.Add(func() error {
			err := fanController.Run(ctx)
			ui.Info("Controller for fan %s stopped.", fan.GetId())
			return err
		}, func(err error) {
			cancel()
		})
	}
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		statistics.Register(statistics.NewControllerCollector(fanController))
		server := statistics.NewServer("", config.Statistics.Port, prometheus.DefaultGatherer)

		g.Add(func() error {
			ui.Info("Serving metrics on %s%s", server.Addr, statistics.MetricsEndpoint)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping statistics server...")
			shutdown(server.Shutdown)
		})
	}
	if config.Api.Enabled {
		// === REST api
		rest := api.CreateRestService(fanController, prometheus.DefaultRegisterer)
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

		g.Add(func() error {
			ui.Info("Serving REST api on %s", addr)
			if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start REST api: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping REST api...")
			shutdown(rest.Shutdown)
		})
	}
	{
		// === signals
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	}

	err = g.Run()

	var signalErr run.SignalError
	if errors.As(err, &signalErr) {
		ui.Info("Received %v signal, exiting...", signalErr.Signal)
		return nil
	}
	return err
}

func shutdown(f func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := f(ctx); err != nil {
		ui.Warning("Error during shutdown: %v", err)
	}
}

// lockPidFile takes over the lock of the parent when started by StartDaemon,
// otherwise it acquires a new one
func lockPidFile(path string) (*pidfile.PidFile, error) {
	if !IsDaemonized() {
		return pidfile.Acquire(path)
	}
	fd, err := strconv.Atoi(os.Getenv(PidFileFdEnv))
	if err != nil {
		return pidfile.Acquire(path)
	}
	return pidfile.Inherit(uintptr(fd), path)
}

// StartDaemon checks everything that can fail at startup in the foreground,
// so errors are reported with a non-zero exit code, and then starts the daemon
// in the background. The pid file lock is handed over to the background process.
func StartDaemon(config *configuration.Configuration, pidFilePath string) (int, error) {
	if _, err := InitializeObjects(config); err != nil {
		return -1, err
	}

	var pidFile *pidfile.PidFile
	if len(pidFilePath) > 0 {
		var err error
		pidFile, err = pidfile.Acquire(pidFilePath)
		if err != nil {
			return -1, err
		}
	}

	pid, err := Daemonize(pidFile)
	if pidFile == nil {
		return pid, err
	}
	if err != nil {
		return -1, errors.Join(err, pidFile.Release())
	}
	// the background process holds its own copy of the locked descriptor
	return pid, pidFile.Close()
}

// Daemonize starts the current executable with the same arguments in a new
// session, detached from the terminal, and returns its pid.
// A non-nil pidFile is passed on to the new process.
func Daemonize(pidFile *pidfile.PidFile) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return -1, err
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return -1, err
	}
	defer devNull.Close()

	cmd := exec.Command(executable, os.Args[1:]...)
	cmd.Env = append(os.Environ(), ForegroundEnv+"=1")
	if pidFile != nil {
		cmd.ExtraFiles = []*os.File{pidFile.File()}
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%d", PidFileFdEnv, inheritedPidFileFd))
	}
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err = cmd.Start(); err != nil {
		return -1, fmt.Errorf("unable to start background process: %w", err)
	}
	pid := cmd.Process.Pid
	return pid, cmd.Process.Release()
}

// IsDaemonized returns true in the process started by Daemonize
func IsDaemonized() bool {
	return os.Getenv(ForegroundEnv) == "1"
}
