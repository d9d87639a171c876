package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/jezek/xgb"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/perchwm/perch/internal/app"
	"github.com/perchwm/perch/internal/build"
	"github.com/perchwm/perch/internal/bus"
	"github.com/perchwm/perch/internal/config"
	"github.com/perchwm/perch/internal/core"
	"github.com/perchwm/perch/internal/wm"
	"github.com/perchwm/perch/internal/xserver"
	"github.com/phsym/console-slog"
)

type Options struct {
	Debug   bool   `doc:"enable debug"`
	Host    string `doc:"control API host"`
	Port    int    `doc:"control API port, 0 to disable" default:"0"`
	Config  string `doc:"config file" default:".perch.yaml"`
	Restart bool   `doc:"ask the running manager to restart, then exit"`
	Exit    bool   `doc:"ask the running manager to exit, then exit"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		if options.Restart || options.Exit {
			if err := signalRunning(options.Restart); err != nil {
				log.Fatal(err)
			}
			return
		}

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}

			if err := app.NormalizeConfig(&store); err != nil {
				return err
			}

			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}
			if options.Debug {
				pp.Println(cfg)
			}

			appOptions := app.Options{}
			if options.Port != 0 {
				appOptions.ListenAddress = core.Address(options.Host, options.Port)
			}

			err = app.Run(ctx, cfg, appOptions)
			if errors.Is(err, wm.ErrRestart) {
				return restart()
			}
			return err
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

// signalRunning pokes the running manager's root window property and
// returns once the request is flushed.
func signalRunning(restart bool) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	server, err := xserver.New(conn, 0, 0)
	if err != nil {
		return err
	}
	if restart {
		server.RequestRestart()
	} else {
		server.RequestExit()
	}
	server.Sync()
	return nil
}

// restart re-executes the current binary with the original arguments,
// releasing the display first so the new instance can claim it.
func restart() error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}

	slog.Info("Restarting", "executable", executable)

	cmd := exec.Command(executable, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
