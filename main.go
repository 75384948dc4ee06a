// Command duolobby is the lobby client for the two-player online game.
//
// It supports four commands:
//  1. "host"   – create a room, share its code, and wait for the second player
//  2. "join"   – join an existing room by code and wait for the game to start
//  3. "status" – report (or watch) whether online play is currently possible
//  4. "demo"   – run the in-process fake lobby server for local testing
//
// Flags control the config directory and debug logging; everything else comes
// from config.yaml, environment variables, or defaults.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/lmoreno/duolobby/config"
	"github.com/lmoreno/duolobby/health"
	"github.com/lmoreno/duolobby/lobby"
	"github.com/lmoreno/duolobby/lobbytest"
	"github.com/lmoreno/duolobby/metrics"
	"github.com/lmoreno/duolobby/share"
	"github.com/lmoreno/duolobby/storage"
	"github.com/lmoreno/duolobby/transport/realtime"
	"github.com/lmoreno/duolobby/transport/rest"
	"github.com/lmoreno/duolobby/ui"
)

const (
	Version = "1.0.0"
	AppName = "duolobby"
)

func main() {
	cmd := &cli.Command{
		Name:    AppName,
		Usage:   "game lobby client: host or join two-player online sessions",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "directory containing config.yaml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Load .env if present; a missing file is fine.
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				logrus.WithError(err).Warn("Error loading .env file")
			}

			if cmd.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			hostCommand(),
			joinCommand(),
			statusCommand(),
			demoCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}

// runtime bundles everything a lobby flow needs.
type runtime struct {
	cfg     *config.AppConfig
	console *ui.Console
	monitor *health.Monitor
	channel *realtime.Channel
	coord   *lobby.Coordinator
}

// setupRuntime wires the stores, monitor, channel, and coordinator from
// configuration. The redirect listener is armed before the channel connects.
func setupRuntime(cmd *cli.Command) (*runtime, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	local, err := storage.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	console := ui.NewConsole(os.Stdout)
	api := rest.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.RequestTimeout)*time.Second)

	monitor := health.NewMonitor(api, health.InterfaceProber{}, local, console, health.Options{
		Interval: time.Duration(cfg.Health.Interval) * time.Second,
		Timeout:  time.Duration(cfg.Health.Timeout) * time.Second,
	})

	channel := realtime.NewChannel(cfg.RealtimeURL(), realtime.Options{
		HandshakeTimeout: time.Duration(cfg.Realtime.HandshakeTimeout) * time.Second,
		ReconnectMin:     time.Duration(cfg.Realtime.ReconnectMin) * time.Millisecond,
		ReconnectMax:     time.Duration(cfg.Realtime.ReconnectMax) * time.Millisecond,
	})

	coord, err := lobby.New(api, channel, storage.NewSessionStore(), console, cfg.Server.LobbyPage)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		console: console,
		monitor: monitor,
		channel: channel,
		coord:   coord,
	}, nil
}

// requireOnline evaluates connectivity once and refuses to start an online
// flow while offline.
func (rt *runtime) requireOnline(ctx context.Context) error {
	rt.monitor.Evaluate(ctx)
	if rt.monitor.Status() != health.StatusOnline {
		return cli.Exit("You must be online to play online games.", 1)
	}
	return nil
}

func hostCommand() *cli.Command {
	return &cli.Command{
		Name:  "host",
		Usage: "create a room and wait for a second player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "qr",
				Usage: "write a QR code PNG of the join link to this path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setupRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.requireOnline(ctx); err != nil {
				return err
			}
			go rt.monitor.Run(ctx)

			if err := rt.channel.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect realtime channel: %w", err)
			}
			defer rt.channel.Close()
			defer cleanup(rt.coord)

			code, outcome := rt.coord.CreateRoom(ctx)
			if !outcome.OK {
				return fmt.Errorf("failed to create room: %s", outcome.Message)
			}

			joinURL := share.JoinURL(rt.cfg.Server.BaseURL, code)
			fmt.Printf("Share this link: %s\n", joinURL)

			if path := cmd.String("qr"); path != "" {
				if err := share.WriteQR(path, joinURL); err != nil {
					logrus.WithError(err).Warn("Failed to write QR code")
				} else {
					fmt.Printf("QR code written to %s\n", path)
				}
			}

			select {
			case url := <-rt.console.Navigated():
				fmt.Printf("Game starting at %s\n", url)
				return nil
			case <-ctx.Done():
				return nil
			}
		},
	}
}

func joinCommand() *cli.Command {
	return &cli.Command{
		Name:      "join",
		Usage:     "join an existing room by code",
		ArgsUsage: "CODE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			code := cmd.Args().First()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setupRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.requireOnline(ctx); err != nil {
				return err
			}
			go rt.monitor.Run(ctx)

			if err := rt.channel.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect realtime channel: %w", err)
			}
			defer rt.channel.Close()

			if outcome := rt.coord.JoinRoom(ctx, code); !outcome.OK {
				return cli.Exit(outcome.Message, 1)
			}

			select {
			case url := <-rt.console.Navigated():
				fmt.Printf("Game starting at %s\n", url)
				return nil
			case <-ctx.Done():
				return nil
			}
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "report whether online play is currently possible",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "keep monitoring until interrupted",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setupRuntime(cmd)
			if err != nil {
				return err
			}

			if cmd.Bool("watch") {
				rt.monitor.Run(ctx)
				return nil
			}

			rt.monitor.Evaluate(ctx)
			fmt.Println(rt.monitor.Status())
			return nil
		},
	}
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "run the in-process fake lobby server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "localhost:8080",
				Usage: "address to listen on",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := cmd.String("addr")
			server := &http.Server{
				Addr:         addr,
				Handler:      lobbytest.NewServer(""),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
			}()

			logrus.WithField("addr", addr).Info("Fake lobby server listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}

// cleanup issues the best-effort delete for a still-held room. It runs on a
// fresh short-lived context because the command context is usually already
// cancelled by the time we get here.
func cleanup(coord *lobby.Coordinator) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	coord.CleanupOnExit(ctx)
}
