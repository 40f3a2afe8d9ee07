package operations

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/toyland-demo/toyland/service"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run toyland services",
		Subcommands: []cli.Command{
			startWebService(),
		},
	}
}

func startWebService() cli.Command {
	return cli.Command{
		Name:   "web",
		Usage:  "run the toyland API",
		Flags:  serviceConfigFlags(),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := loadEnvironment(ctx, c.String(confFlagName))
			if err != nil {
				return errors.WithStack(err)
			}
			settings := env.Settings()
			if !c.GlobalIsSet("level") {
				grip.Warning(settings.Logging.SetThreshold(grip.GetSender()))
			}

			defer recovery.LogStackTraceAndExit("toyland web service")
			defer func() {
				closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownWait(settings))
				defer closeCancel()
				grip.Warning(errors.Wrap(env.Close(closeCtx), "closing environment"))
			}()

			router, err := service.GetRouter(env, data.NewDBConnector(env.DB()))
			if err != nil {
				return errors.Wrap(err, "building router")
			}

			server := service.GetServer(":"+strconv.Itoa(settings.Api.Port), router)
			go listenForSIGTERM(cancel)

			return errors.WithStack(serve(ctx, server, shutdownWait(settings)))
		},
	}
}

// loadEnvironment reads settings from the configuration file, if one is
// named or found, and the process environment, then connects to the
// database.
func loadEnvironment(ctx context.Context, confPath string) (toyland.Environment, error) {
	confPath, err := findConfigFilePath(confPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	settings, err := toyland.LoadSettings(confPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading settings")
	}

	env, err := toyland.NewEnvironment(ctx, settings)
	if err != nil {
		return nil, errors.Wrap(err, "configuring application environment")
	}

	return env, nil
}

func shutdownWait(settings *toyland.Settings) time.Duration {
	return time.Duration(settings.ShutdownWaitSeconds) * time.Second
}

// serve runs the server until it fails or the context is canceled, in
// which case in-flight requests get up to wait to finish.
func serve(ctx context.Context, server *http.Server, wait time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer recovery.LogStackTraceAndContinue("toyland http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "running http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		grip.Notice(message.Fields{
			"message":   "shutting down http server",
			"addr":      server.Addr,
			"wait_secs": wait.Seconds(),
		})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()

		return errors.Wrap(server.Shutdown(shutdownCtx), "shutting down http server")
	})

	return g.Wait()
}

func listenForSIGTERM(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 5)
	signal.Notify(sigChan, syscall.SIGTERM, os.Interrupt)
	<-sigChan
	grip.Info("received termination signal")
	cancel()
}
