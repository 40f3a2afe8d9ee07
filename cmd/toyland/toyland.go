package main

import (
	"os"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/toyland-demo/toyland"
	"github.com/toyland-demo/toyland/operations"
	"github.com/urfave/cli"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	grip.EmergencyFatal(buildApp().Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = toyland.ServiceName
	app.Usage = "serve the toyland catalog, orders, reviews and users over HTTP"
	app.Version = toyland.ClientVersion
	app.Commands = []cli.Command{
		operations.Service(),
		operations.Stats(),
		operations.Version(),
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: level.Info.String(),
			Usage: "lowest log level to print",
		},
	}
	app.Before = func(c *cli.Context) error {
		if err := setupLogging(app.Name, c.String("level")); err != nil {
			return err
		}
		// GOMAXPROCS follows the container CPU quota, if any.
		_, err := maxprocs.Set(maxprocs.Logger(grip.Debugf))
		grip.Warning(err)

		return nil
	}

	return app
}

func setupLogging(name, threshold string) error {
	if err := grip.SetSender(send.MakeErrorLogger()); err != nil {
		return err
	}
	grip.SetName(name)

	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = level.FromString(threshold)

	return sender.SetLevel(info)
}
