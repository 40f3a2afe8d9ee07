package operations

import (
	"strings"

	"github.com/urfave/cli"
)

const confFlagName = "conf"

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func serviceConfigFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:   joinFlagNames(confFlagName, "c", "config"),
		Usage:  "path to the service configuration file (default: ~/.toyland.yml or .toyland.yml next to the binary); environment variables override it",
		EnvVar: "TOYLAND_CONFIG",
	})
}
