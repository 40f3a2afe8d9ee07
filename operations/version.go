package operations

import (
	"fmt"

	"github.com/toyland-demo/toyland"
	"github.com/urfave/cli"
)

func Version() cli.Command {
	return cli.Command{
		Name:  "version",
		Usage: "prints the version and build revision",
		Action: func(c *cli.Context) error {
			fmt.Println(versionString())
			return nil
		},
	}
}

func versionString() string {
	if toyland.BuildRevision == "" {
		return fmt.Sprintf("toyland %s", toyland.ClientVersion)
	}
	return fmt.Sprintf("toyland %s (%s)", toyland.ClientVersion, toyland.BuildRevision)
}
