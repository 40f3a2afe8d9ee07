package operations

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/dustin/go-humanize"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/urfave/cli"
)

func Stats() cli.Command {
	return cli.Command{
		Name:   "stats",
		Usage:  "print the number of documents in each collection",
		Flags:  serviceConfigFlags(),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := loadEnvironment(ctx, c.String(confFlagName))
			if err != nil {
				return errors.WithStack(err)
			}
			defer func() { grip.Warning(env.Close(ctx)) }()

			counts, err := data.CountCollections(ctx, env.DB())
			if err != nil {
				return errors.Wrap(err, "counting documents")
			}

			printCollectionCounts(os.Stdout, env.Settings().Database.DB, counts)
			return nil
		},
	}
}

func printCollectionCounts(w io.Writer, dbName string, counts []data.CollectionCount) {
	total := 0
	t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("Collection", "Documents")
	for _, count := range counts {
		t.AddLine(count.Collection, humanize.Comma(int64(count.Count)))
		total += count.Count
	}
	fmt.Fprintf(w, "%s documents in database '%s':\n", humanize.Comma(int64(total)), dbName)
	t.Print()
}
