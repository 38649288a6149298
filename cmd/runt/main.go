package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-runt/runt/common/log"
	"github.com/go-runt/runt/runner"
	"github.com/urfave/cli/v2"
)

const runCommandUsage = "Run the tests of a package"
const runCommandDesc = runCommandUsage + `.

   The query selects the tests to run:
   * The entire package:            [package directory path] e.g. ./sample
   * One test at a byte offset:     [filepath:#offset]       e.g. increment_test.go:#120

   Args after '--' are passed to the 'go test' command.`
const listCommandUsage = "List the discoverable tests of a package"
const listCommandDesc = listCommandUsage + `.

   A discoverable test is a top-level 'func TestXxx(t *testing.T)' declared in a
   file whose name ends with '_test.go'.`

func main() {
	app := &cli.App{
		Name: filepath.Base(os.Args[0]),
		Commands: []*cli.Command{
			{
				Name:        "run",
				Aliases:     []string{"r"},
				Usage:       runCommandUsage,
				Description: runCommandDesc,
				ArgsUsage:   "[query (e.g. ./sample or increment_test.go:#120)] -- [go test options]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "run only the tests matching the `regexp`",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "print the output of the passed tests as well",
					},
				},
				Action: runAction,
			},
			{
				Name:        "list",
				Aliases:     []string{"l"},
				Usage:       listCommandUsage,
				Description: listCommandDesc,
				ArgsUsage:   "[package directory path]",
				Action:      listAction,
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "print the debug logs",
				Value: false,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func runAction(c *cli.Context) error {
	log.EnableDebugLog(c.Bool("debug"))

	query := "."
	if c.NArg() > 0 {
		query = c.Args().First()
	}
	q, err := runner.ParseQuery(query)
	if err != nil {
		return err
	}

	filter := runner.Filter{File: q.File, Offset: q.Offset}
	if expr := c.String("run"); expr != "" {
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid run regexp: %w", err)
		}
		filter.Run = re
	}

	var goTestOpts []string
	if c.Args().Len() > 1 && c.Args().Get(1) == "--" {
		goTestOpts = c.Args().Slice()[2:]
	}

	reporter := &runner.Reporter{W: os.Stdout, Verbose: c.Bool("verbose")}
	job, err := runner.NewJob(q.DirPath, filter, goTestOpts, reporter)
	if err != nil {
		return err
	}

	job.Run(c.Context)

	if job.Status != runner.JobStatusSuccessful {
		// the report already said FAIL
		return cli.Exit("", 1)
	}
	return nil
}

func listAction(c *cli.Context) error {
	log.EnableDebugLog(c.Bool("debug"))

	dirPath := "."
	if c.NArg() > 0 {
		dirPath = c.Args().First()
	}
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return err
	}

	testFuncs, err := runner.TestFunctions(absPath)
	if err != nil {
		return err
	}

	for _, f := range testFuncs {
		fmt.Printf("%s %s:%d\n", f.Name, f.File, f.Line)
	}
	return nil
}
