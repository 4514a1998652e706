// Command icekit inspects table metadata and lists or verifies the files
// of a table snapshot.
//
// Exit codes: 0 on success, 1 for bad input or a table with missing files,
// 2 for any other failure.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gobeaver/icekit"
	_ "github.com/gobeaver/icekit/driver/azure"
	_ "github.com/gobeaver/icekit/driver/gcs"
	_ "github.com/gobeaver/icekit/driver/local"
	_ "github.com/gobeaver/icekit/driver/memory"
	_ "github.com/gobeaver/icekit/driver/s3"
	"github.com/gobeaver/icekit/logger"
	"github.com/gobeaver/icekit/manifest"
	"github.com/gobeaver/icekit/output"
	"github.com/gobeaver/icekit/table"
	"github.com/gobeaver/icekit/walk"
	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}

	os.Exit(exitCode(newApp().Run(os.Args)))
}

// exitCode reports err and maps it to the process exit code
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if icekit.IsExpected(err) {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Log.Debug().Stack().Err(pkgerrors.WithStack(err)).Msg("unexpected error")
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 2
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "icekit",
		Usage: "Inspect tables and verify the files of their snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "location",
				Aliases:  []string{"l"},
				Usage:    "Table metadata file, or table directory with metadata/version-hint.text",
				Required: true,
				EnvVars:  []string{"BEAVER_ICEKIT_LOCATION"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides BEAVER_ICEKIT_LOG_LEVEL",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "metadata",
				Usage: "Print the table metadata",
				Action: func(c *cli.Context) error {
					cmds, err := open(c)
					if err != nil {
						return err
					}
					return cmds.Metadata()
				},
			},
			{
				Name:  "schemas",
				Usage: "Print every schema as JSON lines",
				Action: func(c *cli.Context) error {
					cmds, err := open(c)
					if err != nil {
						return err
					}
					return cmds.Schemas()
				},
			},
			{
				Name:      "schema",
				Usage:     "Print one schema",
				ArgsUsage: "<id|current>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "schema")
					if err != nil {
						return err
					}
					cmds, err := open(c)
					if err != nil {
						return err
					}
					return cmds.Schema(id)
				},
			},
			{
				Name:  "snapshots",
				Usage: "Print every snapshot as JSON lines",
				Action: func(c *cli.Context) error {
					cmds, err := open(c)
					if err != nil {
						return err
					}
					return cmds.Snapshots()
				},
			},
			{
				Name:      "snapshot",
				Usage:     "Print one snapshot",
				ArgsUsage: "<id|current>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "snapshot")
					if err != nil {
						return err
					}
					cmds, err := open(c)
					if err != nil {
						return err
					}
					return cmds.Snapshot(id)
				},
			},
			{
				Name:      "files",
				Usage:     "List the files of a snapshot as JSON lines",
				ArgsUsage: "<id|current>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "Check that every data file exists; exits 1 when any is missing",
					},
					&cli.BoolFlag{
						Name:  "include-metadata",
						Usage: "Start the listing with the table metadata file",
					},
					&cli.BoolFlag{
						Name:  "summary",
						Usage: "Print counts and a digest of the listing at the end",
					},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "snapshot")
					if err != nil {
						return err
					}
					cmds, err := open(c)
					if err != nil {
						return err
					}
					_, err = cmds.SnapshotFiles(c.Context, id, table.FilesOptions{
						Verify:          c.Bool("verify"),
						IncludeMetadata: c.Bool("include-metadata"),
						Summary:         c.Bool("summary"),
					})
					return err
				},
			},
		},
	}
}

func idArg(c *cli.Context, what string) (string, error) {
	if c.NArg() != 1 {
		return "", icekit.UserInputf("expected one %s id (an integer or %q)", what, table.Current)
	}
	return c.Args().First(), nil
}

// open loads configuration and the table named by --location
func open(c *cli.Context) (*table.Commands, error) {
	cfg, err := icekit.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := icekit.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	logger.SetLevel(level)

	router := icekit.NewRouter(cfg)
	tbl, err := table.Load(c.Context, router, c.String("location"))
	if err != nil {
		return nil, err
	}
	logger.Log.Debug().Str("metadata", tbl.MetadataLocation).Int("format_version", tbl.Metadata.FormatVersion).
		Msg("loaded table")

	walker := walk.New(router, manifest.NewAvroParser(),
		walk.FromConfig(cfg),
		walk.WithLogger(logger.Log),
	)
	return table.NewCommands(tbl, output.New(), walker), nil
}
