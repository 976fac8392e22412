package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
	"github.com/kmehta/codescope/pkg/sanitizer"
)

func sanitizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "sanitize",
		Usage:     "Slice a Java class down to a focal method and its callees",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "method",
				Aliases:  []string{"m"},
				Usage:    "Focal method name or declaration",
				Required: true,
			},
		},
		Action: runSanitizeCmd,
	}
}

func runSanitizeCmd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("missing source file argument")
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	s, err := sanitizer.New(string(raw))
	if err != nil {
		return err
	}
	defer s.Close()

	sanitized, err := s.SanitizeFocalClass(c.String("method"))
	if err != nil {
		return err
	}

	switch formatter.Format() {
	case output.FormatText:
		_, err = fmt.Fprintln(formatter.Writer(), sanitized)
		return err
	case output.FormatMarkdown:
		_, err = fmt.Fprintf(formatter.Writer(), "```java\n%s\n```\n", sanitized)
		return err
	default:
		return formatter.Output(map[string]string{
			"file":      path,
			"method":    c.String("method"),
			"sanitized": sanitized,
		})
	}
}
