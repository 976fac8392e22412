package main

import (
	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
	"github.com/kmehta/codescope/pkg/analyzer/callgraph"
)

func classGraphCmd() *cli.Command {
	return &cli.Command{
		Name:      "classgraph",
		Usage:     "Show the call graph rooted at one class (or one of its methods)",
		ArgsUsage: "[path]",
		Flags: append(languageFlags(),
			&cli.StringFlag{
				Name:     "class",
				Usage:    "Fully qualified class name",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Usage:   "Restrict to one method signature",
			},
			&cli.BoolFlag{
				Name:  "use-symbol-table",
				Usage: "Derive edges from call sites instead of the call graph",
			},
		),
		Action: runClassGraphCmd,
	}
}

func runClassGraphCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	app, err := loadApplication(c, cfg)
	if err != nil {
		return err
	}
	an, err := newGraphAnalyzer(app, cfg)
	if err != nil {
		return err
	}
	defer an.Close()

	class := c.String("class")
	method := c.String("method")

	var pairs []callgraph.EdgePair
	if c.Bool("use-symbol-table") || cfg.Analysis.UseSymbolTable {
		pairs = an.ClassGraphUsingSymbolTable(class, method)
	} else {
		pairs, err = an.ClassGraph(class, method)
		if err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, []string{
			pair.Source.Klass,
			signatureOf(pair.Source),
			pair.Target.Klass,
			signatureOf(pair.Target),
		})
	}

	table := output.NewTable(
		"Call graph of "+class,
		[]string{"Source Class", "Source Signature", "Target Class", "Target Signature"},
		rows,
		nil,
		pairs,
	)
	return formatter.Output(table)
}
