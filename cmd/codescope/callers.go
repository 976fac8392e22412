package main

import (
	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
)

func callersCmd() *cli.Command {
	return &cli.Command{
		Name:      "callers",
		Usage:     "List every caller of a method",
		ArgsUsage: "[path]",
		Flags: append(languageFlags(),
			&cli.StringFlag{
				Name:     "class",
				Usage:    "Fully qualified declaring class",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "method",
				Aliases:  []string{"m"},
				Usage:    "Method signature",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "use-symbol-table",
				Usage: "Derive edges from call sites instead of the call graph",
			},
		),
		Action: runCallersCmd,
	}
}

func runCallersCmd(c *cli.Context) error {
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

	useSymbolTable := c.Bool("use-symbol-table") || cfg.Analysis.UseSymbolTable
	result, err := an.Callers(c.String("class"), c.String("method"), useSymbolTable)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.CallerDetails))
	for _, caller := range result.CallerDetails {
		rows = append(rows, []string{
			caller.CallerMethod.Klass,
			signatureOf(caller.CallerMethod),
			joinInts(caller.CallingLines),
		})
	}

	table := output.NewTable(
		"Callers of "+c.String("class")+"."+c.String("method"),
		[]string{"Class", "Signature", "Calling Lines"},
		rows,
		nil,
		result,
	)
	return formatter.Output(table)
}
