package main

import (
	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
)

func calleesCmd() *cli.Command {
	return &cli.Command{
		Name:      "callees",
		Usage:     "List every method a method calls",
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
		Action: runCalleesCmd,
	}
}

func runCalleesCmd(c *cli.Context) error {
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
	result, err := an.Callees(c.String("class"), c.String("method"), useSymbolTable)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.CalleeDetails))
	for _, callee := range result.CalleeDetails {
		rows = append(rows, []string{
			callee.CalleeMethod.Klass,
			signatureOf(callee.CalleeMethod),
			joinInts(callee.CallingLines),
		})
	}

	table := output.NewTable(
		"Callees of "+c.String("class")+"."+c.String("method"),
		[]string{"Class", "Signature", "Calling Lines"},
		rows,
		nil,
		result,
	)
	return formatter.Output(table)
}
