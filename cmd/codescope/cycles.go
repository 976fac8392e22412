package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
)

func cyclesCmd() *cli.Command {
	return &cli.Command{
		Name:      "cycles",
		Usage:     "Report strongly connected components of the call graph",
		ArgsUsage: "[path]",
		Flags:     languageFlags(),
		Action:    runCyclesCmd,
	}
}

func runCyclesCmd(c *cli.Context) error {
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

	cycles, err := an.Cycles()
	if err != nil {
		return err
	}
	if len(cycles) == 0 {
		formatter.Success("No call cycles found")
		return nil
	}

	rows := make([][]string, 0, len(cycles))
	for i, cycle := range cycles {
		members := make([]string, len(cycle))
		for j, key := range cycle {
			members[j] = key.Klass + "." + key.Signature
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(cycle)),
			strings.Join(members, " -> "),
		})
	}

	table := output.NewTable(
		"Call Cycles",
		[]string{"#", "Size", "Members"},
		rows,
		nil,
		cycles,
	)
	return formatter.Output(table)
}
