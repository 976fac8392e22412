package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
	"github.com/kmehta/codescope/pkg/models"
)

func commentsCmd() *cli.Command {
	return &cli.Command{
		Name:      "comments",
		Usage:     "List comments and docstrings from the symbol table",
		ArgsUsage: "[path]",
		Flags: append(languageFlags(),
			&cli.StringFlag{
				Name:  "class",
				Usage: "Restrict to one fully qualified class",
			},
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Usage:   "Restrict to one method signature (requires --class)",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Restrict to one source file path",
			},
			&cli.BoolFlag{
				Name:  "docstrings",
				Usage: "Only documentation comments",
			},
		),
		Action: runCommentsCmd,
	}
}

func runCommentsCmd(c *cli.Context) error {
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

	grouped := collectComments(c, app)

	locations := make([]string, 0, len(grouped))
	for loc := range grouped {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	var rows [][]string
	for _, loc := range locations {
		for _, comment := range grouped[loc] {
			kind := "comment"
			if comment.IsJavadoc {
				kind = "doc"
			}
			rows = append(rows, []string{
				loc,
				fmt.Sprintf("%d", comment.StartLine),
				kind,
				firstLine(comment.Content),
			})
		}
	}

	table := output.NewTable(
		"Comments",
		[]string{"Location", "Line", "Kind", "Content"},
		rows,
		nil,
		grouped,
	)
	return formatter.Output(table)
}

func collectComments(c *cli.Context, app *models.Application) map[string][]models.Comment {
	class := c.String("class")
	method := c.String("method")
	file := c.String("file")

	switch {
	case class != "" && method != "":
		return map[string][]models.Comment{
			class + "." + method: app.CommentsInMethod(class, method),
		}
	case class != "":
		return map[string][]models.Comment{class: app.CommentsInClass(class)}
	case file != "":
		return map[string][]models.Comment{file: app.CommentsInFile(file)}
	case c.Bool("docstrings"):
		return app.AllDocstrings()
	default:
		return app.AllComments()
	}
}

func firstLine(content string) string {
	line := strings.TrimSpace(content)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	const max = 72
	if len(line) > max {
		line = line[:max-3] + "..."
	}
	return line
}
