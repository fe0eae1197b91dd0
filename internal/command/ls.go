package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/joeycumines/one-shot-cad/internal/storage"
)

// LsCommand lists the drawings in a directory.
type LsCommand struct {
	*BaseCommand
}

func NewLsCommand() *LsCommand {
	return &LsCommand{
		BaseCommand: NewBaseCommand("ls", "List drawing files in a directory", "ls [dir]"),
	}
}

func (c *LsCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 0, 1, stderr); err != nil {
		return err
	}
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	infos, err := storage.Scan(dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(infos) == 0 {
		_, _ = fmt.Fprintf(stdout, "No drawings in %s\n", dir)
		return nil
	}

	rows := [][]string{{"NAME", "SHAPES", "UPDATED", "STATUS"}}
	for _, info := range infos {
		status := ""
		switch {
		case info.Err != "":
			status = "unreadable: " + info.Err
		case info.IsOpen:
			status = "open"
		}
		rows = append(rows, []string{
			info.Name,
			strconv.Itoa(info.Shapes),
			info.UpdatedAt.Local().Format("2006-01-02 15:04"),
			status,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		line := ""
		for i, cell := range row {
			if i == len(row)-1 {
				line += cell
				break
			}
			line += runewidth.FillRight(cell, widths[i]) + "  "
		}
		_, _ = fmt.Fprintln(stdout, strings.TrimRight(line, " "))
	}
	return nil
}
