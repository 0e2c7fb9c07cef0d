package tracing

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var dirtyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

// RenderOptions controls the text rendering of a tracing tree
// (spec.md §4.7/§6: an `abbrev` flag collapsing single-child Apply
// chains, and a `height` flag capping terminal-based output).
type RenderOptions struct {
	Abbrev bool
	Height int // 0 means unlimited
}

// Render produces the tree-drawing text rendering of cell: prefixes
// using "├── "/"└── ", one row per cell, dirty rows highlighted via
// ANSI escapes, abbreviated per opts.
func Render(cell *Cell, opts RenderOptions) string {
	var sb strings.Builder
	rows := 0
	renderCell(&sb, cell, "", true, opts, &rows)
	return sb.String()
}

func renderCell(sb *strings.Builder, cell *Cell, prefix string, isRoot bool, opts RenderOptions, rows *int) {
	if opts.Height > 0 && *rows >= opts.Height {
		return
	}
	*rows++
	sb.WriteString(rowText(cell, prefix, isRoot))
	sb.WriteByte('\n')

	children := cell.Children
	if opts.Abbrev {
		children = abbreviate(cell)
	}
	for i, child := range children {
		last := i == len(children)-1
		childPrefix := prefix
		if !isRoot {
			if last {
				childPrefix += "    "
			} else {
				childPrefix += "│   "
			}
		}
		renderCell(sb, child, childPrefix, false, opts, rows)
	}
}

func rowText(cell *Cell, prefix string, isRoot bool) string {
	var connector string
	if !isRoot {
		connector = branchConnector(cell)
	}
	label := cell.Kind.String()
	if cell.varName != "" {
		label += " " + cell.varName
	}
	valueText := "<nil>"
	if cell.Value != nil {
		valueText = cell.Value.String()
	}
	row := prefix + connector + label + " = " + valueText + " (#" + strconv.Itoa(cell.ID) + ")"
	if cell.Dirty {
		return dirtyStyle.Render(row)
	}
	return row
}

// branchConnector reports whether cell is its parent's last child, to
// pick "└── " over "├── ".
func branchConnector(cell *Cell) string {
	if cell.Parent == nil {
		return ""
	}
	siblings := cell.Parent.Children
	if len(siblings) > 0 && siblings[len(siblings)-1] == cell {
		return "└── "
	}
	return "├── "
}

// abbreviate collapses a chain of single-child Apply cells into their
// final link, so deeply curried calls render as one row instead of a
// long vertical thread (spec.md §6: "collapsing single-child Apply
// chains").
func abbreviate(cell *Cell) []*Cell {
	children := cell.Children
	for len(children) == 1 && children[0].Kind == KindApply && len(children[0].Children) == 1 {
		children = children[0].Children
	}
	return children
}

// Width reports the display width of s with ANSI escapes stripped,
// used by callers laying out a per-row variable column (spec.md §4.7).
func Width(s string) int {
	return lipgloss.Width(s)
}
