// Package cli renders an mcts search tree for terminal inspection, centering
// the rendered tree in the current terminal width and highlighting the
// favored line of play.
package cli

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/quietloop/mctsagent/internal/mcts"
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the
// length of what is left.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

// printCentered prints block, line by line, indented so it sits centered in
// the current terminal width (falling back to left-aligned if the width
// can't be determined, e.g. when stdout isn't a terminal).
func printCentered(w *strings.Builder, block string) {
	lines := strings.Split(block, "\n")
	terminalWidth, _, _ := term.GetSize(int(os.Stdout.Fd()))
	blockWidth := 0
	for _, line := range lines {
		if dw := displayWidth(line); dw > blockWidth {
			blockWidth = dw
		}
	}
	indent := (terminalWidth - blockWidth) / 2
	if indent < 0 {
		indent = 0
	}
	for _, line := range lines {
		if line == "" {
			w.WriteByte('\n')
			continue
		}
		w.WriteString(strings.Repeat(" ", indent))
		w.WriteString(line)
		w.WriteByte('\n')
	}
}

// centerString pads s with spaces on both sides to fit a field of width fit.
func centerString(s string, fit int) string {
	if len(s) >= fit {
		return s
	}
	marginLeft := (fit - len(s)) / 2
	marginRight := fit - len(s) - marginLeft
	return strings.Repeat(" ", marginLeft) + s + strings.Repeat(" ", marginRight)
}

var (
	terminalStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("2")).
			Foreground(lipgloss.Color("0")).
			Bold(true)
	frontierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
	bestChildStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")).
			Bold(true)
)

// PrintTree renders root and its descendants as an indented, box-drawn
// outline, one mcts.NodeVisualizer line per node, and centers the whole
// block on the terminal. maxDepth bounds how many levels below root are
// expanded; pass -1 for unlimited.
func PrintTree(root *mcts.Node, visualizer mcts.NodeVisualizer, maxDepth int) string {
	if visualizer == nil {
		visualizer = mcts.DefaultNodeVisualizer
	}
	var body strings.Builder
	renderNode(&body, root, visualizer, "", true, maxDepth)

	var out strings.Builder
	printCentered(&out, strings.TrimRight(body.String(), "\n"))
	return out.String()
}

func renderNode(w *strings.Builder, n *mcts.Node, visualizer mcts.NodeVisualizer, prefix string, isLast bool, depthRemaining int) {
	branch := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		branch = "└── "
		childPrefix = prefix + "    "
	}
	if prefix == "" {
		branch = ""
	}

	line := formatNode(n, visualizer)
	if n.IsTerminal {
		line = terminalStyle.Render(line)
	} else if n.N == 0 {
		line = frontierStyle.Render(line)
	}
	w.WriteString(prefix)
	w.WriteString(branch)
	w.WriteString(line)
	w.WriteByte('\n')

	if depthRemaining == 0 {
		return
	}
	best := bestChild(n)
	for i, child := range n.Children {
		last := i == len(n.Children)-1
		if child == best {
			renderNodeHighlighted(w, child, visualizer, childPrefix, last, depthRemaining-1)
		} else {
			renderNode(w, child, visualizer, childPrefix, last, depthRemaining-1)
		}
	}
}

// renderNodeHighlighted is renderNode for the parent's highest-N child, drawn
// in bestChildStyle so a reader can follow the search's favored line at a
// glance.
func renderNodeHighlighted(w *strings.Builder, n *mcts.Node, visualizer mcts.NodeVisualizer, prefix string, isLast bool, depthRemaining int) {
	branch := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		branch = "└── "
		childPrefix = prefix + "    "
	}
	line := bestChildStyle.Render(formatNode(n, visualizer))
	w.WriteString(prefix)
	w.WriteString(branch)
	w.WriteString(line)
	w.WriteByte('\n')

	if depthRemaining == 0 {
		return
	}
	best := bestChild(n)
	for i, child := range n.Children {
		last := i == len(n.Children)-1
		if child == best {
			renderNodeHighlighted(w, child, visualizer, childPrefix, last, depthRemaining-1)
		} else {
			renderNode(w, child, visualizer, childPrefix, last, depthRemaining-1)
		}
	}
}

func bestChild(n *mcts.Node) *mcts.Node {
	var best *mcts.Node
	for _, c := range n.Children {
		if best == nil || c.N > best.N {
			best = c
		}
	}
	return best
}

func formatNode(n *mcts.Node, visualizer mcts.NodeVisualizer) string {
	fields := visualizer(n)
	parts := make([]string, 0, len(fields))
	for _, key := range []string{"id", "depth", "action", "n", "q", "is_terminal", "fast_reward", "reward"} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		parts = append(parts, centerString(key+"="+formatValue(v), fieldWidth))
	}
	return strings.Join(parts, " ")
}

// fieldWidth is the column width formatNode centers each key=value pair
// into, so a tree's nodes line up instead of ragging to the width of their
// longest field.
const fieldWidth = 14

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', 4, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
