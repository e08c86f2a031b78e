package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/planner"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/ui"
)

// DefaultGanttWidth is the bar area width of PrintGantt in columns.
const DefaultGanttWidth = 60

// Reporter renders a timeline for the terminal and for other tools.
type Reporter struct {
	Timeline *planner.Timeline
}

// New creates a new Reporter.
func New(tl *planner.Timeline) *Reporter {
	return &Reporter{Timeline: tl}
}

// PrintTimeline writes the header, deadline status and per-wave breakdown.
func (r *Reporter) PrintTimeline(w io.Writer) {
	tl := r.Timeline
	r.printHeader(w)

	for _, wave := range tl.Waves {
		depStr := ui.Dim("independent")
		if wave.Index > 0 {
			depStr = ui.Dim(fmt.Sprintf("after wave %d", wave.Index))
		}
		fmt.Fprintf(w, "🌊 %s %d starting %s (%d activities, %s):\n",
			ui.BoldWhite("Wave"), wave.Index+1, wave.StartDate, len(wave.ActivityIDs), depStr)
		for _, id := range wave.ActivityIDs {
			it, _ := tl.Item(id)
			crit := ""
			if it.IsCritical {
				crit = "  " + ui.BoldYellow("⚡ critical")
			}
			fmt.Fprintf(w, "  %s  %s %s%s\n", ui.BoldMagenta(id), it.Name,
				fmt.Sprintf("(%dd, %s)", it.Duration, ui.SourceLabel(string(it.DurationSource))), crit)
		}
		fmt.Fprintln(w)
	}
}

func (r *Reporter) printHeader(w io.Writer) {
	tl := r.Timeline

	title := "Project Timeline"
	if tl.Project != "" {
		title = tl.Project + " Timeline"
	}
	fmt.Fprintf(w, "🎯 %s\n", ui.BoldCyan(title))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════════"))
	if tl.Degraded {
		fmt.Fprintf(w, "%s\n", ui.BoldRed("⚠ degraded schedule: dependencies ignored"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Activities: %s\n", ui.Bold(len(tl.Items)))
	fmt.Fprintf(w, "Start:      %s\n", tl.ProjectStart)
	fmt.Fprintf(w, "Completion: %s (%d days)\n", ui.Bold(tl.ProjectedCompletion), tl.TotalDurationDays)
	if tl.Deadline != "" {
		fmt.Fprintf(w, "Deadline:   %s  %s\n", tl.Deadline, DeadlineStatus(tl))
	}
	if len(tl.CriticalPath) > 0 {
		fmt.Fprintf(w, "⚡ Critical path: %s (%d activities)\n",
			ui.BoldYellow(strings.Join(tl.CriticalPath, " → ")), len(tl.CriticalPath))
	}
	if len(tl.Fallbacks) > 0 {
		fmt.Fprintf(w, "Fallback:   %s\n", ui.Yellow(strings.Join(tl.Fallbacks, ", ")))
	}
	fmt.Fprintln(w)
}

// DeadlineStatus returns a colored on-track / late marker.
func DeadlineStatus(tl *planner.Timeline) string {
	if tl.MeetsDeadline {
		return ui.BoldGreen(fmt.Sprintf("✓ on track, %d days to spare", tl.DaysBeforeDeadline))
	}
	return ui.BoldRed(fmt.Sprintf("✗ late by %d days", -tl.DaysBeforeDeadline))
}

// PrintTable writes one row per activity with offsets, dates and slack.
func (r *Reporter) PrintTable(w io.Writer) {
	fmt.Fprintf(w, "  %-10s %-28s %5s %-9s %4s %4s %4s %4s %5s  %-10s  %-10s\n",
		"ID", "NAME", "DAYS", "SOURCE", "ES", "EF", "LS", "LF", "SLACK", "START", "FINISH")
	for _, it := range r.Timeline.Items {
		crit := " "
		if it.IsCritical {
			crit = ui.BoldYellow("⚡")
		}
		fmt.Fprintf(w, "%s %-10s %-28s %5d %-9s %4d %4d %4d %4d %5d  %-10s  %-10s\n",
			crit, it.ActivityID, truncate(it.Name, 28), it.Duration, it.DurationSource,
			it.ES, it.EF, it.LS, it.LF, it.Slack, it.EarliestStart, it.EarliestFinish)
	}
}

// PrintGantt draws one bar per activity scaled to width columns. Critical
// activities use a solid bar; float is drawn after the bar.
func (r *Reporter) PrintGantt(w io.Writer, width int) {
	tl := r.Timeline
	if width <= 0 {
		width = DefaultGanttWidth
	}
	r.printHeader(w)

	end := tl.TotalDurationDays
	for _, it := range tl.Items {
		if it.LF > end {
			end = it.LF
		}
	}
	if end == 0 {
		end = 1
	}
	col := func(day int) int { return day * width / end }

	for _, it := range tl.Items {
		start, finish, late := col(it.ES), col(it.EF), col(it.LF)
		if finish == start && it.Duration > 0 {
			finish++
		}
		if late < finish {
			late = finish
		}

		bar := strings.Repeat("█", finish-start)
		if !it.IsCritical {
			bar = strings.Repeat("▒", finish-start)
		}
		slack := strings.Repeat("·", late-finish)
		pad := strings.Repeat(" ", start)

		label := it.ActivityID
		if it.IsCritical {
			label = ui.BoldYellow(fmt.Sprintf("%-10s", label))
		} else {
			label = ui.BoldMagenta(fmt.Sprintf("%-10s", label))
		}
		fmt.Fprintf(w, "%s │%s%s%s%s│ %s → %s\n", label, pad, bar, ui.Dim(slack),
			strings.Repeat(" ", width-late), it.EarliestStart, it.EarliestFinish)
	}
}

// PrintDAG writes the activities grouped by wave with their outgoing edges.
func (r *Reporter) PrintDAG(w io.Writer) {
	tl := r.Timeline
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Activity Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════════"))
	fmt.Fprintln(w)

	for _, wave := range tl.Waves {
		fmt.Fprintf(w, "%s 🌊 Wave %d %s\n", ui.Cyan("──"), wave.Index+1, ui.Cyan("──────────────────────────────"))
		for _, id := range wave.ActivityIDs {
			it, _ := tl.Item(id)
			crit := " "
			if it.IsCritical {
				crit = ui.BoldYellow("⚡")
			}
			fmt.Fprintf(w, "  %s [%s] %s\n", crit, ui.BoldMagenta(id), it.Name)

			for _, succ := range tl.Deps.Successors[id] {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(succ))
			}
		}
		fmt.Fprintln(w)
	}
}

// PrintDOT writes the dependency graph in Graphviz DOT format with the
// critical path highlighted.
func (r *Reporter) PrintDOT(w io.Writer) {
	tl := r.Timeline
	items := make(map[string]planner.TimelineItem, len(tl.Items))

	fmt.Fprintln(w, "digraph wbsplan {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, it := range tl.Items {
		items[it.ActivityID] = it
		label := fmt.Sprintf(`%s\n%s\n%dd, slack %d`, escapeDOT(it.ActivityID), escapeDOT(it.Name), it.Duration, it.Slack)
		attrs := fmt.Sprintf(`label="%s"`, label)
		if it.IsCritical {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  \"%s\" [%s];\n", escapeDOT(it.ActivityID), attrs)
	}

	fmt.Fprintln(w)

	for _, it := range tl.Items {
		for _, to := range tl.Deps.Successors[it.ActivityID] {
			style := ""
			// A critical edge joins two critical activities with no gap.
			if next := items[to]; it.IsCritical && next.IsCritical && it.EF == next.ES {
				style = ` [color=red, penwidth=2]`
			}
			fmt.Fprintf(w, "  \"%s\" -> \"%s\"%s;\n", escapeDOT(it.ActivityID), escapeDOT(to), style)
		}
	}

	fmt.Fprintln(w, "}")
}

// JSON returns the machine-readable timeline.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Timeline, "", "  ")
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// escapeDOT escapes s for use inside a double-quoted DOT string.
func escapeDOT(s string) string {
	return dotEscaper.Replace(s)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
