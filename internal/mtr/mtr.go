package mtr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes mtr in report mode
type Runner struct {
	Binary  string
	UseSudo bool
	Cycles  int
}

// New creates a Runner with the settings the monitor uses by default
func New(useSudo bool) *Runner {
	return &Runner{
		Binary:  "mtr",
		UseSudo: useSudo,
		Cycles:  1,
	}
}

// Command returns the argv used to trace target through iface
func (r *Runner) Command(target, iface string) []string {
	args := []string{r.Binary, "--report", "--report-cycles", strconv.Itoa(r.Cycles), "-I", iface, target}
	if r.UseSudo {
		args = append([]string{"sudo"}, args...)
	}
	return args
}

// Trace runs mtr against target using the given interface and returns the
// raw report. A non-zero exit is returned as an error carrying stderr.
func (r *Runner) Trace(ctx context.Context, target, iface string) (string, error) {
	argv := r.Command(target, iface)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("mtr on %s failed: %w: %s", iface, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Hop is a single parsed line of an mtr report
type Hop struct {
	Host string
	Loss float64
}

// Report holds the hops used for the loss average and the lines that were skipped
type Report struct {
	Hops    []Hop
	Skipped []string
}

// ParseReport extracts per-hop loss from mtr --report output.
//
// The two header lines and the first hop are ignored, since the first hop is
// the local gateway. Unresolved hops (???) are dropped, as are loss values
// that cannot be parsed or fall outside 0-100.
func ParseReport(output string) Report {
	var report Report

	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	if len(lines) <= 3 {
		return report
	}

	for _, line := range lines[3:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		columns := strings.Fields(line)
		if len(columns) < 3 {
			report.Skipped = append(report.Skipped, line)
			continue
		}

		host := columns[1]
		if host == "???" {
			report.Skipped = append(report.Skipped, line)
			continue
		}

		loss, err := strconv.ParseFloat(strings.Trim(columns[2], "%"), 64)
		if err != nil || loss < 0 || loss > 100 {
			report.Skipped = append(report.Skipped, line)
			continue
		}

		report.Hops = append(report.Hops, Hop{Host: host, Loss: loss})
	}

	return report
}

// AverageLoss returns the mean loss of the parsed hops. ok is false when no
// hop produced a usable value.
func (r Report) AverageLoss() (avg float64, ok bool) {
	if len(r.Hops) == 0 {
		return 0, false
	}

	var sum float64
	for _, h := range r.Hops {
		sum += h.Loss
	}
	return sum / float64(len(r.Hops)), true
}
