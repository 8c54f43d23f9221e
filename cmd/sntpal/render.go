package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/AndrewLester/sntpal/internal/ui"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"github.com/charmbracelet/bubbles/table"
)

const timeLayout = "2006-01-02 15:04:05.000000 MST"

func formatMillis(ms float64) string {
	s := strconv.FormatFloat(ms, 'f', 3, 64)
	if ms > 0 {
		s = "+" + s
	}
	return s + " ms"
}

func status(outcome sntp.Outcome) string {
	if outcome.Err == nil {
		return "ok"
	}
	return sntp.Kind(outcome.Err).String()
}

func renderTable(outcomes []sntp.Outcome) string {
	columns := []table.Column{
		{Title: "Server", Width: 24},
		{Title: "Offset", Width: 14},
		{Title: "Delay", Width: 12},
		{Title: "Stratum", Width: 7},
		{Title: "Reference", Width: 28},
		{Title: "Status", Width: 22},
	}

	rows := make([]table.Row, 0, len(outcomes))
	var notes []string
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			rows = append(rows, table.Row{outcome.Server, "-", "-", "-", "-", status(outcome)})
			notes = append(notes, ui.ErrorStyle(outcome.Err.Error()))
			continue
		}
		r := outcome.Result
		rows = append(rows, table.Row{
			outcome.Server,
			formatMillis(r.Offset),
			strconv.FormatFloat(r.Delay, 'f', 3, 64) + " ms",
			strconv.Itoa(int(r.Stratum.Value)),
			r.Reference.String(),
			status(outcome),
		})
		if r.CrossCheck != nil {
			notes = append(notes, ui.HelpStyle(fmt.Sprintf("%s: beevik/ntp offset %s, difference %s",
				outcome.Server, formatMillis(r.CrossCheck.Offset), formatMillis(r.CrossCheck.Difference))))
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
	)
	t.SetStyles(ui.TableStyles())

	s := ui.BaseStyle.Render(t.View())
	if len(notes) > 0 {
		s += "\n" + strings.Join(notes, "\n")
	}
	return s
}

func renderPlain(w io.Writer, outcomes []sntp.Outcome) {
	for i, outcome := range outcomes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if outcome.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", outcome.Server, outcome.Err)
			continue
		}
		describe(w, outcome.Result)
	}
}

func describe(w io.Writer, r *sntp.Result) {
	line := func(label, format string, args ...interface{}) {
		fmt.Fprintf(w, "%-18s %s\n", label+":", fmt.Sprintf(format, args...))
	}
	stamp := func(s sntp.Stamp) string {
		return fmt.Sprintf("%.3f (%s)", s.Millis, s.Time.Format(timeLayout))
	}

	line("server", "%s", r.Server)
	if r.Address != "" {
		line("address", "%s", r.Address)
	}
	line("time", "%s", r.Time.Format(timeLayout))
	line("offset", "%s (%.6f s)", formatMillis(r.Offset), r.OffsetSeconds)
	line("delay", "%.3f ms", r.Delay)
	line("reference", "%s", r.Reference)
	line("leap indicator", "%d (%s)", r.Leap.Value, r.Leap.Text)
	line("version", "%d", r.Version)
	line("mode", "%d (%s)", r.Mode.Value, r.Mode.Text)
	line("stratum", "%d (%s)", r.Stratum.Value, r.Stratum.Text)
	line("originate (t1)", "%s", stamp(r.T1))
	line("receive (t2)", "%s", stamp(r.T2))
	line("transmit (t3)", "%s", stamp(r.T3))
	line("arrival (t4)", "%s", stamp(r.T4))
	line("poll", "%d (%s)", r.Poll.Raw, seconds(r.Poll.Seconds))
	line("precision", "%d (%s)", r.Precision.Raw, seconds(r.Precision.Seconds))
	line("root delay", "%.6f s", r.RootDelay)
	line("root dispersion", "%.6f s", r.RootDispersion)
	line("raw", "%x", []byte(r.Raw))
	if cc := r.CrossCheck; cc != nil {
		line("cross-check", "%s (rtt %.3f ms, difference %s)", formatMillis(cc.Offset), cc.RTT, formatMillis(cc.Difference))
	}
}

// seconds prints a power-of-two interval. Values a Duration cannot hold
// are printed as float seconds.
func seconds(s float64) string {
	ns := s * float64(time.Second)
	if ns < 1 || ns > math.MaxInt64 {
		return strconv.FormatFloat(s, 'g', 6, 64) + "s"
	}
	return time.Duration(ns).String()
}

type jsonOutcome struct {
	Server string       `json:"server"`
	Result *sntp.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
	Kind   string       `json:"kind"`
}

func renderJSON(w io.Writer, outcomes []sntp.Outcome) error {
	out := make([]jsonOutcome, len(outcomes))
	for i, outcome := range outcomes {
		out[i] = jsonOutcome{Server: outcome.Server, Result: outcome.Result, Kind: status(outcome)}
		if outcome.Err != nil {
			out[i].Error = outcome.Err.Error()
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
