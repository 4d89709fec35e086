package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/linecalc/linecalc/pkg/compute"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(22)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	riskStyles = map[string]lipgloss.Style{
		compute.RiskLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
		compute.RiskMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
		compute.RiskHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true),
	}
)

// kv renders aligned "label  value" lines.
func kv(w io.Writer, pairs ...[2]string) {
	for _, p := range pairs {
		fmt.Fprintln(w, labelStyle.Render(p[0])+p[1])
	}
}

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func pct(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

func num(v float64) string { return fmt.Sprintf("%.4g", v) }

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func renderReliability(w io.Writer, line string, res compute.ReliabilityResult) {
	fmt.Fprintln(w, titleStyle.Render("Line reliability: "+line))

	rows := make([][]string, len(res.Components))
	for i, c := range res.Components {
		mark := ""
		if i == res.Weakest.Index {
			mark = "◀ weakest"
		}
		rows[i] = []string{c.Name, pct(c.Reliability), num(c.Importance), pct(c.GainIfPerfect), mark}
	}
	fmt.Fprintln(w, grid([]string{"Component", "Reliability", "Importance", "Gain if perfect", ""}, rows))

	risk := res.Risk
	if st, ok := riskStyles[risk]; ok {
		risk = st.Render(strings.ToUpper(risk))
	}
	kv(w,
		[2]string{"System reliability", pct(res.SystemReliability)},
		[2]string{"Failure probability", pct(res.FailureProbability)},
		[2]string{"Risk", risk + mutedStyle.Render(fmt.Sprintf("  (low ≤ %s < medium ≤ %s < high)", pct(res.Thresholds.Low), pct(res.Thresholds.High)))},
		[2]string{"Recommendation", fmt.Sprintf("prioritise %s (+%s if perfect)", res.Recommendation.Component, pct(res.Recommendation.Gain))},
	)
}

func renderEOQ(w io.Writer, res compute.EOQResult, curve []compute.CostPoint) {
	fmt.Fprintln(w, titleStyle.Render("Economic order quantity"))
	kv(w,
		[2]string{"EOQ (units/order)", num(res.EOQ)},
		[2]string{"Orders per year", num(res.OrdersPerYear)},
		[2]string{"Days between orders", fmt.Sprintf("%.1f", res.CycleDays)},
		[2]string{"Ordering cost", money(res.TotalOrderingCost)},
		[2]string{"Holding cost", money(res.TotalHoldingCost)},
		[2]string{"Total cost", money(res.TotalCost)},
	)
	if len(curve) == 0 {
		return
	}
	rows := make([][]string, len(curve))
	for i, p := range curve {
		rows[i] = []string{num(p.Quantity), money(p.OrderingCost), money(p.HoldingCost), money(p.TotalCost)}
	}
	fmt.Fprintln(w, grid([]string{"Quantity", "Ordering", "Holding", "Total"}, rows))
}

func renderSummary(w io.Writer, s compute.Summary, hist []compute.HistogramBin) {
	fmt.Fprintln(w, titleStyle.Render("Descriptive statistics"))
	kv(w,
		[2]string{"Count", fmt.Sprint(s.Count)},
		[2]string{"Mean", num(s.Mean)},
		[2]string{"Median", num(s.Median)},
		[2]string{"Mode", num(s.Mode)},
		[2]string{"Variance", num(s.Variance)},
		[2]string{"Std deviation", num(s.StdDev)},
		[2]string{"Min / Max", num(s.Min) + " / " + num(s.Max)},
		[2]string{"Q1 / Q3", num(s.Box.Q1) + " / " + num(s.Box.Q3)},
	)
	if len(hist) == 0 {
		return
	}
	peak := 0
	for _, b := range hist {
		peak = max(peak, b.Count)
	}
	rows := make([][]string, len(hist))
	for i, b := range hist {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", b.Count*20/peak)
		}
		rows[i] = []string{fmt.Sprintf("[%s, %s)", num(b.Lo), num(b.Hi)), fmt.Sprint(b.Count), bar}
	}
	fmt.Fprintln(w, grid([]string{"Bin", "Count", ""}, rows))
}

func renderSimulation(w io.Writer, sim compute.Simulation) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Exponential time-to-failure, rate %s", num(sim.Rate))))
	kv(w,
		[2]string{"Samples", fmt.Sprint(sim.Summary.Count)},
		[2]string{"Mean (simulated)", num(sim.Summary.Mean)},
		[2]string{"Mean (theory, 1/λ)", num(sim.TheoreticalMean)},
		[2]string{"Std deviation", num(sim.Summary.StdDev)},
		[2]string{"Survival past 1/λ", fmt.Sprintf("%s (theory %s)", pct(sim.EmpiricalSurvival), pct(sim.TheoreticalSurvival))},
	)
}
