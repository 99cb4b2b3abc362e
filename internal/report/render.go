package report

import (
	"fmt"
	"io"
	"strings"

	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/optimizer"
	"smartgrid_simulator/internal/planner"
)

// RenderResult prints the hourly table and day totals of one simulation.
func RenderResult(w io.Writer, title string, res model.SimulationResult) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title) + "\n\n")
	fmt.Fprintf(&b, " %5s │ %7s │ %7s │ %7s │ %7s │ %7s │ %7s │ %6s │ %6s\n",
		"Hour", "Gen", "Load", "Battery", "Import", "Export", "Free", "Cost", "CO2")
	b.WriteString("───────┼─────────┼─────────┼─────────┼─────────┼─────────┼─────────┼────────┼────────\n")
	for _, h := range res.Hourly {
		fmt.Fprintf(&b, " %02d:00 │ %7.2f │ %7.2f │ %7.2f │ %7.2f │ %7.2f │ %7.2f │ %6.2f │ %6.2f\n",
			h.Hour, h.TotalGeneration, h.Consumption, h.BatteryLevel,
			h.GridImport, h.GridExport, h.FreeEnergyUsed, h.Cost, h.CO2)
	}
	b.WriteString("\n")
	writeTotals(&b, res)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTotals(b *strings.Builder, res model.SimulationResult) {
	fmt.Fprintf(b, "  Cost:             %8.2f EUR\n", res.TotalCost)
	fmt.Fprintf(b, "  CO2:              %8.1f kg\n", res.TotalCO2)
	fmt.Fprintf(b, "  Consumption:      %8.1f kWh\n", res.TotalConsumption)
	fmt.Fprintf(b, "  Generation:       %8.1f kWh\n", res.TotalGeneration)
	fmt.Fprintf(b, "  Grid import:      %8.1f kWh\n", res.GridImport)
	fmt.Fprintf(b, "  Grid export:      %8.1f kWh\n", res.GridExport)
	fmt.Fprintf(b, "  Free energy used: %8.1f kWh\n", res.FreeEnergyUsed)
	fmt.Fprintf(b, "  Self-sufficiency: %8.1f%%\n", res.SelfSufficiency)
	fmt.Fprintf(b, "  Battery end:      %8.1f kWh (%.2f cycles)\n", res.BatteryLevel, res.BatteryCycles)

	ds := Describe(res)
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  peak import %s, peak export %s, %d hours without grid",
		hourLabel(ds.PeakImportHour), hourLabel(ds.PeakExportHour), ds.CoveredHours)) + "\n")
}

// RenderComparison prints both days side by side with the savings.
func RenderComparison(w io.Writer, c model.ComparisonResult) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Schedule Comparison") + "\n\n")
	fmt.Fprintf(&b, " %-18s │ %10s │ %10s\n", "", "Normal", "Optimized")
	b.WriteString("────────────────────┼────────────┼────────────\n")
	row := func(label, format string, n, o float64) {
		fmt.Fprintf(&b, " %-18s │ "+format+" │ "+format+"\n", label, n, o)
	}
	row("Cost (EUR)", "%10.2f", c.Normal.TotalCost, c.Optimized.TotalCost)
	row("CO2 (kg)", "%10.1f", c.Normal.TotalCO2, c.Optimized.TotalCO2)
	row("Grid import (kWh)", "%10.1f", c.Normal.GridImport, c.Optimized.GridImport)
	row("Grid export (kWh)", "%10.1f", c.Normal.GridExport, c.Optimized.GridExport)
	row("Free energy (kWh)", "%10.1f", c.Normal.FreeEnergyUsed, c.Optimized.FreeEnergyUsed)
	row("Self-sufficiency %", "%10.1f", c.Normal.SelfSufficiency, c.Optimized.SelfSufficiency)
	b.WriteString("\n")

	fmt.Fprintf(&b, "  Cost savings: %s\n",
		delta(c.CostSavings, fmt.Sprintf("%.2f EUR (%s)", c.CostSavings, percentLabel(c.CostSavingsPercentage))))
	fmt.Fprintf(&b, "  CO2 savings:  %s\n",
		delta(c.CO2Savings, fmt.Sprintf("%.1f kg (%s)", c.CO2Savings, percentLabel(c.CO2SavingsPercentage))))

	if len(c.NormalSchedule) > 0 {
		b.WriteString("\n")
		writeSchedule(&b, c.NormalSchedule, c.OptimizedSchedule)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSchedule prints the optimizer's moves and the resulting schedule.
func RenderSchedule(w io.Writer, original []model.Appliance, p optimizer.Plan) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Optimized Schedule") + "\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s after %d evaluations, score %.3f -> %.3f",
		p.Outcome(), p.Evaluations, p.BaselineScore, p.FinalScore)) + "\n\n")

	writeSchedule(&b, original, p.Appliances)

	if len(p.Moves) > 0 {
		b.WriteString("\n  Moves:\n")
		for _, m := range p.Moves {
			fmt.Fprintf(&b, "    %-20s %02d:00 -> %02d:00  (score -%.3f)\n", m.Name, m.FromHour, m.ToHour, m.Improvement)
		}
	}
	if p.FellBack {
		b.WriteString(badStyle.Render("  Optimized schedule cost more, kept the original") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSchedule(b *strings.Builder, original, optimized []model.Appliance) {
	fmt.Fprintf(b, " %-20s │ %6s │ %5s │ %8s │ %11s │ %11s\n",
		"Appliance", "Power", "Hours", "Flexible", "Original", "Optimized")
	b.WriteString("──────────────────────┼────────┼───────┼──────────┼─────────────┼─────────────\n")
	for i, a := range original {
		opt := "-"
		if i < len(optimized) {
			opt = span(optimized[i])
			if optimized[i].StartHour != a.StartHour {
				opt = goodStyle.Render(opt)
			}
		}
		flex := "no"
		if a.Flexible {
			flex = "yes"
		}
		fmt.Fprintf(b, " %-20s │ %4.1fkW │ %5d │ %8s │ %11s │ %11s\n",
			a.Name, a.PowerKW, a.DurationH, flex, span(a), opt)
	}
}

// RenderSweep prints a battery capacity sweep.
func RenderSweep(w io.Writer, sw planner.Sweep) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Battery Size Comparison") + "\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("savings vs. no battery, trend %.3f EUR per kWh", sw.Trend)) + "\n\n")

	fmt.Fprintf(&b, " %9s │ %8s │ %8s │ %8s │ %11s │ %7s │ %6s │ %9s │ %11s\n",
		"Capacity", "Normal", "Optim.", "Savings", "Grid Import", "Self %", "Cycles", "Battery", "Marginal")
	b.WriteString("───────────┼──────────┼──────────┼──────────┼─────────────┼─────────┼────────┼───────────┼─────────────\n")
	for _, r := range sw.Rows {
		marginal := "-"
		if r.MarginalSavings != nil {
			marginal = fmt.Sprintf("%.3f/kWh", *r.MarginalSavings)
		}
		fmt.Fprintf(&b, " %5.1f kWh │ %8.2f │ %8.2f │ %8.2f │ %7.1f kWh │ %6.1f%% │ %6.2f │ %9.2f │ %11s\n",
			r.CapacityKWh, r.NormalCost, r.OptimizedCost, r.CostSavings,
			r.GridImportKWh, r.SelfSufficiency, r.Cycles, r.BatterySavings, marginal)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func span(a model.Appliance) string {
	return fmt.Sprintf("%02d:00-%02d:00", a.StartHour, a.EndHour)
}

func hourLabel(h int) string {
	if h < 0 {
		return "none"
	}
	return fmt.Sprintf("%02d:00", h)
}

func percentLabel(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *p)
}
