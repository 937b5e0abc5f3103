// Package output provides utilities for formatting and displaying evaluation results.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/immo-invest/internal/evaluation"
	"github.com/iwvelando/immo-invest/pkg/format"
)

// metric is one row of the KPI comparison.
type metric struct {
	label string
	value func(r evaluation.Result) float64
	// percent values are printed as percentages, all others as euro amounts.
	percent bool
}

var metrics = []metric{
	{label: "Total investment", value: func(r evaluation.Result) float64 { return r.Output.InvestmentVolume.TotalInvestment }},
	{label: "Side costs", value: func(r evaluation.Result) float64 { return r.Output.InvestmentVolume.SideCosts.Total }},
	{label: "Equity ratio", value: func(r evaluation.Result) float64 { return r.Output.InvestmentVolume.EquityRatio }, percent: true},
	{label: "Loan amount", value: func(r evaluation.Result) float64 { return r.Output.Financing.LoanAmount }},
	{label: "Monthly payment", value: func(r evaluation.Result) float64 { return r.Output.Financing.MonthlyPayment }},
	{label: "Remaining debt after fixed period", value: func(r evaluation.Result) float64 { return r.Output.Financing.RemainingDebtAfterFixedPeriod }},
	{label: "Total interest until payoff", value: func(r evaluation.Result) float64 { return r.Output.Financing.TotalInterest }},
	{label: "Total paid until payoff", value: func(r evaluation.Result) float64 { return r.Output.Financing.TotalPaid }},
	{label: "Interest share of first payment", value: func(r evaluation.Result) float64 { return r.Output.Financing.InterestSharePercent }, percent: true},
	{label: "Monthly cashflow before tax", value: func(r evaluation.Result) float64 { return r.Output.Cashflow.MonthlyCashflowBeforeTax }},
	{label: "Monthly cashflow after tax", value: func(r evaluation.Result) float64 { return r.Output.Cashflow.MonthlyCashflowAfterTax }},
	{label: "Annual tax effect", value: func(r evaluation.Result) float64 { return r.Output.Tax.TaxEffect }},
	{label: "Gross rental yield", value: func(r evaluation.Result) float64 { return r.Output.Yields.GrossRentalYield }, percent: true},
	{label: "Net rental yield", value: func(r evaluation.Result) float64 { return r.Output.Yields.NetRentalYield }, percent: true},
	{label: "Return on equity", value: func(r evaluation.Result) float64 { return r.Output.Yields.ReturnOnEquity }, percent: true},
	{label: "Deal score", value: func(r evaluation.Result) float64 { return r.Deal.OverallScore }, percent: true},
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(results []evaluation.Result) {
	for i, result := range results {
		fmt.Printf("--- Results for scenario %s ---\n", result.Name)
		for _, m := range metrics {
			fmt.Printf("%-34s %s\n", m.label, render(m, result))
		}
		fmt.Printf("%-34s %s / %s\n", "Rating / recommendation", result.Deal.Rating, result.Deal.Recommendation)
		fmt.Printf("%-34s %s\n", "Break-even (cashflow)", result.BreakEven.BreakEvenYearsCashflow)
		fmt.Printf("%-34s %s\n", "Break-even (total)", result.BreakEven.BreakEvenYearsTotal)
		fmt.Printf("%-34s %s (annualized %s)\n", "Exit net sale proceeds",
			format.Euro(result.Exit.NetSaleProceeds), format.Percent(result.Exit.AnnualizedReturn))

		fmt.Printf("\nYear | Cashflow | Cumulative | Property value | Remaining debt | Net worth\n")
		fmt.Printf("____ | ________ | __________ | ______________ | ______________ | _________\n")
		for _, y := range result.Output.CumulativeCashflow {
			fmt.Printf("%4d | %s | %s | %s | %s | %s\n", y.Year,
				format.Euro(y.AnnualCashflow), format.Euro(y.CumulativeCashflow), format.Euro(y.PropertyValue),
				format.Euro(y.RemainingDebt), format.Euro(y.NetWorth))
		}

		printAnalyses(result)

		if len(result.Deal.Risks) > 0 {
			fmt.Printf("\nRisks:\n")
			for _, risk := range result.Deal.Risks {
				fmt.Printf("  [%s] %s: %s\n", risk.Severity, risk.Title, risk.Description)
			}
		}
		if len(result.Warnings) > 0 {
			fmt.Printf("\nWarnings:\n")
			for _, w := range result.Warnings {
				fmt.Printf("  %s\n", w)
			}
		}
		if i < len(results)-1 {
			fmt.Printf("\n")
		}
	}
}

func printAnalyses(result evaluation.Result) {
	if len(result.ExitYears) > 0 {
		fmt.Printf("\nExit comparison:\n")
		for _, x := range result.ExitYears {
			fmt.Printf("  after %2.0f years: net sale proceeds %s, speculation tax %s, annualized %s\n",
				x.HoldingPeriodYears, format.Euro(x.NetSaleProceeds), format.Euro(x.SpeculationTax),
				format.Percent(x.AnnualizedReturn))
		}
	}
	if r := result.Renovation; r != nil {
		fmt.Printf("\nRenovation: payback %s, ROI %s, %s\n", r.PaybackPeriodYears, format.Percent(r.ROIPercent), r.Recommendation)
	}
	if l := result.Location; l != nil {
		fmt.Printf("\nLocation: score %.1f (grade %s), %s, risk %s\n", l.OverallScore, l.Grade, l.InvestmentRecommendation, l.RiskLevel)
		if len(l.Strengths) > 0 {
			fmt.Printf("  Strengths: %s\n", strings.Join(l.Strengths, ", "))
		}
		if len(l.Weaknesses) > 0 {
			fmt.Printf("  Weaknesses: %s\n", strings.Join(l.Weaknesses, ", "))
		}
	}
	if mc := result.MonteCarlo; mc != nil {
		fmt.Printf("\nMonte Carlo (%d runs, %d years): median %s, p5 %s, p95 %s, probability of loss %s\n",
			mc.Simulations, mc.Years, format.Euro(mc.Percentiles.P50), format.Euro(mc.Percentiles.P5),
			format.Euro(mc.Percentiles.P95), format.Percent(mc.ProbabilityOfLoss))
		if risk := result.Risk; risk != nil {
			fmt.Printf("  VaR 95%%: %s, expected shortfall: %s, Sharpe %.2f, Sortino %.2f, max drawdown %s\n",
				format.Euro(risk.ValueAtRisk95), format.Euro(risk.ExpectedShortfall),
				risk.SharpeRatio, risk.SortinoRatio, format.Percent(risk.MaxDrawdown))
		}
	}
	if len(result.Solvers) > 0 {
		fmt.Printf("\nSolver results:\n")
		for _, s := range result.Solvers {
			status := "converged"
			if !s.Converged {
				status = "not converged"
			}
			fmt.Printf("  %s (%s): %s -> %s, %d iterations, %s\n",
				s.Target, s.Field, s.OriginalDisplay, s.ValueDisplay, s.Iterations, status)
			for _, note := range s.Notes {
				fmt.Printf("    %s\n", note)
			}
		}
	}
}

func render(m metric, r evaluation.Result) string {
	if m.percent {
		return format.Percent(m.value(r))
	}
	return format.Euro(m.value(r))
}

// CsvFormat outputs the KPI comparison in comma-separated value format, one
// column per scenario.
func CsvFormat(results []evaluation.Result) {
	fmt.Printf(`"metric"`)
	for _, result := range results {
		fmt.Printf(`,"%s"`, result.Name)
	}
	fmt.Printf("\n")
	for _, m := range metrics {
		fmt.Printf(`"%s"`, m.label)
		for _, result := range results {
			fmt.Printf(`,"%.2f"`, m.value(result))
		}
		fmt.Printf("\n")
	}
	fmt.Printf(`"recommendation"`)
	for _, result := range results {
		fmt.Printf(`,"%s"`, result.Deal.Recommendation)
	}
	fmt.Printf("\n")
}
