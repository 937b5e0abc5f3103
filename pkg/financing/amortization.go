// Package financing provides the annuity loan calculations used for German
// property financing, where the first year's annuity is defined by the
// interest rate plus the initial repayment rate (Tilgung).
package financing

import (
	"math"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
)

// Year holds the values of one year of an amortization schedule.
type Year struct {
	Year                int     `json:"year"`
	BeginningBalance    float64 `json:"beginningBalance"`
	InterestPaid        float64 `json:"interestPaid"`
	PrincipalPaid       float64 `json:"principalPaid"`
	Payment             float64 `json:"payment"`
	EndingBalance       float64 `json:"endingBalance"`
	CumulativeInterest  float64 `json:"cumulativeInterest"`
	CumulativePrincipal float64 `json:"cumulativePrincipal"`
}

// Schedule is a yearly amortization schedule.
type Schedule struct {
	LoanAmount    float64 `json:"loanAmount"`
	InterestRate  float64 `json:"interestRate"`
	RepaymentRate float64 `json:"repaymentRate"`
	Annuity       float64 `json:"annuity"`
	Rows          []Year  `json:"rows"`
	// PaidOff is false when the loan was still outstanding at the year cap.
	PaidOff bool `json:"paidOff"`
	// PayoffYears is the number of rows until the balance reached zero, or
	// the row count when PaidOff is false.
	PayoffYears int `json:"payoffYears"`
}

// Annuity returns the fixed annual payment of an annuity loan.
func Annuity(loanAmount, interestRate, repaymentRate float64) float64 {
	return loanAmount * (interestRate + repaymentRate) / constants.PercentageMultiplier
}

// GenerateSchedule builds the yearly schedule of an annuity loan. The annuity
// stays fixed; each year the interest share shrinks and the principal share
// grows. The schedule ends on payoff or after maxYears, which is itself
// capped at constants.MaxScheduleYears. A zero loan produces an empty, paid
// off schedule.
func GenerateSchedule(loanAmount, interestRate, repaymentRate float64, maxYears int) Schedule {
	schedule := Schedule{
		LoanAmount:    loanAmount,
		InterestRate:  interestRate,
		RepaymentRate: repaymentRate,
	}

	if loanAmount <= 0 {
		schedule.PaidOff = true
		return schedule
	}

	if maxYears <= 0 || maxYears > constants.MaxScheduleYears {
		maxYears = constants.MaxScheduleYears
	}

	annuity := Annuity(loanAmount, interestRate, repaymentRate)
	schedule.Annuity = annuity
	schedule.Rows = make([]Year, 0, maxYears)

	balance := loanAmount
	cumulativeInterest := 0.0
	cumulativePrincipal := 0.0

	for year := 1; year <= maxYears; year++ {
		interest := balance * interestRate / constants.PercentageMultiplier
		principal := math.Min(annuity-interest, balance)
		ending := math.Max(0, balance-principal)
		if ending <= constants.BalanceEpsilon {
			// Avoid a trailing row for floating point residue.
			principal = balance
			ending = 0
		}

		cumulativeInterest += interest
		cumulativePrincipal += principal

		schedule.Rows = append(schedule.Rows, Year{
			Year:                year,
			BeginningBalance:    balance,
			InterestPaid:        interest,
			PrincipalPaid:       principal,
			Payment:             interest + principal,
			EndingBalance:       ending,
			CumulativeInterest:  cumulativeInterest,
			CumulativePrincipal: cumulativePrincipal,
		})

		balance = ending
		if balance == 0 {
			schedule.PaidOff = true
			break
		}
	}

	schedule.PayoffYears = len(schedule.Rows)
	return schedule
}

// Row returns the schedule row of the given 1-based year. Years past the end
// of the schedule return a zero row carrying the final balance.
func (s Schedule) Row(year int) (Year, bool) {
	if year < 1 || year > len(s.Rows) {
		return Year{Year: year, BeginningBalance: s.RemainingBalance(year - 1), EndingBalance: s.RemainingBalance(year)}, false
	}
	return s.Rows[year-1], true
}

// RemainingBalance returns the outstanding debt after the given number of
// years. Year 0 is the loan amount.
func (s Schedule) RemainingBalance(year int) float64 {
	if year <= 0 {
		return math.Max(0, s.LoanAmount)
	}
	if len(s.Rows) == 0 {
		return 0
	}
	if year > len(s.Rows) {
		return s.Rows[len(s.Rows)-1].EndingBalance
	}
	return s.Rows[year-1].EndingBalance
}

// PrincipalRepaid returns the principal repaid during the first n years.
func (s Schedule) PrincipalRepaid(year int) float64 {
	return math.Max(0, s.LoanAmount) - s.RemainingBalance(year)
}

// TotalInterest returns the interest paid across the whole schedule.
func (s Schedule) TotalInterest() float64 {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].CumulativeInterest
}

// TotalPrincipal returns the principal repaid across the whole schedule.
func (s Schedule) TotalPrincipal() float64 {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].CumulativePrincipal
}

// InterestShare returns the share (percent) of the first payment that goes
// to interest.
func (s Schedule) InterestShare() float64 {
	if len(s.Rows) == 0 {
		return 0
	}
	first := s.Rows[0]
	return mathutil.SafePercent(first.InterestPaid, first.Payment)
}

// Summary condenses a schedule for reporting.
type Summary struct {
	LoanAmount     float64 `json:"loanAmount"`
	AnnualPayment  float64 `json:"annualPayment"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalPaid      float64 `json:"totalPaid"`
	PaidOff        bool    `json:"paidOff"`
	PayoffYears    int     `json:"payoffYears"`
}

// Summarize returns the totals of a schedule.
func Summarize(s Schedule) Summary {
	totalInterest := s.TotalInterest()
	totalPrincipal := s.TotalPrincipal()
	return Summary{
		LoanAmount:     s.LoanAmount,
		AnnualPayment:  s.Annuity,
		MonthlyPayment: s.Annuity / constants.MonthsPerYear,
		TotalInterest:  totalInterest,
		TotalPrincipal: totalPrincipal,
		TotalPaid:      totalInterest + totalPrincipal,
		PaidOff:        s.PaidOff,
		PayoffYears:    s.PayoffYears,
	}
}
