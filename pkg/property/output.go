package property

import (
	"github.com/iwvelando/immo-invest/pkg/cashflow"
	"github.com/iwvelando/immo-invest/pkg/financing"
	"github.com/iwvelando/immo-invest/pkg/tax"
)

// Output holds every figure derived from an Input. It is rebuilt from
// scratch on each calculation.
type Output struct {
	InvestmentVolume     InvestmentVolume `json:"investmentVolume"`
	Financing            Financing        `json:"financing"`
	Cashflow             cashflow.Result  `json:"cashflow"`
	Yields               cashflow.Yields  `json:"yields"`
	Tax                  tax.Result       `json:"tax"`
	AmortizationSchedule []financing.Year `json:"amortizationSchedule"`
	CumulativeCashflow   []CumulativeYear `json:"cumulativeCashflow"`
}

// InvestmentVolume is the capital required for the purchase.
type InvestmentVolume struct {
	PurchasePrice   float64               `json:"purchasePrice"`
	SideCosts       tax.SideCostBreakdown `json:"sideCosts"`
	RenovationCosts float64               `json:"renovationCosts"`
	TotalInvestment float64               `json:"totalInvestment"`
	Equity          float64               `json:"equity"`
	EquityRatio     float64               `json:"equityRatio"`
}

// Financing summarizes the loan.
type Financing struct {
	LoanAmount                    float64 `json:"loanAmount"`
	InterestRate                  float64 `json:"interestRate"`
	RepaymentRate                 float64 `json:"repaymentRate"`
	AnnualPayment                 float64 `json:"annualPayment"`
	MonthlyPayment                float64 `json:"monthlyPayment"`
	FirstYearInterest             float64 `json:"firstYearInterest"`
	FirstYearPrincipal            float64 `json:"firstYearPrincipal"`
	FixedInterestPeriod           int     `json:"fixedInterestPeriod"`
	RemainingDebtAfterFixedPeriod float64 `json:"remainingDebtAfterFixedPeriod"`
	TotalInterest                 float64 `json:"totalInterest"`
	TotalPrincipal                float64 `json:"totalPrincipal"`
	TotalPaid                     float64 `json:"totalPaid"`
	InterestSharePercent          float64 `json:"interestSharePercent"`
	PaidOff                       bool    `json:"paidOff"`
	PayoffYears                   int     `json:"payoffYears"`
}

// CumulativeYear is one point of the wealth build-up over the fixed-interest
// period.
type CumulativeYear struct {
	Year               int     `json:"year"`
	AnnualCashflow     float64 `json:"annualCashflow"`
	CumulativeCashflow float64 `json:"cumulativeCashflow"`
	PropertyValue      float64 `json:"propertyValue"`
	RemainingDebt      float64 `json:"remainingDebt"`
	PrincipalRepaid    float64 `json:"principalRepaid"`
	PropertyEquity     float64 `json:"propertyEquity"`
	NetWorth           float64 `json:"netWorth"`
}
