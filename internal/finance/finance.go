// Package finance implements the DealFlow finance calculators.
//
// All calculators are pure functions over (price, rate, term) plus
// product-specific parameters and return a models.FinanceQuote. The monthly
// payment of amortized products uses the standard formula
//
//	M = P*r*(1+r)^n / ((1+r)^n - 1)
//
// with r the monthly rate (annualRate/12/100) and n the term in months.
// The degenerate case r = 0 gives M = P/n.
//
// PCP and Lease intentionally combine straight-line depreciation with a
// simple-interest style charge rather than true compounding. That is the
// established business formula and must not be changed without a product
// decision.
package finance

import (
	"errors"
	"math"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

// Product names used as comparison keys.
const (
	ProductHirePurchase = "Hire Purchase"
	ProductPCP          = "Personal Contract Purchase"
	ProductLease        = "Lease"
	ProductBespoke      = "Bespoke"
)

// Error variables for input validation.
var (
	ErrNonPositivePrice    = errors.New("price must be greater than zero")
	ErrNonPositiveTerm     = errors.New("term must be greater than zero")
	ErrNegativeRate        = errors.New("annual rate cannot be negative")
	ErrNegativeDeposit     = errors.New("deposit cannot be negative")
	ErrDepositExceedsPrice = errors.New("deposit must be less than the price")
	ErrNegativeResidual    = errors.New("residual value cannot be negative")
	ErrResidualTooHigh     = errors.New("residual value must be less than the price")
	ErrNegativeBalloon     = errors.New("balloon payment cannot be negative")
	ErrBalloonTooHigh      = errors.New("deposit plus balloon must be less than the price")
)

// MonthlyRate converts an annual percentage rate to the monthly rate used
// by every calculator.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12 / 100
}

// AmortizedMonthly computes the standard amortized monthly payment for a
// principal over termMonths at the given annual percentage rate.
func AmortizedMonthly(principal, annualRatePercent float64, termMonths int) float64 {
	n := float64(termMonths)
	r := MonthlyRate(annualRatePercent)
	if r == 0 {
		return principal / n
	}
	pow := math.Pow(1+r, n)
	return principal * r * pow / (pow - 1)
}

func validateShared(price, annualRatePercent float64, termMonths int) error {
	if price <= 0 {
		return ErrNonPositivePrice
	}
	if termMonths <= 0 {
		return ErrNonPositiveTerm
	}
	if annualRatePercent < 0 {
		return ErrNegativeRate
	}
	return nil
}

func validateDeposit(price, deposit float64) error {
	if deposit < 0 {
		return ErrNegativeDeposit
	}
	if deposit >= price {
		return ErrDepositExceedsPrice
	}
	return nil
}

func validateResidual(price, residual float64) error {
	if residual < 0 {
		return ErrNegativeResidual
	}
	if residual >= price {
		return ErrResidualTooHigh
	}
	return nil
}

// HirePurchase finances price minus deposit over the term. The customer
// owns the vehicle at the end; there is no final payment.
func HirePurchase(price, deposit, annualRatePercent float64, termMonths int) (models.FinanceQuote, error) {
	if err := validateShared(price, annualRatePercent, termMonths); err != nil {
		return models.FinanceQuote{}, err
	}
	if err := validateDeposit(price, deposit); err != nil {
		return models.FinanceQuote{}, err
	}

	monthly := AmortizedMonthly(price-deposit, annualRatePercent, termMonths)
	totalCost := monthly*float64(termMonths) + deposit
	return models.FinanceQuote{
		ProductName:       ProductHirePurchase,
		AnnualRatePercent: annualRatePercent,
		MonthlyPayment:    monthly,
		TotalCost:         totalCost,
		TermMonths:        termMonths,
		Deposit:           deposit,
		TotalInterest:     totalCost - price,
	}, nil
}

// PersonalContractPurchase splits the monthly payment into a straight-line
// depreciation component (price - residual)/n and a simple-interest
// component (price - deposit)*rate/12/100. The residual is due as the final
// payment if the customer keeps the vehicle.
func PersonalContractPurchase(price, deposit, residual, annualRatePercent float64, termMonths int) (models.FinanceQuote, error) {
	if err := validateShared(price, annualRatePercent, termMonths); err != nil {
		return models.FinanceQuote{}, err
	}
	if err := validateDeposit(price, deposit); err != nil {
		return models.FinanceQuote{}, err
	}
	if err := validateResidual(price, residual); err != nil {
		return models.FinanceQuote{}, err
	}

	n := float64(termMonths)
	depreciation := (price - residual) / n
	interest := (price - deposit) * MonthlyRate(annualRatePercent)
	monthly := depreciation + interest
	totalCost := deposit + monthly*n + residual
	return models.FinanceQuote{
		ProductName:       ProductPCP,
		AnnualRatePercent: annualRatePercent,
		MonthlyPayment:    monthly,
		TotalCost:         totalCost,
		TermMonths:        termMonths,
		Deposit:           deposit,
		FinalPayment:      residual,
		TotalInterest:     totalCost - price,
	}, nil
}

// Lease charges straight-line depreciation (price - residual)/n plus a
// money-factor rent charge (rate/12/100)*(price + residual) each month.
// Ownership never transfers; there is no deposit and no final payment.
func Lease(price, residual, annualRatePercent float64, termMonths int) (models.FinanceQuote, error) {
	if err := validateShared(price, annualRatePercent, termMonths); err != nil {
		return models.FinanceQuote{}, err
	}
	if err := validateResidual(price, residual); err != nil {
		return models.FinanceQuote{}, err
	}

	n := float64(termMonths)
	depreciation := (price - residual) / n
	rentCharge := MonthlyRate(annualRatePercent) * (price + residual)
	monthly := depreciation + rentCharge
	return models.FinanceQuote{
		ProductName:       ProductLease,
		AnnualRatePercent: annualRatePercent,
		MonthlyPayment:    monthly,
		TotalCost:         monthly * n,
		TermMonths:        termMonths,
		TotalInterest:     rentCharge * n,
	}, nil
}

// Bespoke applies the standard amortization formula to price minus deposit
// minus balloon. The balloon is due as the final payment when greater than
// zero.
func Bespoke(price, deposit, balloon, annualRatePercent float64, termMonths int) (models.FinanceQuote, error) {
	if err := validateShared(price, annualRatePercent, termMonths); err != nil {
		return models.FinanceQuote{}, err
	}
	if err := validateDeposit(price, deposit); err != nil {
		return models.FinanceQuote{}, err
	}
	if balloon < 0 {
		return models.FinanceQuote{}, ErrNegativeBalloon
	}
	if deposit+balloon >= price {
		return models.FinanceQuote{}, ErrBalloonTooHigh
	}

	monthly := AmortizedMonthly(price-deposit-balloon, annualRatePercent, termMonths)
	totalCost := monthly*float64(termMonths) + deposit + balloon
	quote := models.FinanceQuote{
		ProductName:       ProductBespoke,
		AnnualRatePercent: annualRatePercent,
		MonthlyPayment:    monthly,
		TotalCost:         totalCost,
		TermMonths:        termMonths,
		Deposit:           deposit,
		TotalInterest:     totalCost - price,
	}
	if balloon > 0 {
		quote.FinalPayment = balloon
	}
	return quote, nil
}

// CompareInputs are the shared inputs for a side-by-side comparison.
type CompareInputs struct {
	Price             float64
	Deposit           float64
	Residual          float64
	Balloon           float64
	AnnualRatePercent float64
	TermMonths        int
}

// Compare runs all four calculators with shared inputs and returns the
// quotes in insertion order (Hire Purchase, PCP, Lease, Bespoke) for
// side-by-side display by the caller.
func Compare(in CompareInputs) ([]models.FinanceQuote, error) {
	hp, err := HirePurchase(in.Price, in.Deposit, in.AnnualRatePercent, in.TermMonths)
	if err != nil {
		return nil, err
	}
	pcp, err := PersonalContractPurchase(in.Price, in.Deposit, in.Residual, in.AnnualRatePercent, in.TermMonths)
	if err != nil {
		return nil, err
	}
	lease, err := Lease(in.Price, in.Residual, in.AnnualRatePercent, in.TermMonths)
	if err != nil {
		return nil, err
	}
	bespoke, err := Bespoke(in.Price, in.Deposit, in.Balloon, in.AnnualRatePercent, in.TermMonths)
	if err != nil {
		return nil, err
	}
	return []models.FinanceQuote{hp, pcp, lease, bespoke}, nil
}
