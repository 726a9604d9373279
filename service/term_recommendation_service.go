package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"loan-emi/domain"
)

var (
	ErrInvalidTermRange  = errors.New("invalid tenure range")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrNoAffordableTerm  = errors.New("no tenure fits the maximum installment")
)

type TermRecommendationService struct {
	loanService *LoanService
}

func NewTermRecommendationService(loanService *LoanService) *TermRecommendationService {
	return &TermRecommendationService{loanService: loanService}
}

// RecommendTerm evaluates every tenure in the requested range and ranks
// the affordable ones by the caller's preference.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	logger := zerolog.Ctx(ctx)

	if input.Amount <= 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	if input.InterestRate < 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: must not be negative", ErrInvalidRate)
	}
	if input.MinTermMonths < MinTermMonths || input.MaxTermMonths < MinTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: bounds must be at least %d month", ErrInvalidTermRange, MinTermMonths)
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: minimum is greater than maximum", ErrInvalidTermRange)
	}
	if input.MaxTermMonths > MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: maximum exceeds %d months", ErrInvalidTermRange, MaxTermMonths)
	}
	if input.MaxTermMonths-input.MinTermMonths > MaxTermRangeMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: range wider than %d months", ErrInvalidTermRange, MaxTermRangeMonths)
	}
	if input.MaxMonthlyPayment <= 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: maximum installment must be positive", ErrInvalidAmount)
	}

	switch input.Preference {
	case domain.PreferMinimizeInterest, domain.PreferMinimizePayment, domain.PreferBalanced:
	default:
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: %q", ErrInvalidPreference, input.Preference)
	}

	// Amount and rate are the same for every tenure, so policy failures
	// surface here rather than as an empty ranking.
	if _, err := s.loanService.Terms(domain.LoanInput{
		Amount:       input.Amount,
		InterestRate: input.InterestRate,
		TermMonths:   float64(input.MinTermMonths),
	}); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		result, err := s.loanService.CalculateSchedule(ctx, domain.LoanInput{
			Amount:       input.Amount,
			InterestRate: input.InterestRate,
			TermMonths:   float64(term),
		})
		if err != nil {
			logger.Warn().Err(err).Int("tenure_months", term).Msg("skipping tenure")
			continue
		}

		if result.InstallmentAmount > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: roundTo2Decimals(result.InstallmentAmount),
			TotalInterest:  roundTo2Decimals(result.TotalInterest),
			Score:          calculateScore(result, input, term),
			Reason:         reasonFor(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoAffordableTerm
	}

	// Highest score first, shorter tenure on ties.
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].TermMonths < recommendations[j].TermMonths
	})

	recommendations[0].Reason = explain(recommendations, input.Preference)

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermMonths,
		Recommendations: recommendations,
	}, nil
}

// calculateScore rates a tenure from 0 to 10 on interest, installment and
// length, then weights the three by preference.
func calculateScore(
	result domain.AmortizationResult,
	input domain.TermRecommendationInput,
	term int,
) float64 {
	maxPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MaxTermMonths) / 12
	minPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MinTermMonths) / 12

	interestRange := maxPossibleInterest - minPossibleInterest
	floorPayment := input.Amount / float64(input.MaxTermMonths)
	paymentRange := input.MaxMonthlyPayment - floorPayment
	termRange := input.MaxTermMonths - input.MinTermMonths

	interestScore := 0.0
	paymentScore := 0.0
	termScore := 10.0

	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (result.InstallmentAmount-floorPayment)/paymentRange)
	}
	if termRange > 0 {
		termScore = 10.0 * (1.0 - float64(term-input.MinTermMonths)/float64(termRange))
	}

	var score float64
	switch input.Preference {
	case domain.PreferMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case domain.PreferMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case domain.PreferBalanced:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundTo2Decimals(score)
}

func reasonFor(preference string) string {
	switch preference {
	case domain.PreferMinimizeInterest:
		return "Tenure chosen to minimize total interest"
	case domain.PreferMinimizePayment:
		return "Tenure chosen to minimize the monthly installment"
	case domain.PreferBalanced:
		return "Balance between monthly installment and total cost"
	}
	return "Recommendation based on the given parameters"
}

// explain describes the top recommendation against the runner-up.
func explain(ranked []domain.TermRecommendation, preference string) string {
	top := ranked[0]
	text := fmt.Sprintf("%d months at %.2f per month, %.2f total interest. %s.",
		top.TermMonths, top.MonthlyPayment, top.TotalInterest, reasonFor(preference))
	if len(ranked) < 2 {
		return text
	}

	next := ranked[1]
	return text + fmt.Sprintf(" The next option, %d months, changes the installment by %+.2f and total interest by %+.2f.",
		next.TermMonths,
		roundTo2Decimals(next.MonthlyPayment-top.MonthlyPayment),
		roundTo2Decimals(next.TotalInterest-top.TotalInterest))
}
