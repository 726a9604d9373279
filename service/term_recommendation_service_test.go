package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-emi/domain"
)

func recommendationInput(preference string) domain.TermRecommendationInput {
	return domain.TermRecommendationInput{
		Amount:            10000,
		InterestRate:      12,
		MinTermMonths:     12,
		MaxTermMonths:     36,
		MaxMonthlyPayment: 500,
		Preference:        preference,
	}
}

func TestRecommendTerm_FiltersUnaffordableTerms(t *testing.T) {
	service := NewTermRecommendationService(NewLoanService(NewMockCache()))

	result, err := service.RecommendTerm(testContext(t), recommendationInput(domain.PreferBalanced))

	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 14)
	for _, r := range result.Recommendations {
		assert.GreaterOrEqual(t, r.TermMonths, 23)
		assert.LessOrEqual(t, r.MonthlyPayment, 500.0)
	}
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t, result.Recommendations[i-1].Score, result.Recommendations[i].Score)
	}
	assert.Equal(t, result.Recommendations[0].TermMonths, result.RecommendedTerm)
}

func TestRecommendTerm_Preferences(t *testing.T) {
	service := NewTermRecommendationService(NewLoanService(NewMockCache()))
	ctx := testContext(t)

	result, err := service.RecommendTerm(ctx, recommendationInput(domain.PreferMinimizeInterest))
	require.NoError(t, err)
	assert.Equal(t, 23, result.RecommendedTerm)
	assert.InDelta(t, 488.86, result.Recommendations[0].MonthlyPayment, 0.01)
	assert.Contains(t, result.Recommendations[0].Reason, "23 months")

	result, err = service.RecommendTerm(ctx, recommendationInput(domain.PreferMinimizePayment))
	require.NoError(t, err)
	assert.Equal(t, 36, result.RecommendedTerm)
}

func TestRecommendTerm_SingleTerm(t *testing.T) {
	service := NewTermRecommendationService(NewLoanService(NewMockCache()))
	input := recommendationInput(domain.PreferBalanced)
	input.MinTermMonths, input.MaxTermMonths = 24, 24

	result, err := service.RecommendTerm(testContext(t), input)

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, 24, result.RecommendedTerm)
}

func TestRecommendTerm_InvalidInput(t *testing.T) {
	service := NewTermRecommendationService(NewLoanService(NewMockCache()))
	ctx := testContext(t)

	tests := []struct {
		name   string
		modify func(*domain.TermRecommendationInput)
		want   error
	}{
		{"amount", func(in *domain.TermRecommendationInput) { in.Amount = 0 }, ErrInvalidAmount},
		{"rate", func(in *domain.TermRecommendationInput) { in.InterestRate = -1 }, ErrInvalidRate},
		{"inverted range", func(in *domain.TermRecommendationInput) { in.MinTermMonths = 40 }, ErrInvalidTermRange},
		{"too long", func(in *domain.TermRecommendationInput) { in.MaxTermMonths = MaxTermMonths + 1 }, ErrInvalidTermRange},
		{"too wide", func(in *domain.TermRecommendationInput) { in.MinTermMonths, in.MaxTermMonths = 1, 200 }, ErrInvalidTermRange},
		{"max installment", func(in *domain.TermRecommendationInput) { in.MaxMonthlyPayment = 0 }, ErrInvalidAmount},
		{"preference", func(in *domain.TermRecommendationInput) { in.Preference = "cheapest" }, ErrInvalidPreference},
		{"unaffordable", func(in *domain.TermRecommendationInput) { in.MaxMonthlyPayment = 10 }, ErrNoAffordableTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := recommendationInput(domain.PreferBalanced)
			tt.modify(&input)
			_, err := service.RecommendTerm(ctx, input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecommendTerm_StrictPolicyReportsValidationError(t *testing.T) {
	service := NewTermRecommendationService(NewLoanService(NewMockCache(), WithPolicy(PolicyStrict)))
	input := recommendationInput(domain.PreferBalanced)
	input.Amount = MaxLoanAmount + 1
	input.MaxMonthlyPayment = MaxLoanAmount

	_, err := service.RecommendTerm(testContext(t), input)

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.NotErrorIs(t, err, ErrNoAffordableTerm)
}
