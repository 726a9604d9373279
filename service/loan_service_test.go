package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-emi/domain"
)

type MockCache struct {
	mu        sync.Mutex
	Data      map[string]string
	GetCalls  int
	SetCalls  int
	ForceFail bool
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string]string)}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.ForceFail {
		return errors.New("cache unavailable")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Data[key] = value
	return nil
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestCalculateSchedule_WithInterest(t *testing.T) {
	cache := NewMockCache()
	service := NewLoanService(cache)

	result, err := service.CalculateSchedule(testContext(t), domain.LoanInput{
		Amount:       500000,
		InterestRate: 9.99,
		TermMonths:   60,
	})

	require.NoError(t, err)
	assert.InDelta(t, 10621.06, result.InstallmentAmount, 0.01)
	assert.Len(t, result.Schedule, 60)
	assert.Equal(t, 1, cache.SetCalls)
}

func TestCalculateSchedule_UsesCache(t *testing.T) {
	cache := NewMockCache()
	service := NewLoanService(cache)
	ctx := testContext(t)
	input := domain.LoanInput{Amount: 100000, InterestRate: 12, TermMonths: 24}

	first, err := service.CalculateSchedule(ctx, input)
	require.NoError(t, err)
	second, err := service.CalculateSchedule(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.SetCalls)
	assert.Equal(t, 2, cache.GetCalls)
}

func TestCalculateSchedule_CacheFailureIsNotFatal(t *testing.T) {
	cache := NewMockCache()
	cache.ForceFail = true
	service := NewLoanService(cache)

	result, err := service.CalculateSchedule(testContext(t), domain.LoanInput{Amount: 1200, TermMonths: 12})

	require.NoError(t, err)
	assert.Equal(t, 100.0, result.InstallmentAmount)
}

func TestCalculateSchedule_UnreadableCacheEntryIsRecomputed(t *testing.T) {
	cache := NewMockCache()
	cache.Data["schedule:1200:0:12"] = "{not json"
	service := NewLoanService(cache)

	result, err := service.CalculateSchedule(testContext(t), domain.LoanInput{Amount: 1200, TermMonths: 12})

	require.NoError(t, err)
	assert.Len(t, result.Schedule, 12)
	assert.Equal(t, 1, cache.SetCalls)
}

func TestCalculateSchedule_PermissiveClampsTenure(t *testing.T) {
	service := NewLoanService(NewMockCache())

	result, err := service.CalculateSchedule(testContext(t), domain.LoanInput{
		Amount:       1000,
		InterestRate: 10,
		TermMonths:   0.5,
	})

	require.NoError(t, err)
	assert.True(t, result.TenureClamped)
	assert.Len(t, result.Schedule, 1)
}

func TestCalculateSchedule_PermissiveKeepsDegenerateInput(t *testing.T) {
	service := NewLoanService(NewMockCache())

	result, err := service.CalculateSchedule(testContext(t), domain.LoanInput{
		Amount:       0,
		InterestRate: -1,
		TermMonths:   12,
	})

	require.NoError(t, err)
	assert.Len(t, result.Schedule, 12)
}

func TestCalculateSchedule_StrictRejects(t *testing.T) {
	service := NewLoanService(NewMockCache(), WithPolicy(PolicyStrict))
	ctx := testContext(t)

	tests := []struct {
		name  string
		input domain.LoanInput
		want  error
	}{
		{"zero amount", domain.LoanInput{Amount: 0, InterestRate: 10, TermMonths: 12}, ErrInvalidAmount},
		{"huge amount", domain.LoanInput{Amount: MaxLoanAmount + 1, InterestRate: 10, TermMonths: 12}, ErrInvalidAmount},
		{"negative rate", domain.LoanInput{Amount: 1000, InterestRate: -0.5, TermMonths: 12}, ErrInvalidRate},
		{"huge rate", domain.LoanInput{Amount: 1000, InterestRate: MaxInterestRate + 1, TermMonths: 12}, ErrInvalidRate},
		{"zero tenure", domain.LoanInput{Amount: 1000, InterestRate: 10, TermMonths: 0}, ErrInvalidTerm},
		{"zero years", domain.LoanInput{Amount: 1000, InterestRate: 10, Mode: domain.TenureModeYears, TermYears: 0.01}, ErrInvalidTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CalculateSchedule(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculateSchedule_TenureAboveMaximumAlwaysRejected(t *testing.T) {
	for _, policy := range []ValidationPolicy{PolicyPermissive, PolicyStrict} {
		service := NewLoanService(NewMockCache(), WithPolicy(policy))
		_, err := service.CalculateSchedule(testContext(t), domain.LoanInput{
			Amount:       1000,
			InterestRate: 10,
			TermMonths:   MaxTermMonths + 1,
		})
		assert.ErrorIs(t, err, ErrInvalidTerm, "policy %s", policy)
	}
}

func TestTerms_TenureModes(t *testing.T) {
	service := NewLoanService(NewMockCache())

	terms, err := service.Terms(domain.LoanInput{Amount: 1, TermMonths: 60.9})
	require.NoError(t, err)
	assert.Equal(t, 60, terms.TenureMonths)

	terms, err = service.Terms(domain.LoanInput{Amount: 1, Mode: domain.TenureModeYears, TermYears: 2.5})
	require.NoError(t, err)
	assert.Equal(t, 30, terms.TenureMonths)

	_, err = service.Terms(domain.LoanInput{Amount: 1, Mode: "weeks", TermMonths: 4})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPermissive, p)

	p, err = ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("lenient")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestCalculateSchedule_ConcurrentCallersAgree(t *testing.T) {
	service := NewLoanService(NewMockCache())
	ctx := testContext(t)
	input := domain.LoanInput{Amount: 750000, InterestRate: 11.5, TermMonths: 84}

	var wg sync.WaitGroup
	installments := make([]float64, 32)
	for i := range installments {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := service.CalculateSchedule(ctx, input)
			if err == nil {
				installments[i] = result.InstallmentAmount
			}
		}(i)
	}
	wg.Wait()

	for _, v := range installments {
		assert.Equal(t, installments[0], v)
		assert.Positive(t, v)
	}
}

func TestDatedSchedule_YearBuckets(t *testing.T) {
	service := NewLoanService(NewMockCache())

	view, err := service.DatedSchedule(testContext(t), domain.LoanInput{
		Amount:       100000,
		InterestRate: 10,
		TermMonths:   13,
		StartDate:    "2025-06-07",
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-06-07", view.StartDate)
	require.Len(t, view.Monthly, 13)
	require.Len(t, view.Yearly, 2)
	assert.Equal(t, 2025, view.Yearly[0].Year)
	assert.Equal(t, 2026, view.Yearly[1].Year)
	assert.Equal(t, view.Monthly[12].EndingBalance, view.Yearly[1].EndingBalance)
}

func TestDatedSchedule_DefaultsToToday(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 4, 5, 0, time.UTC)
	service := NewLoanService(NewMockCache(), WithClock(func() time.Time { return now }))

	view, err := service.DatedSchedule(testContext(t), domain.LoanInput{Amount: 1000, TermMonths: 3})

	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", view.StartDate)
	assert.Equal(t, time.Date(2026, 12, 16, 0, 0, 0, 0, time.UTC), view.Monthly[2].Date)
}

func TestDatedSchedule_InvalidStartDate(t *testing.T) {
	cache := NewMockCache()
	service := NewLoanService(cache)

	_, err := service.DatedSchedule(testContext(t), domain.LoanInput{
		Amount:     1000,
		TermMonths: 3,
		StartDate:  "31/01/2025",
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Zero(t, cache.GetCalls)
}

func TestCalculateSchedule_CachesAfterCallerCancels(t *testing.T) {
	cache := NewMockCache()
	service := NewLoanService(cache)
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := service.CalculateSchedule(ctx, domain.LoanInput{Amount: 1200, TermMonths: 12})

	require.NoError(t, err)
	assert.Equal(t, 1, cache.SetCalls)
	assert.Contains(t, cache.Data, "schedule:1200:0:12")
}
