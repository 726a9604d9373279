package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"loan-emi/amortization"
	"loan-emi/domain"
	"loan-emi/repository"
)

// ValidationPolicy decides how out-of-range loan terms are treated.
type ValidationPolicy string

const (
	// PolicyPermissive passes terms through and lets the engine clamp the
	// tenure. Only the resource bound MaxTermMonths is enforced.
	PolicyPermissive ValidationPolicy = "permissive"
	// PolicyStrict rejects non-positive amounts, negative rates, tenures
	// below one month and anything above the configured maxima.
	PolicyStrict ValidationPolicy = "strict"
)

var (
	ErrInvalidAmount = errors.New("invalid loan amount")
	ErrInvalidRate   = errors.New("invalid interest rate")
	ErrInvalidTerm   = errors.New("invalid loan tenure")
	ErrInvalidMode   = errors.New("invalid tenure mode")
	ErrInvalidPolicy = errors.New("invalid validation policy")
	ErrInvalidDate   = amortization.ErrInvalidDate
)

// ParsePolicy maps a config value to a ValidationPolicy. Empty means
// permissive.
func ParsePolicy(s string) (ValidationPolicy, error) {
	switch ValidationPolicy(s) {
	case "", PolicyPermissive:
		return PolicyPermissive, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// roundTo2Decimals rounds to cents.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

type LoanService struct {
	cache  repository.CacheRepository
	policy ValidationPolicy
	now    func() time.Time
	group  singleflight.Group
}

type Option func(*LoanService)

func WithPolicy(policy ValidationPolicy) Option {
	return func(s *LoanService) {
		s.policy = policy
	}
}

// WithClock overrides the clock used to default the start date.
func WithClock(now func() time.Time) Option {
	return func(s *LoanService) {
		s.now = now
	}
}

// NewLoanService creates a LoanService that memoizes results in cache.
func NewLoanService(cache repository.CacheRepository, opts ...Option) *LoanService {
	s := &LoanService{
		cache:  cache,
		policy: PolicyPermissive,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LoanService) Policy() ValidationPolicy {
	return s.policy
}

// Terms normalizes raw input into loan terms and applies the validation
// policy. Fractional months are floored; years are rounded to whole months.
func (s *LoanService) Terms(input domain.LoanInput) (domain.LoanTerms, error) {
	var tenure int
	switch input.Mode {
	case "", domain.TenureModeMonths:
		tenure = amortization.TenureFromMonths(input.TermMonths)
	case domain.TenureModeYears:
		tenure = amortization.TenureFromYears(input.TermYears)
	default:
		return domain.LoanTerms{}, fmt.Errorf("%w: %q", ErrInvalidMode, input.Mode)
	}

	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return domain.LoanTerms{}, ErrInvalidAmount
	}
	if math.IsNaN(input.InterestRate) || math.IsInf(input.InterestRate, 0) {
		return domain.LoanTerms{}, ErrInvalidRate
	}
	if tenure > MaxTermMonths {
		return domain.LoanTerms{}, fmt.Errorf("%w: tenure exceeds the maximum of %d months", ErrInvalidTerm, MaxTermMonths)
	}

	if s.policy == PolicyStrict {
		if input.Amount <= 0 {
			return domain.LoanTerms{}, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
		}
		if input.Amount > MaxLoanAmount {
			return domain.LoanTerms{}, fmt.Errorf("%w: exceeds the maximum of %.2f", ErrInvalidAmount, MaxLoanAmount)
		}
		if input.InterestRate < 0 {
			return domain.LoanTerms{}, fmt.Errorf("%w: must not be negative", ErrInvalidRate)
		}
		if input.InterestRate > MaxInterestRate {
			return domain.LoanTerms{}, fmt.Errorf("%w: exceeds the maximum of %.2f%%", ErrInvalidRate, MaxInterestRate)
		}
		if tenure < MinTermMonths {
			return domain.LoanTerms{}, fmt.Errorf("%w: must be at least %d month", ErrInvalidTerm, MinTermMonths)
		}
	}

	return domain.LoanTerms{
		Principal:     input.Amount,
		AnnualRatePct: input.InterestRate,
		TenureMonths:  tenure,
	}, nil
}

// CalculateSchedule computes the full amortization for input. Results are
// memoized; concurrent requests for the same terms share one computation.
// The returned schedule is shared and must not be modified.
func (s *LoanService) CalculateSchedule(
	ctx context.Context,
	input domain.LoanInput,
) (domain.AmortizationResult, error) {
	logger := zerolog.Ctx(ctx)

	terms, err := s.Terms(input)
	if err != nil {
		return domain.AmortizationResult{}, err
	}

	result, cached := s.lookup(ctx, terms)
	if !cached {
		result = s.compute(ctx, terms)
	}

	if result.TenureClamped {
		logger.Warn().
			Str("mode", input.Mode).
			Float64("requested_months", input.TermMonths).
			Float64("requested_years", input.TermYears).
			Int("tenure_months", result.Terms.TenureMonths).
			Msg("tenure below one month was clamped")
	}

	return result, nil
}

func (s *LoanService) lookup(ctx context.Context, terms domain.LoanTerms) (domain.AmortizationResult, bool) {
	logger := zerolog.Ctx(ctx)
	key := cacheKey(terms)

	cached, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.AmortizationResult{}, false
	}

	var result domain.AmortizationResult
	if err := json.Unmarshal([]byte(cached), &result); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return domain.AmortizationResult{}, false
	}
	logger.Debug().Str("key", key).Msg("schedule cache hit")
	return result, true
}

func (s *LoanService) compute(ctx context.Context, terms domain.LoanTerms) domain.AmortizationResult {
	logger := zerolog.Ctx(ctx)
	key := cacheKey(terms)

	v, _, shared := s.group.Do(key, func() (any, error) {
		result := amortization.ComputeSchedule(terms)

		// Caching is best effort. The write outlives the caller that won the
		// flight, since every coalesced caller benefits from it.
		if payload, err := json.Marshal(result); err != nil {
			logger.Warn().Err(err).Msg("failed to encode schedule for cache")
		} else if err := s.cache.Set(context.WithoutCancel(ctx), key, string(payload)); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to cache schedule")
		}
		return result, nil
	})
	result := v.(domain.AmortizationResult)

	logger.Debug().
		Str("key", key).
		Bool("shared", shared).
		Float64("installment", result.InstallmentAmount).
		Msg("schedule computed")
	return result
}

// DatedSchedule computes the schedule and projects it onto the calendar
// from input.StartDate, defaulting to today.
func (s *LoanService) DatedSchedule(
	ctx context.Context,
	input domain.LoanInput,
) (domain.ScheduleView, error) {
	startText := input.StartDate
	if startText == "" {
		startText = amortization.FormatDate(s.now())
	}
	start, err := amortization.ParseDate(startText)
	if err != nil {
		return domain.ScheduleView{}, err
	}

	result, err := s.CalculateSchedule(ctx, input)
	if err != nil {
		return domain.ScheduleView{}, err
	}

	monthly := amortization.AttachDates(result.Schedule, start)
	return domain.ScheduleView{
		Result:    result,
		StartDate: startText,
		Monthly:   monthly,
		Yearly:    amortization.GroupByYear(monthly),
	}, nil
}

func cacheKey(terms domain.LoanTerms) string {
	return "schedule:" +
		strconv.FormatFloat(terms.Principal, 'g', -1, 64) + ":" +
		strconv.FormatFloat(terms.AnnualRatePct, 'g', -1, 64) + ":" +
		strconv.Itoa(terms.TenureMonths)
}
