package domain

// Preferences understood by the term recommender.
const (
	PreferMinimizeInterest = "minimize_interest"
	PreferMinimizePayment  = "minimize_payment"
	PreferBalanced         = "balanced"
)

type TermRecommendationInput struct {
	Amount            float64 `json:"amount"`
	InterestRate      float64 `json:"rate"`
	MinTermMonths     int     `json:"min_months"`
	MaxTermMonths     int     `json:"max_months"`
	MaxMonthlyPayment float64 `json:"max_installment"`
	Preference        string  `json:"preference"`
}

type TermRecommendation struct {
	TermMonths     int     `json:"months" yaml:"months"`
	MonthlyPayment float64 `json:"installment" yaml:"installment"`
	TotalInterest  float64 `json:"total_interest" yaml:"total_interest"`
	Score          float64 `json:"score" yaml:"score"`
	Reason         string  `json:"reason" yaml:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm int                  `json:"recommended_months" yaml:"recommended_months"`
	Recommendations []TermRecommendation `json:"recommendations" yaml:"recommendations"`
}
