package universe

import (
	"fmt"
	"strings"

	"sectoralpha/internal/domain"
)

type RiskProfile string

const (
	RiskProfile_Conservative RiskProfile = "conservative"
	RiskProfile_Moderate     RiskProfile = "moderate"
	RiskProfile_Aggressive   RiskProfile = "aggressive"
)

// FactorWeights is the weight quadruple applied to the normalized factors.
// RiskPenalty is subtracted, the rest are added.
type FactorWeights struct {
	Momentum    float64
	Value       float64
	Quality     float64
	RiskPenalty float64
}

var riskProfileWeights = map[RiskProfile]FactorWeights{
	RiskProfile_Conservative: {Momentum: 0.10, Value: 0.25, Quality: 0.40, RiskPenalty: 0.25},
	RiskProfile_Moderate:     {Momentum: 0.25, Value: 0.30, Quality: 0.30, RiskPenalty: 0.15},
	RiskProfile_Aggressive:   {Momentum: 0.40, Value: 0.20, Quality: 0.20, RiskPenalty: 0.20},
}

func NewRiskProfile(s string) (RiskProfile, error) {
	p := RiskProfile(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := riskProfileWeights[p]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownRiskProfile, s)
	}
	return p, nil
}

func (p RiskProfile) Weights() FactorWeights {
	return riskProfileWeights[p]
}

func RiskProfiles() []RiskProfile {
	return []RiskProfile{RiskProfile_Conservative, RiskProfile_Moderate, RiskProfile_Aggressive}
}
