package universe

import (
	"testing"

	"sectoralpha/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestNewRiskProfile(t *testing.T) {
	t.Run("parses known profiles", func(t *testing.T) {
		for _, name := range []string{"conservative", "moderate", "aggressive"} {
			p, err := NewRiskProfile(name)
			require.NoError(t, err)
			require.Equal(t, RiskProfile(name), p)
		}
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		p, err := NewRiskProfile("  Aggressive ")
		require.NoError(t, err)
		require.Equal(t, RiskProfile_Aggressive, p)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := NewRiskProfile("yolo")
		require.ErrorIs(t, err, domain.ErrUnknownRiskProfile)
	})
}

func TestWeights(t *testing.T) {
	t.Run("every profile has a full weight quadruple", func(t *testing.T) {
		for _, p := range RiskProfiles() {
			w := p.Weights()
			require.Greater(t, w.Momentum, 0.0)
			require.Greater(t, w.Value, 0.0)
			require.Greater(t, w.Quality, 0.0)
			require.Greater(t, w.RiskPenalty, 0.0)
		}
	})

	t.Run("aggressive leans on momentum, conservative on quality", func(t *testing.T) {
		require.Equal(t, 0.40, RiskProfile_Aggressive.Weights().Momentum)
		require.Equal(t, 0.40, RiskProfile_Conservative.Weights().Quality)
		require.Equal(t, 0.25, RiskProfile_Moderate.Weights().Momentum)
	})
}
