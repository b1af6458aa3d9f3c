package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
)

func newVolumeAnalyzer() *KeywordVolumeAnalyzer {
	cfg := config.Default()
	return NewKeywordVolumeAnalyzer(&cfg.Analysis, testLogger())
}

func volumeKeyword(volume int) *models.Keyword {
	return &models.Keyword{Term: "yoga mat", ExactSearchVolume: models.IntPtr(volume)}
}

func TestKeywordVolumeCriticallyLow(t *testing.T) {
	// 500 is below 30% of the 3000 minimum.
	result := newVolumeAnalyzer().Analyze(volumeKeyword(500))

	assert.Equal(t, models.RuleKeywordVolume, result.RuleName)
	assert.Equal(t, models.StatusRed, result.Status)
	assert.Equal(t, 0.0, result.Score)
	assert.Contains(t, result.Reason, "critically low")
	assert.True(t, result.IsKillSwitch())
}

func TestKeywordVolumeBelowThreshold(t *testing.T) {
	result := newVolumeAnalyzer().Analyze(volumeKeyword(2000))

	assert.Equal(t, models.StatusYellow, result.Status)
	assert.InDelta(t, (2000.0/3000.0)*50, result.Score, 1e-9)
	assert.Contains(t, result.Reason, "long-tail")
}

func TestKeywordVolumeMeetsThreshold(t *testing.T) {
	result := newVolumeAnalyzer().Analyze(volumeKeyword(4500))

	assert.Equal(t, models.StatusGreen, result.Status)
	assert.InDelta(t, 50+((4500.0-3000.0)/3000.0)*30, result.Score, 1e-9)
	require.NotNil(t, result.Volume)
	assert.InDelta(t, 1.5, result.Volume.VolumeRatio, 1e-9)
}

func TestKeywordVolumeHigh(t *testing.T) {
	result := newVolumeAnalyzer().Analyze(volumeKeyword(9000))

	assert.Equal(t, models.StatusGreen, result.Status)
	assert.GreaterOrEqual(t, result.Score, 80.0)
	assert.LessOrEqual(t, result.Score, 95.0)
	assert.Contains(t, result.Reason, "High search volume")
}

func TestKeywordVolumeVeryHighWarnsAboutCompetition(t *testing.T) {
	result := newVolumeAnalyzer().Analyze(volumeKeyword(50000))

	assert.Equal(t, models.StatusGreen, result.Status)
	assert.Equal(t, 90.0, result.Score)
	assert.Contains(t, result.Reason, "entrenched competitors")
	// Thousands separator in the human-readable reason.
	assert.Contains(t, result.Reason, "50,000")
}

func TestKeywordVolumeExactThreshold(t *testing.T) {
	result := newVolumeAnalyzer().Analyze(volumeKeyword(3000))

	assert.Equal(t, models.StatusGreen, result.Status)
	assert.InDelta(t, 50.0, result.Score, 1e-9)
}

func TestKeywordVolumeBoundaryAtThirtyPercent(t *testing.T) {
	// 900 is exactly 30% of 3000; the red band is strictly below.
	result := newVolumeAnalyzer().Analyze(volumeKeyword(900))

	assert.Equal(t, models.StatusYellow, result.Status)
	assert.Greater(t, result.Score, 0.0)
}

func TestKeywordVolumeMonotonicity(t *testing.T) {
	analyzer := newVolumeAnalyzer()
	volumes := []int{100, 800, 899, 900, 1500, 2999, 3000, 4000, 5999, 6000, 8000, 10000}

	prev := -1.0
	for _, v := range volumes {
		result := analyzer.Analyze(volumeKeyword(v))
		assert.GreaterOrEqual(t, result.Score, prev, "score must not decrease at volume %d", v)
		prev = result.Score
	}
}
