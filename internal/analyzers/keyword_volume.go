package analyzers

import (
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
)

// english renders volumes with thousands separators in reason texts.
var english = message.NewPrinter(language.English)

// KeywordVolumeAnalyzer scores demand sufficiency from the keyword's exact
// monthly search volume against the configured minimum.
type KeywordVolumeAnalyzer struct {
	minVolume int
	logger    *logrus.Logger
}

// NewKeywordVolumeAnalyzer creates a demand-volume analyzer.
func NewKeywordVolumeAnalyzer(cfg *config.AnalysisConfig, logger *logrus.Logger) *KeywordVolumeAnalyzer {
	return &KeywordVolumeAnalyzer{
		minVolume: cfg.MinKeywordVolume,
		logger:    logger,
	}
}

// Analyze scores a keyword's exact search volume. The engine guarantees
// ExactSearchVolume is present before calling.
func (a *KeywordVolumeAnalyzer) Analyze(keyword *models.Keyword) *models.RuleResult {
	volume := 0
	if keyword.ExactSearchVolume != nil {
		volume = *keyword.ExactSearchVolume
	}
	m := float64(a.minVolume)
	v := float64(volume)

	a.logger.WithFields(logrus.Fields{
		"keyword":   keyword.Term,
		"volume":    volume,
		"threshold": a.minVolume,
	}).Debug("Analyzing keyword volume")

	volumeRatio := 0.0
	if m > 0 {
		volumeRatio = v / m
	}

	var (
		score  float64
		status models.DecisionStatus
		reason string
	)

	switch {
	case v < m*0.3:
		score = 0
		status = models.StatusRed
		reason = english.Sprintf(
			"Search volume (%d/month) is critically low, under 30%% of the %d minimum. "+
				"Insufficient demand to sustain a profitable product; consider broader keywords or a different niche.",
			volume, a.minVolume)

	case v < m:
		score = volumeRatio * 50 // 0-50 range
		status = models.StatusYellow
		reason = english.Sprintf(
			"Search volume (%d/month) is below the recommended %d threshold. Limited demand; "+
				"usable only as part of a long-tail keyword strategy when competition is low.",
			volume, a.minVolume)

	case v < m*2:
		score = 50 + ((v-m)/m)*30 // 50-80 range
		status = models.StatusGreen
		reason = english.Sprintf(
			"Search volume (%d/month) meets threshold requirements. Adequate demand with a good "+
				"balance of competition potential.", volume)

	case v < m*5:
		score = 80 + math.Min(15, ((v-m*2)/(m*3))*15)
		status = models.StatusGreen
		reason = english.Sprintf(
			"High search volume (%d/month). Strong market demand and significant sales potential; "+
				"verify competition levels.", volume)

	default:
		score = 90
		status = models.StatusGreen
		reason = english.Sprintf(
			"Very high search volume (%d/month). Massive market demand. Warning: volumes this high "+
				"usually come with entrenched competitors; verify competition and click concentration.",
			volume)
	}

	return &models.RuleResult{
		RuleName:       models.RuleKeywordVolume,
		Status:         status,
		Score:          clampScore(score),
		Reason:         reason,
		ThresholdValue: models.Float64Ptr(m),
		ActualValue:    models.Float64Ptr(v),
		Volume: &models.VolumeDetail{
			VolumeRatio:  volumeRatio,
			BroadVolume:  keyword.BroadSearchVolume,
			PhraseVolume: keyword.PhraseSearchVolume,
		},
	}
}
