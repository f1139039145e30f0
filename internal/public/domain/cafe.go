package domain

import (
	"fmt"
	"strings"
	"time"
)

// Cafe represents a publicly visible cafe entity.
// Score はバックエンド側で重み付け済みの総合点であり、このパッケージでは再計算しない。
type Cafe struct {
	ID        string
	Name      string
	City      string
	Score     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category represents a rated dimension with its weight.
type Category struct {
	ID     string
	Name   string
	Weight float64
}

// Band is a named interval of overall score used for coarse quality filtering.
type Band string

const (
	BandNone          Band = ""
	BandExcellent     Band = "excelente"
	BandWouldReturn   Band = "volver"
	BandRecommendable Band = "recomendable"
	BandSkipIt        Band = "ahorratelo"
)

// バンド境界値。閉開区間で隙間なく全スコアを分割する。
const (
	excellentLowerBound     = 8.35
	wouldReturnLowerBound   = 7.75
	recommendableLowerBound = 7.25
)

// ParseBand validates a band query value.
func ParseBand(value string) (Band, error) {
	switch Band(strings.TrimSpace(value)) {
	case BandNone, BandExcellent, BandWouldReturn, BandRecommendable, BandSkipIt:
		return Band(strings.TrimSpace(value)), nil
	}
	return BandNone, fmt.Errorf("無効なバンド指定です: %s", value)
}

// Contains reports whether the overall score falls within the band's interval.
// BandNone は全スコアを通す。
func (b Band) Contains(score float64) bool {
	switch b {
	case BandExcellent:
		return score >= excellentLowerBound
	case BandWouldReturn:
		return score >= wouldReturnLowerBound && score < excellentLowerBound
	case BandRecommendable:
		return score >= recommendableLowerBound && score < wouldReturnLowerBound
	case BandSkipIt:
		return score < recommendableLowerBound
	default:
		return true
	}
}
