package usecase

import (
	"fmt"
	"strings"

	"StockAlert/internal/domain/models"
	domsvc "StockAlert/internal/domain/service"
)

// DefaultWindow is the moving-average lookback in days.
const DefaultWindow = 20

// AlertComposer renders fired alerts as SMS-friendly text.
type AlertComposer struct {
	window int
}

// NewAlertComposer creates a composer labelling the moving average with window.
func NewAlertComposer(window int) *AlertComposer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &AlertComposer{window: window}
}

// Window returns the lookback the composer labels alerts with.
func (c *AlertComposer) Window() int { return c.window }

// Compose formats the alert line followed by one headline per line.
// The headline section is omitted when there are no headlines.
func (c *AlertComposer) Compose(symbol string, v models.SignalValues, headlines []models.Headline) models.AlertMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "%s alert! Price: %.2f > MA%d %.2f; Volume ratio: %.2f.",
		symbol, v.LatestPrice, c.window, v.MovingAverage, v.VolumeRatio)

	for _, h := range headlines {
		b.WriteByte('\n')
		b.WriteString(string(h))
	}
	return models.AlertMessage(b.String())
}

var _ domsvc.AlertComposer = (*AlertComposer)(nil)
