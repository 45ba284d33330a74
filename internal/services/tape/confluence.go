package tape

import (
	"fmt"

	"TapeReader/internal/domain/models"
)

const waitingText = "WAITING FOR CONFLUENCE"

// Resolve combines the trend state with the per-direction confirmation counts.
// A final signal requires the trend and at least one same-direction channel to
// agree; confirmations in the opposing direction never resolve.
func Resolve(trend models.Direction, bullConfirms, bearConfirms int) models.Confluence {
	switch {
	case trend == models.Buy && bullConfirms >= 1:
		return models.Confluence{State: models.Buy, Text: fmt.Sprintf("BUY (CONF: %d)", bullConfirms)}
	case trend == models.Sell && bearConfirms >= 1:
		return models.Confluence{State: models.Sell, Text: fmt.Sprintf("SELL (CONF: %d)", bearConfirms)}
	default:
		return models.Confluence{State: models.Neutral, Text: waitingText}
	}
}
