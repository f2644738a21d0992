package match

import (
	"strings"
	"time"
)

// Status is the canonical five-value match-state vocabulary.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusCanceled   Status = "canceled"
	StatusPostponed  Status = "postponed"
)

// NormalizeStatus maps a provider short code to the canonical vocabulary. The
// mapping is total: unrecognized codes fall open to scheduled and never fail.
func NormalizeStatus(code string) Status {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "1H", "2H", "HT", "ET", "BT", "P":
		return StatusInProgress
	case "FT", "AET", "PEN":
		return StatusFinished
	case "CANC", "ABD":
		return StatusCanceled
	case "PST":
		return StatusPostponed
	case "NS":
		return StatusScheduled
	default:
		return StatusScheduled
	}
}

// KickoffInstant resolves the provider's kickoff representation into an absolute
// UTC instant. The epoch timestamp wins; the ISO string is the fallback. A zero
// time is returned when neither is usable.
func KickoffInstant(timestamp int64, iso string) time.Time {
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}

	value := strings.TrimSpace(iso)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC()
		}
	}

	return time.Time{}
}
