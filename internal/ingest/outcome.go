package ingest

import "fmt"

type (
	OutcomeType int
	SkipReason  int

	// Outcome is the per-item result of a ProcessOne invocation. Exactly
	// one of Reason/Trouble is meaningful, selected by Type.
	Outcome struct {
		VideoID string
		Type    OutcomeType
		Reason  SkipReason
		Trouble *Trouble
	}
)

const (
	Ingested OutcomeType = iota
	Skipped
	Aborted
)

const (
	AlreadyArchived SkipReason = iota
	InsufficientViews
	DurationOutOfBounds
)

func ingestedOutcome(videoID string) Outcome {
	return Outcome{VideoID: videoID, Type: Ingested}
}

func skippedOutcome(videoID string, reason SkipReason) Outcome {
	return Outcome{VideoID: videoID, Type: Skipped, Reason: reason}
}

func abortedOutcome(videoID string, trouble Trouble) Outcome {
	return Outcome{VideoID: videoID, Type: Aborted, Trouble: &trouble}
}

func (o Outcome) String() string {
	switch o.Type {
	case Ingested:
		return fmt.Sprintf("Ingested{%s}", o.VideoID)
	case Skipped:
		return fmt.Sprintf("Skipped{%s reason=%s}", o.VideoID, o.Reason)
	case Aborted:
		return fmt.Sprintf("Aborted{%s trouble=%s}", o.VideoID, o.Trouble.Type())
	default:
		return fmt.Sprintf("Unknown{%s}", o.VideoID)
	}
}

func (r SkipReason) String() string {
	switch r {
	case AlreadyArchived:
		return "AlreadyArchived"
	case InsufficientViews:
		return "InsufficientViews"
	case DurationOutOfBounds:
		return "DurationOutOfBounds"
	default:
		return fmt.Sprintf("Unknown[%d]", r)
	}
}
