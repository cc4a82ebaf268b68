package tasks

import (
	"fmt"

	"github.com/desertthunder/trackfetch/internal/services"
)

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	EncodeQuery Phase = iota
	SearchTracks
	DecodeResponse
	PersistTracks
	ReadBack
	Report
)

func (p Phase) String() string {
	switch p {
	case EncodeQuery:
		return "encode_query"
	case SearchTracks:
		return "search_tracks"
	case DecodeResponse:
		return "decode_response"
	case PersistTracks:
		return "persist_tracks"
	case ReadBack:
		return "read_back"
	case Report:
		return "report"
	default:
		return ""
	}
}

func encodeQueryUpdate(query, encoded string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EncodeQuery,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Encoded %q as %s", query, encoded),
		Data:    encoded,
	}
}

func searchTracksUpdate(service string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Searching %s...", service),
	}
}

func searchOutcomeUpdate(outcome services.Outcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Search finished: %s (status %d)", outcome.Kind, outcome.StatusCode),
		Data:    outcome.Kind,
	}
}

func decodeResponseUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DecodeResponse,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Decoded %d tracks", count),
	}
}

func persistTrackUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Saved %s", step, total, name),
	}
}

func readBackUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadBack,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Read back %d stored tracks", count),
	}
}

func reportUpdate(stored, fresh int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Report,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Printed %d stored and %d fetched tracks", stored, fresh),
	}
}
