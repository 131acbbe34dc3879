package model

import (
	"encoding/json"
	"strings"
)

// WorkTime is the start and end of a work window. Older records stored it as
// a single "start-end" string; both forms decode.
type WorkTime struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w WorkTime) String() string {
	return JoinWorkTime(w.Start, w.End)
}

func (w WorkTime) IsZero() bool {
	return w.Start == "" && w.End == ""
}

func (w *WorkTime) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		w.Start, w.End = SplitWorkTime(legacy)
		return nil
	}

	type plain WorkTime
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*w = WorkTime(p)
	return nil
}

// JoinWorkTime encodes a window as "start-end", or the bare value when only
// one side is set.
func JoinWorkTime(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + "-" + end
	case start != "":
		return start
	default:
		return end
	}
}

// SplitWorkTime decodes the output of JoinWorkTime. Only the first hyphen
// separates, so a start value containing "-" does not survive a round trip.
func SplitWorkTime(s string) (start, end string) {
	if s == "" {
		return "", ""
	}
	before, after, found := strings.Cut(s, "-")
	if !found {
		return s, ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
