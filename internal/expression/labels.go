// Package expression receives facial-expression labels from an external
// classifier and hands them to the game at a fixed cadence.
//
// A face detection client (for example a browser page running a webcam
// classifier) connects to the websocket endpoint and sends one JSON text
// frame per detection:
//
//	{"label": "happy"}
//	{"expressions": {"neutral": 0.02, "happy": 0.95, "sad": 0.01}}
//
// The second form is reduced to its dominant label. Labels are sampled every
// cadence tick and only the most recent one is forwarded.
package expression

import (
	"sort"
	"strings"
)

// Labels produced by common expression classifiers.
const (
	Neutral   = "neutral"
	Happy     = "happy"
	Sad       = "sad"
	Angry     = "angry"
	Fearful   = "fearful"
	Disgusted = "disgusted"
	Surprised = "surprised"
)

var known = map[string]bool{
	Neutral:   true,
	Happy:     true,
	Sad:       true,
	Angry:     true,
	Fearful:   true,
	Disgusted: true,
	Surprised: true,
}

// Normalize lowercases a label and maps anything unrecognised to Neutral.
func Normalize(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if known[l] {
		return l
	}
	return Neutral
}

// Dominant returns the label with the highest score. Ties go to the label
// that sorts first. ok is false for an empty map.
func Dominant(scores map[string]float64) (label string, score float64, ok bool) {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !ok || scores[k] > score {
			label, score, ok = k, scores[k], true
		}
	}
	return label, score, ok
}
