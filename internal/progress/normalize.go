package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

// decodeState parses a stored blob field by field. Each field that is missing or has the
// wrong shape falls back to its default on its own; only a blob that is not a JSON object
// at all yields ErrCorruptState. EarnedBadges is left empty for the caller to recompute.
func decodeState(raw []byte) (State, error) {
	state := DefaultState()
	if len(bytes.TrimSpace(raw)) == 0 {
		return state, ErrStateNotFound
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return state, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	state.UnlockedGemIDs = decodeIDs(fields["unlockedGemIds"])
	state.TotalPoints = decodePoints(fields["totalPoints"])
	state.PreferredLocale = decodeLocale(fields["preferredLocale"])
	state.Submissions = decodeSubmissions(fields["submissions"])
	return state, nil
}

func decodeList(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	return items
}

func decodeIDs(raw json.RawMessage) []string {
	ids := []string{}
	seen := make(map[string]struct{})
	for _, item := range decodeList(raw) {
		var id string
		if json.Unmarshal(item, &id) != nil {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// maxStoredPoints is the largest total a float64 holds exactly.
const maxStoredPoints = 1 << 53

// decodePoints accepts any finite non-negative number; fractions are truncated and
// totals beyond maxStoredPoints are clamped.
func decodePoints(raw json.RawMessage) int {
	var n float64
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return 0
	}
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	if n > maxStoredPoints {
		return maxStoredPoints
	}
	return int(n)
}

func decodeLocale(raw json.RawMessage) locale.Locale {
	var v string
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || !locale.IsValid(v) {
		return locale.Default
	}
	return locale.Locale(v)
}

// storedSubmission tolerates both historical shapes of a submission: the maps link under
// "mapsLink" or "googleMapsUrl", and createdAt as epoch milliseconds or an RFC3339 string.
type storedSubmission struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Emirate       string          `json:"emirate"`
	MapsLink      string          `json:"mapsLink"`
	GoogleMapsURL string          `json:"googleMapsUrl"`
	Why           string          `json:"why"`
	Photogenic    bool            `json:"photogenic"`
	Budget        string          `json:"budget"`
	CreatedAt     json.RawMessage `json:"createdAt"`
}

func decodeSubmissions(raw json.RawMessage) []Submission {
	out := []Submission{}
	for _, item := range decodeList(raw) {
		var s storedSubmission
		if json.Unmarshal(item, &s) != nil || strings.TrimSpace(s.ID) == "" {
			continue
		}
		link := s.MapsLink
		if link == "" {
			link = s.GoogleMapsURL
		}
		out = append(out, Submission{
			ID:         s.ID,
			Name:       s.Name,
			Emirate:    gem.Emirate(s.Emirate),
			MapsLink:   link,
			Why:        s.Why,
			Photogenic: s.Photogenic,
			Budget:     gem.Budget(s.Budget),
			CreatedAt:  decodeTimestamp(s.CreatedAt),
		})
	}
	return out
}

func decodeTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var text string
	if json.Unmarshal(raw, &text) == nil {
		if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return t.UTC()
		}
		return time.Time{}
	}
	var millis float64
	if json.Unmarshal(raw, &millis) == nil && millis > 0 && !math.IsInf(millis, 0) {
		return time.UnixMilli(int64(millis)).UTC()
	}
	return time.Time{}
}

func encodeState(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode progress state: %w", err)
	}
	return data, nil
}
