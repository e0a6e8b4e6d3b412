package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ErrNoData signals that the statistics upstream returned no row for the
// requested ZIP code. Transport and parse failures collapse to the same
// outcome; callers cannot distinguish "unknown ZIP" from "upstream down".
var ErrNoData = errors.New("no demographic data for zip code")

// CommunityProfile is the model-generated qualitative narrative for an area.
type CommunityProfile struct {
	WhoAreWe            string   `json:"whoAreWe" firestore:"whoAreWe"`
	OurNeighborhood     []string `json:"ourNeighborhood" firestore:"ourNeighborhood"`
	SocioeconomicTraits []string `json:"socioeconomicTraits" firestore:"socioeconomicTraits"`
}

// DoppelgangerCandidate is one ZIP code the model judged demographically
// similar to the query ZIP. SimilarityPercentage is requested in [85, 100]
// but passed through unvalidated.
type DoppelgangerCandidate struct {
	ZipCode              string  `json:"zipCode" firestore:"zipCode"`
	City                 string  `json:"city" firestore:"city"`
	State                string  `json:"state" firestore:"state"`
	SimilarityReason     string  `json:"similarityReason" firestore:"similarityReason"`
	SimilarityPercentage float64 `json:"similarityPercentage" firestore:"similarityPercentage"`
}

// ProfileResult is either a generated CommunityProfile or the fixed error
// object the generator collapsed to. Exactly one branch is set. The error
// branch is valid cacheable data, not a cache-bypass signal.
type ProfileResult struct {
	Profile *CommunityProfile `firestore:"profile,omitempty"`
	Err     string            `firestore:"error,omitempty"`
}

// ProfileOf wraps a successful profile.
func ProfileOf(p CommunityProfile) ProfileResult {
	return ProfileResult{Profile: &p}
}

// ProfileError wraps a generation failure message.
func ProfileError(msg string) ProfileResult {
	return ProfileResult{Err: msg}
}

// MarshalJSON renders either the profile object or {"error": <msg>}.
func (r ProfileResult) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(errObject{Error: r.Err})
	}
	return json.Marshal(r.Profile)
}

// UnmarshalJSON accepts either shape, probing for the "error" key first.
func (r *ProfileResult) UnmarshalJSON(data []byte) error {
	var probe errObject
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != "" {
		*r = ProfileResult{Err: probe.Error}
		return nil
	}
	var p CommunityProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ProfileResult{Profile: &p}
	return nil
}

// DoppelgangerResult is either the model's candidate list or the fixed
// error object the finder collapsed to. Exactly one branch is set.
type DoppelgangerResult struct {
	Candidates []DoppelgangerCandidate `firestore:"candidates,omitempty"`
	Err        string                  `firestore:"error,omitempty"`
}

// DoppelgangersOf wraps a successful candidate list.
func DoppelgangersOf(candidates []DoppelgangerCandidate) DoppelgangerResult {
	return DoppelgangerResult{Candidates: candidates}
}

// DoppelgangerError wraps a search failure message.
func DoppelgangerError(msg string) DoppelgangerResult {
	return DoppelgangerResult{Err: msg}
}

// MarshalJSON renders either the candidate array or {"error": <msg>}.
func (r DoppelgangerResult) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(errObject{Error: r.Err})
	}
	if r.Candidates == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Candidates)
}

// UnmarshalJSON accepts either an array or the error object.
func (r *DoppelgangerResult) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var candidates []DoppelgangerCandidate
		if err := json.Unmarshal(data, &candidates); err != nil {
			return err
		}
		*r = DoppelgangerResult{Candidates: candidates}
		return nil
	}
	var probe errObject
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	*r = DoppelgangerResult{Err: probe.Error}
	return nil
}

type errObject struct {
	Error string `json:"error"`
}

// CacheEntry is the unit of persistence: the combined lookup result keyed by
// ZIP code, written at most once per miss and never expired by this service.
type CacheEntry struct {
	Demographics  DemographicRecord  `json:"demographics" firestore:"demographics"`
	Profile       ProfileResult      `json:"profile" firestore:"profile"`
	Doppelgangers DoppelgangerResult `json:"doppelgangers" firestore:"doppelgangers"`
}

// LookupEvent is the audit record published after each completed lookup.
type LookupEvent struct {
	ZipCode    string    `json:"zip_code"`
	Outcome    string    `json:"outcome"` // "hit", "fresh", or "not_found"
	CacheHit   bool      `json:"cache_hit"`
	DurationMS int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}
