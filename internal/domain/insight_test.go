package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/doppelganger-engine/internal/domain"
)

func TestProfileResultMarshalSuccess(t *testing.T) {
	r := domain.ProfileOf(domain.CommunityProfile{
		WhoAreWe:            "A quiet suburb.",
		OurNeighborhood:     []string{"Mostly single-family homes"},
		SocioeconomicTraits: []string{"High rate of college degrees"},
	})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"whoAreWe": "A quiet suburb.",
		"ourNeighborhood": ["Mostly single-family homes"],
		"socioeconomicTraits": ["High rate of college degrees"]
	}`, string(data))
}

func TestProfileResultMarshalError(t *testing.T) {
	data, err := json.Marshal(domain.ProfileError("Failed to generate Gemini profile."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Failed to generate Gemini profile."}`, string(data))
}

func TestProfileResultUnmarshalBothShapes(t *testing.T) {
	var ok domain.ProfileResult
	require.NoError(t, json.Unmarshal([]byte(`{"whoAreWe":"x","ourNeighborhood":[],"socioeconomicTraits":[]}`), &ok))
	require.NotNil(t, ok.Profile)
	assert.Equal(t, "x", ok.Profile.WhoAreWe)
	assert.Empty(t, ok.Err)

	var failed domain.ProfileResult
	require.NoError(t, json.Unmarshal([]byte(`{"error":"boom"}`), &failed))
	assert.Nil(t, failed.Profile)
	assert.Equal(t, "boom", failed.Err)
}

func TestDoppelgangerResultMarshalCandidates(t *testing.T) {
	r := domain.DoppelgangersOf([]domain.DoppelgangerCandidate{
		{ZipCode: "30301", City: "Atlanta", State: "GA", SimilarityReason: "close income match", SimilarityPercentage: 93},
	})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"zipCode": "30301",
		"city": "Atlanta",
		"state": "GA",
		"similarityReason": "close income match",
		"similarityPercentage": 93
	}]`, string(data))
}

func TestDoppelgangerResultMarshalNilCandidates(t *testing.T) {
	data, err := json.Marshal(domain.DoppelgangersOf(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDoppelgangerResultMarshalError(t *testing.T) {
	data, err := json.Marshal(domain.DoppelgangerError("Failed to find doppelgangers."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Failed to find doppelgangers."}`, string(data))
}

func TestDoppelgangerResultUnmarshalBothShapes(t *testing.T) {
	var ok domain.DoppelgangerResult
	require.NoError(t, json.Unmarshal([]byte(`[{"zipCode":"10001","city":"New York","state":"NY","similarityReason":"r","similarityPercentage":88.5}]`), &ok))
	require.Len(t, ok.Candidates, 1)
	assert.Equal(t, 88.5, ok.Candidates[0].SimilarityPercentage)
	assert.Empty(t, ok.Err)

	var failed domain.DoppelgangerResult
	require.NoError(t, json.Unmarshal([]byte(`{"error":"boom"}`), &failed))
	assert.Nil(t, failed.Candidates)
	assert.Equal(t, "boom", failed.Err)
}

func TestCacheEntryRoundTrip(t *testing.T) {
	entry := domain.CacheEntry{
		Demographics: domain.DemographicRecord{ZipCode: "90210", Population: 21000, Name: "ZCTA5 90210"},
		Profile:      domain.ProfileError("Failed to generate Gemini profile."),
		Doppelgangers: domain.DoppelgangersOf([]domain.DoppelgangerCandidate{
			{ZipCode: "33109", City: "Miami Beach", State: "FL", SimilarityReason: "r", SimilarityPercentage: 91},
		}),
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded domain.CacheEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry, decoded)
}
