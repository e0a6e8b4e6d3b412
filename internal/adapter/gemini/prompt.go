package gemini

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/couchcryptid/doppelganger-engine/internal/domain"
)

const (
	doppelgangerCount = 5
	similarityMin     = 85
	similarityMax     = 100
)

// profilePrompt renders the community-profile prompt. The derived
// percentages exist only for the prompt text and are never stored.
func profilePrompt(rec domain.DemographicRecord) string {
	higherEd := domain.PercentOf(rec.EducationBachelors+rec.EducationGraduate, rec.EducationPopulation)
	ownerOccupied := domain.PercentOf(rec.OwnerOccupied, rec.HousingUnits)
	wfh := domain.PercentOf(rec.CommuteWfh, rec.CommuteTotal)
	under18 := domain.PercentOf(rec.AgeUnder18, rec.Population)
	over65 := domain.PercentOf(rec.Age65Plus, rec.Population)

	return fmt.Sprintf(`Analyze the following demographic data for ZIP code %s to create a detailed community profile.
Generate a response in the persona of a market research analyst describing the area to a business or someone considering moving there.
The response must be structured as a JSON object that adheres to the provided schema.

Data for Analysis:
- Total Population: %s
- Median Age: %.1f years
- Age Distribution: %s under 18, %s 65+
- Median Household Income: %s
- Median Home Value: %s
- Median Rent: %s
- Housing Occupancy: %s owner-occupied
- Education: %s of adults (25+) have a Bachelor's degree or higher
- Commute: %s of workers work from home
- Racial Composition: Population is approximately %s White, %s Black, and %s Asian.`,
		rec.ZipCode,
		domain.FormatCount(rec.Population),
		rec.MedianAge,
		domain.FormatPercent(under18),
		domain.FormatPercent(over65),
		domain.FormatCurrency(rec.MedianIncome),
		domain.FormatCurrency(rec.MedianHomeValue),
		domain.FormatCurrency(rec.MedianRent),
		domain.FormatPercent(ownerOccupied),
		domain.FormatPercent(higherEd),
		domain.FormatPercent(wfh),
		domain.FormatCount(rec.RaceWhite),
		domain.FormatCount(rec.RaceBlack),
		domain.FormatCount(rec.RaceAsian),
	)
}

// profileSchema constrains the profile reply to a JSON object with exactly
// the three narrative fields. List lengths are a hint to the model, not
// enforced on the reply.
func profileSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"whoAreWe": {
				Type:        genai.TypeString,
				Description: "A narrative paragraph summarizing the area's character, lifestyle, and key traits of the population.",
			},
			"ourNeighborhood": {
				Type:        genai.TypeArray,
				Description: "A list of 3-5 key facts about the neighborhood, focusing on housing, density, and household composition.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"socioeconomicTraits": {
				Type:        genai.TypeArray,
				Description: "A list of 3-5 key facts about the population's socioeconomic status, including education, employment, and financial habits.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"whoAreWe", "ourNeighborhood", "socioeconomicTraits"},
	}
}

// doppelgangerPrompt renders the similarity-search prompt. Higher-education
// and owner-occupancy shares are recomputed here rather than shared with
// the profile prompt; the two calls are independent.
func doppelgangerPrompt(rec domain.DemographicRecord) string {
	higherEd := domain.PercentOf(rec.EducationBachelors+rec.EducationGraduate, rec.EducationPopulation)
	ownerOccupied := domain.PercentOf(rec.OwnerOccupied, rec.HousingUnits)

	return fmt.Sprintf(`Analyze the provided demographic data for ZIP code %s and act as a backend data service.
Your task is to find %d other US ZIP codes that are its "doppelgänger" – meaning they are remarkably similar across key metrics.

Prioritize areas with a similar blend of:
1.  Median Household Income (around %s)
2.  Median Home Value (around %s)
3.  Population size (around %s)
4.  Education level (approx. %s with Bachelor's degree or higher)
5.  Housing tenure (approx. %s owner-occupied)
6.  Median Age (around %.1f years)

For each match, you must provide a 'similarityPercentage' score between %d and %d, where 100 is a perfect match.
Return the results as a JSON array of objects that strictly follows the provided schema. Do not include the original ZIP code (%s) in the results.`,
		rec.ZipCode,
		doppelgangerCount,
		domain.FormatCurrency(rec.MedianIncome),
		domain.FormatCurrency(rec.MedianHomeValue),
		domain.FormatCount(rec.Population),
		domain.FormatPercent(higherEd),
		domain.FormatPercent(ownerOccupied),
		rec.MedianAge,
		similarityMin,
		similarityMax,
		rec.ZipCode,
	)
}

// doppelgangerSchema constrains the reply to an array of candidate objects.
// The requested count and score range are advisory; replies are passed
// through without validating either.
func doppelgangerSchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: fmt.Sprintf("A list of %d US ZIP codes with very similar demographics.", doppelgangerCount),
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"zipCode": {
					Type:        genai.TypeString,
					Description: "The 5-digit ZIP code.",
				},
				"city": {
					Type:        genai.TypeString,
					Description: "The primary city for the ZIP code.",
				},
				"state": {
					Type:        genai.TypeString,
					Description: "The 2-letter state abbreviation.",
				},
				"similarityReason": {
					Type:        genai.TypeString,
					Description: "A brief, one-sentence explanation of why this ZIP code is a good match.",
				},
				"similarityPercentage": {
					Type:        genai.TypeNumber,
					Description: fmt.Sprintf("A numerical score from %d to %d.", similarityMin, similarityMax),
				},
			},
			Required: []string{"zipCode", "city", "state", "similarityReason", "similarityPercentage"},
		},
	}
}
