// Package domain models US Census Bureau demographic data for ZIP code
// tabulation areas (ZCTAs) and the AI-generated insights derived from it.
//
// # Data Source
//
// Demographics come from the American Community Survey (ACS) 5-Year
// Estimates API at https://api.census.gov/data/2022/acs/acs5, queried per
// ZCTA. One request fetches a fixed set of 34 named variables; the API
// answers with a 2-D array of strings where the first row holds variable
// names and the second row holds that ZCTA's values.
//
// # ACS Data Conventions
//
// Variable codes:
//
//	NAME          geographic area label, e.g. "ZCTA5 90210"
//	B01003_001E   total population
//	B01002_001E   median age (decimal string)
//	B09001_001E   population under 18
//	B01001_020E   - B01001_025E  male population 65 through 85+ (six brackets)
//	B01001_044E   - B01001_049E  female population 65 through 85+ (six brackets)
//	B19013_001E   median household income
//	B25077_001E   median home value
//	B25064_001E   median gross rent
//	B02001_002E   - B02001_005E  race counts (White, Black, Native, Asian)
//	B15003_001E   population 25+ (education denominator)
//	B15003_022E   - B15003_025E  bachelor's, master's, professional, doctorate
//	B25002_001E   - B25002_003E  housing units total, owner-occupied, renter-occupied
//	B08301_001E / _002E / _010E / _021E  commuters total, drive, public transit, WFH
//
// Value encoding:
//
//	Every value arrives as a string. Counts are plain integers; median age
//	is a decimal ("38.2"). Missing data appears as JSON null, an empty
//	string, or a negative sentinel such as "-666666666". Extraction never
//	fails on a single field: unparsable or absent numeric values become 0
//	and absent string values become "".
//
// Derived fields:
//
//	age65plus  = sum of the twelve male/female 65+ brackets.
//	age18to64  = population − ageUnder18 − age65plus. Not clamped: the ACS
//	             age bands occasionally disagree with the population total,
//	             in which case the value goes negative, matching the source.
//	educationGraduate = master's + professional + doctorate.
//
// The echoed "zip code tabulation area" column identifies the geography;
// when absent, the caller-supplied ZIP code is used instead.
//
// Race categories are not mutually exclusive and need not sum to the total
// population.
package domain
