package domain

import (
	"strconv"
	"strings"
)

// acsVariables is the fixed query set, in request order. See the package
// doc for what each code means.
var acsVariables = []string{
	"NAME", "B01003_001E", "B01002_001E", "B09001_001E", "B01001_020E",
	"B01001_021E", "B01001_022E", "B01001_023E", "B01001_024E", "B01001_025E",
	"B01001_044E", "B01001_045E", "B01001_046E", "B01001_047E", "B01001_048E",
	"B01001_049E", "B19013_001E", "B25077_001E", "B25064_001E", "B02001_002E",
	"B02001_003E", "B02001_004E", "B02001_005E", "B15003_001E", "B15003_022E",
	"B15003_023E", "B15003_024E", "B15003_025E", "B25002_001E", "B25002_002E",
	"B25002_003E", "B08301_001E", "B08301_002E", "B08301_010E", "B08301_021E",
}

// age65PlusVariables are the twelve sex/age brackets summed into age65plus:
// six male (B01001_020E-025E) and six female (B01001_044E-049E), ages 65-85+.
var age65PlusVariables = []string{
	"B01001_020E", "B01001_021E", "B01001_022E", "B01001_023E", "B01001_024E", "B01001_025E",
	"B01001_044E", "B01001_045E", "B01001_046E", "B01001_047E", "B01001_048E", "B01001_049E",
}

// ACSVariables returns the variable codes requested per lookup.
func ACSVariables() []string {
	out := make([]string, len(acsVariables))
	copy(out, acsVariables)
	return out
}

// DemographicRecord is the typed, named form of one ZCTA's ACS row.
// Field names on the wire match the upstream consumer contract.
type DemographicRecord struct {
	Name                string  `json:"name" firestore:"name"`
	Population          int     `json:"population" firestore:"population"`
	MedianIncome        int     `json:"medianIncome" firestore:"medianIncome"`
	MedianAge           float64 `json:"medianAge" firestore:"medianAge"`
	RaceWhite           int     `json:"raceWhite" firestore:"raceWhite"`
	RaceBlack           int     `json:"raceBlack" firestore:"raceBlack"`
	RaceNative          int     `json:"raceNative" firestore:"raceNative"`
	RaceAsian           int     `json:"raceAsian" firestore:"raceAsian"`
	EducationPopulation int     `json:"educationPopulation" firestore:"educationPopulation"`
	EducationBachelors  int     `json:"educationBachelors" firestore:"educationBachelors"`
	EducationGraduate   int     `json:"educationGraduate" firestore:"educationGraduate"`
	MedianHomeValue     int     `json:"medianHomeValue" firestore:"medianHomeValue"`
	MedianRent          int     `json:"medianRent" firestore:"medianRent"`
	HousingUnits        int     `json:"housingUnits" firestore:"housingUnits"`
	OwnerOccupied       int     `json:"ownerOccupied" firestore:"ownerOccupied"`
	RenterOccupied      int     `json:"renterOccupied" firestore:"renterOccupied"`
	AgeUnder18          int     `json:"ageUnder18" firestore:"ageUnder18"`
	Age18to64           int     `json:"age18to64" firestore:"age18to64"`
	Age65Plus           int     `json:"age65plus" firestore:"age65plus"`
	CommuteTotal        int     `json:"commuteTotal" firestore:"commuteTotal"`
	CommuteDrive        int     `json:"commuteDrive" firestore:"commuteDrive"`
	CommutePublic       int     `json:"commutePublic" firestore:"commutePublic"`
	CommuteWfh          int     `json:"commuteWfh" firestore:"commuteWfh"`
	ZipCode             string  `json:"zipCode" firestore:"zipCode"`
}

// BuildDemographicRecord converts one header row and one value row from the
// ACS API into a DemographicRecord. Lookup is by header name; column order
// is not assumed. A missing, null, or unparsable value yields 0 for numeric
// fields and "" for string fields — a single bad field never fails the row.
func BuildDemographicRecord(headers []string, values []*string, requestZip string) DemographicRecord {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	getString := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(values) || values[i] == nil {
			return ""
		}
		return *values[i]
	}
	getInt := func(name string) int {
		v, err := strconv.Atoi(strings.TrimSpace(getString(name)))
		if err != nil {
			return 0
		}
		return v
	}

	population := getInt("B01003_001E")
	ageUnder18 := getInt("B09001_001E")
	age65Plus := 0
	for _, name := range age65PlusVariables {
		age65Plus += getInt(name)
	}

	zip := getString("zip code tabulation area")
	if zip == "" {
		zip = requestZip
	}

	return DemographicRecord{
		Name:                getString("NAME"),
		Population:          population,
		MedianIncome:        getInt("B19013_001E"),
		MedianAge:           parseFloatOrZero(getString("B01002_001E")),
		RaceWhite:           getInt("B02001_002E"),
		RaceBlack:           getInt("B02001_003E"),
		RaceNative:          getInt("B02001_004E"),
		RaceAsian:           getInt("B02001_005E"),
		EducationPopulation: getInt("B15003_001E"),
		EducationBachelors:  getInt("B15003_022E"),
		EducationGraduate:   getInt("B15003_023E") + getInt("B15003_024E") + getInt("B15003_025E"),
		MedianHomeValue:     getInt("B25077_001E"),
		MedianRent:          getInt("B25064_001E"),
		HousingUnits:        getInt("B25002_001E"),
		OwnerOccupied:       getInt("B25002_002E"),
		RenterOccupied:      getInt("B25002_003E"),
		AgeUnder18:          ageUnder18,
		// Goes negative when the source age bands disagree with the
		// population total; passed through unclamped like the source.
		Age18to64:     population - ageUnder18 - age65Plus,
		Age65Plus:     age65Plus,
		CommuteTotal:  getInt("B08301_001E"),
		CommuteDrive:  getInt("B08301_002E"),
		CommutePublic: getInt("B08301_010E"),
		CommuteWfh:    getInt("B08301_021E"),
		ZipCode:       zip,
	}
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
