package models

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfagnish/exchange-api/internal/apperr"
)

var t0 = time.Date(2025, 1, 15, 10, 20, 30, 0, time.UTC)

func sampleConversion() ConversionInput {
	return ConversionInput{
		ForeignCourse:   &CourseInput{ID: ptr(123), Name: ptr("Intro to CS"), InstitutionID: ptr("ABC124"), Credits: ptr(3)},
		HomeCourse:      &CourseInput{ID: ptr(456), Name: ptr("Data Structures"), InstitutionID: ptr("ABC123")},
		HostInstitution: ptr("University of Oxford"),
	}
}

func TestConversionPatchReplacesOnlyPresentFields(t *testing.T) {
	conv := NewConversion(uuid.New(), sampleConversion(), t0)

	var patch ConversionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"host_institution":"MIT"}`), &patch))

	in := conv.Input()
	patch.Apply(&in)
	later := t0.Add(time.Minute)
	got := conv.Replace(in, later)

	assert.Equal(t, conv.ID, got.ID)
	assert.Equal(t, t0, got.CreatedAt)
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, "MIT", got.HostInstitution)
	assert.Equal(t, conv.ForeignCourse, got.ForeignCourse)
	assert.Equal(t, conv.HomeCourse, got.HomeCourse)
}

func TestConversionPatchReplacesNestedCourseWholesale(t *testing.T) {
	conv := NewConversion(uuid.New(), sampleConversion(), t0)

	var patch ConversionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"foreign_course":{"id":9,"name":"Compilers","institution_id":"ZZZ999"}}`), &patch))

	in := conv.Input()
	patch.Apply(&in)
	got := conv.Replace(in, t0)

	assert.Equal(t, Course{ID: 9, Name: "Compilers", InstitutionID: "ZZZ999"}, got.ForeignCourse)
	assert.Nil(t, got.ForeignCourse.Credits)
}

func TestConversionPatchNullClearsRequiredField(t *testing.T) {
	conv := NewConversion(uuid.New(), sampleConversion(), t0)

	var patch ConversionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"home_course":null}`), &patch))

	in := conv.Input()
	patch.Apply(&in)
	assert.Nil(t, in.HomeCourse)
}

func TestInputDoesNotAliasRecord(t *testing.T) {
	conv := NewConversion(uuid.New(), sampleConversion(), t0)

	in := conv.Input()
	*in.ForeignCourse.Credits = 99
	assert.Equal(t, 3, *conv.ForeignCourse.Credits)
}

func TestDestinationConversionsStayNullUntilSet(t *testing.T) {
	in := DestinationInput{
		DestID: ptr("ABC123"), Name: ptr("UW"), Continent: ptr("North America"),
		Country: ptr("United States"), Department: ptr("CSE"),
	}
	d := NewDestination(uuid.New(), in, t0)
	assert.Nil(t, d.Conversions)
	assert.Nil(t, d.Input().Conversions)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"conversions":null`)

	var patch DestinationPatch
	require.NoError(t, json.Unmarshal([]byte(`{"conversions":[]}`), &patch))
	merged := d.Input()
	patch.Apply(&merged)
	assert.NotNil(t, d.Replace(merged, t0).Conversions)
}

func TestPersonAddressesDefaultToEmpty(t *testing.T) {
	p := NewPerson(uuid.New(), PersonInput{
		UNI: ptr("ab1234"), FirstName: ptr("Ada"), LastName: ptr("Lovelace"), Email: ptr("ada@example.com"),
	}, t0)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"addresses":[]`)
}

func TestDestIDPattern(t *testing.T) {
	assert.True(t, DestIDPattern.MatchString("ABC123"))
	for _, bad := range []string{"ab123", "abc123", "ABC12", "ABCD123", "ABC1234", ""} {
		assert.False(t, DestIDPattern.MatchString(bad), bad)
	}
}

func TestParseConversionFilter(t *testing.T) {
	f, err := ParseConversionFilter(url.Values{"home_course_id": {"456"}})
	require.NoError(t, err)
	require.NotNil(t, f.HomeCourseID)
	assert.Equal(t, 456, *f.HomeCourseID)
	assert.Nil(t, f.HostInstitution)

	_, err = ParseConversionFilter(url.Values{"home_course_id": {"abc"}})
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, queryLoc, verr.Fields[0].Loc)
	assert.Equal(t, "int_parsing", verr.Fields[0].Type)
}

var queryLoc = []any{"query", "home_course_id"}

func TestFilterMatching(t *testing.T) {
	state := "NY"
	addr := Address{AddressBase: AddressBase{Street: "116th St", City: "New York", State: &state, Country: "USA"}}
	noState := Address{AddressBase: AddressBase{Street: "Main", City: "Toronto", Country: "Canada"}}

	tests := []struct {
		name  string
		query url.Values
		rec   Address
		want  bool
	}{
		{"no criteria", url.Values{}, noState, true},
		{"exact city", url.Values{"city": {"New York"}}, addr, true},
		{"case sensitive", url.Values{"city": {"new york"}}, addr, false},
		{"optional field set", url.Values{"state": {"NY"}}, addr, true},
		{"optional field unset", url.Values{"state": {"NY"}}, noState, false},
		{"all criteria", url.Values{"city": {"New York"}, "country": {"Canada"}}, addr, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddressFilter(tt.query).Match(tt.rec))
		})
	}
}

func TestDestinationFilterHostInstitution(t *testing.T) {
	d := Destination{DestinationBase: DestinationBase{
		DestID: "ABC123",
		Conversions: []ConversionBase{
			{HostInstitution: "Oxford"},
			{HostInstitution: "MIT"},
		},
	}}
	empty := Destination{DestinationBase: DestinationBase{DestID: "XYZ999"}}

	f := ParseDestinationFilter(url.Values{"host_institution": {"MIT"}})
	assert.True(t, f.Match(d))
	assert.False(t, f.Match(empty))
}
