package models

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/alfagnish/exchange-api/internal/apperr"
	"github.com/alfagnish/exchange-api/internal/optional"
)

// Course is a single course offered by an institution.
type Course struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	InstitutionID string `json:"institution_id"`
	Credits       *int   `json:"credits"`
}

// CourseInput is the request shape of a Course. Pointer fields let the
// validator tell a missing key from a zero value.
type CourseInput struct {
	ID            *int    `json:"id" validate:"required"`
	Name          *string `json:"name" validate:"required"`
	InstitutionID *string `json:"institution_id" validate:"required"`
	Credits       *int    `json:"credits" validate:"omitempty,gte=0"`
}

func (in CourseInput) course() Course {
	return Course{
		ID:            deref(in.ID),
		Name:          deref(in.Name),
		InstitutionID: deref(in.InstitutionID),
		Credits:       clonePtr(in.Credits),
	}
}

func (c Course) input() CourseInput {
	return CourseInput{
		ID:            ptr(c.ID),
		Name:          ptr(c.Name),
		InstitutionID: ptr(c.InstitutionID),
		Credits:       clonePtr(c.Credits),
	}
}

// ConversionBase maps a course taken abroad onto its home equivalent. It is
// also the value embedded in a Destination.
type ConversionBase struct {
	ForeignCourse   Course `json:"foreign_course"`
	HomeCourse      Course `json:"home_course"`
	HostInstitution string `json:"host_institution"`
}

// Conversion is a stored ConversionBase.
type Conversion struct {
	ID uuid.UUID `json:"id"`
	ConversionBase
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversionInput is the create payload for a conversion.
type ConversionInput struct {
	ForeignCourse   *CourseInput `json:"foreign_course" validate:"required"`
	HomeCourse      *CourseInput `json:"home_course" validate:"required"`
	HostInstitution *string      `json:"host_institution" validate:"required"`
}

// Base converts a validated input into its stored value.
func (in ConversionInput) Base() ConversionBase {
	var b ConversionBase
	if in.ForeignCourse != nil {
		b.ForeignCourse = in.ForeignCourse.course()
	}
	if in.HomeCourse != nil {
		b.HomeCourse = in.HomeCourse.course()
	}
	b.HostInstitution = deref(in.HostInstitution)
	return b
}

// Input is the inverse of ConversionInput.Base.
func (b ConversionBase) Input() ConversionInput {
	foreign := b.ForeignCourse.input()
	home := b.HomeCourse.input()
	return ConversionInput{
		ForeignCourse:   &foreign,
		HomeCourse:      &home,
		HostInstitution: ptr(b.HostInstitution),
	}
}

// NewConversion stamps a validated input with its identity.
func NewConversion(id uuid.UUID, in ConversionInput, now time.Time) Conversion {
	return Conversion{ID: id, ConversionBase: in.Base(), CreatedAt: now, UpdatedAt: now}
}

// Replace returns c with its fields taken from in and UpdatedAt set to now.
func (c Conversion) Replace(in ConversionInput, now time.Time) Conversion {
	c.ConversionBase = in.Base()
	c.UpdatedAt = now
	return c
}

// ConversionPatch is the partial update payload; nested courses are replaced
// wholesale.
type ConversionPatch struct {
	ForeignCourse   optional.Value[CourseInput] `json:"foreign_course"`
	HomeCourse      optional.Value[CourseInput] `json:"home_course"`
	HostInstitution optional.Value[string]      `json:"host_institution"`
}

// Apply overwrites the fields of in that are present in p.
func (p ConversionPatch) Apply(in *ConversionInput) {
	optional.ApplyPtr(p.ForeignCourse, &in.ForeignCourse)
	optional.ApplyPtr(p.HomeCourse, &in.HomeCourse)
	optional.ApplyPtr(p.HostInstitution, &in.HostInstitution)
}

// ConversionFilter selects conversions by exact equality.
type ConversionFilter struct {
	HomeCourseName  *string
	HomeCourseID    *int
	HostInstitution *string
}

// ParseConversionFilter reads the list query parameters.
func ParseConversionFilter(q url.Values) (ConversionFilter, error) {
	f := ConversionFilter{
		HomeCourseName:  queryString(q, "home_course_name"),
		HostInstitution: queryString(q, "host_institution"),
	}
	if raw := queryString(q, "home_course_id"); raw != nil {
		id, err := strconv.Atoi(*raw)
		if err != nil {
			return f, &apperr.ValidationError{Fields: []apperr.FieldError{{
				Type:  "int_parsing",
				Loc:   []any{"query", "home_course_id"},
				Msg:   "Input should be a valid integer, unable to parse string as an integer",
				Input: *raw,
			}}}
		}
		f.HomeCourseID = &id
	}
	return f, nil
}

// Match reports whether c satisfies every set criterion.
func (f ConversionFilter) Match(c Conversion) bool {
	return eq(f.HomeCourseName, c.HomeCourse.Name) &&
		eq(f.HomeCourseID, c.HomeCourse.ID) &&
		eq(f.HostInstitution, c.HostInstitution)
}
