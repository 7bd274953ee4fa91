// internal/models/types.go
package models

import (
	"cloud.google.com/go/civil"

	"unit-client/internal/common/dates"
)

// EntityType is the legal form of a business applicant.
type EntityType string

const (
	EntityTypeCorporation EntityType = "Corporation"
	EntityTypeLLC         EntityType = "LLC"
	EntityTypePartnership EntityType = "Partnership"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityTypeCorporation, EntityTypeLLC, EntityTypePartnership:
		return true
	}
	return false
}

type FullName struct {
	First string `json:"first" validate:"required"`
	Last  string `json:"last" validate:"required"`
}

func ParseFullName(raw interface{}) (FullName, error) {
	const resource = "fullName"
	attrs, err := ObjectOf(resource, raw)
	if err != nil {
		return FullName{}, err
	}
	first, err := attrs.RequireString(resource, "first")
	if err != nil {
		return FullName{}, err
	}
	last, err := attrs.RequireString(resource, "last")
	if err != nil {
		return FullName{}, err
	}
	return FullName{First: first, Last: last}, nil
}

type Address struct {
	Street     string `json:"street" validate:"required"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required,len=2"`
}

func ParseAddress(raw interface{}) (Address, error) {
	const resource = "address"
	attrs, err := ObjectOf(resource, raw)
	if err != nil {
		return Address{}, err
	}

	var addr Address
	required := []struct {
		key string
		dst *string
	}{
		{"street", &addr.Street},
		{"city", &addr.City},
		{"postalCode", &addr.PostalCode},
		{"country", &addr.Country},
	}
	for _, f := range required {
		if *f.dst, err = attrs.RequireString(resource, f.key); err != nil {
			return Address{}, err
		}
	}

	street2, err := attrs.OptionalString(resource, "street2")
	if err != nil {
		return Address{}, err
	}
	state, err := attrs.OptionalString(resource, "state")
	if err != nil {
		return Address{}, err
	}
	addr.Street2 = street2.ValueOrZero()
	addr.State = state.ValueOrZero()
	return addr, nil
}

type Phone struct {
	CountryCode string `json:"countryCode" validate:"required,numeric"`
	Number      string `json:"number" validate:"required,numeric"`
}

func ParsePhone(raw interface{}) (Phone, error) {
	const resource = "phone"
	attrs, err := ObjectOf(resource, raw)
	if err != nil {
		return Phone{}, err
	}
	code, err := attrs.RequireString(resource, "countryCode")
	if err != nil {
		return Phone{}, err
	}
	number, err := attrs.RequireString(resource, "number")
	if err != nil {
		return Phone{}, err
	}
	return Phone{CountryCode: code, Number: number}, nil
}

type BusinessContact struct {
	FullName FullName `json:"fullName"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    Phone    `json:"phone"`
}

func ParseBusinessContact(raw interface{}) (BusinessContact, error) {
	const resource = "contact"
	attrs, err := ObjectOf(resource, raw)
	if err != nil {
		return BusinessContact{}, err
	}
	fullName, err := RequireNested(attrs, resource, "fullName", ParseFullName)
	if err != nil {
		return BusinessContact{}, err
	}
	email, err := attrs.RequireString(resource, "email")
	if err != nil {
		return BusinessContact{}, err
	}
	phone, err := RequireNested(attrs, resource, "phone", ParsePhone)
	if err != nil {
		return BusinessContact{}, err
	}
	return BusinessContact{FullName: fullName, Email: email, Phone: phone}, nil
}

// Person carries the identity fields shared by officers and beneficial owners.
type Person struct {
	FullName    FullName   `json:"fullName"`
	SSN         string     `json:"ssn,omitempty"`
	Passport    string     `json:"passport,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
	DateOfBirth civil.Date `json:"dateOfBirth"`
	Address     Address    `json:"address"`
	Phone       Phone      `json:"phone"`
	Email       string     `json:"email" validate:"required,email"`
	Status      string     `json:"status,omitempty"`
}

func parsePerson(resource string, attrs Attributes) (Person, error) {
	var p Person
	var err error

	if p.FullName, err = RequireNested(attrs, resource, "fullName", ParseFullName); err != nil {
		return Person{}, err
	}
	dob, err := attrs.RequireString(resource, "dateOfBirth")
	if err != nil {
		return Person{}, err
	}
	if p.DateOfBirth, err = dates.ToDate(dob); err != nil {
		return Person{}, err
	}
	if p.Address, err = RequireNested(attrs, resource, "address", ParseAddress); err != nil {
		return Person{}, err
	}
	if p.Phone, err = RequireNested(attrs, resource, "phone", ParsePhone); err != nil {
		return Person{}, err
	}
	if p.Email, err = attrs.RequireString(resource, "email"); err != nil {
		return Person{}, err
	}

	optional := []struct {
		key string
		dst *string
	}{
		{"ssn", &p.SSN},
		{"passport", &p.Passport},
		{"nationality", &p.Nationality},
		{"status", &p.Status},
	}
	for _, f := range optional {
		v, err := attrs.OptionalString(resource, f.key)
		if err != nil {
			return Person{}, err
		}
		*f.dst = v.ValueOrZero()
	}
	return p, nil
}

type Officer struct {
	Person
	Title string `json:"title,omitempty"`
}

func ParseOfficer(raw interface{}) (Officer, error) {
	const resource = "officer"
	attrs, err := ObjectOf(resource, raw)
	if err != nil {
		return Officer{}, err
	}
	person, err := parsePerson(resource, attrs)
	if err != nil {
		return Officer{}, err
	}
	title, err := attrs.OptionalString(resource, "title")
	if err != nil {
		return Officer{}, err
	}
	return Officer{Person: person, Title: title.ValueOrZero()}, nil
}

type BeneficialOwner struct {
	Person
	Percentage int64 `json:"percentage,omitempty" validate:"gte=0,lte=100"`
}

func ParseBeneficialOwner(raw interface{}) (BeneficialOwner, error) {
	const resource = "beneficialOwner"
	attrs, err := ObjectOf(resource, raw)
	if err != nil {
		return BeneficialOwner{}, err
	}
	person, err := parsePerson(resource, attrs)
	if err != nil {
		return BeneficialOwner{}, err
	}
	pct, err := attrs.OptionalInt(resource, "percentage")
	if err != nil {
		return BeneficialOwner{}, err
	}
	return BeneficialOwner{Person: person, Percentage: pct.ValueOrZero()}, nil
}

// ParseBeneficialOwners decodes the "beneficialOwners" array in wire order.
func ParseBeneficialOwners(raw interface{}) ([]BeneficialOwner, error) {
	return ParseList("businessApplication", "beneficialOwners", raw, ParseBeneficialOwner)
}
