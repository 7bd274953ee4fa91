package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/guregu/null/v5"

	"unit-client/internal/common/dates"
	apperrors "unit-client/internal/common/errors"
	"unit-client/internal/models"
)

var validate = validator.New()

// CreateApplicationRequest is an outbound request body for POST /applications.
type CreateApplicationRequest interface {
	ToJSONAPI() map[string]interface{}
	Validate() error
}

type CreateIndividualApplicationRequest struct {
	FullName    models.FullName
	DateOfBirth civil.Date
	Address     models.Address
	Email       string `validate:"required,email"`
	Phone       models.Phone

	IP                 null.String
	EIN                null.String
	DBA                null.String
	SoleProprietorship null.Bool
	SSN                null.String
}

// ToJSONAPI builds the request body. Optional fields are emitted only when present and
// non-empty; a present false SoleProprietorship is omitted as well.
func (r CreateIndividualApplicationRequest) ToJSONAPI() map[string]interface{} {
	attrs := map[string]interface{}{
		"fullName":    r.FullName,
		"dateOfBirth": dates.ToDateStr(r.DateOfBirth),
		"address":     r.Address,
		"email":       r.Email,
		"phone":       r.Phone,
	}
	putString(attrs, "ip", r.IP)
	putString(attrs, "ein", r.EIN)
	putString(attrs, "dba", r.DBA)
	if r.SoleProprietorship.Valid && r.SoleProprietorship.Bool {
		attrs["soleProprietorship"] = true
	}
	putString(attrs, "ssn", r.SSN)

	return envelope(TypeIndividualApplication, attrs)
}

func (r CreateIndividualApplicationRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToJSONAPI())
}

func (r CreateIndividualApplicationRequest) Validate() error {
	if !r.DateOfBirth.IsValid() {
		return apperrors.NewRequestValidationFailedError("DateOfBirth: invalid date")
	}
	return validationError(validate.Struct(r))
}

type CreateBusinessApplicationRequest struct {
	Name                 string `validate:"required"`
	Address              models.Address
	Phone                models.Phone
	StateOfIncorporation string `validate:"required,len=2"`
	EIN                  string `validate:"required,numeric,len=9"`
	Contact              models.BusinessContact
	Officer              models.Officer
	BeneficialOwners     []models.BeneficialOwner `validate:"dive"`
	EntityType           models.EntityType

	DBA     null.String
	IP      null.String
	Website null.String
}

func (r CreateBusinessApplicationRequest) ToJSONAPI() map[string]interface{} {
	owners := r.BeneficialOwners
	if owners == nil {
		owners = []models.BeneficialOwner{}
	}
	attrs := map[string]interface{}{
		"name":                 r.Name,
		"address":              r.Address,
		"phone":                r.Phone,
		"stateOfIncorporation": r.StateOfIncorporation,
		"ein":                  r.EIN,
		"contact":              r.Contact,
		"officer":              r.Officer,
		"beneficialOwners":     owners,
		"entityType":           r.EntityType,
	}
	putString(attrs, "dba", r.DBA)
	putString(attrs, "ip", r.IP)
	putString(attrs, "website", r.Website)

	return envelope(TypeBusinessApplication, attrs)
}

func (r CreateBusinessApplicationRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToJSONAPI())
}

func (r CreateBusinessApplicationRequest) Validate() error {
	if !r.EntityType.Valid() {
		return apperrors.NewRequestValidationFailedError(fmt.Sprintf("EntityType: %q is not a valid entity type", r.EntityType))
	}
	if !r.Officer.DateOfBirth.IsValid() {
		return apperrors.NewRequestValidationFailedError("Officer.DateOfBirth: invalid date")
	}
	for i, owner := range r.BeneficialOwners {
		if !owner.DateOfBirth.IsValid() {
			return apperrors.NewRequestValidationFailedError(fmt.Sprintf("BeneficialOwners[%d].DateOfBirth: invalid date", i))
		}
	}
	return validationError(validate.Struct(r))
}

func putString(attrs map[string]interface{}, key string, v null.String) {
	if v.Valid && v.String != "" {
		attrs[key] = v.String
	}
}

func envelope(resourceType string, attrs map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"type":       resourceType,
			"attributes": attrs,
		},
	}
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewRequestValidationFailedError(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return apperrors.NewRequestValidationFailedError(strings.Join(msgs, "; "))
}
