package application

import (
	"time"

	"github.com/guregu/null/v5"

	"unit-client/internal/common/dates"
	apperrors "unit-client/internal/common/errors"
	"unit-client/internal/models"
)

// optionalStrings lists the optional free-text attributes shared by both application kinds.
type optionalStrings struct {
	SSN, Message, IP, EIN, DBA null.String
}

func decodeOptionalStrings(resource string, attrs models.Attributes) (optionalStrings, error) {
	var out optionalStrings
	fields := []struct {
		key string
		dst *null.String
	}{
		{"ssn", &out.SSN},
		{"message", &out.Message},
		{"ip", &out.IP},
		{"ein", &out.EIN},
		{"dba", &out.DBA},
	}
	for _, f := range fields {
		v, err := attrs.OptionalString(resource, f.key)
		if err != nil {
			return optionalStrings{}, err
		}
		*f.dst = v
	}
	return out, nil
}

func requireStatus(resource string, attrs models.Attributes) (ApplicationStatus, error) {
	s, err := attrs.RequireString(resource, "status")
	if err != nil {
		return "", err
	}
	status := ApplicationStatus(s)
	if !status.Valid() {
		return "", apperrors.NewInvalidEnumValueError(resource, "status", s)
	}
	return status, nil
}

func requireEntityType(resource string, attrs models.Attributes) (models.EntityType, error) {
	s, err := attrs.RequireString(resource, "entityType")
	if err != nil {
		return "", err
	}
	e := models.EntityType(s)
	if !e.Valid() {
		return "", apperrors.NewInvalidEnumValueError(resource, "entityType", s)
	}
	return e, nil
}

func requireTimestamp(resource, key string, attrs models.Attributes) (time.Time, error) {
	s, err := attrs.RequireString(resource, key)
	if err != nil {
		return time.Time{}, err
	}
	return dates.ToDateTime(s)
}

func requireID(resource, id string) error {
	if id == "" {
		return apperrors.NewMissingFieldError(resource, "id")
	}
	return nil
}

func wrapRelationships(rels models.Relationships) null.Value[models.Relationships] {
	if rels == nil {
		return null.Value[models.Relationships]{}
	}
	return null.ValueFrom(rels)
}

// IndividualApplicationFromJSONAPI builds an individual application from an unwrapped
// resource. resourceType is accepted for symmetry with the other decoders and is not
// checked; routing by type is the caller's job (see ApplicationFromJSONAPI).
func IndividualApplicationFromJSONAPI(id, resourceType string, attrs models.Attributes, rels models.Relationships) (*IndividualApplication, error) {
	const resource = TypeIndividualApplication
	if err := requireID(resource, id); err != nil {
		return nil, err
	}
	app := &IndividualApplication{ID: id}
	var err error

	if app.CreatedAt, err = requireTimestamp(resource, "createdAt", attrs); err != nil {
		return nil, err
	}
	if app.FullName, err = models.RequireNested(attrs, resource, "fullName", models.ParseFullName); err != nil {
		return nil, err
	}
	if app.Address, err = models.RequireNested(attrs, resource, "address", models.ParseAddress); err != nil {
		return nil, err
	}
	dob, err := attrs.RequireString(resource, "dateOfBirth")
	if err != nil {
		return nil, err
	}
	if app.DateOfBirth, err = dates.ToDate(dob); err != nil {
		return nil, err
	}
	if app.Email, err = attrs.RequireString(resource, "email"); err != nil {
		return nil, err
	}
	if app.Phone, err = models.RequireNested(attrs, resource, "phone", models.ParsePhone); err != nil {
		return nil, err
	}
	if app.Status, err = requireStatus(resource, attrs); err != nil {
		return nil, err
	}

	opt, err := decodeOptionalStrings(resource, attrs)
	if err != nil {
		return nil, err
	}
	app.SSN, app.Message, app.IP, app.EIN, app.DBA = opt.SSN, opt.Message, opt.IP, opt.EIN, opt.DBA

	if app.SoleProprietorship, err = attrs.OptionalBool(resource, "soleProprietorship"); err != nil {
		return nil, err
	}
	if app.Tags, err = attrs.OptionalStringMap(resource, "tags"); err != nil {
		return nil, err
	}
	app.Relationships = wrapRelationships(rels)

	return app, nil
}

// BusinessApplicationFromJSONAPI builds a business application from an unwrapped
// resource. resourceType is not checked.
func BusinessApplicationFromJSONAPI(id, resourceType string, attrs models.Attributes, rels models.Relationships) (*BusinessApplication, error) {
	const resource = TypeBusinessApplication
	if err := requireID(resource, id); err != nil {
		return nil, err
	}
	app := &BusinessApplication{ID: id}
	var err error

	if app.CreatedAt, err = requireTimestamp(resource, "createdAt", attrs); err != nil {
		return nil, err
	}
	if app.Name, err = attrs.RequireString(resource, "name"); err != nil {
		return nil, err
	}
	if app.Address, err = models.RequireNested(attrs, resource, "address", models.ParseAddress); err != nil {
		return nil, err
	}
	if app.Phone, err = models.RequireNested(attrs, resource, "phone", models.ParsePhone); err != nil {
		return nil, err
	}
	if app.Status, err = requireStatus(resource, attrs); err != nil {
		return nil, err
	}
	if app.StateOfIncorporation, err = attrs.RequireString(resource, "stateOfIncorporation"); err != nil {
		return nil, err
	}
	if app.EntityType, err = requireEntityType(resource, attrs); err != nil {
		return nil, err
	}
	if app.Contact, err = models.RequireNested(attrs, resource, "contact", models.ParseBusinessContact); err != nil {
		return nil, err
	}
	if app.Officer, err = models.RequireNested(attrs, resource, "officer", models.ParseOfficer); err != nil {
		return nil, err
	}
	if app.BeneficialOwners, err = models.RequireNested(attrs, resource, "beneficialOwners", models.ParseBeneficialOwners); err != nil {
		return nil, err
	}

	opt, err := decodeOptionalStrings(resource, attrs)
	if err != nil {
		return nil, err
	}
	app.SSN, app.Message, app.IP, app.EIN, app.DBA = opt.SSN, opt.Message, opt.IP, opt.EIN, opt.DBA

	if app.Tags, err = attrs.OptionalStringMap(resource, "tags"); err != nil {
		return nil, err
	}
	app.Relationships = wrapRelationships(rels)

	return app, nil
}

// ApplicationDocumentFromJSONAPI builds a document from an unwrapped resource.
func ApplicationDocumentFromJSONAPI(id, resourceType string, attrs models.Attributes) (*ApplicationDocument, error) {
	const resource = TypeDocument
	if err := requireID(resource, id); err != nil {
		return nil, err
	}
	doc := &ApplicationDocument{ID: id}
	var err error

	if doc.Status, err = requireStatus(resource, attrs); err != nil {
		return nil, err
	}
	docType, err := attrs.RequireString(resource, "documentType")
	if err != nil {
		return nil, err
	}
	doc.DocumentType = DocumentType(docType)
	if !doc.DocumentType.Valid() {
		return nil, apperrors.NewInvalidEnumValueError(resource, "documentType", docType)
	}
	if doc.Description, err = attrs.RequireString(resource, "description"); err != nil {
		return nil, err
	}
	if doc.Name, err = attrs.RequireString(resource, "name"); err != nil {
		return nil, err
	}

	if doc.Address, err = models.OptionalNested(attrs, resource, "address", models.ParseAddress); err != nil {
		return nil, err
	}
	dob, err := attrs.OptionalString(resource, "dateOfBirth")
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		d, err := dates.ToDate(dob.String)
		if err != nil {
			return nil, err
		}
		doc.DateOfBirth = null.ValueFrom(d)
	}
	if doc.Passport, err = attrs.OptionalString(resource, "passport"); err != nil {
		return nil, err
	}
	if doc.EIN, err = attrs.OptionalString(resource, "ein"); err != nil {
		return nil, err
	}
	reason, err := attrs.OptionalString(resource, "reasonCode")
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		code := ReasonCode(reason.String)
		if !code.Valid() {
			return nil, apperrors.NewInvalidEnumValueError(resource, "reasonCode", reason.String)
		}
		doc.ReasonCode = null.ValueFrom(code)
	}
	if doc.Reason, err = attrs.OptionalString(resource, "reason"); err != nil {
		return nil, err
	}

	return doc, nil
}

// ApplicationFromJSONAPI picks the decoder matching resourceType.
func ApplicationFromJSONAPI(id, resourceType string, attrs models.Attributes, rels models.Relationships) (Application, error) {
	switch resourceType {
	case TypeIndividualApplication:
		app, err := IndividualApplicationFromJSONAPI(id, resourceType, attrs, rels)
		if err != nil {
			return nil, err
		}
		return app, nil
	case TypeBusinessApplication:
		app, err := BusinessApplicationFromJSONAPI(id, resourceType, attrs, rels)
		if err != nil {
			return nil, err
		}
		return app, nil
	default:
		return nil, apperrors.NewUnexpectedResourceTypeError(resourceType)
	}
}
