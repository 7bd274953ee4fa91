// Package application maps Unit application and document resources between the
// JSON:API wire format and typed Go values.
package application

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/guregu/null/v5"

	"unit-client/internal/models"
)

// Resource type discriminators.
const (
	TypeIndividualApplication = "individualApplication"
	TypeBusinessApplication   = "businessApplication"
	TypeDocument              = "document"
)

type ApplicationStatus string

const (
	StatusApproved      ApplicationStatus = "Approved"
	StatusDenied        ApplicationStatus = "Denied"
	StatusPending       ApplicationStatus = "Pending"
	StatusPendingReview ApplicationStatus = "PendingReview"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApproved, StatusDenied, StatusPending, StatusPendingReview:
		return true
	}
	return false
}

type DocumentType string

const (
	DocumentTypeIDDocument                 DocumentType = "IdDocument"
	DocumentTypePassport                   DocumentType = "Passport"
	DocumentTypeAddressVerification        DocumentType = "AddressVerification"
	DocumentTypeCertificateOfIncorporation DocumentType = "CertificateOfIncorporation"
	DocumentTypeEINConfirmation            DocumentType = "EmployerIdentificationNumberConfirmation"
)

func (d DocumentType) Valid() bool {
	switch d {
	case DocumentTypeIDDocument, DocumentTypePassport, DocumentTypeAddressVerification,
		DocumentTypeCertificateOfIncorporation, DocumentTypeEINConfirmation:
		return true
	}
	return false
}

// ReasonCode explains why a document was rejected.
type ReasonCode string

const (
	ReasonPoorQuality     ReasonCode = "PoorQuality"
	ReasonNameMismatch    ReasonCode = "NameMismatch"
	ReasonSSNMismatch     ReasonCode = "SSNMismatch"
	ReasonAddressMismatch ReasonCode = "AddressMismatch"
	ReasonDOBMismatch     ReasonCode = "DOBMismatch"
	ReasonExpiredID       ReasonCode = "ExpiredId"
	ReasonEINMismatch     ReasonCode = "EINMismatch"
	ReasonStateMismatch   ReasonCode = "StateMismatch"
	ReasonOther           ReasonCode = "Other"
)

func (r ReasonCode) Valid() bool {
	switch r {
	case ReasonPoorQuality, ReasonNameMismatch, ReasonSSNMismatch, ReasonAddressMismatch,
		ReasonDOBMismatch, ReasonExpiredID, ReasonEINMismatch, ReasonStateMismatch, ReasonOther:
		return true
	}
	return false
}

// Application is either *IndividualApplication or *BusinessApplication.
// The set is closed: only this package can add implementations.
type Application interface {
	Type() string
	GetID() string
	GetStatus() ApplicationStatus
	isApplication()
}

type IndividualApplication struct {
	ID          string
	CreatedAt   time.Time
	FullName    models.FullName
	Address     models.Address
	DateOfBirth civil.Date
	Email       string
	Phone       models.Phone
	Status      ApplicationStatus

	SSN                null.String
	Message            null.String
	IP                 null.String
	EIN                null.String
	DBA                null.String
	SoleProprietorship null.Bool
	Tags               null.Value[map[string]string]
	Relationships      null.Value[models.Relationships]
}

func (a *IndividualApplication) Type() string                 { return TypeIndividualApplication }
func (a *IndividualApplication) GetID() string                { return a.ID }
func (a *IndividualApplication) GetStatus() ApplicationStatus { return a.Status }
func (a *IndividualApplication) isApplication()               {}

type BusinessApplication struct {
	ID                   string
	CreatedAt            time.Time
	Name                 string
	Address              models.Address
	Phone                models.Phone
	Status               ApplicationStatus
	StateOfIncorporation string
	EntityType           models.EntityType
	Contact              models.BusinessContact
	Officer              models.Officer
	BeneficialOwners     []models.BeneficialOwner

	SSN           null.String
	Message       null.String
	IP            null.String
	EIN           null.String
	DBA           null.String
	Tags          null.Value[map[string]string]
	Relationships null.Value[models.Relationships]
}

func (a *BusinessApplication) Type() string                 { return TypeBusinessApplication }
func (a *BusinessApplication) GetID() string                { return a.ID }
func (a *BusinessApplication) GetStatus() ApplicationStatus { return a.Status }
func (a *BusinessApplication) isApplication()               {}

// ApplicationDocument is a document requested from the applicant during review.
type ApplicationDocument struct {
	ID           string
	Status       ApplicationStatus
	DocumentType DocumentType
	Description  string
	Name         string

	Address     null.Value[models.Address]
	DateOfBirth null.Value[civil.Date]
	Passport    null.String
	EIN         null.String
	ReasonCode  null.Value[ReasonCode]
	Reason      null.String
}

func (d *ApplicationDocument) Type() string { return TypeDocument }
