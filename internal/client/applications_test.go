package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/alicebob/miniredis/v2"
	"github.com/guregu/null/v5"
	"github.com/h2non/gock"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"unit-client/internal/application"
	"unit-client/internal/common/cache"
	"unit-client/internal/common/config"
	apperrors "unit-client/internal/common/errors"
	"unit-client/internal/common/logger"
	"unit-client/internal/common/observability"
	"unit-client/internal/models"
)

const testBaseURL = "https://api.unit.test"

// ==========================
// Test Helper Functions
// ==========================

func testConfig() config.UnitConfig {
	return config.UnitConfig{
		BaseURL:   testBaseURL,
		Token:     "secret-token",
		Timeout:   5000,
		UserAgent: "unit-client-test",
	}
}

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := cache.NewRedis(config.RedisConfig{Address: mr.Addr()}, config.CacheConfig{Enabled: true, TTL: 60, KeyPrefix: "unit"})
	t.Cleanup(func() { c.Close() })
	return c, mr
}

const individualBody = `{
	"data": {
		"type": "individualApplication",
		"id": "53",
		"attributes": {
			"createdAt": "2021-01-05T00:00:00Z",
			"fullName": {"first": "Peter", "last": "Parker"},
			"address": {"street": "20 Ingram St", "city": "Forest Hills", "state": "NY", "postalCode": "11375", "country": "US"},
			"dateOfBirth": "1990-01-01",
			"email": "a@b.com",
			"phone": {"countryCode": "1", "number": "5555555555"},
			"status": "Pending",
			"ssn": "721074426"
		},
		"relationships": {
			"org": {"data": {"type": "org", "id": "1"}},
			"documents": {"data": [{"type": "document", "id": "1"}]}
		}
	}
}`

const documentsBody = `{
	"data": [
		{"type": "document", "id": "1", "attributes": {"documentType": "IdDocument", "status": "Pending", "description": "Photo ID", "name": "Peter Parker"}},
		{"type": "document", "id": "2", "attributes": {"documentType": "AddressVerification", "status": "Denied", "description": "Utility bill", "name": "Peter Parker", "reasonCode": "AddressMismatch"}}
	]
}`

func newIndividualRequest() application.CreateIndividualApplicationRequest {
	return application.CreateIndividualApplicationRequest{
		FullName:    models.FullName{First: "Peter", Last: "Parker"},
		DateOfBirth: civil.Date{Year: 1990, Month: time.January, Day: 1},
		Address: models.Address{
			Street: "20 Ingram St", City: "Forest Hills", State: "NY", PostalCode: "11375", Country: "US",
		},
		Email: "a@b.com",
		Phone: models.Phone{CountryCode: "1", Number: "5555555555"},
		SSN:   null.StringFrom("721074426"),
	}
}

// ==========================
// CreateApplication
// ==========================

func TestClient_CreateApplication(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Post("/applications").
		MatchHeader("Authorization", "Bearer secret-token").
		AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
			return req.Header.Get("X-Request-Id") != "", nil
		}).
		Reply(http.StatusCreated).
		BodyString(individualBody)

	core, logs := observer.New(zap.InfoLevel)
	c := New(testConfig(), logger.NewZapAdapter(zap.New(core)))

	app, err := c.CreateApplication(context.Background(), newIndividualRequest())
	require.NoError(t, err)
	assert.True(t, gock.IsDone())

	individual, ok := app.(*application.IndividualApplication)
	require.True(t, ok)
	assert.Equal(t, "53", individual.ID)
	assert.Equal(t, application.StatusPending, individual.Status)
	assert.Equal(t, "721074426", individual.SSN.String)
	assert.True(t, individual.Relationships.V["documents"].IsToMany())

	entries := logs.FilterMessage("Application created").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "53", entries[0].ContextMap()["application_id"])
}

func TestClient_CreateApplication_InvalidRequest(t *testing.T) {
	defer gock.Off()

	req := newIndividualRequest()
	req.Email = "not-an-email"

	c := New(testConfig(), logger.NewTestLogger(t))
	_, err := c.CreateApplication(context.Background(), req)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRequestValidationFailed))
	assert.False(t, gock.HasUnmatchedRequest(), "no request should be sent")
}

func TestClient_CreateApplication_APIError(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Post("/applications").
		Reply(http.StatusBadRequest).
		BodyString(`{"errors": [{"title": "Bad Request", "detail": "dateOfBirth must be in the past"}]}`)

	core, logs := observer.New(zap.ErrorLevel)
	c := New(testConfig(), logger.NewZapAdapter(zap.New(core)))

	app, err := c.CreateApplication(context.Background(), newIndividualRequest())
	assert.Nil(t, app)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAPIRequestFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "dateOfBirth must be in the past")
	assert.False(t, stdErr.Retryable)

	entries := logs.FilterMessage("Unit API request failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "API_REQUEST_FAILED", fields["error_code"])
	assert.Equal(t, "TRANSPORT", fields["error_category"])
}

// ==========================
// GetApplication
// ==========================

func TestClient_GetApplication_ReadThroughCache(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53").
		Times(1).
		Reply(http.StatusOK).
		BodyString(individualBody)

	rc, mr := setupCache(t)
	c := New(testConfig(), logger.NewTestLogger(t), WithCache(rc))

	first, err := c.GetApplication(context.Background(), "53")
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
	assert.True(t, mr.Exists("unit:application:53"))

	second, err := c.GetApplication(context.Background(), "53")
	require.NoError(t, err, "second call must be served from cache")
	assert.Equal(t, first, second)
}

func TestClient_GetApplication_CacheDown(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53").
		Reply(http.StatusOK).
		BodyString(individualBody)

	rc, mr := setupCache(t)
	mr.Close()

	core, logs := observer.New(zap.WarnLevel)
	c := New(testConfig(), logger.NewZapAdapter(zap.New(core)), WithCache(rc))

	app, err := c.GetApplication(context.Background(), "53")
	require.NoError(t, err)
	assert.Equal(t, "53", app.GetID())
	assert.Equal(t, 1, logs.FilterMessage("Cache lookup failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Cache write failed").Len())
}

func TestClient_GetApplication_BadCacheEntry(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53").
		Reply(http.StatusOK).
		BodyString(individualBody)

	rc, mr := setupCache(t)
	require.NoError(t, mr.Set("unit:application:53", `{"data": "garbage"}`))

	c := New(testConfig(), logger.NewTestLogger(t), WithCache(rc))
	app, err := c.GetApplication(context.Background(), "53")
	require.NoError(t, err)
	assert.Equal(t, application.TypeIndividualApplication, app.Type())
	assert.True(t, gock.IsDone())
}

func TestClient_GetApplication_BadCacheEntryEvicted(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53").
		Reply(http.StatusNotFound).
		BodyString(`{"errors": [{"title": "Not Found"}]}`)

	rc, mr := setupCache(t)
	require.NoError(t, mr.Set("unit:application:53", `{"data": "garbage"}`))

	c := New(testConfig(), logger.NewTestLogger(t), WithCache(rc))
	_, err := c.GetApplication(context.Background(), "53")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAPIRequestFailed))
	assert.False(t, mr.Exists("unit:application:53"), "undecodable entry must not survive a failed refetch")
}

func TestClient_GetApplication_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{"errors": [{"title": "Not Found"}]}`,
			wantCode: apperrors.ErrCodeAPIRequestFailed,
		},
		{
			name:     "unexpected type",
			status:   http.StatusOK,
			body:     `{"data": {"type": "trustApplication", "id": "53", "attributes": {}}}`,
			wantCode: apperrors.ErrCodeUnexpectedResourceType,
		},
		{
			name:     "bad envelope",
			status:   http.StatusOK,
			body:     `{"data": {"id": "53"}}`,
			wantCode: apperrors.ErrCodeEnvelopeInvalid,
		},
		{
			name:     "missing id",
			status:   http.StatusOK,
			body:     `{"data": {"type": "individualApplication", "attributes": {"createdAt": "2021-01-05T00:00:00Z"}}}`,
			wantCode: apperrors.ErrCodeEnvelopeInvalid,
		},
		{
			name:     "missing status",
			status:   http.StatusOK,
			body:     `{"data": {"type": "businessApplication", "id": "53", "attributes": {"createdAt": "2021-01-05T00:00:00Z", "name": "Acme"}}}`,
			wantCode: apperrors.ErrCodeMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			gock.New(testBaseURL).
				Get("/applications/53").
				Reply(tt.status).
				BodyString(tt.body)

			c := New(testConfig(), logger.NewTestLogger(t))
			app, err := c.GetApplication(context.Background(), "53")
			assert.Nil(t, app)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

// ==========================
// ListDocuments
// ==========================

func TestClient_ListDocuments(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53/documents").
		Reply(http.StatusOK).
		BodyString(documentsBody)

	c := New(testConfig(), nil)
	docs, err := c.ListDocuments(context.Background(), "53")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, application.DocumentTypeIDDocument, docs[0].DocumentType)
	assert.False(t, docs[0].ReasonCode.Valid)
	assert.Equal(t, application.StatusDenied, docs[1].Status)
	assert.Equal(t, application.ReasonAddressMismatch, docs[1].ReasonCode.V)
}

func TestClient_ListDocuments_Empty(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53/documents").
		Reply(http.StatusOK).
		BodyString(`{"data": []}`)

	docs, err := New(testConfig(), nil).ListDocuments(context.Background(), "53")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDecodeDocuments_WrongType(t *testing.T) {
	_, err := DecodeDocuments([]byte(`{"data": [{"type": "individualApplication", "id": "1", "attributes": {}}]}`))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnexpectedResourceType))
}

func TestDecodeDocument(t *testing.T) {
	d, err := DecodeDocument([]byte(`{"data": {"type": "document", "id": "7", "attributes": {"documentType": "Passport", "status": "Approved", "description": "Passport", "name": "Peter Parker", "passport": "X123"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "X123", d.Passport.String)
}

// ==========================
// Tracing
// ==========================

func TestClient_Tracing(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53").
		MatchHeader("traceparent", ".+").
		Reply(http.StatusOK).
		BodyString(individualBody)

	recorder := tracetest.NewSpanRecorder()
	obs, err := observability.New("unit-client-test", promclient.NewRegistry(), sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	c := New(testConfig(), logger.NewTestLogger(t), WithObservability(obs))
	_, err = c.GetApplication(context.Background(), "53")
	require.NoError(t, err)
	assert.True(t, gock.IsDone())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /applications/{id}", spans[0].Name())
}

// ==========================
// Retries
// ==========================

func TestClient_GetApplication_RetriesServerErrors(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53").
		Times(2).
		Reply(http.StatusServiceUnavailable).
		BodyString(`{"errors": [{"title": "Service Unavailable"}]}`)
	gock.New(testBaseURL).
		Get("/applications/53").
		Reply(http.StatusOK).
		BodyString(individualBody)

	cfg := testConfig()
	cfg.MaxRetries = 3
	cfg.RetryDelay = 1

	core, logs := observer.New(zap.WarnLevel)
	c := New(cfg, logger.NewZapAdapter(zap.New(core)))

	app, err := c.GetApplication(context.Background(), "53")
	require.NoError(t, err)
	assert.Equal(t, "53", app.GetID())
	assert.True(t, gock.IsDone())
	assert.Equal(t, 2, logs.FilterMessage("GET /applications/{id} failed, retrying...").Len())
}

func TestClient_GetApplication_RetriesExhausted(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Get("/applications/53").
		Times(2).
		Reply(http.StatusBadGateway)

	cfg := testConfig()
	cfg.MaxRetries = 2
	cfg.RetryDelay = 1

	c := New(cfg, logger.NewTestLogger(t))
	_, err := c.GetApplication(context.Background(), "53")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAPIRequestFailed))
	assert.True(t, gock.IsDone())
}

func TestClient_CreateApplication_NotRetried(t *testing.T) {
	defer gock.Off()
	gock.New(testBaseURL).
		Post("/applications").
		Times(1).
		Reply(http.StatusInternalServerError)

	cfg := testConfig()
	cfg.MaxRetries = 5
	cfg.RetryDelay = 1

	_, err := New(cfg, logger.NewTestLogger(t)).CreateApplication(context.Background(), newIndividualRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAPIRequestFailed))
	assert.True(t, gock.IsDone())
}
