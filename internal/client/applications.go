package client

import (
	"context"
	"net/http"
	"net/url"

	"unit-client/internal/application"
	apperrors "unit-client/internal/common/errors"
	"unit-client/internal/common/metrics"
	"unit-client/internal/jsonapi"
)

const resourceApplication = "application"

// CreateApplication validates req and submits it. The created application is cached
// when a cache is configured.
func (c *Client) CreateApplication(ctx context.Context, req application.CreateApplicationRequest) (application.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doc := req.ToJSONAPI()
	if err := jsonapi.ValidateRequest(doc); err != nil {
		return nil, err
	}

	body, err := c.call(ctx, http.MethodPost, "/applications", "/applications", doc)
	if err != nil {
		return nil, err
	}
	app, err := DecodeApplication(body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Application created", map[string]interface{}{
		"application_id": app.GetID(),
		"type":           app.Type(),
		"status":         string(app.GetStatus()),
	})
	c.store(ctx, app.GetID(), body)
	return app, nil
}

// GetApplication fetches one application, reading through the cache when configured.
// Cache failures are logged and never fail the call. Retryable API errors are retried.
func (c *Client) GetApplication(ctx context.Context, id string) (application.Application, error) {
	if body, ok := c.lookup(ctx, id); ok {
		app, err := DecodeApplication(body)
		if err == nil {
			return app, nil
		}
		c.logger.WithError(err).Warn("Discarding undecodable cache entry", map[string]interface{}{"application_id": id})
		c.evict(ctx, id)
	}

	var body []byte
	err := c.retryWithBackoff(ctx, "GET /applications/{id}", func() error {
		var err error
		body, err = c.call(ctx, http.MethodGet, "/applications/"+url.PathEscape(id), "/applications/{id}", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	app, err := DecodeApplication(body)
	if err != nil {
		return nil, err
	}
	c.store(ctx, id, body)
	return app, nil
}

// ListDocuments returns the documents requested for an application, in API order.
func (c *Client) ListDocuments(ctx context.Context, applicationID string) ([]*application.ApplicationDocument, error) {
	path := "/applications/" + url.PathEscape(applicationID) + "/documents"
	var body []byte
	err := c.retryWithBackoff(ctx, "GET /applications/{id}/documents", func() error {
		var err error
		body, err = c.call(ctx, http.MethodGet, path, "/applications/{id}/documents", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return DecodeDocuments(body)
}

func (c *Client) lookup(ctx context.Context, id string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, c.cache.Key(resourceApplication, id))
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		c.logger.WithError(err).Warn("Cache lookup failed", map[string]interface{}{"application_id": id})
		return nil, false
	case !ok:
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false
	default:
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return body, true
	}
}

func (c *Client) evict(ctx context.Context, id string) {
	if err := c.cache.Del(ctx, c.cache.Key(resourceApplication, id)); err != nil {
		c.logger.WithError(err).Warn("Cache evict failed", map[string]interface{}{"application_id": id})
	}
}

func (c *Client) store(ctx context.Context, id string, body []byte) {
	if c.cache == nil || id == "" {
		return
	}
	if err := c.cache.Set(ctx, c.cache.Key(resourceApplication, id), body); err != nil {
		c.logger.WithError(err).Warn("Cache write failed", map[string]interface{}{"application_id": id})
	}
}

// DecodeApplication unwraps a single-resource document and routes it by resource type.
func DecodeApplication(body []byte) (application.Application, error) {
	doc, err := jsonapi.Decode(body)
	if err != nil {
		metrics.ResourcesDecoded.WithLabelValues("unknown", metrics.OutcomeError).Inc()
		return nil, err
	}
	r := doc.Data
	app, err := application.ApplicationFromJSONAPI(r.ID, r.Type, r.Attributes, r.Relationships)
	recordDecode(r.Type, err)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// DecodeDocument unwraps a single document resource.
func DecodeDocument(body []byte) (*application.ApplicationDocument, error) {
	doc, err := jsonapi.Decode(body)
	if err != nil {
		metrics.ResourcesDecoded.WithLabelValues(application.TypeDocument, metrics.OutcomeError).Inc()
		return nil, err
	}
	return decodeDocumentResource(doc.Data)
}

// DecodeDocuments unwraps a collection of document resources, preserving order.
func DecodeDocuments(body []byte) ([]*application.ApplicationDocument, error) {
	doc, err := jsonapi.DecodeList(body)
	if err != nil {
		metrics.ResourcesDecoded.WithLabelValues(application.TypeDocument, metrics.OutcomeError).Inc()
		return nil, err
	}
	out := make([]*application.ApplicationDocument, 0, len(doc.Data))
	for _, r := range doc.Data {
		d, err := decodeDocumentResource(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeDocumentResource(r jsonapi.Resource) (*application.ApplicationDocument, error) {
	if r.Type != application.TypeDocument {
		err := apperrors.NewUnexpectedResourceTypeError(r.Type)
		recordDecode(r.Type, err)
		return nil, err
	}
	d, err := application.ApplicationDocumentFromJSONAPI(r.ID, r.Type, r.Attributes)
	recordDecode(r.Type, err)
	return d, err
}

func recordDecode(resourceType string, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ResourcesDecoded.WithLabelValues(resourceType, outcome).Inc()
}
