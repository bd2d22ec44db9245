package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	apidomain "dareNowConsole/internal/modules/api/domain"
	"dareNowConsole/internal/modules/session/application/port"
	sessiondomain "dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/shared/auth"
	"dareNowConsole/internal/shared/metrics"
	"dareNowConsole/internal/shared/tracing"
)

const maxResponseBytes = 1 << 20

// Request is one call to the remote API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is sent as JSON when set.
	Body any
	// SkipTeardown leaves sessions alone on 401. Login exchanges use it: a rejected login
	// says nothing about the session already stored.
	SkipTeardown bool
}

// Response is a completed call. Body holds at most 1 MiB.
type Response struct {
	Status int
	Class  apidomain.Class
	Header http.Header
	Body   []byte
}

// Payload decodes the body and strips a {data: ...} envelope.
func (r *Response) Payload() (any, error) {
	payload, err := apidomain.Decode(r.Body)
	if err != nil {
		return nil, &sessiondomain.AuthError{Kind: sessiondomain.ErrUnreachable, Message: "Invalid response from server.", Status: r.Status, Err: err}
	}
	return apidomain.Unwrap(payload), nil
}

// Raw decodes the body keeping any envelope.
func (r *Response) Raw() (any, error) {
	payload, err := apidomain.Decode(r.Body)
	if err != nil {
		return nil, &sessiondomain.AuthError{Kind: sessiondomain.ErrUnreachable, Message: "Invalid response from server.", Status: r.Status, Err: err}
	}
	return payload, nil
}

// StatusError is a non-2xx answer. It matches ErrUnauthorized for 401 and ErrUnreachable
// for 5xx.
type StatusError struct {
	Status  int
	Class   apidomain.Class
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote api answered %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote api answered %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return sessiondomain.ErrUnauthorized
	case e.Status >= http.StatusInternalServerError:
		return sessiondomain.ErrUnreachable
	default:
		return nil
	}
}

// Pipeline signs every remote API call with the session matching its class and turns a 401
// on a session-bound call into a logout of that session.
type Pipeline struct {
	client     *RESTClient
	classifier *apidomain.Classifier
	store      port.SessionStore
	notifier   port.SessionNotifier
	navigator  port.Navigator
}

func NewPipeline(client *RESTClient, classifier *apidomain.Classifier, store port.SessionStore, notifier port.SessionNotifier, navigator port.Navigator) *Pipeline {
	if classifier == nil {
		classifier, _ = apidomain.NewClassifier(nil)
	}
	return &Pipeline{client: client, classifier: classifier, store: store, notifier: notifier, navigator: navigator}
}

// Classify exposes the class the pipeline would use for path.
func (p *Pipeline) Classify(path string) apidomain.Class {
	return p.classifier.Classify(path)
}

// Do sends req. Non-2xx answers come back as *StatusError together with the response.
func (p *Pipeline) Do(ctx context.Context, req Request) (*Response, error) {
	class := p.classifier.Classify(req.Path)

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	ctx, span := tracing.StartRequest(ctx, req.Method, req.Path, string(class))
	httpReq, err := p.client.NewRequest(ctx, req.Method, req.Path, req.Query, body)
	if err != nil {
		tracing.EndRequest(span, 0, err)
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	auth.SetBearer(httpReq, p.resolveToken(ctx, class))

	started := time.Now()
	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		metrics.RecordAPIRequest(string(class), 0, time.Since(started))
		tracing.EndRequest(span, 0, err)
		slog.Warn("remote api unreachable", slog.String("method", req.Method), slog.String("path", req.Path), slog.Any("error", err))
		return nil, &sessiondomain.AuthError{Kind: sessiondomain.ErrUnreachable, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	metrics.RecordAPIRequest(string(class), httpResp.StatusCode, time.Since(started))
	if err != nil {
		tracing.EndRequest(span, httpResp.StatusCode, err)
		return nil, &sessiondomain.AuthError{Kind: sessiondomain.ErrUnreachable, Status: httpResp.StatusCode, Err: err}
	}

	resp := &Response{Status: httpResp.StatusCode, Class: class, Header: httpResp.Header, Body: data}
	if resp.Status >= 200 && resp.Status < 300 {
		tracing.EndRequest(span, resp.Status, nil)
		return resp, nil
	}

	statusErr := &StatusError{Status: resp.Status, Class: class, Message: apidomain.ErrorMessage(data)}
	tracing.EndRequest(span, resp.Status, statusErr)
	slog.Debug("remote api error", slog.String("method", req.Method), slog.String("path", req.Path), slog.Int("status", resp.Status), slog.String("class", string(class)))

	if resp.Status == http.StatusUnauthorized && !req.SkipTeardown {
		p.teardown(ctx, class)
	}
	return resp, statusErr
}

// GetJSON performs a GET and returns the unwrapped payload.
func (p *Pipeline) GetJSON(ctx context.Context, path string, query url.Values) (any, error) {
	resp, err := p.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	return resp.Payload()
}

// resolveToken picks the bearer token for class. Restaurant calls fall back to the admin
// token when no restaurant session exists.
func (p *Pipeline) resolveToken(ctx context.Context, class apidomain.Class) string {
	switch class {
	case apidomain.ClassRestaurant:
		if session, ok := p.store.Read(ctx, sessiondomain.VariantRestaurant); ok {
			return session.Token
		}
		if session, ok := p.store.Read(ctx, sessiondomain.VariantAdmin); ok {
			return session.Token
		}
	case apidomain.ClassAdmin:
		if session, ok := p.store.Read(ctx, sessiondomain.VariantAdmin); ok {
			return session.Token
		}
	}
	return ""
}

// teardown clears the session matching class and sends the console to its login view.
// Public calls never tear anything down.
func (p *Pipeline) teardown(ctx context.Context, class apidomain.Class) {
	variant, ok := class.Variant()
	if !ok {
		return
	}

	_, present := p.store.Read(ctx, variant)
	if err := p.store.Clear(ctx, variant); err != nil {
		slog.Error("session teardown failed", slog.String("variant", variant.String()), slog.Any("error", err))
	}
	metrics.SessionTeardownsTotal.WithLabelValues(variant.String()).Inc()
	if present && p.notifier != nil {
		p.notifier.Notify(ctx, variant, sessiondomain.EventLogout)
	}
	slog.Info("session expired", slog.String("variant", variant.String()), slog.Bool("hadSession", present))

	if p.navigator == nil {
		return
	}
	location := sessiondomain.CleanPath(p.navigator.Location())
	if onLoginView(variant, location) {
		return
	}
	p.navigator.Redirect(variant.LoginPath())
}

func onLoginView(variant sessiondomain.Variant, location string) bool {
	if location == variant.LoginPath() {
		return true
	}
	return variant == sessiondomain.VariantAdmin && location == "/"
}

// IsStatus reports whether err is a StatusError with one of statuses.
func IsStatus(err error, statuses ...int) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	for _, status := range statuses {
		if statusErr.Status == status {
			return true
		}
	}
	return false
}
