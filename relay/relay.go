package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"gemini-relay/backend"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var errBadShape = errors.New(`request body must be a JSON object with a string "prompt" field`)

// Credential supplies the upstream API key. Implementations are consulted on
// every call.
type Credential interface {
	APIKey() string
}

// Relay forwards a prompt to the generative-language API and converts every
// outcome into a Response.
type Relay struct {
	client     *backend.Client
	credential Credential
	validate   *validator.Validate
}

// New creates a Relay that calls the upstream through client.
func New(client *backend.Client, credential Credential) *Relay {
	return &Relay{
		client:     client,
		credential: credential,
		validate:   newValidator(),
	}
}

// Handle processes one inbound request. It never returns nil and never panics.
func (r *Relay) Handle(ctx context.Context, req *Request) (resp *Response) {
	entry := logrus.NewEntry(log)

	defer func() {
		if p := recover(); p != nil {
			entry.WithField("panic", fmt.Sprint(p)).Error("Recovered from panic while relaying request")
			resp = ErrorResponse(http.StatusInternalServerError, msgInternal)
		}
	}()

	if req == nil {
		entry.Error("Received a nil request")
		return ErrorResponse(http.StatusInternalServerError, msgInternal)
	}
	entry = entry.WithField("request_id", req.RequestID)

	if req.Method != http.MethodPost {
		entry.WithField("method", req.Method).Warn("Rejected request with unsupported method")
		return ErrorResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	apiKey := r.credential.APIKey()
	if apiKey == "" {
		entry.Error("Upstream API key is not set in the environment")
		return ErrorResponse(http.StatusInternalServerError, msgMissingAPIKey)
	}

	prompt, err := r.decodePrompt(req.Body)
	if err != nil {
		entry.WithError(err).Warn("Rejected malformed request")
		return ErrorResponse(http.StatusBadRequest, err.Error())
	}

	return r.forward(ctx, entry, apiKey, prompt)
}

func (r *Relay) decodePrompt(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", errBadShape
	}

	var payload PromptPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", errBadShape
		}
		return "", fmt.Errorf("invalid JSON body: %v", err)
	}

	if err := r.validate.Struct(payload); err != nil {
		return "", validationError(err)
	}

	return payload.Prompt, nil
}

func (r *Relay) forward(ctx context.Context, entry *logrus.Entry, apiKey, prompt string) *Response {
	entry = entry.WithField("model", r.client.Model())
	start := time.Now()

	resp, err := r.client.GenerateContent(ctx, apiKey, backend.NewPromptRequest(prompt))
	if err != nil {
		msg := transportMessage(err)
		entry.WithField("error", msg).Error("Failed to reach upstream API")
		return ErrorResponse(http.StatusInternalServerError, msg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		msg := transportMessage(err)
		entry.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"error":  msg,
		}).Error("Failed to read upstream response")
		return ErrorResponse(http.StatusInternalServerError, msg)
	}

	entry = entry.WithFields(logrus.Fields{
		"status":     resp.StatusCode,
		"latency_ms": float64(time.Since(start).Nanoseconds()) / 1000000,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry.WithFields(logrus.Fields{
			"status_text":   http.StatusText(resp.StatusCode),
			"upstream_body": string(body),
		}).Error("Upstream API returned an error")
		return ErrorResponse(upstreamStatus(resp.StatusCode), upstreamErrorMessage(resp.StatusCode, body))
	}

	if !json.Valid(body) {
		entry.WithField("upstream_body", truncate(string(body), maxUpstreamErrorLen)).
			Error("Upstream API returned a success status with a non-JSON body")
		return ErrorResponse(http.StatusInternalServerError, msgInternal)
	}

	entry.Debug("Relayed upstream response")
	return &Response{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders(),
		Body:       body,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "notblank":
		return fmt.Errorf("%s must not be blank", fe.Field())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}
