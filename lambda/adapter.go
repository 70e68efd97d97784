package lambda

import (
	"context"
	"encoding/base64"
	"net/http"

	"gemini-relay/relay"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Handler adapts the relay to API Gateway proxy events. Netlify Functions
// deliver the same event shape to Go functions.
type Handler struct {
	Relay *relay.Relay
}

// NewHandler creates a Handler around r.
func NewHandler(r *relay.Relay) *Handler {
	return &Handler{Relay: r}
}

// Handle converts the event, runs the relay and converts the result back.
// The returned error is always nil: failures are expressed as responses.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := event.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		requestID = lc.AwsRequestID
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			log.WithField("request_id", requestID).WithError(err).Warn("Failed to decode base64 body")
			return toProxyResponse(relay.ErrorResponse(http.StatusBadRequest, "request body is not valid base64")), nil
		}
		body = decoded
	}

	resp := h.Relay.Handle(ctx, &relay.Request{
		Method:    event.HTTPMethod,
		Body:      body,
		RequestID: requestID,
	})

	return toProxyResponse(resp), nil
}

func toProxyResponse(resp *relay.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}
