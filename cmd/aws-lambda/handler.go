package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/internal/services/userconfigserv"
	"github.com/Philanthropists/outcome/pkg/result"
)

const bearerPrefix = "Bearer "

var reasonStatus = map[result.Reason]int{
	result.ReasonNotAuthorized:    http.StatusUnauthorized,
	result.ReasonForbidden:        http.StatusForbidden,
	result.ReasonNotFound:         http.StatusNotFound,
	result.ReasonValidationFailed: http.StatusBadRequest,
}

type userLookup interface {
	GetUserConfigFromEmail(
		ctx context.Context,
		email string,
	) (result.Result[userconfigserv.UserConfig], error)
}

type publicUserConfig struct {
	Email             string                                  `json:"email"`
	SMSDeliveryNumber string                                  `json:"sms_delivery_number,omitempty"`
	Mapping           map[string]userconfigserv.MappingConfig `json:"account_mappings,omitempty"`
}

type failureBody struct {
	Reason string `json:"reason"`
}

type Handler struct {
	Users    userLookup
	APIToken string
}

func (h *Handler) Handle(
	ctx context.Context,
	req events.APIGatewayProxyRequest,
) (events.APIGatewayProxyResponse, error) {
	log := logging.FromContext(ctx).With(logging.String("request_id", req.RequestContext.RequestID))

	if auth := h.authorize(req); !auth.Success() {
		log.Info("request refused", logging.Outcome("outcome", auth))
		return failure(auth)
	}

	user, err := h.Users.GetUserConfigFromEmail(ctx, req.QueryStringParameters["email"])
	if err != nil {
		log.Error("could not look up user config", logging.Error(err))
		return respond(http.StatusInternalServerError, failureBody{Reason: "INTERNAL"})
	}

	log.Debug("user lookup", logging.Outcome("outcome", user))

	if !user.Success() {
		return failure(user)
	}

	cfg, _ := user.Value()
	return respond(http.StatusOK, publicUserConfig{
		Email:             cfg.Email,
		SMSDeliveryNumber: cfg.SMSDeliveryNumber,
		Mapping:           cfg.Mapping,
	})
}

// authorize checks the bearer token of the request. A missing token is
// NOT_AUTHORIZED, a wrong one FORBIDDEN.
func (h *Handler) authorize(req events.APIGatewayProxyRequest) result.Result[string] {
	var header string
	for k, v := range req.Headers {
		if strings.EqualFold(k, "Authorization") {
			header = v
			break
		}
	}

	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" {
		return result.NotAuthorized[string]()
	}

	if h.APIToken == "" || token != h.APIToken {
		return result.Forbidden[string]()
	}

	return result.OkWith(token)
}

func statusFor(reason result.Reason) int {
	if status, ok := reasonStatus[reason]; ok {
		return status
	}

	return http.StatusUnprocessableEntity
}

func failure[T any](res result.Result[T]) (events.APIGatewayProxyResponse, error) {
	reason, _ := res.Reason()
	return respond(statusFor(reason), failureBody{Reason: reason.String()})
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}, nil
}
