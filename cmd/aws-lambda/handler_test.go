package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"

	"github.com/Philanthropists/outcome/internal/services/userconfigserv"
	"github.com/Philanthropists/outcome/pkg/result"
)

type fakeUsers struct {
	res result.Result[userconfigserv.UserConfig]
	err error
}

func (f fakeUsers) GetUserConfigFromEmail(
	context.Context,
	string,
) (result.Result[userconfigserv.UserConfig], error) {
	return f.res, f.err
}

func request(auth string) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"email": "bob@example.com"},
	}
	if auth != "" {
		req.Headers = map[string]string{"authorization": auth}
	}
	return req
}

func decodeReason(t *testing.T, body string) string {
	t.Helper()

	var f failureBody
	assert.NoError(t, json.Unmarshal([]byte(body), &f))
	return f.Reason
}

func Test_HandleMapsOutcomesToStatus(t *testing.T) {
	tests := []struct {
		name       string
		auth       string
		users      fakeUsers
		wantStatus int
		wantReason string
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantReason: "NOT_AUTHORIZED",
		},
		{
			name:       "wrong token",
			auth:       "Bearer nope",
			wantStatus: http.StatusForbidden,
			wantReason: "FORBIDDEN",
		},
		{
			name:       "unknown user",
			auth:       "Bearer secret",
			users:      fakeUsers{res: result.NotFound[userconfigserv.UserConfig]()},
			wantStatus: http.StatusNotFound,
			wantReason: "NOT_FOUND",
		},
		{
			name:       "malformed email",
			auth:       "Bearer secret",
			users:      fakeUsers{res: result.ValidationFailed[userconfigserv.UserConfig]()},
			wantStatus: http.StatusBadRequest,
			wantReason: "VALIDATION_FAILED",
		},
		{
			name:       "other reason",
			auth:       "Bearer secret",
			users:      fakeUsers{res: result.Bad[userconfigserv.UserConfig](result.Code(7))},
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: "7",
		},
		{
			name:       "lookup error",
			auth:       "Bearer secret",
			users:      fakeUsers{err: errors.New("dynamodb down")},
			wantStatus: http.StatusInternalServerError,
			wantReason: "INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{Users: tt.users, APIToken: "secret"}

			resp, err := h.Handle(context.Background(), request(tt.auth))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantReason, decodeReason(t, resp.Body))
		})
	}
}

func Test_HandleReturnsPublicUserConfig(t *testing.T) {
	h := &Handler{
		Users: fakeUsers{res: result.OkWith(userconfigserv.UserConfig{
			Email:             "bob@example.com",
			SMSDeliveryNumber: "+57",
			Toshl:             userconfigserv.ToshlConfig{Token: "private"},
		})},
		APIToken: "secret",
	}

	resp, err := h.Handle(context.Background(), request("Bearer secret"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, resp.Body, "private")

	var got publicUserConfig
	assert.NoError(t, json.Unmarshal([]byte(resp.Body), &got))
	assert.Equal(t, "bob@example.com", got.Email)
	assert.Equal(t, "+57", got.SMSDeliveryNumber)
}

func Test_EmptyConfiguredTokenRefusesEveryone(t *testing.T) {
	h := &Handler{Users: fakeUsers{}}

	resp, err := h.Handle(context.Background(), request("Bearer anything"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
