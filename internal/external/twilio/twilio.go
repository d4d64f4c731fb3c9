package twilio

import (
	"sync"

	_twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/zeebo/errs"
)

var twilioErr = errs.Class("twilio")

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Client struct {
	AccountSid string
	Token      string

	once sync.Once
	api  messageCreator
}

func (c *Client) client() messageCreator {
	c.once.Do(func() {
		if c.api != nil {
			return
		}

		rc := _twilio.NewRestClientWithParams(_twilio.ClientParams{
			Username: c.AccountSid,
			Password: c.Token,
		})
		c.api = rc.Api
	})

	return c.api
}

// SendMessage sends an SMS and returns the SID Twilio assigned to it.
func (c *Client) SendMessage(from, to, msg string) (_ string, genErr error) {
	defer func() {
		genErr = twilioErr.Wrap(genErr)
	}()

	if from == "" || to == "" || msg == "" {
		return "", errs.New("none of the parameters can be empty")
	}

	ps := &twilioApi.CreateMessageParams{}
	ps.SetFrom(from)
	ps.SetTo(to)
	ps.SetBody(msg)

	message, err := c.client().CreateMessage(ps)
	if err != nil {
		return "", errs.Wrap(err)
	}

	if message == nil || message.Sid == nil {
		return "", errs.New("twilio returned no message sid")
	}

	return *message.Sid, nil
}
