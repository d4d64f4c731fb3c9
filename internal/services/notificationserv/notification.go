package notificationserv

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/internal/services/userconfigserv"
	"github.com/Philanthropists/outcome/pkg/result"
)

const maxSMSLength = 1600

type smsClient interface {
	SendMessage(from, to, sms string) (string, error)
}

type NotificationService struct {
	SMSClient  smsClient
	FromNumber string
}

// SendSMS texts msg to a number registered by user and returns the SID of
// the sent message. Users may only notify their own delivery number.
func (n *NotificationService) SendSMS(
	ctx context.Context,
	user userconfigserv.UserConfig,
	to, msg string,
) (result.Result[string], error) {
	log := logging.FromContext(ctx).With(logging.String("to_number", to))

	if strings.TrimSpace(msg) == "" || utf8.RuneCountInString(msg) > maxSMSLength {
		return result.ValidationFailed[string](), nil
	}

	if user.SMSDeliveryNumber == "" || user.SMSDeliveryNumber != to {
		res := result.ForbiddenWith(to)
		log.Warn("refused to send SMS", logging.Outcome("outcome", res))
		return res, nil
	}

	sid, err := n.SMSClient.SendMessage(n.FromNumber, to, msg)
	if err != nil {
		log.Error("failed to send SMS",
			logging.Error(err),
			logging.Int("msg_len", len(msg)),
		)
		return result.Result[string]{}, err
	}

	log.Debug("sent SMS", logging.String("sid", sid))

	return result.OkWith(sid), nil
}
