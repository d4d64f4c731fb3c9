package mailserv

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
	"github.com/samber/lo"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/internal/services/mailserv/mailservtypes"
	"github.com/Philanthropists/outcome/pkg/result"
)

var (
	unknownMailbox = result.MakeFactory[mailservtypes.MailboxStatus](
		result.Label("UNKNOWN_MAILBOX"),
	)
	unreadableMessage = result.MakeFactory[mailservtypes.Message](
		result.Label("UNREADABLE_MESSAGE"),
	)
)

// ReasonUnknownMailbox and ReasonUnreadableMessage are the failures
// specific to this service.
var (
	ReasonUnknownMailbox    = unknownMailbox.Reason()
	ReasonUnreadableMessage = unreadableMessage.Reason()
)

var mailErr = errs.Class("imap")

type IMAPClient interface {
	List(ref string, name string, ch chan *imap.MailboxInfo) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	UidSearch(criteria *imap.SearchCriteria) (seqNums []uint32, err error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
}

type IMAPService struct {
	NewImapFunc func() IMAPClient

	once   sync.Once
	client IMAPClient
}

func (r *IMAPService) getClient() IMAPClient {
	r.once.Do(func() {
		r.client = r.NewImapFunc()
	})

	if r.client == nil {
		log := logging.New()
		log.DPanic("could not create imap client")
	}

	return r.client
}

func (r *IMAPService) GetAvailableMailboxes(
	ctx context.Context,
) ([]string, error) {
	rawMailboxes := make(chan *imap.MailboxInfo)
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.getClient().List("", "*", rawMailboxes)
	}()

	var mailboxes []string
	for {
		select {
		case <-ctx.Done():
			go drain(rawMailboxes)
			return nil, mailErr.Wrap(ctx.Err())

		case m, ok := <-rawMailboxes:
			if !ok {
				if err := <-errCh; err != nil {
					return nil, mailErr.Wrap(err)
				}

				return mailboxes, nil
			}

			if m != nil {
				mailboxes = append(mailboxes, m.Name)
			}
		}
	}
}

// SelectMailbox opens name read-only. A mailbox the server does not list
// is UNKNOWN_MAILBOX carrying the requested name.
func (r *IMAPService) SelectMailbox(
	ctx context.Context,
	name string,
) (result.Result[mailservtypes.MailboxStatus], error) {
	mailboxes, err := r.GetAvailableMailboxes(ctx)
	if err != nil {
		return result.Result[mailservtypes.MailboxStatus]{}, err
	}

	if !lo.Contains(mailboxes, name) {
		return unknownMailbox.With(mailservtypes.MailboxStatus{Name: name}), nil
	}

	status, err := r.getClient().Select(name, true)
	if err != nil {
		return result.Result[mailservtypes.MailboxStatus]{}, mailErr.Wrap(err)
	}

	return result.OkWith(mailservtypes.MailboxStatus{
		Name:     status.Name,
		Messages: status.Messages,
		Unseen:   status.Unseen,
	}), nil
}

// FetchMessages streams the messages received in mailbox since the given
// date. Messages whose body cannot be parsed arrive as UNREADABLE_MESSAGE
// failures carrying the raw message. The channel is closed when the fetch
// ends or ctx is done; fetch errors are logged.
func (r *IMAPService) FetchMessages(
	ctx context.Context,
	mailbox string,
	since time.Time,
) (<-chan result.Result[mailservtypes.Message], error) {
	client := r.getClient()

	if _, err := client.Select(mailbox, true); err != nil {
		return nil, mailErr.Wrap(err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	ids, err := client.UidSearch(criteria)
	if err != nil {
		return nil, mailErr.Wrap(err)
	}

	log := logging.FromContext(ctx).With(logging.String("mailbox", mailbox))
	log.Debug("got messages since a date",
		logging.Time("since", since),
		logging.Int("len", len(ids)),
	)

	out := make(chan result.Result[mailservtypes.Message])

	if len(ids) == 0 {
		close(out)
		return out, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	fetch := imap.FetchAll.Expand()
	section := imap.BodySectionName{Peek: true}
	fetch = append(fetch, section.FetchItem())

	messages := make(chan *imap.Message)
	errCh := make(chan error, 1)
	go func() {
		errCh <- client.UidFetch(seqset, fetch, messages)
	}()

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				go drain(messages)
				return

			case m, ok := <-messages:
				if !ok {
					if err := <-errCh; err != nil {
						log.Error("there was a problem fetching messages",
							logging.Error(err),
						)
					}
					return
				}

				res := toResult(m)
				if !res.Success() {
					log.Warn("unreadable message",
						logging.Uint("uid", m.Uid),
						logging.Outcome("outcome", res),
					)
				}

				select {
				case <-ctx.Done():
					go drain(messages)
					return
				case out <- res:
				}
			}
		}
	}()

	return out, nil
}

func toResult(m *imap.Message) result.Result[mailservtypes.Message] {
	body, err := readBody(m)
	if err != nil {
		return unreadableMessage.With(mailservtypes.Message{Message: *m})
	}

	return result.OkWith(mailservtypes.Message{
		Message:  *m,
		BodyData: body,
	})
}

func readBody(msg *imap.Message) ([]byte, error) {
	var section imap.BodySectionName
	t := msg.GetBody(&section)
	if t == nil {
		return nil, errs.New("msg has no body")
	}

	mr, err := mail.CreateReader(t)
	if err != nil && mr == nil {
		return nil, errs.New("could not create reader: %w", err)
	}
	defer func() { _ = mr.Close() }()

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errs.New("no body found in msg")
		}
		if err != nil {
			return nil, errs.Wrap(err)
		}

		// the message's text, plain-text or HTML
		if _, ok := p.Header.(*mail.InlineHeader); ok {
			body, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, errs.New("could not read from InlineHeader body: %w", err)
			}

			return body, nil
		}
	}
}

func drain[T any](ch chan T) {
	for range ch {
	}
}
