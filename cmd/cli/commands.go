package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/emersion/go-imap/client"
	"github.com/urfave/cli/v3"

	"github.com/Philanthropists/outcome/internal/config"
	"github.com/Philanthropists/outcome/internal/external/twilio"
	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/internal/services/accountingserv"
	"github.com/Philanthropists/outcome/internal/services/accountingserv/accountingservtypes"
	"github.com/Philanthropists/outcome/internal/services/dateprocessingserv"
	"github.com/Philanthropists/outcome/internal/services/mailserv"
	"github.com/Philanthropists/outcome/internal/services/mailserv/mailservtypes"
	"github.com/Philanthropists/outcome/internal/services/notificationserv"
	"github.com/Philanthropists/outcome/internal/services/userconfigserv"
)

func loadConfig(cmd *cli.Command) (config.Config, error) {
	return config.Load(cmd.Root().String("credentials"))
}

func newDynamoClient(ctx context.Context, cfg config.Config) (*dynamodb.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg), nil
}

func newUserService(ctx context.Context, cfg config.Config) (*userconfigserv.DynamoDBService, error) {
	client, err := newDynamoClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &userconfigserv.DynamoDBService{
		Client: client,
		Table:  cfg.AWS.UsersTable,
	}, nil
}

func describeUser(u userconfigserv.UserConfig) string {
	if u.SMSDeliveryNumber == "" {
		return u.Email
	}

	return fmt.Sprintf("%s (sms %s)", u.Email, u.SMSDeliveryNumber)
}

func userCommand() *cli.Command {
	return &cli.Command{
		Name:      "user",
		Usage:     "Look up the configuration registered for an e-mail",
		ArgsUsage: "<email>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			users, err := newUserService(ctx, cfg)
			if err != nil {
				return err
			}

			res, err := users.GetUserConfigFromEmail(ctx, cmd.Args().First())
			if err != nil {
				return err
			}

			return printOutcome(cmd.Root().Writer, res, describeUser)
		},
	}
}

func toshlToken(cmd *cli.Command, cfg config.Config) string {
	if t := cmd.String("token"); t != "" {
		return t
	}

	return cfg.Toshl.Token
}

var tokenFlag = &cli.StringFlag{
	Name:    "token",
	Usage:   "Toshl token, defaults to the one in the credentials file",
	Sources: cli.EnvVars("TOSHL_TOKEN"),
}

func newToshlService() *accountingserv.ToshlService {
	return &accountingserv.ToshlService{
		ClientBuilder: accountingserv.NewToshlClient,
	}
}

func describeAccount(a accountingservtypes.Account) string {
	if a.ID == "" {
		return a.Name
	}

	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}

func accountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "List Toshl accounts, or find one by name",
		Flags: []cli.Flag{
			tokenFlag,
			&cli.StringFlag{
				Name:  "find",
				Usage: "account name to look up",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s := newToshlService()
			token := toshlToken(cmd, cfg)

			if name := cmd.String("find"); name != "" {
				res, err := s.FindAccount(ctx, token, name)
				if err != nil {
					return err
				}

				return printOutcome(cmd.Root().Writer, res, describeAccount)
			}

			res, err := s.GetAccounts(ctx, token)
			if err != nil {
				return err
			}

			return printOutcome(cmd.Root().Writer, res, func(as []accountingservtypes.Account) string {
				return describeList(as, describeAccount)
			})
		},
	}
}

func categoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "Create a Toshl category",
		Flags: []cli.Flag{
			tokenFlag,
			&cli.StringFlag{
				Name:  "type",
				Usage: "income, expense or transaction",
				Value: accountingserv.Expense,
			},
			&cli.StringFlag{
				Name:     "name",
				Usage:    "category name",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			res, err := newToshlService().CreateCategory(ctx, toshlToken(cmd, cfg), cmd.String("type"), cmd.String("name"))
			if err != nil {
				return err
			}

			return printOutcome(cmd.Root().Writer, res, func(c accountingservtypes.Category) string {
				return fmt.Sprintf("%s/%s", c.Type, c.Name)
			})
		},
	}
}

func dialIMAP(cfg config.Mail) (*client.Client, error) {
	c, err := client.DialTLS(cfg.Address, nil)
	if err != nil {
		return nil, err
	}

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		_ = c.Logout()
		return nil, err
	}

	return c, nil
}

func describeMessage(m mailservtypes.Message) string {
	subject := ""
	if m.Envelope != nil {
		subject = m.Envelope.Subject
	}

	return fmt.Sprintf("#%d %q", m.Uid, subject)
}

func mailboxCommand() *cli.Command {
	return &cli.Command{
		Name:      "mailbox",
		Usage:     "Select a mailbox and list the messages received recently",
		ArgsUsage: "<mailbox>",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "since",
				Usage: "how far back to look for messages",
				Value: 72 * time.Hour,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := dialIMAP(cfg.Mail)
			if err != nil {
				return err
			}
			defer func() { _ = c.Logout() }()

			s := &mailserv.IMAPService{
				NewImapFunc: func() mailserv.IMAPClient { return c },
			}

			name := cmd.Args().First()
			w := cmd.Root().Writer

			selected, err := s.SelectMailbox(ctx, name)
			if err != nil {
				return err
			}

			if err := printOutcome(w, selected, func(st mailservtypes.MailboxStatus) string {
				return fmt.Sprintf("%s: %d messages, %d unseen", st.Name, st.Messages, st.Unseen)
			}); err != nil {
				return err
			}

			msgs, err := s.FetchMessages(ctx, name, time.Now().Add(-cmd.Duration("since")))
			if err != nil {
				return err
			}

			failed := 0
			for m := range msgs {
				if !m.Success() {
					failed++
				}
				_, _ = fmt.Fprintln(w, render(m, describeMessage))
			}

			logging.FromContext(ctx).Debug("listed messages",
				logging.String("mailbox", name),
				logging.Int("unreadable", failed),
			)

			return nil
		},
	}
}

func smsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sms",
		Usage: "Send an SMS to the number registered by a user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "user e-mail", Required: true},
			&cli.StringFlag{Name: "to", Usage: "destination number, defaults to the registered one"},
			&cli.StringFlag{Name: "msg", Usage: "message to send", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			users, err := newUserService(ctx, cfg)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer

			user, err := users.GetUserConfigFromEmail(ctx, cmd.String("email"))
			if err != nil {
				return err
			}

			u, ok := user.Value()
			if !user.Success() || !ok {
				return printOutcome(w, user, describeUser)
			}

			to := strings.TrimSpace(cmd.String("to"))
			if to == "" {
				to = u.SMSDeliveryNumber
			}

			n := &notificationserv.NotificationService{
				SMSClient: &twilio.Client{
					AccountSid: cfg.Twilio.AccountSid,
					Token:      cfg.Twilio.AuthToken,
				},
				FromNumber: cfg.Twilio.FromNumber,
			}

			res, err := n.SendSMS(ctx, u, to, cmd.String("msg"))
			if err != nil {
				return err
			}

			return printOutcome(w, res, func(sid string) string {
				return "sid " + sid
			})
		},
	}
}

func processedCommand() *cli.Command {
	return &cli.Command{
		Name:  "processed",
		Usage: "Show the date the mail sync resumes from, or record a new one",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "save",
				Usage: "record this date (YYYY-MM-DD) as the last processed one",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			client, err := newDynamoClient(ctx, cfg)
			if err != nil {
				return err
			}

			s := dateprocessingserv.DynamoDBService{
				Client: client,
				Table:  cfg.AWS.DatesTable,
			}

			if save := cmd.String("save"); save != "" {
				t, err := time.Parse(time.DateOnly, save)
				if err != nil {
					return fmt.Errorf("invalid --save date: %w", err)
				}

				if err := s.SaveProcessedDate(ctx, t); err != nil {
					return err
				}
			}

			res, err := s.GetLastProcessedDate(ctx)
			if err != nil {
				return err
			}

			return printOutcome(cmd.Root().Writer, res, func(t time.Time) string {
				return t.Format(time.DateOnly)
			})
		},
	}
}
