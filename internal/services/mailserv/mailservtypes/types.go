package mailservtypes

import "github.com/emersion/go-imap"

type Message struct {
	imap.Message
	BodyData []byte
}

type MailboxStatus struct {
	Name     string
	Messages uint32
	Unseen   uint32
}
