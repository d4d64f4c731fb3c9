package accountingservtypes

import (
	"fmt"
	"time"
)

type Account struct {
	ID   string
	Name string
}

type Category struct {
	ID   string
	Name string
	Type string
}

type Amount struct {
	Code   string
	Number float64
}

func (a Amount) String() string {
	return fmt.Sprintf("$%.2f %s", a.Number, a.Code)
}

type CreateEntryInput struct {
	Date        time.Time
	Amount      Amount
	Description string
	AccountID   string
	CategoryID  string
}

type Entry struct {
	Date        string
	Amount      Amount
	Description string
	AccountID   string
	CategoryID  string
}
