package accountingserv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Philanthropists/toshl-go"
	"github.com/stretchr/testify/assert"

	"github.com/Philanthropists/outcome/internal/services/accountingserv/accountingservtypes"
	"github.com/Philanthropists/outcome/pkg/result"
)

type fakeToshl struct {
	accounts   []toshl.Account
	categories []toshl.Category
	entries    []toshl.Entry
	err        error
	block      chan struct{}
}

func (f *fakeToshl) Categories(*toshl.CategoryQueryParams) ([]toshl.Category, error) {
	return f.categories, f.err
}

func (f *fakeToshl) Accounts(*toshl.AccountQueryParams) ([]toshl.Account, error) {
	if f.block != nil {
		<-f.block
	}
	return f.accounts, f.err
}

func (f *fakeToshl) CreateCategory(category *toshl.Category) error {
	if f.err != nil {
		return f.err
	}
	category.ID = "cat-1"
	f.categories = append(f.categories, *category)
	return nil
}

func (f *fakeToshl) CreateEntry(entry *toshl.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func newService(client *fakeToshl) *ToshlService {
	return &ToshlService{
		ClientBuilder: func(string) ToshlClient { return client },
	}
}

func requireReason[T any](t *testing.T, want result.Reason, res result.Result[T]) {
	t.Helper()

	reason, bad := res.Reason()
	assert.True(t, bad)
	assert.Equal(t, want, reason)
}

func Test_GetAccountsWithoutTokenIsNotAuthorized(t *testing.T) {
	s := newService(&fakeToshl{})

	res, err := s.GetAccounts(context.Background(), "")
	assert.NoError(t, err)
	requireReason(t, result.ReasonNotAuthorized, res)
	assert.False(t, res.HasValue())
}

func Test_GetAccountsMapsToshlAccounts(t *testing.T) {
	s := newService(&fakeToshl{
		accounts: []toshl.Account{{ID: "1", Name: "Savings"}},
	})

	res, err := s.GetAccounts(context.Background(), "token")
	assert.NoError(t, err)

	as, ok := res.Value()
	assert.True(t, ok)
	assert.Equal(t, []accountingservtypes.Account{{ID: "1", Name: "Savings"}}, as)
}

func Test_GetAccountsClientFailureIsError(t *testing.T) {
	s := newService(&fakeToshl{err: errors.New("502")})

	_, err := s.GetAccounts(context.Background(), "token")
	assert.Error(t, err)
	assert.True(t, toshlErr.Has(err))
}

func Test_GetAccountsHonorsCancellation(t *testing.T) {
	client := &fakeToshl{block: make(chan struct{})}
	defer close(client.block)
	s := newService(client)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.GetAccounts(ctx, "token")
	assert.Error(t, err)
}

func Test_FindAccount(t *testing.T) {
	s := newService(&fakeToshl{
		accounts: []toshl.Account{{ID: "1", Name: "Savings"}, {ID: "2", Name: "Credit"}},
	})

	res, err := s.FindAccount(context.Background(), "token", "credit")
	assert.NoError(t, err)
	a, _ := res.Value()
	assert.Equal(t, "2", a.ID)

	res, err = s.FindAccount(context.Background(), "token", "Checking")
	assert.NoError(t, err)
	requireReason(t, result.ReasonNotFound, res)
	a, _ = res.Value()
	assert.Equal(t, "Checking", a.Name)

	res, err = s.FindAccount(context.Background(), "", "Savings")
	assert.NoError(t, err)
	requireReason(t, result.ReasonNotAuthorized, res)
}

func Test_GetCategories(t *testing.T) {
	s := newService(&fakeToshl{
		categories: []toshl.Category{{ID: "c", Name: "Food", Type: Expense}},
	})

	res, err := s.GetCategories(context.Background(), "token")
	assert.NoError(t, err)
	cs, _ := res.Value()
	assert.Equal(t, []accountingservtypes.Category{{ID: "c", Name: "Food", Type: Expense}}, cs)

	res, err = s.GetCategories(context.Background(), "")
	assert.NoError(t, err)
	requireReason(t, result.ReasonNotAuthorized, res)
}

func Test_CreateCategoryValidatesInput(t *testing.T) {
	client := &fakeToshl{}
	s := newService(client)

	res, err := s.CreateCategory(context.Background(), "token", "gift", "Presents")
	assert.NoError(t, err)
	requireReason(t, result.ReasonValidationFailed, res)
	invalid, _ := res.Value()
	assert.Equal(t, "gift", invalid.Type)

	res, err = s.CreateCategory(context.Background(), "token", Income, "  ")
	assert.NoError(t, err)
	requireReason(t, result.ReasonValidationFailed, res)

	assert.Empty(t, client.categories)
}

func Test_CreateCategoryCreatesInToshl(t *testing.T) {
	client := &fakeToshl{}
	s := newService(client)

	res, err := s.CreateCategory(context.Background(), "token", Income, "Salary")
	assert.NoError(t, err)
	assert.True(t, res.Success())

	cat, _ := res.Value()
	assert.Equal(t, accountingservtypes.Category{ID: "cat-1", Name: "Salary", Type: Income}, cat)
	assert.Len(t, client.categories, 1)
}

func Test_CreateEntry(t *testing.T) {
	client := &fakeToshl{}
	s := newService(client)

	input := accountingservtypes.CreateEntryInput{
		Date:        time.Date(2023, 3, 4, 10, 0, 0, 0, time.UTC),
		Amount:      accountingservtypes.Amount{Code: "COP", Number: -30000},
		Description: "groceries",
		AccountID:   "1",
		CategoryID:  "c",
	}

	res, err := s.CreateEntry(context.Background(), "token", input)
	assert.NoError(t, err)
	assert.True(t, res.Success())

	entry, _ := res.Value()
	assert.Equal(t, "2023-03-04", entry.Date)
	assert.Len(t, client.entries, 1)
	assert.Equal(t, "COP", client.entries[0].Currency.Code)
	assert.Equal(t, "groceries", *client.entries[0].Description)
}

func Test_CreateEntryRejectsIncompleteInput(t *testing.T) {
	client := &fakeToshl{}
	s := newService(client)

	res, err := s.CreateEntry(context.Background(), "token", accountingservtypes.CreateEntryInput{
		Date:      time.Now(),
		Amount:    accountingservtypes.Amount{Code: "COP"},
		AccountID: "1",
	})
	assert.NoError(t, err)
	requireReason(t, result.ReasonValidationFailed, res)
	assert.True(t, res.HasValue())
	assert.Empty(t, client.entries)
}
