package accountingserv

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Philanthropists/toshl-go"
	"github.com/samber/lo"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/internal/services/accountingserv/accountingservtypes"
	"github.com/Philanthropists/outcome/pkg/result"
)

type ToshlClient interface {
	Categories(params *toshl.CategoryQueryParams) ([]toshl.Category, error)
	Accounts(params *toshl.AccountQueryParams) ([]toshl.Account, error)
	CreateCategory(category *toshl.Category) error
	CreateEntry(entry *toshl.Entry) error
}

const (
	Income      = "income"
	Expense     = "expense"
	Transaction = "transaction"
)

const dateFormat = "2006-01-02"

var toshlErr = errs.Class("toshl")

func NewToshlClient(token string) ToshlClient {
	return toshl.NewClient(token, nil)
}

type ToshlService struct {
	ClientBuilder func(string) ToshlClient

	clients sync.Map
}

func (r *ToshlService) getClient(token string) ToshlClient {
	c, ok := r.clients.Load(token)
	if !ok {
		c, _ = r.clients.LoadOrStore(token, r.ClientBuilder(token))
	}

	return c.(ToshlClient)
}

func (r *ToshlService) GetAccounts(
	ctx context.Context,
	token string,
) (result.Result[[]accountingservtypes.Account], error) {
	if token == "" {
		return result.NotAuthorized[[]accountingservtypes.Account](), nil
	}

	c := r.getClient(token)

	as, err := doCancelableOperation(ctx, func() ([]accountingservtypes.Account, error) {
		ac, err := c.Accounts(nil)
		if err != nil {
			return nil, toshlErr.Wrap(err)
		}

		return lo.Map(ac, func(a toshl.Account, _ int) accountingservtypes.Account {
			return accountingservtypes.Account{
				ID:   a.ID,
				Name: a.Name,
			}
		}), nil
	})
	if err != nil {
		return result.Result[[]accountingservtypes.Account]{}, err
	}

	return result.OkWith(as), nil
}

// FindAccount looks an account up by name, ignoring case. A missing
// account is NOT_FOUND carrying the searched name.
func (r *ToshlService) FindAccount(
	ctx context.Context,
	token, name string,
) (result.Result[accountingservtypes.Account], error) {
	accounts, err := r.GetAccounts(ctx, token)
	if err != nil {
		return result.Result[accountingservtypes.Account]{}, err
	}

	as, ok := accounts.Value()
	if !accounts.Success() || !ok {
		reason, _ := accounts.Reason()
		return result.Bad[accountingservtypes.Account](reason), nil
	}

	a, found := lo.Find(as, func(a accountingservtypes.Account) bool {
		return strings.EqualFold(a.Name, name)
	})
	if !found {
		return result.NotFoundWith(accountingservtypes.Account{Name: name}), nil
	}

	return result.OkWith(a), nil
}

func (r *ToshlService) GetCategories(
	ctx context.Context,
	token string,
) (result.Result[[]accountingservtypes.Category], error) {
	if token == "" {
		return result.NotAuthorized[[]accountingservtypes.Category](), nil
	}

	c := r.getClient(token)

	cs, err := doCancelableOperation(ctx, func() ([]accountingservtypes.Category, error) {
		cats, err := c.Categories(nil)
		if err != nil {
			return nil, toshlErr.Wrap(err)
		}

		return lo.Map(cats, func(c toshl.Category, _ int) accountingservtypes.Category {
			return accountingservtypes.Category{
				ID:   c.ID,
				Name: c.Name,
				Type: c.Type,
			}
		}), nil
	})
	if err != nil {
		return result.Result[[]accountingservtypes.Category]{}, err
	}

	return result.OkWith(cs), nil
}

func (r *ToshlService) CreateCategory(
	ctx context.Context, token, catType, category string,
) (result.Result[accountingservtypes.Category], error) {
	invalid := accountingservtypes.Category{Name: category, Type: catType}

	if token == "" {
		return result.NotAuthorized[accountingservtypes.Category](), nil
	}

	validCategoryTypes := []string{
		Income,
		Expense,
		Transaction,
	}

	if !slices.Contains(validCategoryTypes, catType) || strings.TrimSpace(category) == "" {
		return result.ValidationFailedWith(invalid), nil
	}

	c := r.getClient(token)

	cat, err := doCancelableOperation(ctx, func() (toshl.Category, error) {
		cat := toshl.Category{
			Name: category,
			Type: catType,
		}

		if err := c.CreateCategory(&cat); err != nil {
			return toshl.Category{}, toshlErr.New("could not create category: %w", err)
		}

		return cat, nil
	})
	if err != nil {
		return result.Result[accountingservtypes.Category]{}, err
	}

	return result.OkWith(accountingservtypes.Category{
		ID:   cat.ID,
		Name: cat.Name,
		Type: cat.Type,
	}), nil
}

func (r *ToshlService) CreateEntry(
	ctx context.Context, token string, entryInput accountingservtypes.CreateEntryInput,
) (result.Result[accountingservtypes.Entry], error) {
	log := logging.FromContext(ctx)

	entry := accountingservtypes.Entry{
		Date:        entryInput.Date.Format(dateFormat),
		Amount:      entryInput.Amount,
		Description: entryInput.Description,
		AccountID:   entryInput.AccountID,
		CategoryID:  entryInput.CategoryID,
	}

	if token == "" {
		return result.NotAuthorized[accountingservtypes.Entry](), nil
	}

	if entryInput.Amount.Number == 0 || entryInput.Amount.Code == "" ||
		entryInput.AccountID == "" || entryInput.CategoryID == "" ||
		entryInput.Date.IsZero() {
		res := result.ValidationFailedWith(entry)
		log.Debug("entry rejected", logging.Outcome("outcome", res))
		return res, nil
	}

	c := r.getClient(token)

	description := entry.Description
	newEntry := toshl.Entry{
		Amount: entry.Amount.Number,
		Currency: toshl.Currency{
			Code: entry.Amount.Code,
		},
		Date:        entry.Date,
		Description: &description,
		Account:     entry.AccountID,
		Category:    entry.CategoryID,
	}

	log.Debug("entry to create",
		logging.Any("entry", newEntry),
	)

	_, err := doCancelableOperation(ctx, func() (struct{}, error) {
		if err := c.CreateEntry(&newEntry); err != nil {
			return struct{}{}, toshlErr.New("could not create entry: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return result.Result[accountingservtypes.Entry]{}, err
	}

	return result.OkWith(entry), nil
}

func doCancelableOperation[T any](ctx context.Context, op func() (T, error)) (T, error) {
	type response struct {
		Value T
		Err   error
	}

	resp := make(chan response, 1)
	go func() {
		defer close(resp)
		v, err := op()
		resp <- response{
			Value: v,
			Err:   err,
		}
	}()

	var zeroValue T

	select {
	case <-ctx.Done():
		return zeroValue, errs.New("context finished: %w", ctx.Err())

	case r := <-resp:
		if r.Err != nil {
			return zeroValue, r.Err
		}

		return r.Value, nil
	}
}
