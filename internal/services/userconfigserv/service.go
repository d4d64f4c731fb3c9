package userconfigserv

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/pkg/result"
)

const (
	DefaultTable = "toshl-users"

	DefaultRefreshInterval = 5 * time.Minute

	cleanupInterval = 1 * time.Minute
)

var userConfigErr = errs.Class("userconfig")

type MappingConfig map[string]string

type ToshlConfig struct {
	Token string `json:"token" dynamodbav:"Token"`
}

type UserConfig struct {
	Email             string                   `json:"email"               dynamodbav:"Email"`
	SMSDeliveryNumber string                   `json:"sms_delivery_number" dynamodbav:"SMSDeliveryNumber"`
	Toshl             ToshlConfig              `json:"toshl"               dynamodbav:"Toshl"`
	Mapping           map[string]MappingConfig `json:"account_mappings"    dynamodbav:"AccountMappings"`
}

type dynamoClient interface {
	Scan(
		context.Context,
		*dynamodb.ScanInput,
		...func(*dynamodb.Options),
	) (*dynamodb.ScanOutput, error)
}

type inMemoryCache interface {
	Set(k string, v any, t time.Duration)
	Get(k string) (any, bool)
}

type DynamoDBService struct {
	Client          dynamoClient
	Table           string
	RefreshInterval time.Duration

	mu       sync.Mutex
	cache    inMemoryCache
	loadedAt time.Time
}

func (r *DynamoDBService) table() string {
	if r.Table == "" {
		return DefaultTable
	}

	return r.Table
}

func (r *DynamoDBService) loadedCache(ctx context.Context) (inMemoryCache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refresh := r.RefreshInterval
	if refresh == 0 {
		refresh = DefaultRefreshInterval
	}

	if r.cache == nil || time.Since(r.loadedAt) > refresh {
		if err := r.preload(ctx); err != nil {
			return nil, err
		}
	}

	return r.cache, nil
}

// PreloadAllConfigs scans the whole table into a fresh in-memory cache.
func (r *DynamoDBService) PreloadAllConfigs(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.preload(ctx)
}

func (r *DynamoDBService) preload(ctx context.Context) error {
	if r.Client == nil {
		return userConfigErr.New("dynamoDB client is nil")
	}

	scanIn := &dynamodb.ScanInput{
		TableName: aws.String(r.table()),
	}

	items := []map[string]types.AttributeValue{}
	for {
		out, err := r.Client.Scan(ctx, scanIn)
		if err != nil {
			return userConfigErr.New("could not scan table [%s]: %w", r.table(), err)
		}

		items = append(items, out.Items...)

		if out.LastEvaluatedKey == nil {
			break
		}

		scanIn.ExclusiveStartKey = out.LastEvaluatedKey
	}

	c := cache.New(cache.NoExpiration, cleanupInterval)
	for _, it := range items {
		var cfg UserConfig
		if err := attributevalue.UnmarshalMap(it, &cfg); err != nil {
			return userConfigErr.Wrap(err)
		}

		c.Set(normalizeEmail(cfg.Email), cfg, cache.NoExpiration)
	}
	r.cache = c
	r.loadedAt = time.Now()

	logging.FromContext(ctx).Debug("preloaded user configs",
		logging.String("table", r.table()),
		logging.Int("count", len(items)),
	)

	return nil
}

// GetUserConfigFromEmail looks up the configuration registered for email.
// A malformed address is VALIDATION_FAILED and an unknown one NOT_FOUND,
// both carrying the address.
func (r *DynamoDBService) GetUserConfigFromEmail(
	ctx context.Context,
	email string,
) (result.Result[UserConfig], error) {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return result.ValidationFailedWith(UserConfig{Email: email}), nil
	}

	c, err := r.loadedCache(ctx)
	if err != nil {
		return result.Result[UserConfig]{}, err
	}

	val, found := c.Get(normalizeEmail(addr.Address))
	if !found {
		return result.NotFoundWith(UserConfig{Email: email}), nil
	}

	return result.OkWith(val.(UserConfig)), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
