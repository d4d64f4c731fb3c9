package dateprocessingserv

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/pkg/result"
)

const (
	OverrideLastProcessedDateEnvName = "OVERRIDE_LAST_PROC_DATE"

	DefaultTable = "toshl-data"

	field  = "LastProcessedDate"
	itemId = 1

	dateFormat     = time.RFC822Z
	overrideFormat = "2006-01-02"
)

var dateErr = errs.Class("dateprocessing")

type dynamoClient interface {
	GetItem(
		context.Context,
		*dynamodb.GetItemInput,
		...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)

	UpdateItem(
		context.Context,
		*dynamodb.UpdateItemInput,
		...func(*dynamodb.Options),
	) (*dynamodb.UpdateItemOutput, error)
}

type DynamoDBService struct {
	Client dynamoClient
	Table  string
}

func (r DynamoDBService) table() string {
	if r.Table == "" {
		return DefaultTable
	}

	return r.Table
}

// GetLastProcessedDate returns the date the last sync finished, minus a
// day of overlap. NOT_FOUND means no sync was recorded yet, and a
// malformed override is VALIDATION_FAILED carrying the zero time.
func (r DynamoDBService) GetLastProcessedDate(
	ctx context.Context,
) (result.Result[time.Time], error) {
	if override, set := r.lastProcessedDateOverride(ctx); set {
		return override, nil
	}

	if r.Client == nil {
		return result.Result[time.Time]{}, dateErr.New("dynamoDB client is nil")
	}

	since, err := r.getDateFromStorage(ctx)
	if err != nil {
		return result.Result[time.Time]{}, err
	}

	if !since.Success() {
		return since, nil
	}

	const oneDayBefore time.Duration = -24 * time.Hour
	t, _ := since.Value()

	return result.OkWith(t.Add(oneDayBefore)), nil
}

func (r DynamoDBService) lastProcessedDateOverride(ctx context.Context) (result.Result[time.Time], bool) {
	dateStr := os.Getenv(OverrideLastProcessedDateEnvName)
	if dateStr == "" {
		return result.Result[time.Time]{}, false
	}

	log := logging.FromContext(ctx)

	selectedDate, err := time.Parse(overrideFormat, dateStr)
	if err != nil {
		log.Error("override is set, but it is invalid", logging.String("override", dateStr))
		return result.ValidationFailedWith(time.Time{}), true
	}

	log.Info("date is overriden", logging.Time("date_override", selectedDate))

	return result.OkWith(selectedDate), true
}

func (r DynamoDBService) SaveProcessedDate(
	ctx context.Context,
	t time.Time,
) error {
	if r.Client == nil {
		return dateErr.New("dynamoDB client is nil")
	}

	key, err := attributevalue.MarshalMap(map[string]any{
		"Id": itemId,
	})
	if err != nil {
		return dateErr.Wrap(err)
	}

	expAttrValues, err := attributevalue.MarshalMap(map[string]any{
		":r": ProcessedDate(t),
	})
	if err != nil {
		return dateErr.Wrap(err)
	}

	exp := fmt.Sprintf("set %s = :r", field)
	ps := &dynamodb.UpdateItemInput{
		Key:                       key,
		ExpressionAttributeValues: expAttrValues,
		TableName:                 aws.String(r.table()),
		ReturnValues:              types.ReturnValueUpdatedNew,
		UpdateExpression:          aws.String(exp),
	}

	if _, err := r.Client.UpdateItem(ctx, ps); err != nil {
		return dateErr.New("could not update processing date: %w", err)
	}

	return nil
}

type ProcessedDate time.Time

func (d ProcessedDate) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	s := time.Time(d).Format(dateFormat)
	return &types.AttributeValueMemberS{
		Value: s,
	}, nil
}

func (d *ProcessedDate) UnmarshalDynamoDBAttributeValue(v types.AttributeValue) error {
	str, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return errs.New("field is not a string type: %v", v)
	}

	selectedDate, err := time.Parse(dateFormat, str.Value)
	if err != nil {
		return errs.New(
			"%q is not a string representing a date: %w",
			str.Value, err,
		)
	}

	*d = ProcessedDate(selectedDate)

	return nil
}

type DateObj struct {
	ProcessedDate *ProcessedDate `dynamodbav:"LastProcessedDate"`
}

func (r DynamoDBService) getDateFromStorage(
	ctx context.Context,
) (result.Result[time.Time], error) {
	key, err := attributevalue.MarshalMap(map[string]any{
		"Id": itemId,
	})
	if err != nil {
		return result.Result[time.Time]{}, dateErr.Wrap(err)
	}

	res, err := r.Client.GetItem(ctx, &dynamodb.GetItemInput{
		Key:       key,
		TableName: aws.String(r.table()),
	})
	if err != nil {
		return result.Result[time.Time]{}, dateErr.New(
			"could not get item with id [%d] from dynamodb table [%s]: %w",
			itemId, r.table(), err,
		)
	}

	if len(res.Item) == 0 {
		return result.NotFound[time.Time](), nil
	}

	var val DateObj
	if err := attributevalue.UnmarshalMap(res.Item, &val); err != nil {
		return result.Result[time.Time]{}, dateErr.Wrap(err)
	}

	if val.ProcessedDate == nil {
		return result.NotFound[time.Time](), nil
	}

	return result.OkWith(time.Time(*val.ProcessedDate)), nil
}
