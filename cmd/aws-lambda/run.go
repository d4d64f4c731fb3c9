package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philanthropists/outcome/internal/config"
	"github.com/Philanthropists/outcome/internal/logging"
	"github.com/Philanthropists/outcome/internal/services/userconfigserv"
)

const versionFile = "version"

func getVersion() (string, error) {
	f, err := os.Open(versionFile)
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(raw)), nil
}

func configureLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	version := "dev"
	if v, err := getVersion(); err == nil {
		version = v
	}

	logger = logger.With(zap.String("version", version))
	logging.SetGlobalLogger(logger)

	return logger, nil
}

func newHandler(ctx context.Context) (*Handler, error) {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, err
	}

	return &Handler{
		Users: &userconfigserv.DynamoDBService{
			Client: dynamodb.NewFromConfig(awsCfg),
			Table:  cfg.AWS.UsersTable,
		},
		APIToken: cfg.API.Token,
	}, nil
}

func main() {
	logger, err := configureLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	h, err := newHandler(context.Background())
	if err != nil {
		logger.Fatal("could not create handler", zap.Error(err))
	}

	lambda.Start(h.Handle)
}
