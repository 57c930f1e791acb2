package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"safelens/handler"
	"safelens/internal/dispatch"
	"safelens/internal/integrations/paramstore"
	"safelens/internal/integrations/twilio"
	"safelens/internal/location"
	"safelens/internal/repository"
	"safelens/internal/risk"
	"safelens/internal/usecase"
)

// Mock coordinates served until a real device-location collaborator exists.
const (
	defaultLat = -26.1843
	defaultLon = 28.0055
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	contactsTable := mustEnv("CONTACTS_TABLE")
	paramPrefix := mustEnv("PARAM_PREFIX")
	trackingBaseURL := mustEnv("TRACKING_BASE_URL")
	channelKind := envStr("ALERT_CHANNEL", "twilio")
	lexiconParam := os.Getenv("LEXICON_PARAM")
	workers := envInt("DISPATCH_WORKERS", 4)
	sendTimeoutMS := envInt("SEND_TIMEOUT_MS", 10000)
	maxTextLen := envInt("MAX_TEXT_LENGTH", 2000)

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	dynamoClient := awsdynamodb.NewFromConfig(cfg)
	contactStore, err := repository.New(dynamoClient, contactsTable)
	if err != nil {
		slog.Error("failed to create contact store", "err", err)
		os.Exit(1)
	}

	// ---- Lexicon (default, or an operator-supplied variant from SSM) ----
	lexicon := risk.DefaultLexicon()
	if lexiconParam != "" {
		raw, err := ssmClient.GetParameter(ctx, lexiconParam)
		if err != nil {
			slog.Error("failed to load lexicon parameter", "param", lexiconParam, "err", err)
			os.Exit(1)
		}
		lexicon, err = risk.ParseLexicon([]byte(raw))
		if err != nil {
			slog.Error("failed to parse lexicon parameter", "param", lexiconParam, "err", err)
			os.Exit(1)
		}
		slog.Info("loaded lexicon override", "param", lexiconParam, "categories", len(lexicon))
	}
	classifier, err := risk.NewClassifier(lexicon)
	if err != nil {
		slog.Error("failed to create classifier", "err", err)
		os.Exit(1)
	}

	// ---- Notification channel (explicit selection, no implicit fallback) ----
	var channel dispatch.Channel
	var senderIdentity string
	switch channelKind {
	case "twilio":
		channel, err = twilio.NewClient(ssmClient, paramPrefix)
		if err != nil {
			slog.Error("failed to create twilio client", "err", err)
			os.Exit(1)
		}
	case "log":
		channel = dispatch.NewLogChannel(slog.Default())
		senderIdentity = "SafeLens"
	default:
		slog.Error("unknown ALERT_CHANNEL", "value", channelKind)
		os.Exit(1)
	}

	dispatcher, err := dispatch.NewDispatcher(channel, senderIdentity,
		dispatch.WithWorkers(workers),
		dispatch.WithSendTimeout(time.Duration(sendTimeoutMS)*time.Millisecond),
	)
	if err != nil {
		slog.Error("failed to create dispatcher", "err", err)
		os.Exit(1)
	}

	locProvider, err := location.NewStatic(trackingBaseURL, defaultLat, defaultLon)
	if err != nil {
		slog.Error("failed to create location provider", "err", err)
		os.Exit(1)
	}

	// ---- Services ----
	analyzeService, err := usecase.NewAnalyzeService(classifier, maxTextLen)
	if err != nil {
		slog.Error("failed to create analyze service", "err", err)
		os.Exit(1)
	}
	alertService, err := usecase.NewAlertService(dispatcher, contactStore, repository.NewContact, locProvider)
	if err != nil {
		slog.Error("failed to create alert service", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	h, err := handler.NewHandler(analyzeService, alertService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
