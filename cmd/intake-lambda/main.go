package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seventattoolv/vision-intake/cmd/mainconfig"
	appconfig "github.com/seventattoolv/vision-intake/internal/config"
	"github.com/seventattoolv/vision-intake/internal/crm"
	"github.com/seventattoolv/vision-intake/internal/http/handlers"
	httpmiddleware "github.com/seventattoolv/vision-intake/internal/http/middleware"
	"github.com/seventattoolv/vision-intake/internal/notify"
	"github.com/seventattoolv/vision-intake/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	var repo crm.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		repo = crm.NewPostgresRepository(pool)
	}

	notifier := notify.NewIntakeNotifier(buildSender(ctx, cfg, logger), notify.IntakeNotifierConfig{
		Receiver:         cfg.Receiver(),
		From:             cfg.Sender(),
		SendConfirmation: true,
	}, logger)

	intakeHandler := handlers.NewVisionCallHandler(repo, notifier, nil, handlers.VisionCallConfig{
		StoreTimeout: cfg.StoreTimeout,
		SendTimeout:  cfg.SendTimeout,
	}, logger)

	h := httpmiddleware.CORS(cfg.CORSOrigin)(http.HandlerFunc(intakeHandler.Submit))

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, h, cfg.CORSOrigin, evt)
	})
}

// handle bridges the API Gateway event onto the shared HTTP handler.
func handle(ctx context.Context, h http.Handler, allowedOrigin string, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method == "" {
		method = http.MethodPost
	}

	body, err := decodeBody(evt)
	if err != nil {
		// This rejection happens before the middleware chain runs, so the
		// CORS headers have to be written here.
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		httpmiddleware.ApplyHeaders(header, allowedOrigin)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    flattenHeader(header),
			Body:       `{"ok":false,"error":"Invalid body"}`,
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, method, "/intake/vision-call", bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	if ct := headerValue(evt.Headers, "content-type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	rec := newResponseBuffer()
	h.ServeHTTP(rec, req)

	return events.APIGatewayV2HTTPResponse{
		StatusCode: rec.statusCode(),
		Body:       rec.body.String(),
		Headers:    flattenHeader(rec.header),
	}, nil
}

// flattenHeader lowercases keys the way API Gateway normalizes them.
func flattenHeader(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for key := range h {
		flat[strings.ToLower(key)] = h.Get(key)
	}
	return flat
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// responseBuffer is a minimal in-memory http.ResponseWriter for the Lambda
// bridge.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header)}
}

func (r *responseBuffer) Header() http.Header {
	return r.header
}

func (r *responseBuffer) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *responseBuffer) Write(p []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	return r.body.Write(p)
}

func (r *responseBuffer) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func buildSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.Sender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			return nil
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.Sender(),
			FromName:  cfg.FromName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	default:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.Sender(),
			FromName:  cfg.FromName,
		}, logger)
		if sender == nil {
			return nil
		}
		return sender
	}
}
