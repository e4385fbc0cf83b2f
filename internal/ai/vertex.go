package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"cloud.google.com/go/vertexai/genai"
)

// ExtractionPrompt instructs the model to read the identity document and
// answer with a dictionary carrying exactly the known field set. The sentinel
// "Not Provided" stands in for anything unreadable; the parser trusts this
// contract and does not re-validate the key set.
const ExtractionPrompt = `Extract the text from the image and translate it into English. ` +
	`Return the result as a JSON dictionary whose keys are exactly: ` +
	`name, father's name, mother's name, date of birth, ID number, address, blood group. ` +
	`If any value cannot be read from the document, use "Not Provided" as the value.`

// ErrEmptyResponse is returned when the model call succeeds but produces no
// usable text (typically a safety block or an empty candidate list).
var ErrEmptyResponse = errors.New("model returned no usable text")

// VertexClient wraps the Vertex AI generative model used for document
// extraction. The model is configured once at construction; calls are
// synchronous and never retried.
type VertexClient struct {
	model       *genai.GenerativeModel
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
	baseClient  *genai.Client
	modelName   string
}

// NewVertexClient creates the extraction client for the given project and
// region. Safety thresholds are fully relaxed: identity documents carry
// personal data that default filters tend to block.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: genai.Ptr[int32](8192),
		Temperature:     genai.Ptr[float32](0.1),
		TopP:            genai.Ptr[float32](0.95),
	}
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "VertexAI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	// Conservative in-process throttle against the model endpoint
	rateLimiter := rate.NewLimiter(rate.Limit(1), 5)

	return &VertexClient{
		model:       model,
		breaker:     breaker,
		rateLimiter: rateLimiter,
		baseClient:  baseClient,
		modelName:   modelName,
	}, nil
}

// Extract sends the image and the extraction prompt to the model and returns
// the complete reply text in one shot. Any failure propagates as-is; no
// fallback output is ever substituted.
func (vc *VertexClient) Extract(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	tracer := otel.Tracer("vertex-client")
	ctx, span := tracer.Start(ctx, "vertex.extract")
	defer span.End()

	span.SetAttributes(
		attribute.String("vertex.model", vc.modelName),
		attribute.String("vertex.mime_type", mimeType),
		attribute.Int("vertex.image_bytes", len(imageData)),
	)

	if err := vc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("vertex.rate_limited", true))
		return "", err
	}

	result, err := vc.breaker.Execute(func() (interface{}, error) {
		resp, err := vc.model.GenerateContent(ctx,
			genai.Blob{MIMEType: mimeType, Data: imageData},
			genai.Text(ExtractionPrompt),
		)
		if err != nil {
			return nil, err
		}

		text := responseText(resp)
		if text == "" {
			return nil, ErrEmptyResponse
		}
		return text, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("vertex.error", true))
		span.SetAttributes(attribute.String("vertex.error_message", err.Error()))
		return "", err
	}

	span.SetAttributes(attribute.Bool("vertex.success", true))
	return result.(string), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text
}

// Close releases the underlying API client.
func (vc *VertexClient) Close() error {
	if vc.baseClient != nil {
		return vc.baseClient.Close()
	}
	return nil
}
