package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JPClow3/Veins-of-Erid-n/internal/config"
	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/narration"
	"github.com/JPClow3/Veins-of-Erid-n/internal/observability"
)

// Context keys for operation tracing
type contextKey string

const (
	operationTypeKey contextKey = "operation_type"
	gameContextKey   contextKey = "game_context"
)

var (
	ErrNoImage      = errors.New("image service returned no image")
	ErrEmptySpeech  = errors.New("speech service returned no audio")
	ErrMissingInput = errors.New("nothing to send")
)

// Service talks to the story, image and speech models.
type Service struct {
	client      *openai.Client
	storyModel  string
	imageModel  string
	speechModel string
	voice       string
	maxTokens   int
	imageStyle  string
	debug       *debug.Logger
	tracer      trace.Tracer
}

func NewService(cfg config.Config, imageStyle string, debug *debug.Logger, opts ...option.RequestOption) *Service {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.OpenAIKey)}, opts...)
	client := openai.NewClient(opts...)
	return &Service{
		client:      &client,
		storyModel:  cfg.StoryModel,
		imageModel:  cfg.ImageModel,
		speechModel: cfg.SpeechModel,
		voice:       cfg.Voice,
		maxTokens:   cfg.MaxTokens,
		imageStyle:  strings.TrimSpace(imageStyle),
		debug:       debug,
		tracer:      otel.Tracer("llm-service"),
	}
}

// StreamTurn asks the story model to continue the story and returns its
// output as it arrives. The channel is closed after a chunk with Done set.
func (s *Service) StreamTurn(ctx context.Context, req narration.TurnRequest) (<-chan StreamChunk, error) {
	if strings.TrimSpace(req.Action) == "" {
		return nil, ErrMissingInput
	}

	operationType := "narration.stream"
	if opType := OperationType(ctx); opType != "" {
		operationType = opType
	}

	systemPrompt := req.SystemPrompt()
	userPrompt := req.UserPrompt()

	ctx, span := s.tracer.Start(ctx, operationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("chat", "openai", s.storyModel)...,
		),
	)
	span.SetAttributes(
		attribute.Int("gen_ai.request.max_tokens", s.maxTokens),
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("game.operation_type", operationType),
		attribute.String("game.action", req.Action),
	)
	CopyGameContextToSpan(ctx, span)
	span.AddEvent("gen_ai.user.message", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", userPrompt),
	))

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.storyModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		MaxCompletionTokens: openai.Int(int64(s.maxTokens)),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}

	s.debug.Printf("LLM Stream Request - Model: %s, MaxTokens: %d, SystemPrompt length: %d",
		s.storyModel, s.maxTokens, len(systemPrompt))

	startTime := time.Now()
	stream := s.client.Chat.Completions.NewStreaming(ctx, params)

	finish := func(output string, usage openai.CompletionUsage, err error) {
		defer span.End()
		span.SetAttributes(
			attribute.Int64("gen_ai.usage.input_tokens", usage.PromptTokens),
			attribute.Int64("gen_ai.usage.output_tokens", usage.CompletionTokens),
			attribute.Int64("response_time_ms", time.Since(startTime).Milliseconds()),
			attribute.String("langfuse.observation.input", systemPrompt+"\n\n"+userPrompt),
			attribute.String("langfuse.observation.output", output),
			attribute.String("langfuse.observation.model.name", s.storyModel),
		)
		if err != nil {
			span.SetAttributes(attribute.String("error.type", "llm_stream_error"))
			span.RecordError(err)
			span.SetStatus(codes.Error, "stream failed")
			return
		}
		span.AddEvent("gen_ai.choice", trace.WithAttributes(
			attribute.String("gen_ai.system", "openai"),
			attribute.String("content", output),
		))
	}

	return ReadStreamChunks(ctx, stream, s.debug, finish), nil
}

// GenerateImage renders prompt in the world's art style and returns the
// decoded image bytes.
func (s *Service) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrMissingInput
	}
	if s.imageStyle != "" {
		prompt = prompt + ". " + s.imageStyle
	}

	ctx, span := s.tracer.Start(ctx, "llm.generate_image",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("image_generation", "openai", s.imageModel)...,
		),
	)
	defer span.End()
	CopyGameContextToSpan(ctx, span)
	span.SetAttributes(attribute.String("langfuse.observation.input", prompt))

	s.debug.Printf("Image request - Model: %s, prompt length: %d", s.imageModel, len(prompt))

	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(s.imageModel),
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image generation failed")
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		span.RecordError(ErrNoImage)
		return nil, ErrNoImage
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	span.SetAttributes(attribute.Int("image.bytes", len(img)))
	return img, nil
}

// Synthesize voices text and returns the encoded audio.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMissingInput
	}

	ctx, span := s.tracer.Start(ctx, "llm.synthesize_speech",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("speech", "openai", s.speechModel)...,
		),
	)
	defer span.End()
	span.SetAttributes(
		attribute.String("speech.voice", s.voice),
		attribute.Int("speech.input_chars", len(text)),
	)

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(s.speechModel),
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "speech synthesis failed")
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptySpeech
	}
	span.SetAttributes(attribute.Int("speech.bytes", len(audio)))
	return audio, nil
}

// WithOperationType names the span of the next model call made with ctx.
func WithOperationType(ctx context.Context, operationType string) context.Context {
	return context.WithValue(ctx, operationTypeKey, operationType)
}

// WithGameContext attaches game attributes to model call spans.
func WithGameContext(ctx context.Context, gameContext map[string]interface{}) context.Context {
	return context.WithValue(ctx, gameContextKey, gameContext)
}

// OperationType returns the span name set by WithOperationType, if any.
func OperationType(ctx context.Context) string {
	if opType, ok := ctx.Value(operationTypeKey).(string); ok {
		return opType
	}
	return ""
}

func getGameContext(ctx context.Context) map[string]interface{} {
	if gameCtx, ok := ctx.Value(gameContextKey).(map[string]interface{}); ok {
		return gameCtx
	}
	return nil
}

// CopyGameContextToSpan attaches game context and session id attributes to an existing span.
func CopyGameContextToSpan(ctx context.Context, span trace.Span) {
	if span == nil {
		return
	}
	if sid := observability.GetSessionIDFromContext(ctx); sid != "" {
		span.SetAttributes(observability.SessionAttributes(sid)...)
	}
	for k, v := range getGameContext(ctx) {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String("game."+k, val))
		case int:
			span.SetAttributes(attribute.Int("game."+k, val))
		case []string:
			span.SetAttributes(attribute.StringSlice("game."+k, val))
		}
	}
}
