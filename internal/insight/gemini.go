package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"lumina/internal/logging"
	"lumina/internal/mediatypes"
	"lumina/internal/metrics"
)

// Default model names.
const (
	DefaultTextModel  = "gemini-2.0-flash"
	DefaultImageModel = "gemini-2.5-flash-image"
)

const (
	curatorPrompt = "You are a digital art curator. Describe this media for a luxury Smart TV gallery in English. " +
		"Be poetic, brief (max 2 sentences) and professional."
	visionPrompt = "Create a cinematic visual prompt based on this frame from the video '%s'. " +
		"The goal is a minimalist and dramatic movie cover."
	cannedCoverPrompt = "Cinematic minimalist movie poster for %s, 4k, studio lighting."
	coverStyle        = " High-end TV interface style, 16:9 aspect ratio."
)

// Operation labels.
const (
	opDescribe = "describe"
	opVision   = "thumbnail_prompt"
	opImage    = "thumbnail_image"
)

// Config configures the Gemini gateway.
type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
	RPM        int           // requests per minute, 0 means 10
	Timeout    time.Duration // per model call, 0 means 30s
}

// generator runs one model call.
type generator interface {
	Generate(ctx context.Context, model string, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type clientGenerator struct {
	client *genai.Client
}

func (g clientGenerator) Generate(ctx context.Context, model string, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return g.client.GenerativeModel(model).GenerateContent(ctx, parts...)
}

// Gemini is the Gateway backed by the Google generative AI API.
type Gemini struct {
	gen     generator
	closeFn func() error
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// New returns a Gemini gateway, or Static when cfg has no API key.
func New(ctx context.Context, cfg Config) (Gateway, error) {
	if cfg.APIKey == "" {
		logging.Warn("GEMINI_API_KEY not set, AI captions and covers use fixed fallbacks")
		return Static{}, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g := newGemini(clientGenerator{client: client}, cfg)
	g.closeFn = client.Close
	logging.Info("AI gateway: Gemini (text=%s, image=%s, %d rpm)", g.cfg.TextModel, g.cfg.ImageModel, g.cfg.RPM)
	return g, nil
}

func newGemini(gen generator, cfg Config) *Gemini {
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.RPM <= 0 {
		cfg.RPM = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn("Circuit breaker %s: %s -> %s", name, from, to)
			metrics.InsightBreakerState.Set(float64(to))
		},
	})

	burst := max(1, cfg.RPM/10)
	return &Gemini{
		gen:     gen,
		cfg:     cfg,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), burst),
	}
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.closeFn == nil {
		return nil
	}
	return g.closeFn()
}

// DescribeMedia returns a short caption for ref.
func (g *Gemini) DescribeMedia(ctx context.Context, ref MediaRef) string {
	content := genai.Part(genai.Text(fmt.Sprintf("Analyze this %s content.", ref.Type)))
	if ref.Type == mediatypes.TypeImage && len(ref.Data) > 0 {
		mime := ref.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		content = genai.Blob{MIMEType: mime, Data: ref.Data}
	}

	resp, err := g.call(ctx, opDescribe, g.cfg.TextModel, genai.Text(curatorPrompt), content)
	if err != nil {
		logging.Warn("Insight describe failed for %s: %v", ref.ID, err)
		return FallbackDescription
	}

	text := responseText(resp)
	if text == "" {
		return EmptyDescription
	}
	return text
}

// GenerateThumbnail turns a sampled frame into a cover image. It returns nil
// on any failure.
func (g *Gemini) GenerateThumbnail(ctx context.Context, frame []byte, title string) []byte {
	if len(frame) == 0 {
		return nil
	}

	resp, err := g.call(ctx, opVision, g.cfg.TextModel,
		genai.Text(fmt.Sprintf(visionPrompt, title)),
		genai.ImageData("jpeg", frame),
	)
	if err != nil {
		logging.Warn("Insight cover prompt failed for %q: %v", title, err)
		return nil
	}

	prompt := responseText(resp)
	if prompt == "" {
		prompt = fmt.Sprintf(cannedCoverPrompt, title)
	}

	resp, err = g.call(ctx, opImage, g.cfg.ImageModel, genai.Text(prompt+coverStyle))
	if err != nil {
		logging.Warn("Insight cover image failed for %q: %v", title, err)
		return nil
	}

	img := firstImage(resp)
	if img == nil {
		logging.Debug("Insight cover for %q returned no image part", title)
	}
	return img
}

// call runs one model call through the limiter and the breaker, recording
// its outcome.
func (g *Gemini) call(ctx context.Context, op, model string, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	status := "success"
	defer func() {
		metrics.InsightRequestsTotal.WithLabelValues(op, status).Inc()
		metrics.InsightRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		status = "rate_limited"
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.gen.Generate(ctx, model, parts...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "breaker_open"
		} else {
			status = "error"
		}
		return nil, err
	}

	resp, ok := result.(*genai.GenerateContentResponse)
	if !ok || resp == nil {
		status = "error"
		return nil, errors.New("empty model response")
	}
	return resp, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		// Only the first candidate is used.
		break
	}
	return strings.TrimSpace(b.String())
}

func firstImage(resp *genai.GenerateContentResponse) []byte {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && strings.HasPrefix(blob.MIMEType, "image/") && len(blob.Data) > 0 {
				return blob.Data
			}
		}
	}
	return nil
}
