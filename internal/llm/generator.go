package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/planner"
)

// ErrorKind classifies why a generation failed.
type ErrorKind string

const (
	KindNoContent ErrorKind = "no_content" // model returned nothing
	KindBadOutput ErrorKind = "bad_output" // text was not a usable plan
	KindUpstream  ErrorKind = "upstream"   // provider or network failure, rate limits included
	KindTimeout   ErrorKind = "timeout"
)

// GenerationError is returned by Generator.Generate for every failure.
// Raw holds whatever text the model returned, for diagnosis only; it never reaches clients.
type GenerationError struct {
	Kind  ErrorKind
	Raw   string
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("generation failed (%s)", e.Kind)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// GenerateOptions are the request facts that steer sampling.
type GenerateOptions struct {
	WorkoutType string
	Experience  domain.Experience
	DurationMin int
}

// Sampling is the temperature / nucleus pair sent with a generation call.
type Sampling struct {
	Temperature float64
	TopP        float64
}

var conditioningTypes = []string{"hiit", "conditioning", "cardio", "metcon"}

// SamplingFor keeps long or advanced sessions conservative and lets conditioning
// sessions vary more.
func SamplingFor(opts GenerateOptions) Sampling {
	s := Sampling{Temperature: 0.2, TopP: 0.9}
	if opts.DurationMin >= 60 || opts.Experience == domain.ExperienceAdvanced {
		s.Temperature -= 0.1
	}
	wt := strings.ToLower(opts.WorkoutType)
	for _, c := range conditioningTypes {
		if strings.Contains(wt, c) {
			s.Temperature += 0.1
			s.TopP = 0.95
			break
		}
	}
	s.Temperature = min(max(s.Temperature, 0), 1)
	return s
}

// Result is a parsed draft plus what we know about the call that produced it.
type Result struct {
	Draft      *domain.PlanDraft
	Raw        string
	Model      string
	TokensUsed int64
	Duration   time.Duration
}

// Generator turns a composed prompt into a validated PlanDraft.
type Generator struct {
	provider  Provider
	maxTokens int
	timeout   time.Duration
}

// NewGenerator wraps a provider. timeout <= 0 means the caller's context is the only bound.
func NewGenerator(provider Provider, maxTokens int, timeout time.Duration) *Generator {
	return &Generator{provider: provider, maxTokens: maxTokens, timeout: timeout}
}

// Generate calls the model once. It never retries; on failure the returned error is a
// *GenerationError and the Result, when non-nil, still carries the raw text and usage.
func (g *Generator) Generate(ctx context.Context, prompt planner.Prompt, opts GenerateOptions) (*Result, error) {
	ctx, span := otel.Tracer("fitgen/llm").Start(ctx, "llm.Generate")
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	sampling := SamplingFor(opts)
	span.SetAttributes(
		attribute.String("llm.provider", g.provider.Name()),
		attribute.Float64("llm.temperature", sampling.Temperature),
		attribute.Float64("llm.top_p", sampling.TopP),
		attribute.String("llm.prompt_variant", prompt.Variant),
	)

	completion, err := g.provider.Complete(ctx, CompletionRequest{
		System:      planner.SystemPersona,
		User:        prompt.Text,
		Temperature: sampling.Temperature,
		TopP:        sampling.TopP,
		MaxTokens:   g.maxTokens,
		Schema:      PlanSchema,
	})
	if err != nil {
		genErr := classify(ctx, err)
		span.RecordError(genErr)
		span.SetStatus(codes.Error, string(genErr.Kind))
		return nil, genErr
	}

	res := &Result{
		Raw:        completion.Content,
		Model:      completion.Model,
		TokensUsed: completion.TokensUsed,
		Duration:   completion.Duration,
	}
	span.SetAttributes(
		attribute.String("llm.model", completion.Model),
		attribute.Int64("llm.tokens", completion.TokensUsed),
	)

	draft, genErr := ParseDraft(completion.Content)
	if genErr != nil {
		span.RecordError(genErr)
		span.SetStatus(codes.Error, string(genErr.Kind))
		return res, genErr
	}
	res.Draft = draft
	return res, nil
}

// ParseDraft decodes model output into a PlanDraft. Output that strays from PlanSchema is
// rejected even though strict providers enforce it: compatible backends and mock files may not.
// The draft must carry every top-level key, no unknown properties, a name on every exercise
// and at least one exercise in its blocks.
func ParseDraft(raw string) (*domain.PlanDraft, *GenerationError) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &GenerationError{Kind: KindNoContent, Raw: raw}
	}
	// Some compatible backends ignore the response format and fence their JSON.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	badOutput := func(err error) *GenerationError {
		return &GenerationError{Kind: KindBadOutput, Raw: raw, Cause: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, badOutput(fmt.Errorf("decoding plan: %w", err))
	}
	var missing []string
	for _, key := range requiredPlanKeys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, badOutput(fmt.Errorf("plan is missing %s", strings.Join(missing, ", ")))
	}

	var draft domain.PlanDraft
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		return nil, badOutput(fmt.Errorf("decoding plan: %w", err))
	}
	if draft.ExerciseCount() == 0 {
		return nil, badOutput(errors.New("plan has no exercises"))
	}
	if err := checkExerciseNames(&draft); err != nil {
		return nil, badOutput(err)
	}
	return &draft, nil
}

var requiredPlanKeys, _ = PlanSchema.Schema["required"].([]string)

func checkExerciseNames(d *domain.PlanDraft) error {
	check := func(section string, exercises []domain.DraftExercise) error {
		for i, ex := range exercises {
			if strings.TrimSpace(ex.Name) == "" {
				return fmt.Errorf("%s exercise %d has no name", section, i)
			}
		}
		return nil
	}
	if err := check("warmup", d.Warmup); err != nil {
		return err
	}
	for _, b := range d.Blocks {
		if err := check(fmt.Sprintf("block %q", b.Name), b.Exercises); err != nil {
			return err
		}
	}
	return check("cooldown", d.Cooldown)
}

type timeouter interface{ Timeout() bool }

func classify(ctx context.Context, err error) *GenerationError {
	kind := KindUpstream
	var (
		upstream *UpstreamError
		te       timeouter
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &upstream):
		if upstream.StatusCode == http.StatusRequestTimeout || upstream.StatusCode == http.StatusGatewayTimeout {
			kind = KindTimeout
		}
	case errors.As(err, &te) && te.Timeout():
		kind = KindTimeout
	}
	return &GenerationError{Kind: kind, Cause: err}
}
