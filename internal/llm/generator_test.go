package llm

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/planner"
)

func TestSamplingFor(t *testing.T) {
	tests := []struct {
		name     string
		opts     GenerateOptions
		wantTemp float64
		wantTopP float64
	}{
		{"default", GenerateOptions{WorkoutType: "upper_body", Experience: domain.ExperienceIntermediate, DurationMin: 30}, 0.2, 0.9},
		{"long session", GenerateOptions{WorkoutType: "full_body", DurationMin: 60}, 0.1, 0.9},
		{"advanced", GenerateOptions{Experience: domain.ExperienceAdvanced, DurationMin: 20}, 0.1, 0.9},
		{"hiit", GenerateOptions{WorkoutType: "hiit", DurationMin: 20}, 0.3, 0.95},
		{"long advanced metcon", GenerateOptions{WorkoutType: "Metcon_Finisher", Experience: domain.ExperienceAdvanced, DurationMin: 90}, 0.2, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SamplingFor(tt.opts)
			if math.Abs(got.Temperature-tt.wantTemp) > 1e-9 {
				t.Errorf("Temperature = %v, want %v", got.Temperature, tt.wantTemp)
			}
			if got.TopP != tt.wantTopP {
				t.Errorf("TopP = %v, want %v", got.TopP, tt.wantTopP)
			}
			if got.Temperature < 0 || got.Temperature > 1 {
				t.Errorf("Temperature %v out of range", got.Temperature)
			}
		})
	}
}

func TestGenerate_Success(t *testing.T) {
	mock := NewMockProvider(SamplePlanJSON)
	g := NewGenerator(mock, 2000, time.Second)

	res, err := g.Generate(t.Context(), planner.Prompt{Text: "make a plan"}, GenerateOptions{WorkoutType: "hiit", DurationMin: 20})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := res.Draft.ExerciseCount(); got != 3 {
		t.Errorf("ExerciseCount = %d, want 3", got)
	}
	if res.Model != "mock" || res.TokensUsed != 100 {
		t.Errorf("usage not carried: %+v", res)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	call := calls[0]
	if call.System != planner.SystemPersona || call.User != "make a plan" {
		t.Error("persona or prompt not forwarded")
	}
	if call.Schema != PlanSchema || call.MaxTokens != 2000 || call.TopP != 0.95 {
		t.Errorf("request = %+v", call)
	}
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		err      error
		wantKind ErrorKind
	}{
		{"empty", "   ", nil, KindNoContent},
		{"not json", "Here is your workout!", nil, KindBadOutput},
		{"no exercises", `{"meta":{},"blocks":[{"name":"A","exercises":[]}]}`, nil, KindBadOutput},
		{"rate limited", "", &UpstreamError{Provider: "OpenAI", StatusCode: 429, Message: "slow down"}, KindUpstream},
		{"gateway timeout", "", &UpstreamError{Provider: "OpenAI", StatusCode: 504}, KindTimeout},
		{"network", "", errors.New("connection reset"), KindUpstream},
		{"deadline", "", context.DeadlineExceeded, KindTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockProvider{FixedContent: tt.content, CompleteErr: tt.err}
			_, err := NewGenerator(mock, 0, 0).Generate(t.Context(), planner.Prompt{}, GenerateOptions{})

			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("err = %v, want *GenerationError", err)
			}
			if genErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", genErr.Kind, tt.wantKind)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("cause %v not wrapped", tt.err)
			}
		})
	}
}

func TestGenerate_BadOutputKeepsRaw(t *testing.T) {
	mock := NewMockProvider("not a plan")
	res, err := NewGenerator(mock, 0, 0).Generate(t.Context(), planner.Prompt{}, GenerateOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if res == nil || res.Raw != "not a plan" {
		t.Errorf("raw output should be returned for archiving, got %+v", res)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	mock := &MockProvider{FixedContent: SamplePlanJSON, Delay: time.Second}
	_, err := NewGenerator(mock, 0, 10*time.Millisecond).Generate(t.Context(), planner.Prompt{}, GenerateOptions{})

	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Kind != KindTimeout {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestParseDraft_Fenced(t *testing.T) {
	draft, err := ParseDraft("```json\n" + SamplePlanJSON + "\n```")
	if err != nil {
		t.Fatalf("ParseDraft: %v", err)
	}
	if draft.Blocks[0].Name != "Strength" {
		t.Errorf("block name = %q", draft.Blocks[0].Name)
	}
	if r := draft.Warmup[0].Sets[0]; r.Reps != nil || r.TimeSec == nil || *r.TimeSec != 60 {
		t.Errorf("nullable dosage not decoded: %+v", r)
	}
}

func TestParseDraft_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"unknown properties",
			`{"meta":{},"warmup":[],"finisher":[],"cooldown":[],"notes":"","extra":true,
			  "blocks":[{"name":"A","exercises":[{"name":"x","bogus":1,"sets":[]}]}]}`,
			"unknown field",
		},
		{
			"missing top-level keys",
			`{"blocks":[{"name":"A","exercises":[{"name":"x","sets":[]}]}]}`,
			"cooldown, finisher, meta, notes, warmup",
		},
		{
			"nameless exercise",
			strings.Replace(SamplePlanJSON, `"name": "Push-up"`, `"name": " "`, 1),
			"has no name",
		},
		{
			"nameless warm-up",
			strings.Replace(SamplePlanJSON, `"name": "Arm Circles"`, `"name": ""`, 1),
			"warmup exercise 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := ParseDraft(tt.content)
			if err == nil {
				t.Fatalf("ParseDraft accepted %+v", draft)
			}
			if err.Kind != KindBadOutput {
				t.Errorf("Kind = %s, want %s", err.Kind, KindBadOutput)
			}
			if err.Raw != tt.content {
				t.Error("raw output not kept")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestPlanSchema_Strict(t *testing.T) {
	root := PlanSchema.Schema
	required, _ := root["required"].([]string)
	if got := strings.Join(required, ","); got != "blocks,cooldown,finisher,meta,notes,warmup" {
		t.Errorf("required = %s", got)
	}
	if root["additionalProperties"] != false {
		t.Error("root must forbid additional properties")
	}
}
