package openai

import (
	"reflect"
	"strings"
	"testing"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEntities(t *testing.T) {
	raw := "```json\n" + `{
		"problems": ["Faded"],
		"category": "Road Sign",
		"type": "STOP Sign",
		"speed": 65,
		"road_type": "Highway",
		"environment": ["visibility"],
		"urgency": "High"
	}` + "\n```"

	ent, err := parseEntities(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ent.Problems, []string{"Faded"}) {
		t.Errorf("unexpected problems: %v", ent.Problems)
	}
	if ent.Category != "Road Sign" || ent.Type != "STOP Sign" {
		t.Errorf("unexpected category/type: %q/%q", ent.Category, ent.Type)
	}
	if ent.Speed == nil || *ent.Speed != 65 {
		t.Errorf("unexpected speed: %v", ent.Speed)
	}
}

func TestParseEntities_NullFields(t *testing.T) {
	ent, err := parseEntities(`{"problems": [], "category": null, "speed": null}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ent.IsEmpty() {
		t.Errorf("expected empty entities, got %+v", ent)
	}
}

func TestParseEntities_Malformed(t *testing.T) {
	if _, err := parseEntities("not json at all"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSynthesisPrompt_TruncatesDetails(t *testing.T) {
	rec := intervention.Record{
		ID: "RS_001", Problem: "Faded", Category: "Road Sign", Type: "STOP Sign",
		Code: "IRC:67-2022", Clause: "14.4",
		Data: strings.Repeat("x", 2*synthesisContextLimit),
	}

	prompt := synthesisPrompt("faded stop sign", []intervention.Record{rec})

	if !strings.Contains(prompt, "RS_001") {
		t.Error("prompt must include the record ID")
	}
	if strings.Contains(prompt, strings.Repeat("x", synthesisContextLimit+1)) {
		t.Error("record details must be truncated in the prompt context")
	}
}
