package vectorindex

import (
	"reflect"
	"testing"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
	"github.com/clearway-labs/signpost/internal/domain/search"
)

func intPtr(v int) *int { return &v }

func TestRecordFieldsRoundTrip(t *testing.T) {
	rec := intervention.Record{
		ID: "RS_001", SerialNo: 1, Problem: "Faded", Category: "Road Sign",
		Type: "STOP Sign", Data: "details", Code: "IRC:67-2022", Clause: "14.4",
		SpeedMin: intPtr(0), SpeedMax: intPtr(50),
		Colors: []string{"red", "white"}, Priority: "High",
		SearchText: "faded road sign stop",
	}

	pairs := fieldsFromRecord(rec)
	if len(pairs)%2 != 0 {
		t.Fatalf("field pairs must be even, got %d", len(pairs))
	}

	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}

	got := recordFromFields(fields)
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, rec)
	}
}

func TestRecordFromFields_MissingFieldsDefault(t *testing.T) {
	got := recordFromFields(map[string]string{"id": "X"})

	if got.ID != "X" {
		t.Errorf("expected id X, got %q", got.ID)
	}
	if got.SpeedMin != nil || got.SpeedMax != nil {
		t.Error("absent speed fields must stay nil")
	}
	if got.Colors != nil || got.Keywords != nil {
		t.Error("absent list fields must stay nil")
	}
}

func TestBuildTagFilter(t *testing.T) {
	f := search.Filters{
		Categories: []string{"Road Sign", "Road Marking"},
		Problems:   []string{"Faded"},
	}

	got := buildTagFilter(f)
	want := `@category:{Road\ Sign|Road\ Marking} @problem:{Faded}`
	if got != want {
		t.Errorf("unexpected filter:\ngot:  %s\nwant: %s", got, want)
	}

	if buildTagFilter(search.Filters{}) != "" {
		t.Error("empty filters must produce no clause")
	}
}

func TestVectorToBytes(t *testing.T) {
	b := vectorToBytes([]float32{1.0, -2.5})
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
	// 1.0 as little-endian IEEE 754: 00 00 80 3f
	if b[0] != 0x00 || b[1] != 0x00 || b[2] != 0x80 || b[3] != 0x3f {
		t.Errorf("unexpected encoding of 1.0: % x", b[:4])
	}
}
