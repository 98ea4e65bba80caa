package vectorindex

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
)

// listSep joins multi-valued record fields inside a single hash field.
const listSep = "|"

// returnFields are the hash fields fetched alongside each KNN hit.
var returnFields = []string{
	"id", "s_no", "problem", "category", "type", "data", "code", "clause",
	"speed_min", "speed_max", "dimensions", "colors", "placement_distances",
	"priority", "keywords", "search_text",
}

// recordFromFields reconstructs a catalog record from index metadata.
// Missing fields default to empty/zero.
func recordFromFields(fields map[string]string) intervention.Record {
	rec := intervention.Record{
		ID:         fields["id"],
		Problem:    fields["problem"],
		Category:   fields["category"],
		Type:       fields["type"],
		Data:       fields["data"],
		Code:       fields["code"],
		Clause:     fields["clause"],
		Priority:   fields["priority"],
		SearchText: fields["search_text"],
	}

	if v, err := strconv.Atoi(fields["s_no"]); err == nil {
		rec.SerialNo = v
	}
	rec.SpeedMin = parseOptionalInt(fields["speed_min"])
	rec.SpeedMax = parseOptionalInt(fields["speed_max"])
	rec.Dimensions = splitList(fields["dimensions"])
	rec.Colors = splitList(fields["colors"])
	rec.PlacementDistances = splitList(fields["placement_distances"])
	rec.Keywords = splitList(fields["keywords"])

	return rec
}

// fieldsFromRecord flattens a record into HSET field/value pairs.
// The embedding vector is appended separately by the caller.
func fieldsFromRecord(rec intervention.Record) []string {
	pairs := []string{
		"id", rec.ID,
		"s_no", strconv.Itoa(rec.SerialNo),
		"problem", rec.Problem,
		"category", rec.Category,
		"type", rec.Type,
		"data", rec.Data,
		"code", rec.Code,
		"clause", rec.Clause,
		"priority", rec.Priority,
		"search_text", rec.SearchText,
		"dimensions", strings.Join(rec.Dimensions, listSep),
		"colors", strings.Join(rec.Colors, listSep),
		"placement_distances", strings.Join(rec.PlacementDistances, listSep),
		"keywords", strings.Join(rec.Keywords, listSep),
	}
	if rec.SpeedMin != nil {
		pairs = append(pairs, "speed_min", strconv.Itoa(*rec.SpeedMin))
	}
	if rec.SpeedMax != nil {
		pairs = append(pairs, "speed_max", strconv.Itoa(*rec.SpeedMax))
	}
	return pairs
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}

// vectorToBytes encodes a float32 vector as little-endian bytes for FT.SEARCH.
func vectorToBytes(vec []float32) string {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return string(buf)
}
