package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clearway-labs/signpost/internal/domain/entities"
	"github.com/clearway-labs/signpost/internal/domain/intervention"
)

// extractionPrompt instructs the model to return a strict JSON entity object.
func extractionPrompt(query string) string {
	return fmt.Sprintf(`You are an expert in road safety interventions. Analyze the following query and extract structured information.

Query: %q

Extract the following information (return valid JSON only, no markdown):
{
    "problems": ["problem types mentioned: Damaged, Faded, Missing, Spacing Issue, Height Issue, etc."],
    "category": "Road Sign, Road Marking, or Traffic Calming Measures (if mentioned)",
    "type": "specific type mentioned (e.g., STOP Sign, Speed Breaker, etc.)",
    "speed": "speed value in km/h as integer (null if not mentioned)",
    "road_type": "Highway, Urban, Rural, Arterial, etc. (if mentioned)",
    "environment": ["environmental factors: visibility, weather, obstruction, trees, etc."],
    "urgency": "Critical, High, Medium, or Low based on safety impact"
}

Return only the JSON object, no additional text.`, query)
}

// synthesisContextLimit is the per-record detail truncation for the synthesis prompt.
const synthesisContextLimit = 500

// synthesisPrompt builds the recommendation prompt from the top-ranked records.
func synthesisPrompt(query string, records []intervention.Record) string {
	var ctx strings.Builder
	for i, rec := range records {
		detail := rec.Data
		if len(detail) > synthesisContextLimit {
			detail = detail[:synthesisContextLimit] + "..."
		}
		fmt.Fprintf(&ctx, `
Intervention %d:
- ID: %s
- Problem: %s
- Category: %s
- Type: %s
- IRC Reference: %s %s
- Details: %s
`, i+1, rec.ID, rec.Problem, rec.Category, rec.Type, rec.Code, rec.Clause, detail)
	}

	return fmt.Sprintf(`You are a road safety engineer expert. Based on the following query and intervention database entries, provide a comprehensive recommendation.

User Query: %q

Retrieved Interventions from IRC Standards Database:
%s

Provide a detailed recommendation that includes:
1. **Primary Recommendation**: The most suitable intervention with confidence level
2. **Detailed Specifications**: Dimensions, colors, placement requirements
3. **Installation Guidelines**: Step-by-step implementation instructions
4. **IRC Citation**: Specific IRC code and clause references
5. **Maintenance Requirements**: Long-term maintenance schedule
6. **Safety Impact**: Expected safety improvements
7. **Alternative Options**: If applicable, mention other suitable interventions

Format your response in clear markdown with proper headings and bullet points.
Be specific, cite the IRC standards, and ensure all recommendations are traceable to the database.`, query, ctx.String())
}

// entityDTO tolerates the loose JSON the model returns (numeric speed, nulls).
type entityDTO struct {
	Problems    []string `json:"problems"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Speed       *float64 `json:"speed"`
	RoadType    string   `json:"road_type"`
	Environment []string `json:"environment"`
	Urgency     string   `json:"urgency"`
}

func (d entityDTO) toDomain() entities.Entities {
	ent := entities.Entities{
		Problems:    d.Problems,
		Category:    d.Category,
		Type:        d.Type,
		RoadType:    d.RoadType,
		Environment: d.Environment,
		Urgency:     d.Urgency,
	}
	if d.Speed != nil {
		speed := int(*d.Speed)
		ent.Speed = &speed
	}
	return ent
}

// parseEntities decodes the model's entity JSON, stripping markdown fences first.
func parseEntities(text string) (entities.Entities, error) {
	var dto entityDTO
	if err := json.Unmarshal([]byte(stripFences(text)), &dto); err != nil {
		return entities.Entities{}, err
	}
	return dto.toDomain(), nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimPrefix(strings.TrimSpace(text), "json")
	return strings.TrimSpace(text)
}
