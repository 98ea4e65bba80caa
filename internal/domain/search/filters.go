package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clearway-labs/signpost/internal/domain/entities"
)

// Filters narrows a search to matching catalog records. A zero value imposes
// no constraints.
type Filters struct {
	Categories []string `json:"category,omitempty"`
	Problems   []string `json:"problem,omitempty"`
	SpeedMin   *int     `json:"speed_min,omitempty"`
	SpeedMax   *int     `json:"speed_max,omitempty"`
	Code       string   `json:"irc_code,omitempty"`
}

// IsEmpty reports whether no filter dimension is set.
func (f Filters) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Problems) == 0 &&
		f.SpeedMin == nil && f.SpeedMax == nil && f.Code == ""
}

// speedWindow is the half-width of the speed range derived from an extracted
// speed value, in km/h.
const speedWindow = 20

// Merge fills unset filter fields from extracted entities. Caller-supplied
// values always win; extracted values only fill gaps. An extracted speed with
// no explicit bounds becomes a ±20 km/h window floored at 0.
func (f Filters) Merge(ent entities.Entities) Filters {
	merged := f

	if len(merged.Categories) == 0 && ent.Category != "" {
		merged.Categories = []string{ent.Category}
	}
	if len(merged.Problems) == 0 && len(ent.Problems) > 0 {
		merged.Problems = ent.Problems
	}
	if ent.Speed != nil && merged.SpeedMin == nil && merged.SpeedMax == nil {
		lo := *ent.Speed - speedWindow
		if lo < 0 {
			lo = 0
		}
		hi := *ent.Speed + speedWindow
		merged.SpeedMin = &lo
		merged.SpeedMax = &hi
	}

	return merged
}

// canonical returns a deterministic encoding of the filters for cache keys.
func (f Filters) canonical() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cat=%s|prob=%s|code=%s",
		strings.Join(f.Categories, ","), strings.Join(f.Problems, ","), f.Code)
	b.WriteString("|speed=")
	if f.SpeedMin != nil {
		b.WriteString(strconv.Itoa(*f.SpeedMin))
	}
	b.WriteString("..")
	if f.SpeedMax != nil {
		b.WriteString(strconv.Itoa(*f.SpeedMax))
	}
	return b.String()
}
