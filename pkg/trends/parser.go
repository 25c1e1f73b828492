package trends

import (
	"encoding/json"
	"fmt"

	"trends-search/pkg/volume"
)

// TimelinesResponse is the provider's timelinesForHealth payload
type TimelinesResponse struct {
	Lines []TimelineLine `json:"lines"`
}

// TimelineLine holds every point for one term
type TimelineLine struct {
	Term   string          `json:"term"`
	Points []TimelinePoint `json:"points"`
}

type TimelinePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ParseTimelines flattens the per-term lines into records, keeping line then point order.
// A body without lines yields an empty, non-nil slice.
func ParseTimelines(body []byte) ([]volume.Record, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDecode)
	}

	var resp TimelinesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	total := 0
	for _, line := range resp.Lines {
		total += len(line.Points)
	}

	records := make([]volume.Record, 0, total)
	for _, line := range resp.Lines {
		for _, point := range line.Points {
			records = append(records, volume.Record{
				Term:  line.Term,
				Date:  point.Date,
				Value: point.Value,
			})
		}
	}
	return records, nil
}
