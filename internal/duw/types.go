// Package duw implements a client for the DUW (Lower Silesian
// Voivodeship Office) reservation system's queue status endpoint.
package duw

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrCityNotFound is returned when the configured city is missing from
// the status payload.
var ErrCityNotFound = errors.New("city not found in status response")

// ErrQueueNotFound is returned when the watched queue id is missing
// from the city's queue list.
var ErrQueueNotFound = errors.New("queue not found in status response")

// FlexInt decodes JSON values that may arrive either as a number or as
// a quoted number. The PHP endpoint is not consistent about this.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("cannot parse %q as integer: %w", s, err)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the value as a plain int.
func (f FlexInt) Int() int {
	return int(f)
}

// Queue is a single queue entry in the status payload.
type Queue struct {
	ID          FlexInt `json:"id"`
	Name        string  `json:"name"`
	TicketCount FlexInt `json:"ticket_count"`
}

// Status is the decoded queue status payload. The result object maps
// city names to their queue lists.
type Status struct {
	Result map[string][]Queue `json:"result"`
}

// Queue looks up a queue by city name and queue id.
func (s *Status) Queue(city string, queueID int) (*Queue, error) {
	queues, ok := s.Result[city]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}
	for i := range queues {
		if queues[i].ID.Int() == queueID {
			return &queues[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d in %q", ErrQueueNotFound, queueID, city)
}
