package apifootball

import (
	"fmt"
	"sort"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// fixturesEnvelope is the top-level shape of /fixtures responses.
type fixturesEnvelope struct {
	Errors   errorBag      `json:"errors"`
	Results  int           `json:"results"`
	Paging   pagingInfo    `json:"paging"`
	Response []fixtureItem `json:"response"`
}

type pagingInfo struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// errorBag tolerates both shapes the provider emits: an empty array on
// success and a string map on failure.
type errorBag map[string]string

func (b *errorBag) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, "[") {
		*b = nil
		return nil
	}

	var out map[string]string
	if err := sonic.Unmarshal(data, &out); err != nil {
		// Values are occasionally nested objects; fall back to opaque strings.
		var loose map[string]any
		if looseErr := sonic.Unmarshal(data, &loose); looseErr != nil {
			return err
		}
		out = make(map[string]string, len(loose))
		for key, value := range loose {
			out[key] = fmt.Sprintf("%v", value)
		}
	}
	*b = out
	return nil
}

func (b errorBag) String() string {
	if len(b) == 0 {
		return ""
	}
	keys := make([]string, 0, len(b))
	for key := range b {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+b[key])
	}
	return strings.Join(parts, "; ")
}

// fixtureItem is one element of the response array. Raw keeps the original
// bytes for audit storage.
type fixtureItem struct {
	Raw     []byte
	Fixture fixtureCore   `json:"fixture"`
	League  fixtureLeague `json:"league"`
	Teams   fixtureTeams  `json:"teams"`
	Goals   fixtureGoals  `json:"goals"`
}

func (f *fixtureItem) UnmarshalJSON(data []byte) error {
	type alias fixtureItem
	var decoded alias
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*f = fixtureItem(decoded)
	f.Raw = append([]byte(nil), data...)
	return nil
}

type fixtureCore struct {
	ID        int64         `json:"id"`
	Timezone  string        `json:"timezone"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Venue     fixtureVenue  `json:"venue"`
	Status    fixtureStatus `json:"status"`
}

type fixtureVenue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type fixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed int    `json:"elapsed"`
}

type fixtureLeague struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type fixtureTeams struct {
	Home fixtureTeam `json:"home"`
	Away fixtureTeam `json:"away"`
}

type fixtureTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type fixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
