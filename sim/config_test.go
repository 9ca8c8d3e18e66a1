package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validConfigJSON = `{
  "seed": 1234,
  "arrival_rate": 1.2,
  "arrival_station": "A",
  "arrival_class": 1,
  "max_arrivals": 1000,
  "warmup_completions": 100,
  "service_rates": {"A": {"1": 0.4}, "B": {"1": 0.8}},
  "routing_table": {
    "A": {"1": [{"target": "B", "probability": 1.0, "next_class": 1}]},
    "B": {"1": [{"target": "EXIT", "probability": 0.6},
                {"target": "A", "probability": 0.4, "next_class": 1}]}
  }
}`

func TestParseConfig_Valid(t *testing.T) {
	cfg, err := ParseConfig([]byte(validConfigJSON))
	assert.NoError(t, err)

	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, 1.2, cfg.ArrivalRate)
	assert.Equal(t, "A", cfg.ArrivalStation)
	assert.Equal(t, 1, cfg.ArrivalClass)
	assert.Equal(t, 1000, cfg.MaxArrivals)
	assert.Equal(t, 100, cfg.WarmupCompletions)

	assert.Equal(t, 0.4, cfg.ServiceMeans["A"][1])
	assert.Equal(t, 0.8, cfg.ServiceMeans["B"][1])

	arcs := cfg.Routes["B"][1]
	if assert.Len(t, arcs, 2) {
		assert.Equal(t, Exit, arcs[0].Target)
		assert.Nil(t, arcs[0].NextClass)
		assert.Equal(t, "A", arcs[1].Target)
		if assert.NotNil(t, arcs[1].NextClass) {
			assert.Equal(t, 1, *arcs[1].NextClass)
		}
	}

	// A parsed config must be runnable as-is.
	_, err = New(cfg)
	assert.NoError(t, err)
}

func TestParseConfig_Malformed(t *testing.T) {
	_, err := ParseConfig([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseConfig_StructuralErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{
			"non-integer class key in service_rates",
			`{"arrival_rate": 1, "arrival_station": "A", "max_arrivals": 10,
			  "service_rates": {"A": {"one": 0.4}},
			  "routing_table": {"A": {"1": [{"target": "EXIT", "probability": 1.0}]}}}`,
		},
		{
			"non-integer class key in routing_table",
			`{"arrival_rate": 1, "arrival_station": "A", "max_arrivals": 10,
			  "service_rates": {"A": {"1": 0.4}},
			  "routing_table": {"A": {"one": [{"target": "EXIT", "probability": 1.0}]}}}`,
		},
		{
			"probability above one",
			`{"arrival_rate": 1, "arrival_station": "A", "max_arrivals": 10,
			  "service_rates": {"A": {"1": 0.4}},
			  "routing_table": {"A": {"1": [{"target": "EXIT", "probability": 1.5}]}}}`,
		},
		{
			"negative probability",
			`{"arrival_rate": 1, "arrival_station": "A", "max_arrivals": 10,
			  "service_rates": {"A": {"1": 0.4}},
			  "routing_table": {"A": {"1": [{"target": "EXIT", "probability": -0.1}]}}}`,
		},
		{
			"EXIT arc carrying next_class",
			`{"arrival_rate": 1, "arrival_station": "A", "max_arrivals": 10,
			  "service_rates": {"A": {"1": 0.4}},
			  "routing_table": {"A": {"1": [{"target": "EXIT", "probability": 1.0, "next_class": 1}]}}}`,
		},
		{
			"non-EXIT arc missing next_class",
			`{"arrival_rate": 1, "arrival_station": "A", "max_arrivals": 10,
			  "service_rates": {"A": {"1": 0.4}},
			  "routing_table": {"A": {"1": [{"target": "A", "probability": 1.0}]}}}`,
		},
		{
			"arrival station without service config",
			`{"arrival_rate": 1, "arrival_station": "Z", "max_arrivals": 10,
			  "service_rates": {"A": {"1": 0.4}},
			  "routing_table": {"A": {"1": [{"target": "EXIT", "probability": 1.0}]}}}`,
		},
	}
	for _, tc := range cases {
		_, err := ParseConfig([]byte(tc.json))
		assert.Error(t, err, tc.name)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	assert.NoError(t, os.WriteFile(path, []byte(validConfigJSON), 0o644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, int64(1234), cfg.Seed)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
