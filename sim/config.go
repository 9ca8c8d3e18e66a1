package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// fileConfig mirrors the JSON run-configuration format:
//
//	{
//	  "seed": 1234,
//	  "arrival_rate": 1.2,
//	  "arrival_station": "A",
//	  "arrival_class": 1,
//	  "max_arrivals": 100000,
//	  "warmup_completions": 10000,
//	  "service_rates": {"A": {"1": 0.4}, "B": {"1": 0.8}},
//	  "routing_table": {
//	    "A": {"1": [{"target": "B", "probability": 1.0, "next_class": 1}]},
//	    "B": {"1": [{"target": "EXIT", "probability": 0.6},
//	                {"target": "A", "probability": 0.4, "next_class": 1}]}
//	  }
//	}
//
// service_rates values are mean service times E[S]; class keys are decimal
// integers encoded as JSON object keys.
type fileConfig struct {
	Seed              int64                           `json:"seed"`
	Streams           int                             `json:"streams"`
	ArrivalRate       float64                         `json:"arrival_rate"`
	ArrivalStation    string                          `json:"arrival_station"`
	ArrivalClass      int                             `json:"arrival_class"`
	MaxArrivals       int                             `json:"max_arrivals"`
	WarmupCompletions int                             `json:"warmup_completions"`
	InitialJobs       int                             `json:"initial_jobs"`
	ServiceRates      map[string]map[string]float64   `json:"service_rates"`
	RoutingTable      map[string]map[string][]arcSpec `json:"routing_table"`
}

type arcSpec struct {
	Target      string  `json:"target"`
	Probability float64 `json:"probability"`
	NextClass   *int    `json:"next_class,omitempty"`
}

// LoadConfig reads and validates a run configuration from a JSON file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading run config: %w", err)
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a JSON run configuration and applies the structural
// validation the router relies on: probabilities inside [0,1] and
// next_class present exactly when the target is not EXIT. The probability
// sum per (station, class) is deliberately not enforced here; the router
// re-checks it and warns (see NewRouter).
func ParseConfig(raw []byte) (Config, error) {
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing run config: %w", err)
	}

	serviceMeans := make(map[string]map[int]float64, len(fc.ServiceRates))
	for station, byClass := range fc.ServiceRates {
		classes := make(map[int]float64, len(byClass))
		for key, mean := range byClass {
			class, err := strconv.Atoi(key)
			if err != nil {
				return Config{}, fmt.Errorf("service_rates[%s]: class key %q is not an integer", station, key)
			}
			classes[class] = mean
		}
		serviceMeans[station] = classes
	}

	routes := make(RoutingTable, len(fc.RoutingTable))
	for station, byClass := range fc.RoutingTable {
		classes := make(map[int][]Arc, len(byClass))
		for key, specs := range byClass {
			class, err := strconv.Atoi(key)
			if err != nil {
				return Config{}, fmt.Errorf("routing_table[%s]: class key %q is not an integer", station, key)
			}
			arcs := make([]Arc, 0, len(specs))
			for i, spec := range specs {
				if spec.Probability < 0 || spec.Probability > 1 {
					return Config{}, fmt.Errorf("routing_table[%s][%s] arc %d: probability %v outside [0,1]",
						station, key, i, spec.Probability)
				}
				if spec.Target == Exit && spec.NextClass != nil {
					return Config{}, fmt.Errorf("routing_table[%s][%s] arc %d: EXIT arc must not carry next_class",
						station, key, i)
				}
				if spec.Target != Exit && spec.NextClass == nil {
					return Config{}, fmt.Errorf("routing_table[%s][%s] arc %d: target %q needs next_class",
						station, key, i, spec.Target)
				}
				arcs = append(arcs, Arc{
					Target:      spec.Target,
					Probability: spec.Probability,
					NextClass:   spec.NextClass,
				})
			}
			classes[class] = arcs
		}
		routes[station] = classes
	}

	cfg := Config{
		Seed:              fc.Seed,
		Streams:           fc.Streams,
		ArrivalRate:       fc.ArrivalRate,
		ArrivalStation:    fc.ArrivalStation,
		ArrivalClass:      fc.ArrivalClass,
		MaxArrivals:       fc.MaxArrivals,
		WarmupCompletions: fc.WarmupCompletions,
		InitialJobs:       fc.InitialJobs,
		ServiceMeans:      serviceMeans,
		Routes:            routes,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
