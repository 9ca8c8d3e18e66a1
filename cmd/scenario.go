package cmd

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/queueing-sim/queueing-sim/sim"
)

// scenarioFile describes a batch of replicated runs:
//
//	runs:
//	  - name: baseline
//	    config: configs/web.json
//	    seeds: [1234, 5678, 9012]
//
// Each (run, seed) pair is an independent replication with its own
// generator and router, so replications execute in parallel.
type scenarioFile struct {
	Runs []scenarioRun `yaml:"runs"`
}

type scenarioRun struct {
	Name   string  `yaml:"name"`
	Config string  `yaml:"config"`
	Seeds  []int64 `yaml:"seeds"`
}

func loadScenario(path string) (scenarioFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("reading scenario: %w", err)
	}
	return parseScenario(raw)
}

func parseScenario(raw []byte) (scenarioFile, error) {
	var sc scenarioFile
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return scenarioFile{}, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(sc.Runs) == 0 {
		return scenarioFile{}, fmt.Errorf("scenario has no runs")
	}
	for i, run := range sc.Runs {
		if run.Config == "" {
			return scenarioFile{}, fmt.Errorf("scenario run %d (%s): no config path", i, run.Name)
		}
		if len(run.Seeds) == 0 {
			return scenarioFile{}, fmt.Errorf("scenario run %d (%s): no seeds", i, run.Name)
		}
		for _, s := range run.Seeds {
			if s <= 0 {
				return scenarioFile{}, fmt.Errorf("scenario run %d (%s): seed %d not positive, replications must be reproducible",
					i, run.Name, s)
			}
		}
	}
	return sc, nil
}

// runScenario executes every (run, seed) replication concurrently and
// returns the reports. Order of the returned reports is unspecified.
func runScenario(sc scenarioFile) ([]sim.Report, error) {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		reports []sim.Report
	)

	for _, run := range sc.Runs {
		cfg, err := sim.LoadConfig(run.Config)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", run.Name, err)
		}
		for _, s := range run.Seeds {
			replica := cfg
			replica.Seed = s
			g.Go(func() error {
				simulation, err := sim.New(replica)
				if err != nil {
					return err
				}
				report := simulation.Run()
				mu.Lock()
				reports = append(reports, report)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
