package core

import (
	"sort"
	"sync"

	"github.com/IvanShishkin/csr/pkg/models"
)

// Sink receives the output of a search. Implementations decide how results
// and advisories are presented; the scanner never writes to the console.
type Sink interface {
	EmitResult(result *models.ResultRecord)
	EmitAdvisory(advisory *models.Advisory)
}

// SinkFuncs adapts plain functions to a Sink. Nil functions discard.
type SinkFuncs struct {
	Result   func(*models.ResultRecord)
	Advisory func(*models.Advisory)
}

func (f SinkFuncs) EmitResult(r *models.ResultRecord) {
	if f.Result != nil {
		f.Result(r)
	}
}

func (f SinkFuncs) EmitAdvisory(a *models.Advisory) {
	if f.Advisory != nil {
		f.Advisory(a)
	}
}

// Collector is a Sink that keeps everything in memory
type Collector struct {
	mu         sync.Mutex
	results    []*models.ResultRecord
	advisories []*models.Advisory
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) EmitResult(r *models.ResultRecord) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

func (c *Collector) EmitAdvisory(a *models.Advisory) {
	c.mu.Lock()
	c.advisories = append(c.advisories, a)
	c.mu.Unlock()
}

// Results returns results in emission order
func (c *Collector) Results() []*models.ResultRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*models.ResultRecord, len(c.results))
	copy(out, c.results)
	return out
}

// SortedResults returns results ordered by path. Traversal order is not
// stable across platforms, so callers needing determinism use this.
func (c *Collector) SortedResults() []*models.ResultRecord {
	out := c.Results()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// Paths returns the sorted result paths
func (c *Collector) Paths() []string {
	results := c.SortedResults()
	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
	}
	return paths
}

// Advisories returns advisories in emission order
func (c *Collector) Advisories() []*models.Advisory {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*models.Advisory, len(c.advisories))
	copy(out, c.advisories)
	return out
}

// lockedSink serializes access to a sink shared by several root walks
type lockedSink struct {
	mu   sync.Mutex
	sink Sink
}

func (s *lockedSink) EmitResult(r *models.ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.EmitResult(r)
}

func (s *lockedSink) EmitAdvisory(a *models.Advisory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.EmitAdvisory(a)
}
