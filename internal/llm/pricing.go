package llm

import "sync"

// ModelCost is USD per one million tokens.
type ModelCost struct {
	InputPerMTok  float64 `json:"input" yaml:"input"`
	OutputPerMTok float64 `json:"output" yaml:"output"`
}

// Cost returns the USD cost of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1_000_000*c.InputPerMTok +
		float64(outputTokens)/1_000_000*c.OutputPerMTok
}

// DefaultCost is charged for models missing from the price table.
var DefaultCost = ModelCost{InputPerMTok: 0.15, OutputPerMTok: 0.6}

// LookupCost returns the built-in price row for modelID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// PriceTable resolves price rows with user overrides layered over the
// built-in table and DefaultCost as the final fallback.
type PriceTable struct {
	mu        sync.RWMutex
	overrides map[string]ModelCost
	fallback  ModelCost
}

// NewPriceTable creates a table with the given overrides.
func NewPriceTable(overrides map[string]ModelCost) *PriceTable {
	t := &PriceTable{overrides: make(map[string]ModelCost), fallback: DefaultCost}
	for k, v := range overrides {
		t.overrides[k] = v
	}
	return t
}

// Set adds or replaces an override row.
func (t *PriceTable) Set(modelID string, c ModelCost) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overrides[modelID] = c
}

// Lookup returns the row for modelID and whether it was known.
func (t *PriceTable) Lookup(modelID string) (ModelCost, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.overrides[modelID]; ok {
		return c, true
	}
	if c := LookupCost(modelID); c != nil {
		return *c, true
	}
	return t.fallback, false
}

// Cost prices a usage report for modelID.
func (t *PriceTable) Cost(modelID string, u Usage) float64 {
	c, _ := t.Lookup(modelID)
	return c.Cost(u.InputTokens, u.OutputTokens)
}

// modelCosts is the built-in pricing table (USD per 1M tokens).
var modelCosts = map[string]ModelCost{
	// OpenAI
	"gpt-3.5-turbo": {0.5, 1.5},
	"gpt-4.1":       {2, 8},
	"gpt-4.1-mini":  {0.4, 1.6},
	"gpt-4.1-nano":  {0.1, 0.4},
	"gpt-4o":        {2.5, 10},
	"gpt-4o-mini":   {0.15, 0.6},
	"gpt-5":         {1.25, 10},
	"gpt-5-mini":    {0.25, 2},
	"gpt-5-nano":    {0.05, 0.4},
	"gpt-5.1":       {1.25, 10},
	"o3-mini":       {1.1, 4.4},
	"o4-mini":       {1.1, 4.4},

	// Anthropic
	"claude-3-5-haiku-latest":   {0.8, 4},
	"claude-haiku-4-5":          {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-sonnet-4-5":         {3, 15},
	"claude-opus-4-5":           {5, 25},

	// Google
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
