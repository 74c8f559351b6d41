package rules

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// index is one immutable catalog snapshot. Readers always see a whole
// snapshot; writers build a replacement and swap the pointer.
type index struct {
	byKey       map[string]Rule         // lower(fieldKey) → rule
	constraints map[string][]Constraint // ruleID → constraints
}

func newIndex() *index {
	return &index{
		byKey:       make(map[string]Rule),
		constraints: make(map[string][]Constraint),
	}
}

func (ix *index) clone() *index {
	next := &index{
		byKey:       make(map[string]Rule, len(ix.byKey)),
		constraints: make(map[string][]Constraint, len(ix.constraints)),
	}
	for k, v := range ix.byKey {
		next.byKey[k] = v
	}
	for k, v := range ix.constraints {
		next.constraints[k] = v
	}
	return next
}

// Catalog is the shared in-memory rule index. It is the only state the engine
// carries across requests. Initialize and Refresh are mutually exclusive;
// reads go through an atomic snapshot and never block.
type Catalog struct {
	store  Store
	logger *slog.Logger

	mu  sync.Mutex // serializes snapshot replacement and temp-rule inserts
	idx atomic.Pointer[index]
}

// NewCatalog constructs a catalog over the given rule store.
func NewCatalog(store Store, logger *slog.Logger) *Catalog {
	c := &Catalog{store: store, logger: logger}
	c.idx.Store(newIndex())
	return c
}

// Initialize loads active rules and their constraints from the store. A store
// error is fatal to the caller: no catalog means no validation is possible.
func (c *Catalog) Initialize(ctx context.Context) error {
	next, err := c.load(ctx)
	if err != nil {
		return fmt.Errorf("initialize rule catalog: %w", err)
	}
	c.mu.Lock()
	c.idx.Store(next)
	c.mu.Unlock()
	return nil
}

// Refresh re-pulls rules from the store and atomically replaces the index.
// On store error the previous index is retained untouched and the error is
// returned for the caller to report.
func (c *Catalog) Refresh(ctx context.Context) error {
	next, err := c.load(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "rule refresh failed, keeping previous catalog", "error", err)
		}
		return fmt.Errorf("refresh rule catalog: %w", err)
	}
	c.mu.Lock()
	c.idx.Store(next)
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.InfoContext(ctx, "rule catalog refreshed", "rules", len(next.byKey))
	}
	return nil
}

func (c *Catalog) load(ctx context.Context) (*index, error) {
	rules, err := c.store.ActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active rules: %w", err)
	}
	next := newIndex()
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		key := strings.ToLower(r.FieldKey)
		if prev, ok := next.byKey[key]; ok && prev.Priority <= r.Priority {
			// Lower priority wins on duplicate field keys.
			continue
		}
		cons, err := c.store.ConstraintsByRuleID(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("load constraints for rule %s: %w", r.ID, err)
		}
		next.byKey[key] = r
		next.constraints[r.ID] = cons
	}
	return next, nil
}

// RuleByFieldKey returns the rule for a canonical field key. Lookup is exact
// on the canonical lowercase form, which also covers case-insensitive input.
func (c *Catalog) RuleByFieldKey(fieldKey string) (Rule, bool) {
	ix := c.idx.Load()
	r, ok := ix.byKey[strings.ToLower(fieldKey)]
	return r, ok
}

// ConstraintsForRule returns the stored constraints for a rule in catalog
// order. Temporary rules have none; their default pattern is applied by the
// validator.
func (c *Catalog) ConstraintsForRule(ruleID string) []Constraint {
	return c.idx.Load().constraints[ruleID]
}

// InsertIfAbsent adds a rule to the catalog unless a rule already exists for
// its field key. Returns the rule that is in the catalog after the call.
// This is the only mutation path besides Initialize/Refresh and exists for
// temporary rule synthesis.
func (c *Catalog) InsertIfAbsent(rule Rule) Rule {
	key := strings.ToLower(rule.FieldKey)
	c.mu.Lock()
	defer c.mu.Unlock()
	ix := c.idx.Load()
	if existing, ok := ix.byKey[key]; ok {
		return existing
	}
	next := ix.clone()
	next.byKey[key] = rule
	c.idx.Store(next)
	return rule
}

// EnsureCommonFieldRules synthesizes temporary rules for every universally
// expected logistics field absent from the index. Idempotent; must run before
// each extraction/validation cycle so common fields stay validatable even
// when the backing store is incomplete.
func (c *Catalog) EnsureCommonFieldRules() {
	c.mu.Lock()
	defer c.mu.Unlock()
	ix := c.idx.Load()
	var next *index
	for _, def := range commonFieldDefs {
		key := strings.ToLower(def.fieldKey)
		if _, ok := ix.byKey[key]; ok {
			continue
		}
		if next == nil {
			next = ix.clone()
		} else if _, ok := next.byKey[key]; ok {
			continue
		}
		next.byKey[key] = SynthesizeRule(def.fieldKey)
	}
	if next != nil {
		c.idx.Store(next)
	}
}

// FieldDescriptions returns "fieldKey: description" pairs for every known
// rule, sorted by field key. Used to build the LLM extraction prompt.
func (c *Catalog) FieldDescriptions() []string {
	ix := c.idx.Load()
	out := make([]string, 0, len(ix.byKey))
	for _, r := range ix.byKey {
		out = append(out, r.FieldKey+": "+r.Description)
	}
	sort.Strings(out)
	return out
}

// AllRules returns the current snapshot's rules, sorted by field key.
func (c *Catalog) AllRules() []Rule {
	ix := c.idx.Load()
	out := make([]Rule, 0, len(ix.byKey))
	for _, r := range ix.byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldKey < out[j].FieldKey })
	return out
}

// Len reports the number of rules in the current snapshot.
func (c *Catalog) Len() int {
	return len(c.idx.Load().byKey)
}
