package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"shipgate/internal/rules"
	"shipgate/internal/rules/store/memory"
)

type CatalogSuite struct {
	suite.Suite
	store   *memory.Store
	catalog *rules.Catalog
	ctx     context.Context
}

func (s *CatalogSuite) SetupTest() {
	s.store = memory.New()
	s.catalog = rules.NewCatalog(s.store, nil)
	s.ctx = context.Background()
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) putRule(id, fieldKey string, priority int, active bool) {
	s.store.Put(rules.Rule{
		ID:          id,
		FieldKey:    fieldKey,
		DisplayName: fieldKey,
		IsActive:    active,
		Priority:    priority,
	})
}

// TestInitializeAndLookup verifies loading and snapshot lookups.
func (s *CatalogSuite) TestInitializeAndLookup() {
	s.Run("loads active rules", func() {
		s.putRule("r1", "trackingNumber", 1, true)
		s.Require().NoError(s.catalog.Initialize(s.ctx))

		r, ok := s.catalog.RuleByFieldKey("trackingNumber")
		s.Require().True(ok)
		s.Equal("r1", r.ID)
	})

	s.Run("lookup is case-insensitive", func() {
		s.putRule("r1", "trackingNumber", 1, true)
		s.Require().NoError(s.catalog.Initialize(s.ctx))

		_, ok := s.catalog.RuleByFieldKey("TRACKINGNUMBER")
		s.True(ok)
	})

	s.Run("skips inactive rules", func() {
		s.putRule("r2", "carrier", 1, false)
		s.Require().NoError(s.catalog.Initialize(s.ctx))

		_, ok := s.catalog.RuleByFieldKey("carrier")
		s.False(ok)
	})

	s.Run("lower priority wins on duplicate field keys", func() {
		s.putRule("low", "weight", 1, true)
		s.putRule("high", "weight", 5, true)
		s.Require().NoError(s.catalog.Initialize(s.ctx))

		r, ok := s.catalog.RuleByFieldKey("weight")
		s.Require().True(ok)
		s.Equal("low", r.ID)
	})
}

// unreliableStore serves its inner store until fail is flipped, so a catalog
// can load successfully and then see the store go down.
type unreliableStore struct {
	inner rules.Store
	fail  bool
}

func (u *unreliableStore) ActiveRules(ctx context.Context) ([]rules.Rule, error) {
	if u.fail {
		return nil, errors.New("store down")
	}
	return u.inner.ActiveRules(ctx)
}

func (u *unreliableStore) ConstraintsByRuleID(ctx context.Context, ruleID string) ([]rules.Constraint, error) {
	if u.fail {
		return nil, errors.New("store down")
	}
	return u.inner.ConstraintsByRuleID(ctx, ruleID)
}

// TestRefresh verifies atomic swap semantics on refresh.
func (s *CatalogSuite) TestRefresh() {
	s.Run("picks up new rules", func() {
		s.Require().NoError(s.catalog.Initialize(s.ctx))
		s.Equal(0, s.catalog.Len())

		s.putRule("r1", "trackingNumber", 1, true)
		s.Require().NoError(s.catalog.Refresh(s.ctx))
		s.Equal(1, s.catalog.Len())
	})

	s.Run("initialize propagates store errors", func() {
		broken := rules.NewCatalog(&unreliableStore{inner: s.store, fail: true}, nil)
		s.Require().Error(broken.Initialize(s.ctx))
	})

	s.Run("keeps previous catalog on refresh error", func() {
		s.putRule("r1", "trackingNumber", 1, true)
		store := &unreliableStore{inner: s.store}
		c := rules.NewCatalog(store, nil)
		s.Require().NoError(c.Initialize(s.ctx))
		s.Equal(1, c.Len())

		store.fail = true
		s.Require().Error(c.Refresh(s.ctx))

		// The loaded snapshot stays fully readable.
		s.Equal(1, c.Len())
		r, ok := c.RuleByFieldKey("trackingNumber")
		s.Require().True(ok)
		s.Equal("r1", r.ID)
	})
}

// TestTemporaryRuleInsertion verifies copy-on-write inserts.
func (s *CatalogSuite) TestTemporaryRuleInsertion() {
	s.Run("inserts when absent", func() {
		s.Require().NoError(s.catalog.Initialize(s.ctx))

		inserted := s.catalog.InsertIfAbsent(rules.SynthesizeRule("giftMessage"))
		got, ok := s.catalog.RuleByFieldKey("giftMessage")
		s.Require().True(ok)
		s.Equal(inserted.ID, got.ID)
		s.True(got.IsTemporary())
	})

	s.Run("returns existing rule when present", func() {
		s.putRule("r1", "trackingNumber", 1, true)
		s.Require().NoError(s.catalog.Initialize(s.ctx))

		got := s.catalog.InsertIfAbsent(rules.SynthesizeRule("trackingNumber"))
		s.Equal("r1", got.ID)
	})
}

// TestEnsureCommonFieldRules verifies synthesis of the common field set.
func (s *CatalogSuite) TestEnsureCommonFieldRules() {
	s.Run("synthesizes absent common fields", func() {
		s.Require().NoError(s.catalog.Initialize(s.ctx))
		s.catalog.EnsureCommonFieldRules()

		for _, key := range []string{"trackingNumber", "recipientAddress", "declaredValue", "weight"} {
			r, ok := s.catalog.RuleByFieldKey(key)
			s.Require().True(ok, key)
			s.True(r.IsTemporary(), key)
		}
	})

	s.Run("does not replace store-backed rules", func() {
		memory.Seed(s.store)
		s.Require().NoError(s.catalog.Initialize(s.ctx))
		s.catalog.EnsureCommonFieldRules()

		r, ok := s.catalog.RuleByFieldKey("trackingNumber")
		s.Require().True(ok)
		s.Equal("rule-tracking-number", r.ID)
		s.False(r.IsTemporary())
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(s.catalog.Initialize(s.ctx))
		s.catalog.EnsureCommonFieldRules()
		before := s.catalog.Len()

		s.catalog.EnsureCommonFieldRules()
		s.Equal(before, s.catalog.Len())
	})
}

// TestFieldDescriptions verifies the prompt-building helper.
func (s *CatalogSuite) TestFieldDescriptions() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))
	s.catalog.EnsureCommonFieldRules()

	descs := s.catalog.FieldDescriptions()
	s.NotEmpty(descs)
	s.Contains(descs, "trackingNumber: Carrier tracking or consignment number")
}
