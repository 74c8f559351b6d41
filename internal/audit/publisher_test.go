package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shipgate/internal/audit"
	"shipgate/internal/audit/store/memory"
	"shipgate/pkg/domain"
)

type PublisherSuite struct {
	suite.Suite
	store *memory.Store
	ctx   context.Context
}

func (s *PublisherSuite) SetupTest() {
	s.store = memory.New()
	s.ctx = context.Background()
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) newEvent(id string) audit.Event {
	return audit.Event{
		ID:         id,
		Timestamp:  time.Now().UTC(),
		Source:     domain.SourceManual,
		FieldCount: 5,
		Confidence: 0.9,
		Compliant:  5,
	}
}

// TestSynchronousEmit verifies the default blocking path.
func (s *PublisherSuite) TestSynchronousEmit() {
	p := audit.NewPublisher(s.store, nil)
	defer p.Close()

	p.Emit(s.ctx, s.newEvent("e1"))
	p.Emit(s.ctx, s.newEvent("e2"))

	events, err := s.store.ListRecent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("e1", events[0].ID)
}

// TestAsyncEmit verifies buffered emission drains on Close.
func (s *PublisherSuite) TestAsyncEmit() {
	p := audit.NewPublisher(s.store, nil, audit.WithAsyncBuffer(16))

	for i := 0; i < 10; i++ {
		p.Emit(s.ctx, s.newEvent("event"))
	}
	p.Close()

	s.Equal(10, s.store.Len())
}

// TestListRecent verifies the trailing-window read.
func (s *PublisherSuite) TestListRecent() {
	p := audit.NewPublisher(s.store, nil)
	for _, id := range []string{"a", "b", "c"} {
		p.Emit(s.ctx, s.newEvent(id))
	}

	events, err := s.store.ListRecent(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("b", events[0].ID)
	s.Equal("c", events[1].ID)
}

// TestNilStore verifies emission is a no-op without a store.
func (s *PublisherSuite) TestNilStore() {
	p := audit.NewPublisher(nil, nil)
	s.NotPanics(func() { p.Emit(s.ctx, s.newEvent("e1")) })
	p.Close()
}
