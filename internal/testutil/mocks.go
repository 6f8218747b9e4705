// Package testutil provides testify-mock fakes for pkg/metapop's external
// collaborator interfaces.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/opencog-go/metapop-search/pkg/metapop"
)

// MockTreeOps is a mock implementation of metapop.TreeOps.
type MockTreeOps struct {
	mock.Mock
}

func (m *MockTreeOps) Reduce(ctx context.Context, t metapop.Tree) (metapop.Tree, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0), args.Error(1)
}

func (m *MockTreeOps) Complexity(t metapop.Tree) int {
	args := m.Called(t)
	return args.Int(0)
}

func (m *MockTreeOps) Equals(a, b metapop.Tree) bool {
	args := m.Called(a, b)
	return args.Bool(0)
}

func (m *MockTreeOps) Hash(t metapop.Tree) uint64 {
	args := m.Called(t)
	return args.Get(0).(uint64)
}

// MockCompositeScorer is a mock implementation of metapop.CompositeScorer.
type MockCompositeScorer struct {
	mock.Mock
}

func (m *MockCompositeScorer) Score(ctx context.Context, t metapop.Tree) (metapop.Composite, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return metapop.Composite{}, args.Error(1)
	}
	return args.Get(0).(metapop.Composite), args.Error(1)
}

// MockBehavioralScorer is a mock implementation of metapop.BehavioralScorer.
type MockBehavioralScorer struct {
	mock.Mock
}

func (m *MockBehavioralScorer) BScore(ctx context.Context, t metapop.Tree) (metapop.Penalized, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return metapop.Penalized{}, args.Error(1)
	}
	return args.Get(0).(metapop.Penalized), args.Error(1)
}

// MockRepresentation is a mock implementation of metapop.Representation.
type MockRepresentation struct {
	mock.Mock
}

func (m *MockRepresentation) Fields() []metapop.Field {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]metapop.Field)
}

func (m *MockRepresentation) Candidate(ctx context.Context, instance metapop.Instance, reduce bool) (metapop.Tree, error) {
	args := m.Called(ctx, instance, reduce)
	return args.Get(0), args.Error(1)
}

// MockRepresentationBuilder is a mock implementation of
// metapop.RepresentationBuilder.
type MockRepresentationBuilder struct {
	mock.Mock
}

func (m *MockRepresentationBuilder) Build(ctx context.Context, exemplar metapop.Tree, ignoredOps map[string]struct{}) (metapop.Representation, error) {
	args := m.Called(ctx, exemplar, ignoredOps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(metapop.Representation), args.Error(1)
}

// MockOptimizer is a mock implementation of metapop.Optimizer.
type MockOptimizer struct {
	mock.Mock
}

func (m *MockOptimizer) Optimize(ctx context.Context, d *metapop.Deme, r metapop.Representation, score metapop.InstanceScorer, budget int) (int, error) {
	args := m.Called(ctx, d, r, score, budget)
	return args.Int(0), args.Error(1)
}

// MockFeatureSelector is a mock implementation of metapop.FeatureSelector.
type MockFeatureSelector struct {
	mock.Mock
}

func (m *MockFeatureSelector) Select(ctx context.Context, t metapop.Tree) (map[int]struct{}, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]struct{}), args.Error(1)
}
