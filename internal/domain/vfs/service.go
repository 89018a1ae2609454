package vfs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/shared/id"
	"github.com/GriffinCanCode/webdesk/internal/shared/paths"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"go.uber.org/zap"
)

// Service is the virtual file system. All operations are serialized and each
// mutation is persisted before it returns.
type Service struct {
	mu       sync.Mutex
	tree     Tree // Protected by mu
	degraded bool // Protected by mu

	store       Store
	seed        func(now time.Time) ([]types.Node, error)
	uniqueNames bool
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
	metrics     *monitoring.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithSeed replaces the starting tree used when the store is empty.
func WithSeed(seed func(now time.Time) ([]types.Node, error)) Option {
	return func(s *Service) { s.seed = seed }
}

// WithUniqueNames makes CreateNode reject a name already used by a sibling.
func WithUniqueNames() Option {
	return func(s *Service) { s.uniqueNames = true }
}

// WithClock sets the time source for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDSource replaces the node id generator.
func WithIDSource(next func() string) Option {
	return func(s *Service) { s.newID = next }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l.Named("vfs") }
}

// WithMetrics records node counts, mutations and persistence outcomes.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New loads the tree from store, falling back to the seed when the store is
// empty. A store that cannot be read or holds an invalid tree also falls back
// to the seed, but the service starts degraded so the stored blob is never
// overwritten.
func New(store Store, opts ...Option) (*Service, error) {
	s := &Service{
		store: store,
		seed: func(now time.Time) ([]types.Node, error) {
			return DefaultSeed(now), nil
		},
		now:    time.Now,
		newID:  func() string { return id.NewNodeID().String() },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tree, err := s.load()
	if err != nil {
		return nil, err
	}
	s.tree = tree

	if s.metrics != nil {
		s.metrics.SetFSNodes(tree.Len())
		s.metrics.SetFSDegraded(s.degraded)
	}
	s.logger.Info("file system ready",
		zap.Int("nodes", tree.Len()),
		zap.Bool("degraded", s.degraded),
	)
	return s, nil
}

func (s *Service) load() (Tree, error) {
	nodes, err := s.store.Load()
	if err == nil {
		tree, verr := NewTree(nodes)
		if verr == nil {
			return tree, nil
		}
		err = verr
	}

	if !errors.Is(err, ErrNoSnapshot) {
		s.logger.Error("persisted tree unusable, starting from seed without persistence", zap.Error(err))
		s.degraded = true
	}

	seed, err := s.seed(s.now())
	if err != nil {
		return Tree{}, fmt.Errorf("build seed: %w", err)
	}
	tree, err := NewTree(seed)
	if err != nil {
		return Tree{}, fmt.Errorf("seed: %w", err)
	}
	return tree, nil
}

// GetChildren returns the children of parentID, empty for unknown ids.
func (s *Service) GetChildren(parentID string) []types.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Children(parentID)
}

// GetNode returns the node.
func (s *Service) GetNode(nodeID string) (types.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Get(nodeID)
}

// CreateNode adds a file or folder under parentID. Content is kept for files
// and ignored for folders.
func (s *Service) CreateNode(name string, typ types.NodeType, parentID string, content string) (types.Node, error) {
	if !typ.Valid() {
		return types.Node{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if !paths.ValidName(name) {
		return types.Node{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.tree.Get(parentID)
	if !ok {
		return types.Node{}, fmt.Errorf("%w: parent %s", ErrNotFound, parentID)
	}
	if !parent.IsFolder() {
		return types.Node{}, fmt.Errorf("%w: %s", ErrNotFolder, parent.Name)
	}
	if s.uniqueNames {
		if _, taken := s.tree.child(parentID, name); taken {
			return types.Node{}, fmt.Errorf("%w: %s", ErrConflict, name)
		}
	}

	node := types.Node{
		ID:        s.newID(),
		Name:      name,
		Type:      typ,
		ParentID:  &parentID,
		CreatedAt: s.now().UnixMilli(),
	}
	if typ == types.NodeFile {
		c := content
		node.Content = &c
	}

	s.commit("create", s.tree.Insert(node))
	return node.Clone(), nil
}

// DeleteNode removes the node and its whole subtree. It reports false for
// missing ids and for the root, which cannot be deleted.
func (s *Service) DeleteNode(nodeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nodeID == s.tree.RootID() {
		return false
	}
	next, removed := s.tree.Remove(nodeID)
	if removed == nil {
		return false
	}

	s.logger.Debug("deleted subtree", zap.String("id", nodeID), zap.Int("nodes", len(removed)))
	s.commit("delete", next)
	return true
}

// UpdateContent replaces a file's content. Missing ids and folders are
// ignored and reported as false.
func (s *Service) UpdateContent(nodeID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.tree.SetContent(nodeID, content)
	if !ok {
		return false
	}
	s.commit("update", next)
	return true
}

// ResolvePath evaluates expr relative to fromID. See Tree.Resolve.
func (s *Service) ResolvePath(fromID, expr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Resolve(fromID, expr)
}

// PathString returns the absolute path of nodeID.
func (s *Service) PathString(nodeID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.PathOf(nodeID)
}

// Snapshot returns the current tree. Trees are immutable.
func (s *Service) Snapshot() Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Degraded reports whether persistence has been switched off.
func (s *Service) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// commit swaps in the new tree and persists it. Caller holds mu.
func (s *Service) commit(op string, next Tree) {
	s.tree = next
	if s.metrics != nil {
		s.metrics.RecordFSMutation(op)
		s.metrics.SetFSNodes(next.Len())
	}

	if s.degraded {
		return
	}

	err := s.store.Save(next.Nodes())
	if s.metrics != nil {
		s.metrics.RecordPersist(err)
	}
	if err != nil {
		s.degraded = true
		if s.metrics != nil {
			s.metrics.SetFSDegraded(true)
		}
		s.logger.Error("persist failed, continuing in memory only",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}
