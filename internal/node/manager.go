package node

import (
	"fmt"
	"sync"
)

// Manager tracks all active nodes and enforces the max-nodes limit.
// It also serves as the peer directory behind the who/wall commands.
type Manager struct {
	mu       sync.RWMutex
	nodes    map[int]*Node
	reserved map[int]bool
	maxNodes int
}

// NewManager creates a new node manager.
func NewManager(maxNodes int) *Manager {
	return &Manager{
		nodes:    make(map[int]*Node),
		reserved: make(map[int]bool),
		maxNodes: maxNodes,
	}
}

// Acquire reserves the lowest available node ID. Returns the node ID
// and true, or 0 and false if full. The reservation is released by
// Remove.
func (m *Manager) Acquire() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := 1; id <= m.maxNodes; id++ {
		if m.reserved[id] {
			continue
		}
		if _, ok := m.nodes[id]; ok {
			continue
		}
		m.reserved[id] = true
		return id, true
	}
	return 0, false
}

// Add registers a node with the manager.
func (m *Manager) Add(n *Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[n.ID] = n
	delete(m.reserved, n.ID)
}

// Remove removes a node and releases its ID.
func (m *Manager) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.nodes, id)
	delete(m.reserved, id)
}

// Count returns the number of active nodes.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// List returns a snapshot of all active nodes.
func (m *Manager) List() []*Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nodes := make([]*Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// Who returns one line per connected node.
func (m *Manager) Who() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, fmt.Sprintf("node %d: %s (%s)", n.ID, n.Username(), n.Remote))
	}
	return out
}

// Broadcast sends a message to every connected node.
func (m *Manager) Broadcast(from, message string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.nodes {
		n.Term.SendLn(fmt.Sprintf("\r\n*** [%s] %s", from, message))
	}
}

// SendTo sends a message to one node.
func (m *Manager) SendTo(nodeID int, message string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[nodeID]
	if !ok {
		return fmt.Errorf("node %d not found", nodeID)
	}
	return n.Term.SendLn(fmt.Sprintf("\r\n*** %s", message))
}
