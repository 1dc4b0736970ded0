package cluster

import "github.com/clustersim/simga/pkg/simerrors"

// Cluster is an insertion-ordered set of Hosts with a monotonic
// version counter bumped on any host resource change (spec.md §4.1,
// C3). Its lifetime spans one simulation run.
type Cluster struct {
	order   []string
	byName  map[string]*Host
	version uint64
}

// New returns an empty Cluster.
func New() *Cluster {
	return &Cluster{
		byName: make(map[string]*Host),
	}
}

// AddHost registers a host, binding its back-reference to this
// Cluster. Hosts are kept in insertion order for deterministic
// eligible-host scans (spec.md §4.4). Bumps the version so a freshly
// built Cluster never reports version 0: the Dispatcher's "nothing
// changed since last cycle" check seeds its own last-seen version at
// the zero value, and a Cluster that never left 0 would look
// unchanged forever on the very first dispatch.
func (c *Cluster) AddHost(h *Host) {
	h.cluster = c
	if _, exists := c.byName[h.Name]; !exists {
		c.order = append(c.order, h.Name)
	}
	c.byName[h.Name] = h
	c.bumpVersion()
}

// Host returns the named host, or an UnknownHost error.
func (c *Cluster) Host(name string) (*Host, error) {
	h, ok := c.byName[name]
	if !ok {
		return nil, &simerrors.UnknownHost{Name: name}
	}
	return h, nil
}

// Hosts returns all hosts in insertion order.
func (c *Cluster) Hosts() []*Host {
	hosts := make([]*Host, 0, len(c.order))
	for _, name := range c.order {
		hosts = append(hosts, c.byName[name])
	}
	return hosts
}

// Version returns the current monotonic version counter.
func (c *Cluster) Version() uint64 { return c.version }

func (c *Cluster) bumpVersion() { c.version++ }
