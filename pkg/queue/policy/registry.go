package policy

import (
	"fmt"

	"github.com/clustersim/simga/pkg/queue"
)

// Registry resolves a QueueAlgorithm by name, the way the teacher
// looks up a named allocator/algorithm implementation instead of
// hard-coding one scheduling strategy.
var registry = map[string]func() queue.Algorithm{
	"olb":     func() queue.Algorithm { return NewOLB() },
	"qsimple": func() queue.Algorithm { return NewQSimple() },
	"munkres": func() queue.Algorithm { return NewMunkres() },
}

// Lookup returns a fresh instance of the named built-in algorithm.
func Lookup(name string) (queue.Algorithm, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown queue algorithm %q", name)
	}
	return ctor(), nil
}

// Names returns the registered built-in algorithm names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
