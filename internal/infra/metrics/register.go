package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

// register queues collectors from this package's init funcs until the app
// decides to install them.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every queued collector into the default registry.
// Only the first call registers, so tests may call it freely.
func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) == 0 {
			return
		}
		prometheus.MustRegister(pending...)
	})
}
