// Package memory sizes the Go soft memory limit for containerized runs.
//
// GOMAXPROCS follows cgroup CPU limits automatically; GOMEMLIMIT does not.
// Configure derives it once at startup:
//
//   - GOMEMLIMIT set: the runtime already applied it, Configure only reports it.
//   - MEMORY_LIMIT set (bytes, usually from the Kubernetes Downward API):
//     the limit becomes MEMORY_LIMIT * MEMORY_RATIO (default 0.80).
//   - neither: no limit is configured.
//
// The ratio leaves headroom outside the Go heap for ffmpeg frame sampling and
// for decoded images held while AI thumbnails are rendered.
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
package memory
