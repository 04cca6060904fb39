// Package memory keeps thumbnail generation inside a container's memory
// budget.
//
// Decoding a large original allocates a full RGBA frame, so a burst of
// thumbnail work can push the process past its cgroup limit. Unlike
// GOMAXPROCS, GOMEMLIMIT is not derived from cgroups automatically.
//
// [ConfigureFromEnv] sets the soft limit early in main:
//
//   - GOMEMLIMIT: standard Go variable; if set it wins and is only reported
//   - MEMORY_LIMIT: container limit in bytes, usually from the Downward API
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the heap (default 0.85)
//
// In Kubernetes:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// [Monitor] samples heap usage and pauses batch generation (the gallery-warm
// tool) while usage sits above the critical water mark, resuming once it
// drops below the high water mark.
package memory
