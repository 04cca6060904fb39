/*
Package workers sizes worker pools for containerized deployments.

runtime.NumCPU reports host CPUs, while GOMAXPROCS follows the container CPU
quota (Go 1.19+). Every helper here is based on GOMAXPROCS:

	workers.Count(2.0, 16) // 2 per CPU, at most 16
	workers.ForMixed(8)    // 1.5 per CPU, at most 8

Thumbnail warming is a mixed workload: each task reads an original, decodes
and resamples it, then writes the thumbnail atomically.

Operators can pin the count with GALLERY_WARM_WORKERS; the cap still applies.
An explicit request, such as the -workers flag of gallery-warm, wins over both
through [Resolve].
*/
package workers
