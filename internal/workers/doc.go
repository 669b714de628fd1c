/*
Package workers sizes the asynchronous worker pools used by Lumina.

GOMAXPROCS already reflects container CPU limits, whereas runtime.NumCPU
reports the host's CPUs. Pools are therefore sized from GOMAXPROCS:

	// Gateway calls and frame sampling run on the task tracker,
	// which is mostly waiting on the network.
	slots := workers.ForIO(16)

	// Pure decoding and scaling work.
	slots := workers.ForCPU(4)

The LUMINA_WORKERS environment variable pins the pool size for every helper,
still capped by the limit argument:

	env:
	- name: LUMINA_WORKERS
	  value: "4"
*/
package workers
