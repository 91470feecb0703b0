// Package memory configures the Go runtime memory limit for containerized
// deployments and provides a monitor that holds back catalog builds under
// memory pressure.
//
// # Configuration
//
// Call [ConfigureFromEnv] early in main, before significant allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ...
//	}
//
// # Environment Variables
//
//   - GOMEMLIMIT: Standard Go environment variable. If set, takes precedence
//     over all other configuration. Accepts values like "400MiB" or "1GiB".
//
//   - MEMORY_LIMIT: Container memory limit in bytes, typically injected with
//     the Kubernetes Downward API.
//
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT given to the Go heap, between
//     0.0 and 1.0. Default is 0.85.
//
// # Kubernetes Configuration
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// # Monitoring
//
// A catalog build holds every entry of a large tree in memory twice while the
// old generation is still live. [Monitor] samples the heap against the limit
// and pauses builds once usage crosses the critical watermark, resuming when
// it falls below the high watermark:
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
//	if err := monitor.WaitIfPaused(ctx); err != nil {
//	    return err
//	}
//
// GOMEMLIMIT is a soft limit on the Go heap only; it does not cover the page
// cache used while streaming files.
package memory
