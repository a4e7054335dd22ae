// Package debug is a development-time diagnostic engine.
//
// It dumps arbitrary values, prints call-stack traces and turns panics,
// reported faults and process shutdown into loud, readable output on a
// terminal or in an HTML response.
//
// One engine exists per process. The package-level functions forward to it:
//
//	func main() {
//		defer debug.Guard()
//		debug.Enable(debug.LevelTrace)
//
//		debug.Dump(cfg)
//		debug.D(a, b)
//	}
//
// Output is gated by the level. With the default thresholds:
//
//	0  silent: nothing is printed, panics pass through untouched
//	1  dumps, fault banners with file and line
//	2  dumps carry the location of the call
//	3  full stacks for dumps and faults
//	4  notices surface, the Go runtime prints every goroutine on crash
//
// Lock freezes the level for the rest of the process.
package debug
