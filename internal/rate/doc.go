// Package rate provides invocation rate control for dashboard event handlers.
//
// # Debounce
//
// A Debouncer runs its function immediately on the first call of a burst
// (leading edge) and once more with the arguments of the last call when the
// burst ends (trailing edge). However many calls arrive while the window is
// open, the function runs at most twice per burst:
//
//	search := rate.NewDebouncer(func(q string) error {
//	    return index.Query(q)
//	}, 250*time.Millisecond)
//
//	search.Call("l")    // runs now
//	search.Call("lo")   // window re-armed
//	search.Call("load") // window re-armed; runs with "load" 250ms later
//
// # Throttle
//
// A Throttler runs its function on the first call and then drops every call
// until the cooldown has elapsed. Nothing is queued and there is no trailing
// call.
//
// # Pacer
//
// A Pacer spaces repeated work (probe samples, polling) at a fixed rate
// using the leaky bucket algorithm.
//
// # Thread Safety
//
// All types are safe for concurrent use. The wrapped function is never called
// while the limiter's lock is held, so it may call back into the limiter.
package rate
