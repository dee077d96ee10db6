package auth

// Middleware decorates a Gateway (tracing, throttling, ...).
type Middleware func(next Gateway) Gateway

// Chain wraps gw with mws. The first middleware is the outermost: it sees
// each call first and the result last.
func Chain(gw Gateway, mws ...Middleware) Gateway {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		gw = mws[i](gw)
	}
	return gw
}
