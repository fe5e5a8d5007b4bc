package deferred

// Callback is the function bound to a Task. The only implementations are
// Plain and WithContext.
type Callback interface {
	invoke(ctx any)
}

// Plain is a callback that takes no arguments.
type Plain func()

func (f Plain) invoke(any) {
	if f != nil {
		f()
	}
}

// WithContext is a callback that receives the opaque context the task was
// armed with.
type WithContext func(ctx any)

func (f WithContext) invoke(ctx any) {
	if f != nil {
		f(ctx)
	}
}

// Call invokes cb with ctx the way Poll does. A nil cb does nothing.
func Call(cb Callback, ctx any) {
	if cb != nil {
		cb.invoke(ctx)
	}
}
