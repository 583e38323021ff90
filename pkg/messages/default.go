package messages

import "sync/atomic"

// defaultStore is the process-wide message store. It is set by Init at startup
// and cleared by Shutdown.
var defaultStore atomic.Pointer[Store]

// Init creates the process-wide store. Call it once at startup.
func Init(opts ...Option) error {
	s, err := New(opts...)
	if err != nil {
		return err
	}
	if !defaultStore.CompareAndSwap(nil, s) {
		s.Close()
		return ErrAlreadyInitialized
	}
	return nil
}

// Default returns the process-wide store. It panics with ErrNotInitialized
// when Init has not been called.
func Default() *Store {
	s := defaultStore.Load()
	if s == nil {
		panic(ErrNotInitialized)
	}
	return s
}

// Shutdown closes the process-wide store. Init may be called again afterwards.
func Shutdown() {
	if s := defaultStore.Swap(nil); s != nil {
		s.Close()
	}
}
