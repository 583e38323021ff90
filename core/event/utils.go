package event

import (
	"context"
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getEventName returns the bare type name of v, unwrapping pointers.
// Types with the same name in different packages share handlers.
func getEventName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}

func unmarshalPayload[T any](payload any) (T, error) {
	var zero T

	if v, ok := payload.(T); ok {
		return v, nil
	}

	// Pointer payloads for value handlers.
	if p, ok := payload.(*T); ok && p != nil {
		return *p, nil
	}

	// Raw JSON
	if data, ok := payload.([]byte); ok {
		var evt T
		if err := json.Unmarshal(data, &evt); err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return evt, nil
	}

	// An Event decoded from JSON carries its payload as a map.
	if m, ok := payload.(map[string]any); ok {
		data, err := json.Marshal(m)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		var evt T
		if err := json.Unmarshal(data, &evt); err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return evt, nil
	}

	return zero, fmt.Errorf("%w: unexpected payload type %T", ErrInvalidPayload, payload)
}

// safeHandle executes a handler with panic recovery.
func safeHandle(handler Handler, ctx context.Context, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: handler %s: %v", ErrHandlerPanic, handler.Name(), r)
		}
	}()
	return handler.Handle(ctx, payload)
}
