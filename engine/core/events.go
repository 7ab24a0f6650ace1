package core

import "sync"

type EventContext struct {
	// Small payload, enough for a path or a counter pair.
	Data struct {
		U64 [2]uint64
		F64 [2]float64
		C   [2]string
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next cycle.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// The generation configuration on disk changed.
	/* Context usage:
	 * path = data.C[0]
	 */
	EVENT_CODE_CONFIG_CHANGED SystemEventCode = 0x02

	// A full regeneration finished.
	/* Context usage:
	 * triangles = data.U64[0]
	 * vertices  = data.U64[1]
	 */
	EVENT_CODE_GENERATION_COMPLETE SystemEventCode = 0x03

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []registeredEvent
}

type eventSystemState struct {
	registered [MAX_EVENT_CODE]eventCodeEntry
}

var (
	eventOnce     sync.Once
	eventState    *eventSystemState
	isInitialized bool
)

func EventInitialize() bool {
	eventOnce.Do(func() {
		eventState = &eventSystemState{}
		isInitialized = true
	})
	return isInitialized
}

func EventShutdown() error {
	if !isInitialized {
		return nil
	}
	for i := range eventState.registered {
		eventState.registered[i].events = nil
	}
	return nil
}

func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !isInitialized {
		return false
	}
	for _, e := range eventState.registered[code].events {
		if e.listener == listener {
			LogWarn("event listener already registered for code %d", code)
			return false
		}
	}
	eventState.registered[code].events = append(eventState.registered[code].events, registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if !isInitialized {
		return false
	}
	events := eventState.registered[code].events
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * TRUE, the event is considered handled and is not passed on to any more listeners.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if !isInitialized {
		return false
	}
	if len(eventState.registered[code].events) == 0 {
		return false
	}
	for _, e := range eventState.registered[code].events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
