package core

import "slices"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A transform animation started playing.
	/* Context usage:
	 * Sender is the animated *scene.Entity, Data is the animation handle.
	 */
	EVENT_CODE_ANIMATION_PLAYBACK_STARTED SystemEventCode = 0x10

	// A transform animation reached its end transform.
	/* Context usage:
	 * Sender is the animated *scene.Entity, Data is the animation handle.
	 */
	EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED SystemEventCode = 0x11

	// A transform animation was stopped before reaching its end.
	/* Context usage:
	 * Sender is the animated *scene.Entity, Data is the animation handle.
	 */
	EVENT_CODE_ANIMATION_PLAYBACK_TERMINATED SystemEventCode = 0x12

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

func (c SystemEventCode) String() string {
	switch c {
	case EVENT_CODE_APPLICATION_QUIT:
		return "application_quit"
	case EVENT_CODE_ANIMATION_PLAYBACK_STARTED:
		return "animation_playback_started"
	case EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED:
		return "animation_playback_completed"
	case EVENT_CODE_ANIMATION_PLAYBACK_TERMINATED:
		return "animation_playback_terminated"
	default:
		return "user_event"
	}
}

type EventContext struct {
	Type   SystemEventCode
	Sender interface{}
	Data   interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

// Cancellable is implemented by anything that can be detached or stopped
// after the fact: event subscriptions, animation handles.
type Cancellable interface {
	Cancel()
}

type registeredEvent struct {
	id       uint64
	listener interface{}
	sender   interface{}
	once     bool
	active   bool
	callback FnOnEvent
}

// EventSystem dispatches events to registered callbacks. It is not safe for
// concurrent use, every call is expected on the engine loop.
type EventSystem struct {
	registered map[SystemEventCode][]*registeredEvent
	nextID     uint64
	isShutdown bool
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

func (es *EventSystem) Shutdown() error {
	// Objects pointed to by the listeners should be destroyed on their own.
	for code, events := range es.registered {
		for _, e := range events {
			e.active = false
		}
		delete(es.registered, code)
	}
	es.isShutdown = true
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener/callback combos will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A listener instance, used to unregister. Can be nil.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if es.isShutdown || onEvent == nil {
		return false
	}
	for _, e := range es.registered[code] {
		if e.listener != nil && e.listener == listener {
			LogWarn("listener already registered for event %s", code)
			return false
		}
	}
	es.add(code, listener, nil, false, onEvent)
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	for _, e := range es.registered[code] {
		if e.listener != nil && e.listener == listener {
			es.remove(code, e.id)
			return true
		}
	}
	return false
}

// Subscribe invokes onEvent for every event of the given code fired by sender.
// A nil sender matches events from any sender.
func (es *EventSystem) Subscribe(code SystemEventCode, sender interface{}, onEvent FnOnEvent) *Subscription {
	return es.subscribe(code, sender, false, onEvent)
}

// SubscribeOnce is Subscribe that detaches itself right before the first
// matching event is delivered, so the callback observes at most one event.
func (es *EventSystem) SubscribeOnce(code SystemEventCode, sender interface{}, onEvent FnOnEvent) *Subscription {
	return es.subscribe(code, sender, true, onEvent)
}

func (es *EventSystem) subscribe(code SystemEventCode, sender interface{}, once bool, onEvent FnOnEvent) *Subscription {
	if es.isShutdown || onEvent == nil {
		return &Subscription{}
	}
	e := es.add(code, nil, sender, once, onEvent)
	return &Subscription{system: es, code: code, entry: e}
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @param code The event code to fire.
 * @param sender The sender. Can be nil.
 * @param data The event payload.
 * @returns true if handled, otherwise false.
 */
func (es *EventSystem) Fire(code SystemEventCode, sender interface{}, data interface{}) bool {
	events := es.registered[code]
	if len(events) == 0 {
		return false
	}
	ctx := EventContext{Type: code, Sender: sender, Data: data}
	// Callbacks may subscribe or cancel while we dispatch.
	snapshot := slices.Clone(events)
	for _, e := range snapshot {
		if !e.active {
			continue
		}
		if e.sender != nil && e.sender != sender {
			continue
		}
		if e.once {
			es.remove(code, e.id)
		}
		if e.callback(ctx) {
			return true
		}
	}
	return false
}

// ListenerCount returns the number of live registrations for a code.
func (es *EventSystem) ListenerCount(code SystemEventCode) int {
	return len(es.registered[code])
}

func (es *EventSystem) add(code SystemEventCode, listener, sender interface{}, once bool, onEvent FnOnEvent) *registeredEvent {
	es.nextID++
	e := &registeredEvent{
		id:       es.nextID,
		listener: listener,
		sender:   sender,
		once:     once,
		active:   true,
		callback: onEvent,
	}
	es.registered[code] = append(es.registered[code], e)
	return e
}

func (es *EventSystem) remove(code SystemEventCode, id uint64) {
	events := es.registered[code]
	i := slices.IndexFunc(events, func(e *registeredEvent) bool { return e.id == id })
	if i < 0 {
		return
	}
	events[i].active = false
	events = slices.Delete(events, i, i+1)
	if len(events) == 0 {
		delete(es.registered, code)
		return
	}
	es.registered[code] = events
}

// Subscription is the handle returned by Subscribe and SubscribeOnce.
type Subscription struct {
	system *EventSystem
	code   SystemEventCode
	entry  *registeredEvent
}

// Cancel detaches the subscription. Safe to call more than once and from
// within the subscribed callback.
func (s *Subscription) Cancel() {
	if s == nil || s.entry == nil || !s.entry.active {
		return
	}
	s.system.remove(s.code, s.entry.id)
}

// IsActive reports whether the subscription would still receive events.
func (s *Subscription) IsActive() bool {
	return s != nil && s.entry != nil && s.entry.active
}
