package ranged

import (
	"reflect"
)

// Attachable is implemented by attachments that need initialization logic
// when attached to a session.
type Attachable interface {
	Attach(s *Session)
}

// Detachable is implemented by attachments that need cleanup logic
// when detached from a session or when the session closes.
type Detachable interface {
	Detach(s *Session)
}

// attachmentType returns the key attachments of type T are stored under.
func attachmentType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Attach attaches a value to the session, such as a *hurt.Component.
// If a value of this type is already attached, it is replaced.
// If the value implements Attachable, its Attach method is called.
//
// Concurrency:
// This function is thread-safe. Since commands and forms are executed synchronously
// with the player, it is safe to attach values directly in those contexts.
func Attach[T any](s *Session, v *T) {
	if s == nil || v == nil {
		return
	}
	t := attachmentType[T]()

	s.attachmentsMu.Lock()
	old, _ := s.attachments[t].(*T)
	s.attachments[t] = v
	s.attachmentsMu.Unlock()

	if old != nil {
		if d, ok := any(old).(Detachable); ok {
			d.Detach(s)
		}
	}
	if a, ok := any(v).(Attachable); ok {
		a.Attach(s)
	}
}

// Attachment retrieves the value of type T attached to the session.
// Returns nil if none is attached.
//
// Concurrency:
// This function is thread-safe. The returned value is shared: modify it from the
// player's transaction only.
func Attachment[T any](s *Session) *T {
	if s == nil {
		return nil
	}
	s.attachmentsMu.RLock()
	v, _ := s.attachments[attachmentType[T]()].(*T)
	s.attachmentsMu.RUnlock()
	return v
}

// AttachmentOr retrieves the value of type T attached to the session, attaching
// and returning def if none is attached yet.
func AttachmentOr[T any](s *Session, def *T) *T {
	if v := Attachment[T](s); v != nil {
		return v
	}
	Attach(s, def)
	return def
}

// Detach removes the value of type T from the session.
// If the value implements Detachable, its Detach method is called.
func Detach[T any](s *Session) {
	if s == nil {
		return
	}
	t := attachmentType[T]()

	s.attachmentsMu.Lock()
	v, ok := s.attachments[t]
	delete(s.attachments, t)
	s.attachmentsMu.Unlock()

	if !ok {
		return
	}
	if d, ok := v.(Detachable); ok {
		d.Detach(s)
	}
}

// detachAll removes every attachment, calling Detach where implemented.
func (s *Session) detachAll() {
	s.attachmentsMu.Lock()
	attachments := s.attachments
	s.attachments = make(map[reflect.Type]any)
	s.attachmentsMu.Unlock()

	for _, v := range attachments {
		if d, ok := v.(Detachable); ok {
			d.Detach(s)
		}
	}
}
