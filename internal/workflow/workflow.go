// Package workflow defines the status machines for contacts, appointments
// and testimonials: the enumerated status sets, the permitted transitions,
// and the statuses whose entry triggers a client notification.
package workflow

import (
	"errors"
	"fmt"
)

// Kind identifies an entity family with its own status machine.
type Kind string

const (
	KindContact     Kind = "contact"
	KindAppointment Kind = "appointment"
	KindTestimonial Kind = "testimonial"
)

// Contact statuses.
const (
	ContactNew     = "nouveau"
	ContactTreated = "traité"
	ContactClosed  = "fermé"
)

// Appointment statuses.
const (
	AppointmentPending   = "en_attente"
	AppointmentConfirmed = "confirmé"
	AppointmentCancelled = "annulé"
	AppointmentDone      = "terminé"
)

// Testimonial statuses.
const (
	TestimonialPending  = "pending"
	TestimonialApproved = "approved"
	TestimonialRejected = "rejected"
)

var (
	ErrUnknownKind       = errors.New("unknown entity kind")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// transitions maps, per kind, each status to the statuses reachable from it.
// A status mapping to an empty set is terminal.
var transitions = map[Kind]map[string][]string{
	KindContact: {
		ContactNew:     {ContactTreated},
		ContactTreated: {ContactClosed},
		ContactClosed:  {},
	},
	KindAppointment: {
		AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
		AppointmentConfirmed: {AppointmentDone},
		AppointmentCancelled: {},
		AppointmentDone:      {},
	},
	KindTestimonial: {
		TestimonialPending:  {TestimonialApproved, TestimonialRejected},
		TestimonialApproved: {},
		TestimonialRejected: {},
	},
}

// notifyStatus designates, per kind, the status whose entry triggers an
// email notification. Testimonials have none.
var notifyStatus = map[Kind]string{
	KindContact:     ContactTreated,
	KindAppointment: AppointmentConfirmed,
}

// Valid reports whether status belongs to the kind's enumerated set.
func Valid(kind Kind, status string) bool {
	set, ok := transitions[kind]
	if !ok {
		return false
	}
	_, ok = set[status]
	return ok
}

// Statuses returns the kind's enumerated status set.
func Statuses(kind Kind) []string {
	set, ok := transitions[kind]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

// Terminal reports whether no transition leaves status.
func Terminal(kind Kind, status string) bool {
	set, ok := transitions[kind]
	if !ok {
		return false
	}
	return len(set[status]) == 0
}

// CheckTransition validates moving an entity of the given kind from one
// status to another. Both statuses must be members of the enumerated set and
// the edge must exist in the machine.
func CheckTransition(kind Kind, from, to string) error {
	set, ok := transitions[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	next, ok := set[from]
	if !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnknownStatus, from, kind)
	}
	if _, ok := set[to]; !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnknownStatus, to, kind)
	}
	for _, s := range next {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q -> %q", ErrInvalidTransition, kind, from, to)
}

// NotifyStatus returns the notification-trigger status for the kind, if any.
func NotifyStatus(kind Kind) (string, bool) {
	s, ok := notifyStatus[kind]
	return s, ok
}

// ConfirmedStatus reports whether an entity in this status implies a
// notification was already sent to its email (used to rebuild the
// confirmed-emails set on every full data load).
func ConfirmedStatus(kind Kind, status string) bool {
	switch kind {
	case KindContact:
		return status == ContactTreated || status == ContactClosed
	case KindAppointment:
		return status == AppointmentConfirmed || status == AppointmentDone
	default:
		return false
	}
}
