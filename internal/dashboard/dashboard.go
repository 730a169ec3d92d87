// Package dashboard implements the admin dashboard view model: it owns the
// entity collections fetched from the backend, derives filtered views, and
// drives status transitions with optimistic updates, bounded retries and
// email notifications.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vilo-admin/internal/client"
	"vilo-admin/internal/logging"
	"vilo-admin/internal/models"
	"vilo-admin/internal/utils"
	"vilo-admin/internal/workflow"
)

var (
	// ErrOffline is returned when a data load is attempted without
	// connectivity; no HTTP call is issued.
	ErrOffline = errors.New("hors ligne")
	// ErrAlreadyConfirmed gates repeated notification sends to an address
	// confirmed this session.
	ErrAlreadyConfirmed = errors.New("email déjà confirmé")
	// ErrUnknownEntity is returned when a transition targets an id absent
	// from the loaded collections.
	ErrUnknownEntity = errors.New("entité inconnue")
)

const (
	defaultRetries  = 3
	defaultBackoff  = time.Second
	defaultDebounce = 300 * time.Millisecond
	syncInterval    = 5 * time.Minute
)

// API is the admin HTTP surface the view model consumes. *client.Client
// satisfies it.
type API interface {
	Get(ctx context.Context, path string, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
}

// Notifier dispatches transition notifications and tracks confirmed
// recipients. *notify.Dispatcher satisfies it.
type Notifier interface {
	Send(ctx context.Context, to, name, typ string, data map[string]string) error
	Seed(emails []string)
	Confirmed(email string) bool
}

// Notice is a user-facing toast message.
type Notice struct {
	Title       string
	Description string
	Error       bool
}

// Dashboard is the admin view model. All state lives behind one mutex;
// callers interact from any goroutine.
type Dashboard struct {
	api      API
	notifier Notifier
	logger   *logging.Logger

	retries   int
	backoff   time.Duration
	debounce  time.Duration
	syncEvery time.Duration

	onLogout func()
	onNotice func(Notice)

	mu           sync.Mutex
	contacts     []models.Contact
	appointments []models.Appointment
	testimonials []models.Testimonial
	searchTerm   string
	statusFilter string
	lastSync     time.Time
	online       bool
	loading      bool
	refreshing   bool
	fetchSeq     uint64
	searchGen    uint64
	debouncer    *time.Timer
}

func New(api API, notifier Notifier, logger *logging.Logger) *Dashboard {
	d := &Dashboard{
		api:          api,
		notifier:     notifier,
		logger:       logger,
		retries:      defaultRetries,
		backoff:      defaultBackoff,
		debounce:     defaultDebounce,
		syncEvery:    syncInterval,
		online:       true,
		statusFilter: "all",
	}
	d.onLogout = func() {}
	d.onNotice = func(n Notice) {
		if n.Error {
			logger.Errorf("%s: %s", n.Title, n.Description)
		} else {
			logger.Infof("%s: %s", n.Title, n.Description)
		}
	}
	return d
}

// OnLogout installs the callback invoked when the session expires (401).
func (d *Dashboard) OnLogout(fn func()) { d.onLogout = fn }

// OnNotice installs the toast sink.
func (d *Dashboard) OnNotice(fn func(Notice)) { d.onNotice = fn }

func (d *Dashboard) notice(n Notice) { d.onNotice(n) }

// SetOnline records connectivity; fetches are suppressed while offline.
func (d *Dashboard) SetOnline(online bool) {
	d.mu.Lock()
	d.online = online
	d.mu.Unlock()
}

func (d *Dashboard) Online() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.online
}

func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

func (d *Dashboard) LastSync() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSync
}

// Load fetches all collections. Existing data is preserved on failure.
func (d *Dashboard) Load(ctx context.Context) error {
	return d.fetch(ctx, false)
}

// Refresh forces a full refetch. Concurrent refreshes are coalesced: the
// call is a no-op while one is already in flight.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	if d.refreshing {
		d.mu.Unlock()
		return nil
	}
	d.refreshing = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.refreshing = false
		d.mu.Unlock()
	}()
	return d.fetch(ctx, true)
}

// StartAutoRefresh refetches when data is older than the sync interval and
// connectivity is available, checked on a fixed cadence until ctx ends.
func (d *Dashboard) StartAutoRefresh(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.syncEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.mu.Lock()
				stale := !d.lastSync.IsZero() && time.Since(d.lastSync) > d.syncEvery
				online := d.online
				d.mu.Unlock()
				if stale && online {
					_ = d.Refresh(ctx)
				}
			}
		}
	}()
}

func (d *Dashboard) fetch(ctx context.Context, force bool) error {
	d.mu.Lock()
	if !d.online {
		d.mu.Unlock()
		d.notice(Notice{
			Title:       "Hors ligne",
			Description: "Connexion internet requise pour charger les données",
			Error:       true,
		})
		return ErrOffline
	}
	d.loading = true
	d.fetchSeq++
	seq := d.fetchSeq
	d.mu.Unlock()

	var (
		contacts     models.ContactList
		appointments models.AppointmentList
		testimonials models.TestimonialList
	)
	err := utils.Retry(ctx, d.logger, d.retries, d.backoff, func() error {
		if err := d.api.Get(ctx, "/admin/contacts", &contacts); err != nil {
			return err
		}
		if err := d.api.Get(ctx, "/admin/appointments", &appointments); err != nil {
			return err
		}
		return d.api.Get(ctx, "/admin/testimonials", &testimonials)
	})
	if err != nil {
		d.mu.Lock()
		d.loading = false
		d.mu.Unlock()
		d.reportLoadError(err)
		return err
	}

	validContacts := validContacts(contacts.Data, d.logger)
	validAppointments := validAppointments(appointments.Data, d.logger)
	validTestimonials := validTestimonials(testimonials.Data, d.logger)

	// Rebuild the confirmed-emails set from entities whose status implies
	// a notification was already sent.
	var confirmed []string
	for _, c := range validContacts {
		if workflow.ConfirmedStatus(workflow.KindContact, c.Status) {
			confirmed = append(confirmed, c.Email)
		}
	}
	for _, a := range validAppointments {
		if workflow.ConfirmedStatus(workflow.KindAppointment, a.Status) {
			confirmed = append(confirmed, a.ClientEmail)
		}
	}

	d.mu.Lock()
	if seq != d.fetchSeq {
		// a newer fetch was issued while this one was in flight; its
		// result is stale and must not clobber newer state
		d.loading = false
		d.mu.Unlock()
		d.logger.Debugf("Discarding stale fetch result (seq %d)", seq)
		return nil
	}
	d.contacts = validContacts
	d.appointments = validAppointments
	d.testimonials = validTestimonials
	d.lastSync = time.Now()
	d.loading = false
	d.mu.Unlock()

	d.notifier.Seed(confirmed)
	d.logger.Infof("Données chargées - Contacts: %d, Rendez-vous: %d, Témoignages: %d",
		len(validContacts), len(validAppointments), len(validTestimonials))

	if force {
		d.notice(Notice{
			Title:       "Données actualisées",
			Description: fmt.Sprintf("%d contacts et %d rendez-vous chargés", len(validContacts), len(validAppointments)),
		})
	}
	return nil
}

func (d *Dashboard) reportLoadError(err error) {
	switch code := client.StatusCode(err); {
	case code == 401:
		d.notice(Notice{Title: "Session expirée", Description: "Veuillez vous reconnecter", Error: true})
		d.onLogout()
	case code == 403:
		d.notice(Notice{Title: "Accès refusé", Description: "Vous n'avez pas les permissions nécessaires", Error: true})
	case code >= 500:
		d.notice(Notice{Title: "Erreur serveur", Description: "Le serveur rencontre des difficultés. Réessayez dans quelques instants.", Error: true})
	default:
		d.notice(Notice{Title: "Erreur de chargement", Description: bestMessage(err, "Impossible de charger les données"), Error: true})
	}
}

// Transition moves an entity to a target status: it validates the move
// against the status machine, applies an optimistic local update, issues the
// PUT under the retry policy, and rolls back the snapshot on failure. On
// success it dispatches the notification bound to the target status, if any.
func (d *Dashboard) Transition(ctx context.Context, kind workflow.Kind, id int64, target string) error {
	d.mu.Lock()
	current, email, name, payload, ok := d.entityLocked(kind, id)
	if !ok {
		d.mu.Unlock()
		d.notice(Notice{Title: "Erreur", Description: "Enregistrement introuvable", Error: true})
		return fmt.Errorf("%w: %s %d", ErrUnknownEntity, kind, id)
	}
	if err := workflow.CheckTransition(kind, current, target); err != nil {
		d.mu.Unlock()
		d.notice(Notice{Title: "Erreur de validation", Description: "Statut invalide", Error: true})
		return err
	}

	snapshot := d.snapshotLocked(kind)
	d.applyStatusLocked(kind, id, target)
	d.mu.Unlock()

	var resp models.UpdateResponse
	path := fmt.Sprintf("/admin/%ss/%d", kind, id)
	err := utils.Retry(ctx, d.logger, d.retries, d.backoff, func() error {
		return d.api.Put(ctx, path, map[string]string{"status": target}, &resp)
	})
	if err != nil {
		d.mu.Lock()
		d.restoreLocked(kind, snapshot)
		d.mu.Unlock()
		d.reportTransitionError(err)
		return err
	}

	if notifyAt, hasNotify := workflow.NotifyStatus(kind); hasNotify && target == notifyAt && email != "" {
		if !d.notifier.Confirmed(email) {
			if sendErr := d.notifier.Send(ctx, email, name, string(kind), payload); sendErr != nil {
				// the transition itself succeeded; only the email failed
				d.notice(Notice{Title: "Échec d'envoi", Description: bestMessage(sendErr, "Erreur lors de la communication avec le serveur"), Error: true})
			}
		}
	}

	d.notice(Notice{Title: "Statut mis à jour", Description: "Le statut a été modifié"})
	return nil
}

func (d *Dashboard) reportTransitionError(err error) {
	switch code := client.StatusCode(err); code {
	case 401:
		// no generic error toast: the session ended, the logout flow
		// takes over
		d.notice(Notice{Title: "Session expirée", Description: "Veuillez vous reconnecter", Error: true})
		d.onLogout()
	case 403:
		d.notice(Notice{Title: "Accès refusé", Description: "Vous n'avez pas les permissions nécessaires", Error: true})
	case 404:
		d.notice(Notice{Title: "Erreur", Description: bestMessage(err, "Enregistrement introuvable"), Error: true})
	default:
		d.notice(Notice{Title: "Erreur", Description: bestMessage(err, "Impossible de mettre à jour"), Error: true})
	}
}

// SendConfirmation re-sends the notification email for an entity, gated by
// the confirmed-emails set.
func (d *Dashboard) SendConfirmation(ctx context.Context, kind workflow.Kind, id int64) error {
	d.mu.Lock()
	_, email, name, payload, ok := d.entityLocked(kind, id)
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s %d", ErrUnknownEntity, kind, id)
	}
	if email == "" {
		return fmt.Errorf("%w: %s %d has no email", ErrUnknownEntity, kind, id)
	}
	if d.notifier.Confirmed(email) {
		return ErrAlreadyConfirmed
	}
	if err := d.notifier.Send(ctx, email, name, string(kind), payload); err != nil {
		d.notice(Notice{Title: "Échec d'envoi", Description: bestMessage(err, "Erreur lors de la communication avec le serveur"), Error: true})
		return err
	}
	d.notice(Notice{Title: "Email envoyé", Description: fmt.Sprintf("Confirmation envoyée à %s", email)})
	return nil
}

// entityLocked resolves an entity's current status, recipient identity and
// notification payload. Callers hold d.mu.
func (d *Dashboard) entityLocked(kind workflow.Kind, id int64) (status, email, name string, payload map[string]string, ok bool) {
	switch kind {
	case workflow.KindContact:
		for _, c := range d.contacts {
			if c.ID == id {
				return c.Status, c.Email, c.Name, map[string]string{
					"service": c.Service,
					"message": c.Message,
				}, true
			}
		}
	case workflow.KindAppointment:
		for _, a := range d.appointments {
			if a.ID == id {
				return a.Status, a.ClientEmail, a.ClientName, map[string]string{
					"date": formatDateFR(a.Date),
					"time": a.Time,
				}, true
			}
		}
	case workflow.KindTestimonial:
		for _, tm := range d.testimonials {
			if tm.ID == id {
				return tm.Status, "", tm.Name, nil, true
			}
		}
	}
	return "", "", "", nil, false
}

func (d *Dashboard) snapshotLocked(kind workflow.Kind) interface{} {
	switch kind {
	case workflow.KindContact:
		return append([]models.Contact(nil), d.contacts...)
	case workflow.KindAppointment:
		return append([]models.Appointment(nil), d.appointments...)
	default:
		return append([]models.Testimonial(nil), d.testimonials...)
	}
}

func (d *Dashboard) restoreLocked(kind workflow.Kind, snapshot interface{}) {
	switch kind {
	case workflow.KindContact:
		d.contacts = snapshot.([]models.Contact)
	case workflow.KindAppointment:
		d.appointments = snapshot.([]models.Appointment)
	default:
		d.testimonials = snapshot.([]models.Testimonial)
	}
}

func (d *Dashboard) applyStatusLocked(kind workflow.Kind, id int64, status string) {
	switch kind {
	case workflow.KindContact:
		for i := range d.contacts {
			if d.contacts[i].ID == id {
				d.contacts[i].Status = status
			}
		}
	case workflow.KindAppointment:
		for i := range d.appointments {
			if d.appointments[i].ID == id {
				d.appointments[i].Status = status
			}
		}
	default:
		for i := range d.testimonials {
			if d.testimonials[i].ID == id {
				d.testimonials[i].Status = status
			}
		}
	}
}

// bestMessage falls through: server-provided message, then the error text,
// then a generic string.
func bestMessage(err error, fallback string) string {
	var ae *client.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

// formatDateFR renders a YYYY-MM-DD date as DD/MM/YYYY.
func formatDateFR(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
