package alert

import (
	"html"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Kind classifies the visual severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// Scope identifies where a notification is rendered.
type Scope string

const (
	ScopeInline Scope = "inline" // banner inside the active form/modal
	ScopeGlobal Scope = "global" // page-level banner
	ScopeToast  Scope = "toast"  // corner toast
)

const (
	globalTTL = 5 * time.Second
	toastTTL  = 3 * time.Second
)

// Notifier is the notification contract consumed by the sync controller
// and the bulk import orchestrator.
type Notifier interface {
	Inline(kind Kind, message string)
	Global(kind Kind, message string)
	Toast(kind Kind, message string)
}

// Notice is one rendered notification. Message is already HTML-escaped:
// user-entered titles and server error messages are never interpreted as
// markup.
type Notice struct {
	Scope     Scope     `json:"scope"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (n Notice) expired(now time.Time) bool {
	return !n.ExpiresAt.IsZero() && now.After(n.ExpiresAt)
}

// Presenter keeps a bounded feed of active notices. Global banners expire
// after 5 seconds, toasts after 3; inline banners stay until the owning
// surface is dismissed.
type Presenter struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
	log     zerolog.Logger
}

func NewPresenter(log zerolog.Logger) *Presenter {
	return &Presenter{now: time.Now, log: log}
}

// WithClock overrides the presenter clock, for tests.
func (p *Presenter) WithClock(now func() time.Time) *Presenter {
	p.now = now
	return p
}

func (p *Presenter) Inline(kind Kind, message string) {
	p.push(ScopeInline, kind, message, 0)
}

func (p *Presenter) Global(kind Kind, message string) {
	p.push(ScopeGlobal, kind, message, globalTTL)
}

func (p *Presenter) Toast(kind Kind, message string) {
	p.push(ScopeToast, kind, message, toastTTL)
}

func (p *Presenter) push(scope Scope, kind Kind, message string, ttl time.Duration) {
	now := p.now()
	notice := Notice{
		Scope:     scope,
		Kind:      kind,
		Message:   html.EscapeString(message),
		CreatedAt: now,
	}
	if ttl > 0 {
		notice.ExpiresAt = now.Add(ttl)
	}

	p.mu.Lock()
	p.notices = append(p.notices, notice)
	p.mu.Unlock()

	p.log.Debug().
		Str("scope", string(scope)).
		Str("kind", string(kind)).
		Str("message", message).
		Msg("notification")
}

// Active returns the notices still on screen, pruning expired ones.
func (p *Presenter) Active() []Notice {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.notices[:0]
	for _, n := range p.notices {
		if !n.expired(now) {
			kept = append(kept, n)
		}
	}
	p.notices = kept

	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// DismissInline drops inline banners when the form/modal closes.
func (p *Presenter) DismissInline() {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.notices[:0]
	for _, n := range p.notices {
		if n.Scope != ScopeInline {
			kept = append(kept, n)
		}
	}
	p.notices = kept
}
