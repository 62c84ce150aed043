package calendar

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// Scope is the only permission requested: managing events, nothing else.
const Scope = gcal.CalendarEventsScope

var ErrNotConfigured = errors.New("calendar integration not configured")

type InitFunc func(ctx context.Context) (*oauth2.Config, error)

// Loader owns the provider client configuration. Load runs the init function
// on first use and hands every caller the same result, error included.
type Loader struct {
	init InitFunc
	once sync.Once
	cfg  *oauth2.Config
	err  error
}

func NewLoader(init InitFunc) *Loader {
	return &Loader{init: init}
}

func (l *Loader) Load(ctx context.Context) (*oauth2.Config, error) {
	l.once.Do(func() {
		l.cfg, l.err = l.init(ctx)
	})
	return l.cfg, l.err
}

// GoogleInit builds the OAuth2 web-flow config for Google Calendar.
func GoogleInit(clientID, clientSecret, redirectURL string) InitFunc {
	return func(context.Context) (*oauth2.Config, error) {
		if clientID == "" || clientSecret == "" || redirectURL == "" {
			return nil, ErrNotConfigured
		}
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{Scope},
			Endpoint:     google.Endpoint,
		}, nil
	}
}
