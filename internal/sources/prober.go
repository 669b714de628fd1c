package sources

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"lumina/internal/catalog"
	"lumina/internal/logging"
	"lumina/internal/media"
	"lumina/internal/metrics"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// UserAgent is sent with HTTP probes.
const UserAgent = "Lumina/1.0 (+source-check)"

// defaultPorts is used for non-HTTP schemes without an explicit port.
var defaultPorts = map[string]string{
	"rtsp":  "554",
	"rtmp":  "1935",
	"rtmps": "443",
	"smb":   "445",
	"ftp":   "21",
	"sftp":  "22",
	"nfs":   "2049",
}

// Catalog is where probe results are recorded. *catalog.State implements it.
type Catalog interface {
	Source(id string) (media.NetworkSource, bool)
	SetSourceStatus(ctx context.Context, id string, status media.ConnectionStatus, checkedAt time.Time) error
}

// Prober checks whether sources are reachable.
type Prober struct {
	catalog Catalog
	client  *http.Client
	dialer  *net.Dialer
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Prober.
type Option func(*Prober)

// WithHTTPClient replaces the HTTP client used for http and https sources.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) { p.client = c }
}

// WithTimeout sets the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewProber creates a Prober that records results in c.
func NewProber(c Catalog, opts ...Option) *Prober {
	p := &Prober{
		catalog: c,
		client: &http.Client{
			// Redirects count as reachable; do not follow them.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		dialer:  &net.Dialer{},
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check probes the source with id and records the outcome. The source is
// marked checking while the probe runs.
func (p *Prober) Check(ctx context.Context, id string) (media.NetworkSource, error) {
	src, ok := p.catalog.Source(id)
	if !ok {
		return media.NetworkSource{}, fmt.Errorf("%w: source %s", catalog.ErrNotFound, id)
	}

	if err := p.catalog.SetSourceStatus(ctx, id, media.StatusChecking, time.Time{}); err != nil {
		return media.NetworkSource{}, err
	}

	status := media.StatusOffline
	if err := p.probe(ctx, src.URL); err != nil {
		logging.Debug("Source %s (%s) unreachable: %v", src.Name, src.URL, err)
	} else {
		status = media.StatusOnline
	}
	metrics.SourceChecksTotal.WithLabelValues(string(status)).Inc()

	if err := p.catalog.SetSourceStatus(context.WithoutCancel(ctx), id, status, p.now()); err != nil {
		return media.NetworkSource{}, err
	}
	logging.Info("Source %s is %s", src.Name, status)

	src, _ = p.catalog.Source(id)
	return src, nil
}

func (p *Prober) probe(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	switch u.Scheme {
	case "http", "https":
		return p.probeHTTP(ctx, u.String())
	default:
		return p.probeTCP(ctx, u)
	}
}

func (p *Prober) probeHTTP(ctx context.Context, target string) error {
	code, err := p.request(ctx, http.MethodHead, target)
	if err != nil {
		return err
	}
	if code == http.StatusMethodNotAllowed {
		code, err = p.request(ctx, http.MethodGet, target)
		if err != nil {
			return err
		}
	}
	if code < 200 || code >= 400 {
		return fmt.Errorf("status %d", code)
	}
	return nil
}

func (p *Prober) request(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (p *Prober) probeTCP(ctx context.Context, u *url.URL) error {
	host := u.Host
	if u.Port() == "" {
		port := defaultPorts[u.Scheme]
		if port == "" {
			return fmt.Errorf("no port to probe for scheme %q", u.Scheme)
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}

	conn, err := p.dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return err
	}
	return conn.Close()
}
