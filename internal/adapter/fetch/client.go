package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/couchcryptid/station-catalog-etl/internal/config"
)

// Client downloads the station listing archive to scratch storage.
// It implements pipeline.Source.
type Client struct {
	sourceURL  string
	scratchDir string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a listing downloader. Supported schemes are ftp, http,
// https and file; a bare path is read from local disk.
func NewClient(sourceURL, scratchDir string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		sourceURL:  sourceURL,
		scratchDir: scratchDir,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch downloads the listing to a temporary file and opens it. Closing the
// returned reader removes the temporary file.
func (c *Client) Fetch(ctx context.Context) (io.ReadCloser, error) {
	u, err := url.Parse(c.sourceURL)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}

	tmp, err := os.CreateTemp(c.scratchDir, "stations-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	path := tmp.Name()

	start := time.Now()
	n, err := c.download(ctx, u, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	c.logger.Info("listing downloaded",
		"source", redact(u),
		"bytes", n,
		"duration", time.Since(start),
	)

	rc, err := OpenListing(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return &scratchFile{ReadCloser: rc, path: path}, nil
}

func (c *Client) download(ctx context.Context, u *url.URL, dst io.Writer) (int64, error) {
	switch u.Scheme {
	case "ftp":
		return c.downloadFTP(ctx, u, dst)
	case "http", "https":
		return c.downloadHTTP(ctx, u, dst)
	case "file", "":
		return copyLocal(u.Path, dst)
	default:
		return 0, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

// downloadFTP retrieves u.Path over a passive-mode FTP session. Every
// connection of the session shares one deadline of c.timeout from the start
// of the transfer, and all of them are closed as soon as ctx is done.
func (c *Client) downloadFTP(ctx context.Context, u *url.URL, dst io.Writer) (n int64, err error) {
	addr := ftpAddr(u)

	sess := &ftpSession{ctx: ctx, dialer: net.Dialer{Timeout: c.timeout}}
	if c.timeout > 0 {
		sess.deadline = time.Now().Add(c.timeout)
	}
	stop := context.AfterFunc(ctx, sess.close)
	defer stop()
	defer func() {
		if err != nil && ctx.Err() != nil {
			err = fmt.Errorf("ftp %s: %w", addr, ctx.Err())
		}
	}()

	conn, err := ftp.Dial(addr, ftp.DialWithDialFunc(sess.dial))
	if err != nil {
		return 0, fmt.Errorf("ftp dial %s: %w", addr, err)
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			c.logger.Debug("ftp quit failed", "error", err)
		}
	}()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		return 0, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return 0, fmt.Errorf("ftp retr %s: %w", u.Path, err)
	}
	defer resp.Close()

	n, err = io.Copy(dst, resp)
	if err != nil {
		return n, fmt.Errorf("ftp read %s: %w", u.Path, err)
	}
	return n, nil
}

// ftpAddr returns host:port for an ftp URL, defaulting to port 21.
func ftpAddr(u *url.URL) string {
	if u.Port() == "" {
		return net.JoinHostPort(u.Hostname(), "21")
	}
	return u.Host
}

// ftpSession dials the control and data connections of one FTP transfer.
type ftpSession struct {
	ctx      context.Context
	dialer   net.Dialer
	deadline time.Time // zero means none

	mu     sync.Mutex
	conns  []net.Conn
	closed bool
}

func (s *ftpSession) dial(network, addr string) (net.Conn, error) {
	conn, err := s.dialer.DialContext(s.ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(s.deadline); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = conn.Close()
		return nil, net.ErrClosed
	}
	s.conns = append(s.conns, conn)
	return conn, nil
}

// close unblocks any read or write in progress on the session.
func (s *ftpSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, conn := range s.conns {
		_ = conn.Close()
	}
}

func (c *Client) downloadHTTP(ctx context.Context, u *url.URL, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("download listing: status %d: %s", resp.StatusCode, body)
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download listing: %w", err)
	}
	return n, nil
}

func copyLocal(path string, dst io.Writer) (int64, error) {
	if path == "" {
		return 0, errors.New("empty source path")
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return io.Copy(dst, f)
}

// redact drops credentials from a URL before it is logged.
func redact(u *url.URL) string {
	if u.User == nil {
		return u.String()
	}
	cp := *u
	cp.User = url.User(u.User.Username())
	return cp.String()
}

// scratchFile removes the downloaded file once the listing is closed.
type scratchFile struct {
	io.ReadCloser
	path string
}

func (s *scratchFile) Close() error {
	err := s.ReadCloser.Close()
	if rerr := os.Remove(s.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) && err == nil {
		err = rerr
	}
	return err
}
