package qrcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"net"
	"net/http"
	"net/netip"
	"os"
	"syscall"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/disintegration/imaging"
)

// maxLogoBytes caps remote and local logo reads.
const maxLogoBytes = 10 << 20

// ErrLogoSourceRefused marks a logo reference the fetcher is configured to refuse.
var ErrLogoSourceRefused = errors.New("logo source refused")

// LogoFetcher resolves logo sources over HTTP, from data URIs and from disk.
type LogoFetcher struct {
	client      *http.Client
	allowPaths  bool
	publicHosts bool
}

type FetcherOption func(*LogoFetcher)

// WithoutLocalFiles refuses filesystem paths. Used when the logo reference
// comes from a remote caller.
func WithoutLocalFiles() FetcherOption {
	return func(f *LogoFetcher) { f.allowPaths = false }
}

// WithPublicHostsOnly refuses to connect to loopback, private or link-local
// addresses. The check runs on the resolved address at dial time, so DNS
// names pointing inside the network are refused too.
func WithPublicHostsOnly() FetcherOption {
	return func(f *LogoFetcher) { f.publicHosts = true }
}

// NewLogoFetcher uses timeout for the whole HTTP exchange.
func NewLogoFetcher(timeout time.Duration, opts ...FetcherOption) *LogoFetcher {
	f := &LogoFetcher{allowPaths: true}
	for _, opt := range opts {
		opt(f)
	}

	client := &http.Client{Timeout: timeout}
	if f.publicHosts {
		dialer := &net.Dialer{Timeout: timeout, Control: refuseNonPublic}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = nil
		transport.DialContext = dialer.DialContext
		client.Transport = transport
	}
	f.client = client
	return f
}

// NewLogoFetcherWithClient is useful when the caller already owns a client.
// A nil client means http.DefaultClient.
func NewLogoFetcherWithClient(client *http.Client, opts ...FetcherOption) *LogoFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &LogoFetcher{client: client, allowPaths: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *LogoFetcher) Fetch(ctx context.Context, src entity.LogoSource) ([]byte, error) {
	switch src.Kind {
	case entity.LogoSourceDataURI:
		return src.Data, nil
	case entity.LogoSourceHTTP:
		return f.fetchHTTP(ctx, src.Location)
	case entity.LogoSourcePath:
		if !f.allowPaths {
			return nil, fmt.Errorf("%w: local paths are disabled", ErrLogoSourceRefused)
		}
		return readLimited(src.Location)
	default:
		return nil, fmt.Errorf("unknown logo source kind %v", src.Kind)
	}
}

// refuseNonPublic is a net.Dialer Control hook; address is the resolved ip:port.
func refuseNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s is not a public address", ErrLogoSourceRefused, ip)
	}
	return nil
}

func (f *LogoFetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building logo request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching logo: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading logo body: %w", err)
	}
	if len(data) > maxLogoBytes {
		return nil, fmt.Errorf("logo larger than %d bytes", maxLogoBytes)
	}
	return data, nil
}

func readLimited(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening logo: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading logo: %w", err)
	}
	if len(data) > maxLogoBytes {
		return nil, fmt.Errorf("logo larger than %d bytes", maxLogoBytes)
	}
	return data, nil
}

// loadLogo fetches and decodes the logo. Every failure wraps ErrAssetFetch.
func loadLogo(ctx context.Context, fetcher repository.LogoFetcher, raw string) (image.Image, error) {
	src, err := entity.ParseLogoSource(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrAssetFetch, err)
	}
	data, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s logo: %v", types.ErrAssetFetch, src.Kind, err)
	}
	logo, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding logo: %v", types.ErrAssetFetch, err)
	}
	return logo, nil
}

// embedLogo fits the logo in a square of width*ratio pixels, flattens it on
// white and pastes it over the centre of the code.
func embedLogo(qr image.Image, logo image.Image, ratio float64) image.Image {
	bounds := qr.Bounds()
	box := int(float64(bounds.Dx()) * ratio)
	if box < 3 {
		return qr
	}
	pad := box / 20
	if pad < 1 {
		pad = 1
	}

	fitted := fitSquare(logo, box-2*pad)
	fb := fitted.Bounds()
	backing := imaging.New(fb.Dx()+2*pad, fb.Dy()+2*pad, color.White)
	backing = imaging.OverlayCenter(backing, fitted, 1.0)

	return imaging.PasteCenter(qr, backing)
}

// fitSquare scales img up or down so its longer side equals edge.
func fitSquare(img image.Image, edge int) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}
	scale := float64(edge) / float64(max(b.Dx(), b.Dy()))
	w := max(1, int(float64(b.Dx())*scale+0.5))
	h := max(1, int(float64(b.Dy())*scale+0.5))
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
