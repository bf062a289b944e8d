package classifier

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nguyentantai21042004/echoflow/internal/config"
)

// newHTTPClient returns a client routed through the configured proxy, or
// through the environment proxy settings when none is configured. Call
// timeouts come from the request context.
func newHTTPClient(p config.ProxyConfig) (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if p.Host == "" || p.Port == "" {
		return &http.Client{Transport: tr}, nil
	}
	addr := net.JoinHostPort(p.Host, p.Port)

	switch p.Scheme {
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if p.User != "" {
			auth = &proxy.Auth{User: p.User, Password: p.Pass}
		}
		d, err := proxy.SOCKS5("tcp", addr, auth, dialer)
		if err != nil {
			return nil, fmt.Errorf("socks5 proxy %s: %w", addr, err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("socks5 proxy %s: dialer does not support contexts", addr)
		}
		tr.Proxy = nil
		tr.DialContext = cd.DialContext
	case "http", "https":
		u := &url.URL{Scheme: p.Scheme, Host: addr}
		if p.User != "" {
			u.User = url.UserPassword(p.User, p.Pass)
		}
		tr.Proxy = http.ProxyURL(u)
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", p.Scheme)
	}

	return &http.Client{Transport: tr}, nil
}
