package apiclient

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// ProxyConfig overrides the proxy environment variables.
type ProxyConfig struct {
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ProxyFunc returns a transport proxy function. With no overrides it falls
// back to HTTP_PROXY/HTTPS_PROXY/NO_PROXY from the environment.
func (p ProxyConfig) ProxyFunc() func(*http.Request) (*url.URL, error) {
	if p.HTTPProxy == "" && p.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	cfg := httpproxy.Config{
		HTTPProxy:  p.HTTPProxy,
		HTTPSProxy: p.HTTPSProxy,
		NoProxy:    p.NoProxy,
	}
	proxy := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}
