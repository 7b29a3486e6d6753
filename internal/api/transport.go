package api

import (
	"net/http"
	"net/url"

	"github.com/revsum/revsum/internal/model"
	"golang.org/x/net/http/httpproxy"
)

// newTransport builds the client transport. Explicit proxy settings
// replace the environment as a whole; requests to localhost are never proxied.
func newTransport(cfg model.APIConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	return transport
}

func proxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	pc := httpproxy.FromEnvironment()
	if httpProxy != "" || httpsProxy != "" {
		pc = &httpproxy.Config{
			HTTPProxy:  httpProxy,
			HTTPSProxy: httpsProxy,
			NoProxy:    noProxy,
		}
	} else if noProxy != "" {
		pc.NoProxy = noProxy
	}

	resolve := pc.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return resolve(req.URL)
	}
}
