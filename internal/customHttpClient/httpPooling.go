package customHttpClient

import (
	"net/http"

	"github.com/saitejab/docuquery/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// Client returns the shared pooled client so the provider SDKs reuse
// connections instead of redialing per call.
func Client() *http.Client {
	return pooledClient
}
