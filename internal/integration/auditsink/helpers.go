package auditsink

import (
	"github.com/futig/structure-engine/internal/config"
	pkghttp "github.com/futig/structure-engine/pkg/http"
)

// collector traffic is a steady trickle to a single host
const maxIdleConnsPerHost = 4

func newHTTPConnector(cfg config.HTTPClientConfig) *pkghttp.Connector {
	return pkghttp.NewConnector(cfg.Url,
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnTimeout(cfg.ConnTimeout),
		pkghttp.WithKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithMaxIdleConnsPerHost(maxIdleConnsPerHost),
		pkghttp.WithMiddleware(pkghttp.Logging()),
		pkghttp.WithMiddleware(pkghttp.BearerAuth(cfg.Token)),
	)
}
