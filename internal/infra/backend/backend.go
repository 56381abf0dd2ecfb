// Package backend implements the domain repositories over the pricing REST API.
package backend

import (
	"context"
	"net/url"
	"strconv"

	"pricing/internal/infra/httpclient"
)

// Doer sends one request through the authenticated request layer.
type Doer interface {
	Do(ctx context.Context, req *httpclient.Request, out any) error
}

// Resource roots, relative to the backend base URL.
const (
	productsPath         = "/api/products/"
	productHistoryPath   = "/api/product-history/"
	marketConditionsPath = "/api/market-conditions/"
	optimizationLogsPath = "/api/optimization-logs/"
	bulkOptimizePath     = "/api/products/bulk-optimize/"

	loginPath    = "/auth/login/"
	logoutPath   = "/auth/logout/"
	registerPath = "/auth/register/"
	usersPath    = "/auth/users/"
)

// member returns the detail path of id under root, optionally followed by an action.
func member(root string, id int64, action ...string) string {
	path := root + strconv.FormatInt(id, 10) + "/"
	for _, a := range action {
		path += a + "/"
	}

	return path
}

// merge copies every value of extra into base.
func merge(base url.Values, extra url.Values) url.Values {
	for key, values := range extra {
		for _, v := range values {
			base.Add(key, v)
		}
	}

	return base
}
