// Package web holds the storefront pages and the scripts they load.
package web

import "embed"

//go:embed pages/*.html
var Pages embed.FS

//go:embed assets
var Assets embed.FS
