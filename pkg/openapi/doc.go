// Package openapi exposes the contracts for reading route metadata from
// OpenAPI documents. Loader and parser implementations live under
// internal/openapi so kin-openapi types never leak into the public API; the
// root hypermedia package wires them into a RouteProvider.
package openapi
