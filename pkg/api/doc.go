// Package api defines the public types and contracts of the stepform
// wizard controller: step configuration and registries, hook selectors and
// dispatch, the request/response shapes, the external Store, Validator and
// Renderer contracts, and the Observer used for logging and metrics.
//
// Most applications import the root stepform package, which re-exports
// everything here; api exists so adapter packages can depend on the
// contracts without pulling in the controller implementation.
package api
