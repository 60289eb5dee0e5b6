// Package seeweb provides a typed client for the Seeweb ECS API.
//
// The package defines small per-concern interfaces (ServerLister,
// ServerCreator, ServerPower, ServerDeleter, ActionWatcher) composed into
// the API interface consumed by the reconciler. RealClient implements the
// interface over HTTP; MockClient provides a test double with per-method
// function overrides.
//
// Server creation and power transitions are asynchronous on the provider
// side: the API acknowledges the request and exposes progress through an
// action resource that callers poll via WatchAction.
package seeweb
