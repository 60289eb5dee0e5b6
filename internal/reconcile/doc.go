// Package reconcile drives a named fleet of Seeweb ECS servers from its
// observed state to a requested target state.
//
// The Reconciler owns no persistent state: every operation re-derives fleet
// membership by listing the account's servers and filtering on the notes
// tag, so nodes created by a concurrent actor (for example a retried CLI
// invocation) are attributed correctly.
//
// Concurrency contract: at most one in-flight Converge, Stop, Terminate, or
// AwaitState call per fleet tag. The provider offers no locking primitive,
// so two concurrent Converge calls for the same tag can race and
// over-provision. Enforcement is the caller's responsibility. Reconcilers
// for different tags are fully independent.
package reconcile
