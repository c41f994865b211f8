// Package reconciler keeps a registry subject in sync with the local schema
// document and hands out the codec bound to the result.
//
// A run walks a fixed state machine:
//
//	UNKNOWN -> CHECKING_REMOTE
//	CHECKING_REMOTE -> REGISTERING_FIRST -> READY           (subject has no versions)
//	CHECKING_REMOTE -> DIFF_CHECK -> UP_TO_DATE -> READY    (structurally equal, no writes)
//	DIFF_CHECK -> COMPATIBILITY_TEST -> UPDATING -> READY   (compatible change)
//	COMPATIBILITY_TEST -> REJECTED                          (incompatible change, no writes)
//
// Any step may end in FAILED. After every registration the target
// compatibility level (FULL unless configured) is set on the subject.
// REJECTED and FAILED return *Error and produce no codec.
//
// Concurrent Reconcile calls on one Engine share a single run. Peers in
// other processes may race; the registry returns the same version for the
// same content, so they converge on one result.
//
//	engine, err := reconciler.NewEngine(reconciler.Config{Topic: "customer_events"}, store, client)
//	result, err := engine.Reconcile(ctx)
//	data, err := result.Codec.Encode(event)
package reconciler
