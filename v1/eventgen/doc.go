// Package eventgen generates synthetic customer events for a video
// streaming service: the device and location of the viewer, the watched
// content, playback details, subscription, recommendations, recent searches
// and player actions.
//
// Events are shaped for the CustomerEvent schema bundled under
// schemas/customer_events and are used by the produce command to exercise a
// reconciled codec end to end.
//
//	gen := eventgen.New(eventgen.WithSeed(42))
//	for _, event := range gen.Batch(10) {
//		_ = producer.Publish(ctx, event.EventID, event, nil)
//	}
package eventgen
