// Package event defines the in-process pub/sub bus and event types used to
// decouple the debate orchestrator from renderers and diagnostics.
//
// The orchestrator publishes an event at every state transition of an
// iteration (proposals collected, critiques collected, decision made,
// outcome recorded, weights updated). Subscribers observe the debate without
// the core depending on any presentation code.
//
// # Usage
//
//	bus := event.NewBus()
//	id := bus.Subscribe("decision.made", func(e event.Event) {
//		made := e.(event.DecisionMadeEvent)
//		fmt.Println("winner:", made.WinnerID)
//	})
//	defer bus.Unsubscribe(id)
//
// Publish is synchronous: handlers run on the publishing goroutine, in
// registration order, with panics recovered so one handler cannot take down
// a run.
package event
