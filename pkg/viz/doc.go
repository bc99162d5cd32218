// Package viz owns the navigation state between the overview chart and its
// drill-down.
//
// # Overview
//
// A [Controller] renders a primary chart for an [identity.Map] and reacts to
// clicks on it: the selected category is expanded by a drill-down generator
// and, after a short delay that gives the hosting panel time to appear, a
// secondary chart is rendered for the five synthesized sub-categories.
//
//	host := viz.NewHeadlessHost()
//	ctl := viz.New(host, identity.Sample(), viz.WithOnSelect(func(name string) {
//	    log.Info("selected", "category", name)
//	}))
//	ctl.Mount()
//	ctl.Click(viz.RolePrimary, "Leadership")
//	// ... 100ms later the secondary chart exists
//	ctl.Back()
//
// # Surfaces
//
// Surfaces belong to the embedding application and are handed out by a
// [Host]. The controller asks for a primary surface on Mount and for a new
// secondary surface on every drill-down, and gives each back through
// [Host.Detach] when the chart goes away. At most one secondary chart exists.
//
// # Scheduling
//
// Secondary creation runs through a [Scheduler]. [TimerScheduler] fires on a
// timer goroutine and serializes the callback with an optional lock;
// [ManualScheduler] runs callbacks when the caller advances its clock, which
// suits tests and tick-driven UIs. If the selection changes or is cleared
// before the callback fires, the callback does nothing.
//
// # Concurrency
//
// Controllers are not safe for concurrent use. Callers that use
// [TimerScheduler] must guard every Controller call with the same lock they
// give the scheduler.
package viz
