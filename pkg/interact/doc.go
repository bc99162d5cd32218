// Package interact implements hover and click handling for rendered charts.
//
// A [Controller] binds pointer events to the points of one [render.Chart]:
//
//   - Enter grows the point to 1.2× over 200ms, shows a tooltip next to the
//     pointer and draws a dashed line from the point to every other point.
//   - Leave restores the radius and removes the tooltip and lines.
//   - Click reports the category to the selection callback, on primary
//     charts only.
//
// The controller owns the handles of every transient element it creates and
// removes exactly those; nothing else on the surface is touched. Only one
// point is hovered at a time: entering a second point first leaves the
// previous one.
//
//	ctl := interact.New(surface, chart, interact.WithOnSelect(func(name string) {
//	    fmt.Println("selected", name)
//	}))
//	ctl.Move(x, y)  // hit-tests and synthesizes Enter/Leave
//	ctl.Click("Leadership")
//	ctl.Dispose()
//
// Controllers are not safe for concurrent use.
package interact
