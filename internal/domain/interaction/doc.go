/*
Package interaction translates raw pointer events into window manager calls.

Every pointer runs its own small state machine:

	Idle --down on title bar--> Dragging --up--> Idle
	Idle --down on grip------> Resizing --up--> Idle
	Idle --down on button----> Pressing --up--> Idle (button fires if released over it)

Any press focuses the window it lands on. Drags and resizes only start on
windows that are not maximized. A drag keeps the offset between the pointer
and the window origin; a resize measures deltas from the press point, so no
drift accumulates, and never goes below the minimum size.

Pointer-leave and lost capture never cancel a gesture; only pointer-up ends
it, wherever it lands. A double click on the title bar toggles maximize. When
the window under a gesture is closed, the gesture is dropped on the next
event.

Events may carry a per-pointer sequence number. An event whose number is at
or below the last applied one is reported as stale and ignored.

Handle runs with the controller lock held and calls into the window manager,
so change listeners must not call back into the controller.
*/
package interaction
