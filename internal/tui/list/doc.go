// Package listview renders long selectable lists in a Bubble Tea program by
// drawing only the rows inside the viewport plus a small buffer.
package listview
