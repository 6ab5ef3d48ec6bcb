// Package actor declares the state of the falling ice cream and the stack it
// lands on. The fields are owned by the gameplay code, the loader only keeps
// them in place across phase changes.
package actor

import "fmt"

// Object is a sprite moving over the playfield.
type Object struct {
	X, Y  uint16
	State uint8
}

func (o Object) String() string {
	return fmt.Sprintf("(%d,%d) state %d", o.X, o.Y, o.State)
}

// Stack is the pile of caught scoops.
type Stack struct {
	Top       uint16 // logical height
	RenderTop uint16 // height drawn so far
}

// State holds all actors.
type State struct {
	Falling Object // scoop dropping from the top
	Stacked Object // scoop sliding onto the stack
	Stack   Stack
}
