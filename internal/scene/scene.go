// Package scene defines what the render manager drives: the Scene hooks it calls around
// every playback, the Animation contract and the immutable State snapshot handed to a
// render backend. Base is an embeddable implementation of every hook except Construct.
package scene

import (
	"context"
	"errors"
)

// ErrEndEarly is returned from Construct to stop the scene early. It is not a failure:
// the manager proceeds straight to teardown.
var ErrEndEarly = errors.New("scene: end early")

// Player is the playback surface a scene's Construct drives.
type Player interface {
	// Play runs the animations concurrently for the longest of their run times.
	Play(ctx context.Context, anims ...Animation) error
	// Wait holds the scene for d seconds, or until stop returns true. A nil stop never fires.
	Wait(ctx context.Context, d float64, stop func() bool) error
}

// Scene is the capability set the manager requires. Scenes are always held by reference;
// object mutations must be visible across frames.
type Scene interface {
	Construct(ctx context.Context, p Player) error
	Setup()
	TearDown()

	State() State
	Camera() Camera
	DefaultName() string

	UpdateObjects(dt float64)
	UpdateAnimations(anims []Animation, t, dt float64)

	PrePlay()
	PostPlay()
	BeginAnimations(anims []Animation)
	FinishAnimations(anims []Animation)

	ShouldUpdateObjects() bool
	SkipAnimations() bool
	SetSkipAnimations(skip bool)
	RefreshStaticObjects()
	SetShowProgress(show bool)
}
