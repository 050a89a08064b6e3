package scene

// Base implements every Scene hook except Construct. Embed *Base in a scene type.
type Base struct {
	name   string
	camera Camera

	objects []*Object
	moving  []*Object // objects with updaters, as of the last refresh
	nextID  int

	time           float64
	skipAnimations bool
	showProgress   bool
}

func NewBase(name string, cam Camera) *Base {
	return &Base{name: name, camera: cam, showProgress: true}
}

// Add appends objects to the draw list, skipping ones already present.
func (b *Base) Add(objs ...*Object) {
	for _, o := range objs {
		if b.Contains(o) {
			continue
		}
		b.nextID++
		o.ID = b.nextID
		b.objects = append(b.objects, o)
	}
	b.RefreshStaticObjects()
}

func (b *Base) Remove(o *Object) {
	for i, x := range b.objects {
		if x == o {
			b.objects = append(b.objects[:i], b.objects[i+1:]...)
			break
		}
	}
	b.RefreshStaticObjects()
}

func (b *Base) Contains(o *Object) bool {
	for _, x := range b.objects {
		if x == o {
			return true
		}
	}
	return false
}

func (b *Base) Objects() []*Object { return b.objects }

// Time is the scene clock: the sum of every dt passed to UpdateObjects.
func (b *Base) Time() float64 { return b.time }

func (b *Base) Setup()                 {}
func (b *Base) TearDown()              {}
func (b *Base) PostPlay()              {}
func (b *Base) DefaultName() string    { return b.name }
func (b *Base) Camera() Camera         { return b.camera }
func (b *Base) SetCamera(c Camera)     { b.camera = c }
func (b *Base) State() State           { return snapshot(b.objects) }
func (b *Base) ShowProgress() bool     { return b.showProgress }
func (b *Base) SetShowProgress(v bool) { b.showProgress = v }

// PrePlay picks up updaters attached since the last refresh.
func (b *Base) PrePlay() { b.RefreshStaticObjects() }

func (b *Base) UpdateObjects(dt float64) {
	b.time += dt
	for _, o := range b.moving {
		o.update(dt)
	}
}

func (b *Base) UpdateAnimations(anims []Animation, t, dt float64) {
	for _, a := range anims {
		a.Update(t, dt)
	}
}

// BeginAnimations adds animation targets that are not in the scene yet.
func (b *Base) BeginAnimations(anims []Animation) {
	for _, a := range anims {
		b.addTargets(a)
		if bg, ok := a.(Beginner); ok {
			bg.Begin()
		}
	}
}

func (b *Base) addTargets(a Animation) {
	if g, ok := a.(interface{ Children() []Animation }); ok {
		for _, c := range g.Children() {
			b.addTargets(c)
		}
	}
	if tg, ok := a.(Targeter); ok && tg.Target() != nil {
		b.Add(tg.Target())
	}
}

func (b *Base) FinishAnimations(anims []Animation) {
	for _, a := range anims {
		if f, ok := a.(Finisher); ok {
			f.Finish()
		}
	}
	b.RefreshStaticObjects()
}

// ShouldUpdateObjects reports whether any object currently carries an updater.
func (b *Base) ShouldUpdateObjects() bool {
	for _, o := range b.objects {
		if o.HasUpdaters() {
			return true
		}
	}
	return false
}

func (b *Base) SkipAnimations() bool     { return b.skipAnimations }
func (b *Base) SetSkipAnimations(v bool) { b.skipAnimations = v }

// RefreshStaticObjects recomputes which objects need per-frame updates.
func (b *Base) RefreshStaticObjects() {
	b.moving = b.moving[:0]
	for _, o := range b.objects {
		if o.HasUpdaters() {
			b.moving = append(b.moving, o)
		}
	}
}
