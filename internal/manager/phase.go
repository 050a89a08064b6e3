package manager

// Phase is where a Manager is in its single render.
type Phase int

const (
	PhaseConstructed Phase = iota
	PhaseSetUp
	PhaseConstructing
	PhaseRendering
	PhaseInteracting
	PhaseTornDown
)

var phaseNames = [...]string{"constructed", "set-up", "constructing", "rendering", "interacting", "torn-down"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// ConstructOutcome classifies how a scene's Construct returned.
type ConstructOutcome int

const (
	Completed ConstructOutcome = iota
	EarlyStop
	Interrupted
)

func (o ConstructOutcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case EarlyStop:
		return "early-stop"
	case Interrupted:
		return "interrupted"
	}
	return "unknown"
}
