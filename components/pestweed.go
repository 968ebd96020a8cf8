package components

// PestKind identifies a pest species.
type PestKind uint8

const (
	NoPest PestKind = iota
	SapFeeder
	RootFeeder
)

func (k PestKind) String() string {
	switch k {
	case SapFeeder:
		return "sap_feeder"
	case RootFeeder:
		return "root_feeder"
	default:
		return "none"
	}
}

// Population levels
const (
	MaxPestLevel = 4
	MaxWeedLevel = 4
)

// PestWeed holds the pest and weed populations of a cell.
// A pest is either absent (NoPest, level 0) or present with level in [1, MaxPestLevel].
type PestWeed struct {
	pest      PestKind
	pestLevel int
	weedLevel int
}

func (pw *PestWeed) Pest() PestKind { return pw.pest }
func (pw *PestWeed) PestLevel() int { return pw.pestLevel }
func (pw *PestWeed) WeedLevel() int { return pw.weedLevel }
func (pw *PestWeed) HasPest() bool  { return pw.pest != NoPest }

// SetPest sets the pest entry. A NoPest kind or a level below 1 clears it.
func (pw *PestWeed) SetPest(kind PestKind, level int) {
	if kind == NoPest || level < 1 {
		pw.ClearPest()
		return
	}
	if level > MaxPestLevel {
		level = MaxPestLevel
	}
	pw.pest = kind
	pw.pestLevel = level
}

// ClearPest removes any pest.
func (pw *PestWeed) ClearPest() {
	pw.pest = NoPest
	pw.pestLevel = 0
}

// SetWeedLevel sets the weed level clamped to [0, MaxWeedLevel].
func (pw *PestWeed) SetWeedLevel(level int) {
	if level < 0 {
		level = 0
	}
	if level > MaxWeedLevel {
		level = MaxWeedLevel
	}
	pw.weedLevel = level
}
