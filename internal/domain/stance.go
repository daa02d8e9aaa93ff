package domain

// Stance is the enumerated vote value a user casts. The set is closed;
// unknown values never enter aggregates.
type Stance string

const (
	StanceGoat       Stance = "goat"
	StanceFraud      Stance = "fraud"
	StanceKing       Stance = "king"
	StanceMercenary  Stance = "mercenary"
	StanceMachine    Stance = "machine"
	StanceStatPadder Stance = "stat_padder"
)

// Stances lists every stance in display order. Counter columns and the
// zero-state stance map are derived from this slice, so the order here
// is also the column order.
var Stances = []Stance{
	StanceGoat,
	StanceFraud,
	StanceKing,
	StanceMercenary,
	StanceMachine,
	StanceStatPadder,
}

// The pro and anti camps route reason codes into the like and dislike
// maps and split country counts. Machine sits in neither camp: it
// counts toward totals and its own stance counter only.
var proStances = map[Stance]bool{
	StanceGoat: true,
	StanceKing: true,
}

var antiStances = map[Stance]bool{
	StanceFraud:      true,
	StanceMercenary:  true,
	StanceStatPadder: true,
}

// IsValid reports whether s is a member of the closed stance set.
func (s Stance) IsValid() bool {
	switch s {
	case StanceGoat, StanceFraud, StanceKing, StanceMercenary, StanceMachine, StanceStatPadder:
		return true
	}
	return false
}

// IsPro reports whether s belongs to the positive camp.
func (s Stance) IsPro() bool {
	return proStances[s]
}

// IsAnti reports whether s belongs to the negative camp.
func (s Stance) IsAnti() bool {
	return antiStances[s]
}

// ParseStance validates a raw string against the closed stance set.
func ParseStance(raw string) (Stance, bool) {
	s := Stance(raw)
	return s, s.IsValid()
}
