package chord

import (
	"sort"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
)

// Analysis costs. Lower totals are simpler readings.
const (
	costSeventh         = 1.0
	costSixth           = 1.0
	costExtension       = 1.0 // natural extension implied by the chord number, or the 9 of a 69
	costAdded           = 1.5 // "add" tones
	costAlteration      = 2.0
	costTriadColour     = 0.25 // diminished or augmented triad
	costSus             = 0.5
	costOmission        = 0.5
	costStacked         = 1.0 // any quartal, whole-tone, Yo/In or hybrid stack
	costStackTone       = 0.5 // per quartal, whole-tone or hybrid tone beyond three
	costAugmentedFourth = 1.0 // per A4 step in a fourth stack
	costJapaneseTone    = 1.0 // per Yo/In stack tone beyond three
	costSlash           = 0.75
)

// tertianExtensions maps semitone offsets above a root to the interval they
// name as an extension, in the order they are tried
var tertianExtensions = []struct {
	semis    int
	interval pitch.Interval
	needsM3  bool
}{
	{1, pitch.FromDegree(9, -1), false},
	{2, pitch.FromDegree(9, 0), false},
	{3, pitch.FromDegree(9, 1), true},
	{5, pitch.FromDegree(11, 0), false},
	{6, pitch.FromDegree(11, 1), false},
	{8, pitch.FromDegree(13, -1), false},
	{9, pitch.FromDegree(13, 0), false},
}

// tertianIntervals spells a set of semitone offsets above a candidate root
// as a stack of thirds. It fails when an offset has no tertian role.
func tertianIntervals(offsets []int) ([]pitch.Interval, bool) {
	has := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		has[o] = true
	}
	used := make(map[int]bool, len(offsets))
	ivs := []pitch.Interval{pitch.Unison}
	take := func(semis int, iv pitch.Interval) {
		ivs = append(ivs, iv)
		used[semis] = true
	}

	third := 0
	switch {
	case has[4]:
		take(4, pitch.MajorThird)
		third = 4
	case has[3]:
		take(3, pitch.MinorThird)
		third = 3
	case has[5]:
		take(5, pitch.PerfectFourth)
	case has[2]:
		take(2, pitch.MajorSecond)
	}

	fifth := 0
	switch {
	case has[7]:
		take(7, pitch.PerfectFifth)
		fifth = 7
	case third == 3 && has[6]:
		take(6, pitch.FromDegree(5, -1))
		fifth = 6
	case third == 4 && has[8]:
		take(8, pitch.FromDegree(5, 1))
		fifth = 8
	case third == 4 && has[6]:
		take(6, pitch.FromDegree(5, -1))
		fifth = 6
	}

	seventh := false
	switch {
	case has[10]:
		take(10, pitch.FromDegree(7, -1))
		seventh = true
	case has[11]:
		take(11, pitch.FromDegree(7, 0))
		seventh = true
	case third == 3 && fifth == 6 && has[9]:
		take(9, pitch.FromDegree(7, -2))
		seventh = true
	}
	if !seventh && has[9] {
		take(9, pitch.FromDegree(6, 0))
	}

	for _, ext := range tertianExtensions {
		if !has[ext.semis] || used[ext.semis] {
			continue
		}
		if ext.needsM3 && third != 4 {
			continue
		}
		take(ext.semis, ext.interval)
	}

	for _, o := range offsets {
		if !used[o] {
			return nil, false
		}
	}
	return ivs, true
}

// tertianName is a rendered tertian chord: the symbol text after the root,
// its analysis cost, the role of every member and the extension count
type tertianName struct {
	body  string
	cost  float64
	roles []Role
	exts  int
}

func isNatural(iv pitch.Interval) bool {
	return iv.Quality == pitch.Major || iv.Quality == pitch.Perfect
}

// renderTertian names a stack of thirds. Every member shows up in the
// name, so parsing the result gives back the same members.
func renderTertian(members []pitch.Interval) tertianName {
	out := tertianName{roles: make([]Role, len(members))}
	third, sus, fifth, seventh, sixth := -1, -1, -1, -1, -1
	var twos, fours, exts, extra []int

	for i := 1; i < len(members); i++ {
		iv := members[i]
		q := iv.Quality
		switch iv.Number {
		case 2:
			twos = append(twos, i)
		case 3:
			if third < 0 && (q == pitch.Major || q == pitch.Minor) {
				third = i
			} else {
				extra = append(extra, i)
			}
		case 4:
			fours = append(fours, i)
		case 5:
			if fifth < 0 && (q == pitch.Perfect || q == pitch.Diminished || q == pitch.Augmented) {
				fifth = i
			} else {
				extra = append(extra, i)
			}
		case 6:
			if sixth < 0 && q == pitch.Major {
				sixth = i
			} else {
				extra = append(extra, i)
			}
		case 7:
			if seventh < 0 && (q == pitch.Major || q == pitch.Minor || q == pitch.Diminished) {
				seventh = i
			} else {
				extra = append(extra, i)
			}
		case 9, 11, 13:
			exts = append(exts, i)
		default:
			extra = append(extra, i)
		}
	}

	if third < 0 {
		for _, i := range fours {
			if members[i].Quality == pitch.Perfect {
				sus = i
				break
			}
		}
		if sus < 0 {
			for _, i := range twos {
				if members[i].Quality == pitch.Major {
					sus = i
					break
				}
			}
		}
	}
	for _, i := range append(twos, fours...) {
		if i != sus {
			extra = append(extra, i)
		}
	}

	quality := func(i int) pitch.Quality {
		if i < 0 {
			return -1
		}
		return members[i].Quality
	}
	minor := quality(third) == pitch.Minor
	major := quality(third) == pitch.Major
	dimTriad := minor && quality(fifth) == pitch.Diminished
	augTriad := major && quality(fifth) == pitch.Augmented && seventh < 0

	if quality(seventh) == pitch.Diminished && !dimTriad {
		extra = append(extra, seventh)
		seventh = -1
	}
	if sixth >= 0 && seventh >= 0 {
		extra = append(extra, sixth)
		sixth = -1
	}
	sort.Ints(extra)

	out.roles[0] = RoleRoot
	if third >= 0 {
		out.roles[third] = RoleThird
	}
	if sus >= 0 {
		out.roles[sus] = RoleThird
	}

	fifthDone := fifth < 0 || quality(fifth) == pitch.Perfect
	if fifth >= 0 {
		out.roles[fifth] = RoleFifth
	}

	var base string
	switch {
	case dimTriad:
		out.cost += costTriadColour
		fifthDone = true
		switch quality(seventh) {
		case -1:
			base = "dim"
		case pitch.Diminished:
			base = "dim7"
		case pitch.Minor:
			base = "m7b5"
		default:
			base = "dimMaj7"
		}
	case augTriad:
		out.cost += costTriadColour
		fifthDone = true
		base = "aug"
	default:
		if minor {
			base = "m"
		}
		if seventh >= 0 {
			switch {
			case quality(seventh) != pitch.Major:
				base += "7"
			case minor:
				base += "Maj7"
			default:
				base += "maj7"
			}
		}
	}
	if seventh >= 0 {
		out.roles[seventh] = RoleSeventh
		out.cost += costSeventh
	}

	nat := map[int]int{9: -1, 11: -1, 13: -1}
	any9 := false
	for _, i := range exts {
		iv := members[i]
		if isNatural(iv) && nat[iv.Number] < 0 {
			nat[iv.Number] = i
		}
		if iv.Number == 9 {
			any9 = true
		}
	}
	consumed := make(map[int]bool)

	power := false
	switch {
	case sixth >= 0:
		base += "6"
		out.cost += costSixth
		out.roles[sixth] = RoleAdded
		if nat[9] >= 0 {
			base += "9"
			out.cost += costExtension
			out.roles[nat[9]] = RoleNinth
			consumed[nat[9]] = true
		}
	case third < 0 && sus < 0 && seventh < 0 && quality(fifth) == pitch.Perfect:
		base = "5"
		power = true
		out.cost += costOmission
	}

	n := 0
	if seventh >= 0 && base != "dim7" {
		switch {
		case nat[13] >= 0 && any9:
			n = 13
		case nat[11] >= 0 && any9:
			n = 11
		case nat[9] >= 0:
			n = 9
		}
	}
	if n > 0 {
		idx := strings.LastIndex(base, "7")
		base = base[:idx] + strconv.Itoa(n) + base[idx+1:]
		implied := []struct {
			number int
			role   Role
		}{{9, RoleNinth}, {11, RoleEleventh}, {13, RoleThirteenth}}
		for _, imp := range implied {
			i := nat[imp.number]
			if i < 0 || imp.number > n || (imp.number == 11 && n == 13) {
				continue
			}
			out.roles[i] = imp.role
			consumed[i] = true
			out.cost += costExtension
		}
	}

	var sb strings.Builder
	sb.WriteString(base)
	if sus >= 0 {
		out.cost += costSus
		if members[sus].Number == 4 {
			sb.WriteString("sus4")
		} else {
			sb.WriteString("sus2")
		}
	}

	if !fifthDone {
		out.roles[fifth] = RoleAltered
		out.cost += costAlteration
		name := members[fifth].DegreeName()
		if sb.Len() == 0 {
			name = "(" + name + ")"
		}
		sb.WriteString(name)
	}
	var adds []int
	for _, i := range exts {
		if consumed[i] {
			continue
		}
		if isNatural(members[i]) {
			adds = append(adds, i)
			continue
		}
		out.roles[i] = RoleAltered
		out.cost += costAlteration
		if seventh < 0 {
			sb.WriteString("add")
		}
		sb.WriteString(members[i].DegreeName())
	}
	adds = append(adds, extra...)
	for _, i := range adds {
		out.roles[i] = RoleAdded
		out.cost += costAdded
		sb.WriteString("add" + members[i].DegreeName())
	}

	if third < 0 && sus < 0 && !power {
		out.cost += costOmission
		sb.WriteString("(no3)")
	}
	if fifth < 0 {
		out.cost += costOmission
		sb.WriteString("(no5)")
	}

	for i, iv := range members {
		if i == 0 {
			continue
		}
		if iv.Number > 7 || (iv.Number == 5 && !isNatural(iv)) {
			out.exts++
		}
	}
	out.body = sb.String()
	return out
}
