package desid

import "fmt"

// Field is an optional integer cell. An invalid Field means the column
// was empty for that row, which downstream encoding treats as "leave
// the register alone".
type Field struct {
	Int   int64
	Valid bool
}

// SSFRow is one register-state row from a desidulate SSF export.
// HashID groups rows into fragments; Clock orders rows within one.
type SSFRow struct {
	HashID int64
	Clock  int64

	Freq    Field // freq1
	PW      Field // pwduty1
	Gate    Field // gate1
	Sync    Field // sync1
	Ring    Field // ring1
	Test    Field // test1
	Tri     Field // tri1
	Saw     Field // saw1
	Pulse   Field // pulse1
	Noise   Field // noise1
	Atk     Field // atk1
	Dec     Field // dec1
	Sus     Field // sus1
	Rel     Field // rel1
	ModFreq Field // freq3
	ModTest Field // test3
	Route   Field // flt1
	Ext     Field // fltext
	Cutoff  Field // fltcoff
	Res     Field // fltres
	Lo      Field // fltlo
	Band    Field // fltband
	Hi      Field // flthi
	Vol     Field // vol
}

// LogRow is one playback event from a desidulate log export: fragment
// HashID starts on Voice at tick Clock.
type LogRow struct {
	Clock  int64
	HashID int64
	Voice  int64
}

// RegisterColumns names every register column the encoder reads, in
// export order. An SSF export must carry all of them.
var RegisterColumns = []string{
	"freq1", "pwduty1",
	"gate1", "sync1", "ring1", "test1", "tri1", "saw1", "pulse1", "noise1",
	"atk1", "dec1", "sus1", "rel1",
	"freq3", "test3",
	"flt1", "fltext", "fltcoff", "fltres",
	"fltlo", "fltband", "flthi",
	"vol",
}

// SetColumn assigns a parsed cell to the named register column. It
// reports false for names outside RegisterColumns.
func (r *SSFRow) SetColumn(name string, f Field) bool {
	switch name {
	case "freq1":
		r.Freq = f
	case "pwduty1":
		r.PW = f
	case "gate1":
		r.Gate = f
	case "sync1":
		r.Sync = f
	case "ring1":
		r.Ring = f
	case "test1":
		r.Test = f
	case "tri1":
		r.Tri = f
	case "saw1":
		r.Saw = f
	case "pulse1":
		r.Pulse = f
	case "noise1":
		r.Noise = f
	case "atk1":
		r.Atk = f
	case "dec1":
		r.Dec = f
	case "sus1":
		r.Sus = f
	case "rel1":
		r.Rel = f
	case "freq3":
		r.ModFreq = f
	case "test3":
		r.ModTest = f
	case "flt1":
		r.Route = f
	case "fltext":
		r.Ext = f
	case "fltcoff":
		r.Cutoff = f
	case "fltres":
		r.Res = f
	case "fltlo":
		r.Lo = f
	case "fltband":
		r.Band = f
	case "flthi":
		r.Hi = f
	case "vol":
		r.Vol = f
	default:
		return false
	}
	return true
}

// RowFromColumns builds an SSFRow from column-keyed values. Fixture
// builders and scenario files use it instead of naming struct fields.
func RowFromColumns(hashid, clock int64, set map[string]int64) (SSFRow, error) {
	row := SSFRow{HashID: hashid, Clock: clock}
	for name, v := range set {
		if !row.SetColumn(name, Field{Int: v, Valid: true}) {
			return SSFRow{}, fmt.Errorf("unknown register column %q", name)
		}
	}
	return row, nil
}
