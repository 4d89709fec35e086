package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/types"
)

func TestProbability(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		unit    types.Unit
		want    float64
		wantErr bool
	}{
		{"decimal", 0.98, types.UnitDecimal, 0.98, false},
		{"empty unit is decimal", 0.5, "", 0.5, false},
		{"percent", 96, types.UnitPercent, 0.96, false},
		{"percent 100", 100, types.UnitPercent, 1, false},
		{"decimal above one", 1.5, types.UnitDecimal, 0, true},
		{"percent above 100", 101, types.UnitPercent, 0, true},
		{"negative percent", -1, types.UnitPercent, 0, true},
		{"unknown unit", 0.5, "permille", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Probability(tc.v, tc.unit)
			if tc.wantErr {
				if !errors.Is(err, compute.ErrValidation) {
					t.Fatalf("err = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Probability(%v, %q) = %v, want %v", tc.v, tc.unit, got, tc.want)
			}
		})
	}
}

func TestComponents_PercentToDecimal(t *testing.T) {
	in := []types.Component{{Name: " Stamping ", Reliability: 98}, {Name: "Welding", Reliability: 99}}
	out, err := Components(in, types.UnitPercent)
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	if out[0].Name != "Stamping" || out[0].Reliability != 0.98 {
		t.Errorf("out[0] = %+v", out[0])
	}
	if in[0].Reliability != 98 {
		t.Errorf("input modified: %+v", in[0])
	}
}

func TestComponents_PercentBreakpointIsLowRisk(t *testing.T) {
	cs, err := Components([]types.Component{{Name: "Press", Reliability: 95}}, types.UnitPercent)
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	res, err := compute.Reliability(cs, compute.DefaultThresholds())
	if err != nil {
		t.Fatalf("Reliability: %v", err)
	}
	if res.Risk != compute.RiskLow {
		t.Errorf("Risk = %q (fp=%.20f), want low", res.Risk, res.FailureProbability)
	}
}

func TestComponents_NamesOffendingComponent(t *testing.T) {
	_, err := Components([]types.Component{{Name: "Painting", Reliability: 1.5}}, types.UnitDecimal)
	var ve *compute.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if !strings.Contains(ve.Error(), "Painting") {
		t.Errorf("error %q does not name the component", ve.Error())
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList(" 70, 75,80 ,85,  90")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	want := []float64{70, 75, 80, 85, 90}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseList_Errors(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantToken string
		wantPos   int
	}{
		{"word", "70, abc, 80", "abc", 2},
		{"empty token", "70,,80", "", 2},
		{"trailing comma", "70,80,", "", 3},
		{"NaN literal", "1, NaN", "NaN", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseList(tc.in)
			var pe *compute.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if strings.TrimSpace(pe.Token) != tc.wantToken || pe.Position != tc.wantPos {
				t.Errorf("ParseError token=%q pos=%d, want %q at %d", pe.Token, pe.Position, tc.wantToken, tc.wantPos)
			}
		})
	}
}

func TestParseList_Blank(t *testing.T) {
	if _, err := ParseList("   "); !errors.Is(err, compute.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestReadColumn_Named(t *testing.T) {
	csv := "student,score\nani,70\nbudi,75\ncitra,80\n"
	got, err := ReadColumn(strings.NewReader(csv), "score")
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	if len(got) != 3 || got[0] != 70 || got[2] != 80 {
		t.Errorf("got %v, want [70 75 80]", got)
	}
}

func TestReadColumn_FirstNumeric(t *testing.T) {
	csv := "student,score\nani,70\nbudi,75\n"
	got, err := ReadColumn(strings.NewReader(csv), "")
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	if len(got) != 2 || got[1] != 75 {
		t.Errorf("got %v, want [70 75]", got)
	}
}

func TestReadColumn_Errors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		column string
		kind   error
	}{
		{"empty file", "", "", compute.ErrValidation},
		{"header only", "score\n", "", compute.ErrValidation},
		{"missing column", "score\n1\n", "height", compute.ErrValidation},
		{"bad cell", "score\n1\nx\n", "score", compute.ErrParse},
		{"no numeric column", "name\nani\n", "", compute.ErrParse},
		{"short row", "a,b\n1,2\n3\n", "b", compute.ErrParse},
		{"unbalanced quote", "a\n\"1\n", "a", compute.ErrParse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadColumn(strings.NewReader(tc.csv), tc.column)
			if !errors.Is(err, tc.kind) {
				t.Errorf("err = %v, want %v", err, tc.kind)
			}
		})
	}
}

func TestReadColumn_BadCellNamesTokenAndRow(t *testing.T) {
	_, err := ReadColumn(strings.NewReader("score\n70\nseventy\n"), "score")
	var pe *compute.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Token != "seventy" || pe.Position != 3 {
		t.Errorf("token=%q row=%d, want seventy at row 3", pe.Token, pe.Position)
	}
}

func TestReadColumn_ShortRowNamesColumn(t *testing.T) {
	_, err := ReadColumn(strings.NewReader("line,score\nA,70\nB\n"), "score")
	var pe *compute.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Token != "score" || pe.Position != 3 {
		t.Errorf("token=%q row=%d, want score at row 3", pe.Token, pe.Position)
	}
}

func TestReadColumn_ShortRowWithoutSelectedColumnIsFine(t *testing.T) {
	got, err := ReadColumn(strings.NewReader("score,note\n70,ok\n75\n"), "score")
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	if len(got) != 2 || got[1] != 75 {
		t.Errorf("got %v, want [70 75]", got)
	}
}
