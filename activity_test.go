package trackfix

import "testing"

func TestParseActivityType(t *testing.T) {
	cases := map[string]ActivityType{
		"ride":  ActivityRide,
		"Hike":  ActivityHike,
		"run":   ActivityRun,
		"walk":  ActivityWalk,
		"vride": ActivityVirtualRide,
		"other": ActivityOther,
		"9":     ActivityRun,
		"17":    ActivityVirtualRide,
	}
	for in, want := range cases {
		got, err := ParseActivityType(in)
		if err != nil {
			t.Fatalf("ParseActivityType(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseActivityType(%q) = %v, want %v", in, got, want)
		}
	}
	for _, in := range []string{"swim", "3"} {
		if _, err := ParseActivityType(in); err == nil {
			t.Fatalf("ParseActivityType(%q) expected error", in)
		}
	}
}

func TestTCXSportRoundTrip(t *testing.T) {
	for _, a := range []ActivityType{ActivityRide, ActivityHike, ActivityRun, ActivityWalk, ActivityVirtualRide, ActivityOther} {
		if got := ActivityFromTCXSport(a.TCXSport()); got != a {
			t.Fatalf("sport %q mapped to %v, want %v", a.TCXSport(), got, a)
		}
	}
	if ActivityUndefined.Or(ActivityRide) != ActivityRide {
		t.Fatalf("undefined activity should fall back")
	}
}
