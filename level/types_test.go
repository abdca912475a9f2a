package level

import (
	"errors"
	"testing"
)

func TestRect_Intersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"touching edge", Rect{X: 10, Y: 0, W: 10, H: 10}, false},
		{"apart", Rect{X: 20, Y: 20, W: 5, H: 5}, false},
		{"inside", Rect{X: 2, Y: 2, W: 2, H: 2}, true},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	flag := Flag{Rect{X: 0, Y: 0, W: 32, H: 64}}
	if err := (&Level{Flag: flag}).Validate(); !errors.Is(err, ErrNoPlatforms) {
		t.Errorf("Expected ErrNoPlatforms, got %v", err)
	}

	lvl := &Level{
		Flag: flag,
		Platforms: []*Platform{
			{Rect: Rect{X: 0, W: 10, H: 10}},
			{Rect: Rect{X: 20, W: 10, H: 10}, Kind: Hazard},
			{Rect: Rect{X: 40, W: 10, H: 10}, Kind: Hazard},
		},
	}
	if err := lvl.Validate(); !errors.Is(err, ErrConsecutiveHazards) {
		t.Errorf("Expected ErrConsecutiveHazards, got %v", err)
	}

	lvl.Platforms[2].Kind = Normal
	if err := lvl.Validate(); err != nil {
		t.Errorf("Expected valid level, got %v", err)
	}

	lvl.Flag = Flag{}
	if err := lvl.Validate(); !errors.Is(err, ErrNoFlag) {
		t.Errorf("Expected ErrNoFlag, got %v", err)
	}
}

func TestPlatform_Lethal(t *testing.T) {
	tests := []struct {
		p    Platform
		want bool
	}{
		{Platform{Kind: Normal}, false},
		{Platform{Kind: Hazard, State: Stable}, false},
		{Platform{Kind: Hazard, State: Warning}, false},
		{Platform{Kind: Hazard, State: Falling}, true},
	}
	for _, tt := range tests {
		if got := tt.p.Lethal(); got != tt.want {
			t.Errorf("%v/%v: expected %v, got %v", tt.p.Kind, tt.p.State, tt.want, got)
		}
	}
}

func TestRect_Grow(t *testing.T) {
	got := Rect{X: 10, Y: 20, W: 30, H: 40}.Grow(5)
	want := Rect{X: 5, Y: 15, W: 40, H: 50}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestPlatformsInArea(t *testing.T) {
	lvl := &Level{Platforms: []*Platform{
		{Rect: Rect{X: 0, Y: 100, W: 50, H: 10}},
		{Rect: Rect{X: 500, Y: 100, W: 50, H: 10}},
	}}
	got := lvl.PlatformsInArea(Rect{X: 0, Y: 0, W: 200, H: 200})
	if len(got) != 1 || got[0] != lvl.Platforms[0] {
		t.Errorf("Expected only the first platform, got %d", len(got))
	}
}

func TestClone_ResetsHazards(t *testing.T) {
	lvl := &Level{Platforms: []*Platform{{Kind: Hazard, State: Falling}}}
	c := lvl.Clone()
	if c.Platforms[0] == lvl.Platforms[0] {
		t.Error("Expected platforms to be copied")
	}
	if c.Platforms[0].State != Stable {
		t.Errorf("Expected stable hazard in clone, got %v", c.Platforms[0].State)
	}
	if lvl.Platforms[0].State != Falling {
		t.Error("Expected original untouched")
	}
}
