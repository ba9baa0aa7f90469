package marantz

import (
	"errors"
	"testing"

	"github.com/ssmb/ssmb-go/pkg/receiver"
)

func TestEncodeVolume(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "MV00"},
		{5, "MV05"},
		{60, "MV60"},
		{60.5, "MV605"},
		{60.4, "MV605"},
		{60.2, "MV60"},
		{98, "MV98"},
	}
	for _, tt := range tests {
		got, err := EncodeVolume(tt.v)
		if err != nil {
			t.Errorf("EncodeVolume(%v): %v", tt.v, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EncodeVolume(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}

	for _, v := range []float64{-1, 98.5, 120} {
		if _, err := EncodeVolume(v); !errors.Is(err, ErrVolumeRange) {
			t.Errorf("EncodeVolume(%v) err = %v, want ErrVolumeRange", v, err)
		}
	}
}

func TestDecodeVolume(t *testing.T) {
	tests := []struct {
		line string
		want float64
		ok   bool
	}{
		{"MV60", 60, true},
		{"MV605", 60.5, true},
		{"MV05", 5, true},
		{"MV00", 0, true},
		{"MVMAX 98", 0, false},
		{"MV", 0, false},
		{"MV6", 0, false},
		{"MVxx", 0, false},
		{"SICD", 0, false},
	}
	for _, tt := range tests {
		got, ok := DecodeVolume(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("DecodeVolume(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPowerCodec(t *testing.T) {
	if cmd, _ := EncodePower(receiver.PowerOn); cmd != "PWON" {
		t.Errorf("on = %q", cmd)
	}
	if cmd, _ := EncodePower(receiver.PowerOff); cmd != "PWSTANDBY" {
		t.Errorf("off = %q", cmd)
	}
	if _, err := EncodePower(receiver.PowerUnknown); !errors.Is(err, ErrMalformedCommand) {
		t.Errorf("unknown err = %v", err)
	}

	for line, want := range map[string]receiver.Power{
		"PWON":      receiver.PowerOn,
		"PWSTANDBY": receiver.PowerOff,
		"PWOFF":     receiver.PowerOff,
	} {
		if got, ok := DecodePower(line); !ok || got != want {
			t.Errorf("DecodePower(%q) = %v, %v", line, got, ok)
		}
	}
	if _, ok := DecodePower("PWMAYBE"); ok {
		t.Error("DecodePower accepted PWMAYBE")
	}
}

func TestInputCodec(t *testing.T) {
	if cmd, _ := EncodeInput("cd"); cmd != "SICD" {
		t.Errorf("EncodeInput(cd) = %q", cmd)
	}
	if cmd, _ := EncodeInput("SAT/CBL"); cmd != "SISAT/CBL" {
		t.Errorf("EncodeInput(SAT/CBL) = %q", cmd)
	}
	for _, bad := range []string{"", " ", "?", "CD\rPWON"} {
		if _, err := EncodeInput(bad); !errors.Is(err, ErrMalformedCommand) {
			t.Errorf("EncodeInput(%q) err = %v", bad, err)
		}
	}

	if in, ok := DecodeInput("SITUNER"); !ok || in != "TUNER" {
		t.Errorf("DecodeInput(SITUNER) = %q, %v", in, ok)
	}
	if _, ok := DecodeInput("SI"); ok {
		t.Error("DecodeInput accepted bare SI")
	}
}
