package domain

import (
	"errors"
	"testing"
)

func TestApplyPlayTypeFixedPoints(t *testing.T) {
	cases := []struct {
		tipo   PlayType
		puntos int
	}{
		{PlayConversion1, 1},
		{PlayConversion2, 2},
		{PlaySafety, 2},
		{PlayPaseIncompleto, 0},
		{PlaySack, 0},
		{PlayTackleo, 0},
	}
	for _, c := range cases {
		// the touchdown flag must not change a fixed-point type
		for _, td := range []bool{false, true} {
			out, err := ApplyPlayType(c.tipo, td)
			if err != nil {
				t.Fatalf("ApplyPlayType(%s): %v", c.tipo, err)
			}
			if out.Puntos != c.puntos {
				t.Errorf("ApplyPlayType(%s, td=%v).Puntos = %d, want %d", c.tipo, td, out.Puntos, c.puntos)
			}
		}
	}
}

func TestApplyPlayTypeTouchdownDependent(t *testing.T) {
	for _, tipo := range []PlayType{PlayIntercepcion, PlayCorrida, PlayPaseCompleto} {
		out, err := ApplyPlayType(tipo, true)
		if err != nil {
			t.Fatalf("ApplyPlayType(%s, true): %v", tipo, err)
		}
		if out.Puntos != 6 || !out.Touchdown {
			t.Errorf("%s with touchdown: puntos=%d touchdown=%v, want 6/true", tipo, out.Puntos, out.Touchdown)
		}
		out, err = ApplyPlayType(tipo, false)
		if err != nil {
			t.Fatalf("ApplyPlayType(%s, false): %v", tipo, err)
		}
		if out.Puntos != 0 || out.Touchdown {
			t.Errorf("%s without touchdown: puntos=%d touchdown=%v, want 0/false", tipo, out.Puntos, out.Touchdown)
		}
	}
}

func TestApplyPlayTypeFlags(t *testing.T) {
	out, err := ApplyPlayType(PlayIntercepcion, false)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Intercepcion {
		t.Error("intercepcion flag not set")
	}
	out, err = ApplyPlayType(PlaySack, false)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Sack {
		t.Error("sack flag not set")
	}
}

func TestApplyPlayTypeUnknown(t *testing.T) {
	_, err := ApplyPlayType(PlayType("gol"), false)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "tipoJugada" {
		t.Errorf("field = %s, want tipoJugada", ve.Field)
	}
}

func TestSecondaryOnOpposingTeam(t *testing.T) {
	opposing := map[PlayType]bool{
		PlayIntercepcion:   true,
		PlayCorrida:        true,
		PlaySack:           true,
		PlayTackleo:        true,
		PlayPaseCompleto:   false,
		PlayPaseIncompleto: false,
		PlayConversion1:    false,
		PlayConversion2:    false,
		PlaySafety:         false,
	}
	for tipo, want := range opposing {
		if got := SecondaryOnOpposingTeam(tipo); got != want {
			t.Errorf("SecondaryOnOpposingTeam(%s) = %v, want %v", tipo, got, want)
		}
	}
}
