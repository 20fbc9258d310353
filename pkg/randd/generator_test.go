package randd

import (
	"encoding/hex"
	"errors"
	"testing"

	"randkit-go/pkg/aesctr"
	"randkit-go/pkg/cc20"
	"randkit-go/pkg/xorshift"
)

func TestNewGeneratorDefaultIsAESCTR(t *testing.T) {
	g, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, ok := g.(*aesctr.Generator); !ok {
		t.Fatalf("default generator is %T, want *aesctr.Generator", g)
	}
	if len(g.Seed()) != aesctr.DefaultSeedSize {
		t.Fatalf("seed is %d bytes, want %d", len(g.Seed()), aesctr.DefaultSeedSize)
	}
}

func TestNewGeneratorSeedHexIsDeterministic(t *testing.T) {
	cases := []struct {
		name    string
		seedLen int
	}{
		{GeneratorAESCTR, 16},
		{GeneratorChaCha20, 32},
		{GeneratorXorshift, 16},
	}
	for _, tc := range cases {
		seed := make([]byte, tc.seedLen)
		for i := range seed {
			seed[i] = byte(i + 1)
		}
		cfg := DefaultConfig()
		cfg.Generator = tc.name
		cfg.SeedHex = hex.EncodeToString(seed)

		a, err := NewGenerator(cfg)
		if err != nil {
			t.Fatalf("%s: NewGenerator: %v", tc.name, err)
		}
		b, err := NewGenerator(cfg)
		if err != nil {
			t.Fatalf("%s: NewGenerator: %v", tc.name, err)
		}
		for i := 0; i < 100; i++ {
			if va, vb := a.NextBits(32), b.NextBits(32); va != vb {
				t.Fatalf("%s: streams diverged at word %d", tc.name, i)
			}
		}
	}
}

func TestNewGeneratorSeedSizeHonored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedSize = 32
	g, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if len(g.Seed()) != 32 {
		t.Fatalf("seed is %d bytes, want 32", len(g.Seed()))
	}
}

func TestNewGeneratorBadHex(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedHex = "not-hex"
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatal("bad hex accepted")
	}
}

func TestNewGeneratorWrongSeedLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedHex = "0102030405" // 5 bytes, no cipher accepts that
	if _, err := NewGenerator(cfg); !errors.Is(err, aesctr.ErrInvalidSeed) {
		t.Fatalf("got %v, want aesctr.ErrInvalidSeed", err)
	}

	cfg.Generator = GeneratorChaCha20
	if _, err := NewGenerator(cfg); !errors.Is(err, cc20.ErrInvalidSeed) {
		t.Fatalf("got %v, want cc20.ErrInvalidSeed", err)
	}

	cfg.Generator = GeneratorXorshift
	if _, err := NewGenerator(cfg); !errors.Is(err, xorshift.ErrInvalidSeed) {
		t.Fatalf("got %v, want xorshift.ErrInvalidSeed", err)
	}
}

func TestNewGeneratorUnknownName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator = "mersenne"
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatal("unknown generator name accepted")
	}
}
