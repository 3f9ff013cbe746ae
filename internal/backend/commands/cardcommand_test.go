package commands

import (
	"bytes"
	"image/color"
	"testing"
)

func TestNewCardCommand_Params(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"Valid", map[string]any{"width": 1012, "height": 638}, false},
		{"Black background", map[string]any{"width": 10, "height": 10, "background": "black"}, false},
		{"Missing height", map[string]any{"width": 10}, true},
		{"Zero width", map[string]any{"width": 0, "height": 10}, true},
		{"Unknown background", map[string]any{"width": 10, "height": 10, "background": "teal"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCardCommand(tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCardCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCardCommand_FitsAndCentres(t *testing.T) {
	command, err := NewCardCommand(map[string]any{"width": 300, "height": 300})
	if err != nil {
		t.Fatalf("NewCardCommand error: %v", err)
	}

	input := mustEncode(t, solidImage(200, 100, color.RGBA{0, 0, 0, 255}))
	output, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	card := mustDecode(t, output)
	if card.Bounds().Dx() != 300 || card.Bounds().Dy() != 300 {
		t.Fatalf("expected 300x300 card, got %v", card.Bounds())
	}

	// badge scaled to 300x150, centred vertically
	if r, _, _, _ := card.At(150, 150).RGBA(); r != 0 {
		t.Errorf("expected badge pixel at centre, got r=%d", r)
	}
	if r, _, _, _ := card.At(150, 20).RGBA(); r != 0xffff {
		t.Errorf("expected white padding above badge, got r=%d", r)
	}
	if r, _, _, _ := card.At(150, 280).RGBA(); r != 0xffff {
		t.Errorf("expected white padding below badge, got r=%d", r)
	}
}

func TestCardCommand_MatchingSizeIsUntouched(t *testing.T) {
	command, err := NewCardCommand(map[string]any{"width": 40, "height": 20})
	if err != nil {
		t.Fatalf("NewCardCommand error: %v", err)
	}

	input := mustEncode(t, solidImage(40, 20, color.RGBA{10, 20, 30, 255}))
	output, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(input, output) {
		t.Error("expected bytes to be returned unchanged")
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		w, h, tw, th int
		wantW, wantH int
	}{
		{1000, 600, 1012, 638, 1012, 607},
		{600, 1000, 638, 1012, 607, 1012},
		{100, 100, 50, 200, 50, 50},
		{1000, 1, 10, 10, 10, 1},
	}

	for _, tt := range tests {
		gotW, gotH := fitDimensions(tt.w, tt.h, tt.tw, tt.th)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("fitDimensions(%d, %d, %d, %d) = %d, %d; want %d, %d", tt.w, tt.h, tt.tw, tt.th, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}
