package audio

import (
	"errors"
	"testing"

	"github.com/gordonklaus/portaudio"
)

func TestRankDevices(t *testing.T) {
	mic := &portaudio.DeviceInfo{Index: 0, Name: "Built-in Microphone", MaxInputChannels: 1}
	monitor := &portaudio.DeviceInfo{Index: 1, Name: "Monitor of Speakers", MaxInputChannels: 2}
	output := &portaudio.DeviceInfo{Index: 2, Name: "HDMI Out", MaxOutputChannels: 8}
	usb := &portaudio.DeviceInfo{Index: 3, Name: "USB Interface", MaxInputChannels: 2}
	aux := &portaudio.DeviceInfo{Index: 4, Name: "Aux", MaxInputChannels: 2}

	cases := []struct {
		name         string
		devices      []*portaudio.DeviceInfo
		defaultInput int
		want         *portaudio.DeviceInfo
	}{
		{"loopback preferred", []*portaudio.DeviceInfo{mic, monitor, usb}, -1, monitor},
		{"default input wins", []*portaudio.DeviceInfo{mic, monitor, usb}, 0, mic},
		{"outputs ignored", []*portaudio.DeviceInfo{output, nil}, 2, nil},
		{"tie breaks on name", []*portaudio.DeviceInfo{usb, aux}, -1, aux},
	}
	for _, tc := range cases {
		if got := rankDevices(tc.devices, tc.defaultInput, -1); got != tc.want {
			t.Fatalf("%s: got %+v want %+v", tc.name, got, tc.want)
		}
	}
}

func TestErrorsIsInvalidStreamState(t *testing.T) {
	if errorsIsInvalidStreamState(nil) {
		t.Fatalf("nil is not a stream state error")
	}
	if !errorsIsInvalidStreamState(errors.New("PaErrorCode -9986: stream is stopped")) {
		t.Fatalf("expected stream state error to match")
	}
	if errorsIsInvalidStreamState(errors.New("device unavailable")) {
		t.Fatalf("unrelated error matched")
	}
}

func TestCaptureProcessDownmixes(t *testing.T) {
	c := &Capture{channels: 2, samples: newRing(3)}
	c.process([]float32{1, 1, 0, 2, -1, -1, 4, 2})
	got := c.Samples()
	want := []float32{1, -1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("samples %v want %v", got, want)
		}
	}
}
