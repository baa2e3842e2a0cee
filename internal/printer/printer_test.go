package printer_test

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"workbench/internal/faults"
	"workbench/internal/logging"
	"workbench/internal/printer"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestLabelsMatchPaperAspect(t *testing.T) {
	labels, err := printer.NewLabels(t.TempDir(), 29, 62)
	if err != nil {
		t.Fatalf("NewLabels: %v", err)
	}

	barcodePath, err := labels.Barcode("4006381333931")
	if err != nil {
		t.Fatalf("Barcode: %v", err)
	}
	if filepath.Base(barcodePath) != "4006381333931_barcode.png" {
		t.Fatalf("unexpected barcode file %s", barcodePath)
	}
	qrPath, err := labels.QR("https://gateway.ipfs.io/ipfs/QmCID")
	if err != nil {
		t.Fatalf("QR: %v", err)
	}
	sealPath, err := labels.SealTag("SEALED", true)
	if err != nil {
		t.Fatalf("SealTag: %v", err)
	}

	for _, path := range []string{barcodePath, qrPath, sealPath} {
		w, h := decodeSize(t, path)
		// Integer division may lose at most one pixel.
		if diff := h*29 - w*62; diff > 62 || diff < -62 {
			t.Errorf("%s: %dx%d does not match 29:62", filepath.Base(path), w, h)
		}
	}
}

func TestBarcodeRejectsInvalidCode(t *testing.T) {
	labels, err := printer.NewLabels(t.TempDir(), 29, 62)
	if err != nil {
		t.Fatalf("NewLabels: %v", err)
	}
	if _, err := labels.Barcode("4006381333932"); err == nil {
		t.Fatal("expected checksum error")
	}
}

type recordingExecutor struct {
	binary string
	args   []string
	err    error
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	r.binary = binary
	r.args = args
	return []byte("request id is Zebra-12 (1 file(s))"), r.err
}

func TestPrintImageBuildsLPArguments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	exec := &recordingExecutor{}
	client, err := printer.New("lp", "Zebra", logging.NewNop(), printer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.PrintImage(context.Background(), path, "Board. Sensor."); err != nil {
		t.Fatalf("PrintImage: %v", err)
	}
	want := []string{"-d", "Zebra", "-t", "Board. Sensor.", path}
	if exec.binary != "lp" || !slices.Equal(exec.args, want) {
		t.Fatalf("unexpected invocation %s %v", exec.binary, exec.args)
	}

	exec.err = errors.New("exit status 1")
	if err := client.PrintImage(context.Background(), path, ""); !errors.Is(err, faults.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if err := client.PrintImage(context.Background(), filepath.Join(t.TempDir(), "missing.png"), ""); err == nil {
		t.Fatal("expected error for missing image")
	}
}
