package argyll

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gamut/internal/services"
	"gamut/internal/testsupport"
	"gamut/internal/toolexec"
)

func TestParseFiducials(t *testing.T) {
	f, err := ParseFiducials("10,12, 950.5 ,14, 948,1220, 8,1224")
	if err != nil {
		t.Fatalf("ParseFiducials: %v", err)
	}
	if f[2] != 950.5 || f[7] != 1224 {
		t.Fatalf("parsed = %v", f)
	}
	if got := f.Arg(); got != "10,12,950.5,14,948,1220,8,1224" {
		t.Fatalf("Arg() = %q", got)
	}
}

func TestParseFiducialsRejects(t *testing.T) {
	cases := []string{
		"1,2,3,4,5,6,7",
		"1,2,3,4,5,6,7,8,9",
		"1,2,3,4,5,6,7,x",
		"1,2,3,4,5,6,7,-8",
		"",
	}
	for _, in := range cases {
		if _, err := ParseFiducials(in); err == nil {
			t.Fatalf("ParseFiducials(%q) should fail", in)
		}
	}
}

func TestTargenGenerate(t *testing.T) {
	dir := t.TempDir()
	fake := &testsupport.FakeExecutor{
		OnRun: func(call testsupport.Call) testsupport.FakeResult {
			if err := os.WriteFile(filepath.Join(call.Dir, "proof.ti1"), []byte("CTI1\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			return testsupport.FakeResult{}
		},
	}
	client, err := NewTargen("targen", WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}

	out, err := client.Generate(context.Background(), dir, "proof", 840, 260, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != filepath.Join(dir, "proof.ti1") {
		t.Fatalf("out = %q", out)
	}

	args := fake.Calls[0].Args
	joined := strings.Join(args, " ")
	for _, want := range []string{"-d2", "-f840", "-l260", "proof"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
}

func TestTargenMissingOutputFatal(t *testing.T) {
	client, err := NewTargen("targen", WithExecutor(&testsupport.FakeExecutor{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Generate(context.Background(), t.TempDir(), "proof", 840, 260, nil); err == nil {
		t.Fatal("expected error when tool wrote no output")
	}
}

func TestScaninArgsByMode(t *testing.T) {
	fake := &testsupport.FakeExecutor{}
	client, err := NewScanin("scanin", WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	dir := t.TempDir()

	req := ReadRequest{
		ImagePath: "proof_scan_01.tif",
		ChartPath: "proof.ti2",
		Name:      "proof",
		Mode:      ReadCreate,
	}
	if err := client.Read(ctx, dir, req, nil); err != nil {
		t.Fatalf("Read: %v", err)
	}

	req.ImagePath = "proof_scan_02.tif"
	req.Mode = ReadAccumulate
	fid := Fiducials{10, 12, 950, 14, 948, 1220, 8, 1224}
	req.Fiducials = &fid
	req.NoiseTolerance = 1.5
	req.CalibrationProfile = "/profiles/scanner.icc"
	if err := client.Read(ctx, dir, req, nil); err != nil {
		t.Fatalf("Read accumulate: %v", err)
	}

	first := strings.Join(fake.Calls[0].Args, " ")
	if strings.Contains(first, "-a") || strings.Contains(first, "-F") {
		t.Fatalf("create mode args unexpectedly carry accumulate/fiducial flags: %q", first)
	}
	second := strings.Join(fake.Calls[1].Args, " ")
	for _, want := range []string{"-a", "-F 10,12,950,14,948,1220,8,1224", "-r 1.5", "-i /profiles/scanner.icc", "proof_scan_02.tif proof.ti2 proof"} {
		if !strings.Contains(second, want) {
			t.Fatalf("accumulate args %q missing %q", second, want)
		}
	}
}

func TestScaninSurfacesToolExit(t *testing.T) {
	fake := &testsupport.FakeExecutor{
		Results: []testsupport.FakeResult{{Err: testsupport.ExitError()}},
	}
	client, err := NewScanin("scanin", WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}
	err = client.Read(context.Background(), t.TempDir(), ReadRequest{
		ImagePath: "a.tif", ChartPath: "c.ti2", Name: "proof",
	}, nil)
	if err == nil {
		t.Fatal("expected error for nonzero tool exit")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("tool exit not tagged as external tool error: %v", err)
	}
	if !toolexec.IsExit(err) {
		t.Fatalf("exit status lost from error chain: %v", err)
	}
}

func TestScaninLaunchFailureNotTaggedAsToolError(t *testing.T) {
	fake := &testsupport.FakeExecutor{
		Results: []testsupport.FakeResult{{Err: errors.New("fork/exec scanin: permission denied")}},
	}
	client, err := NewScanin("scanin", WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}
	err = client.Read(context.Background(), t.TempDir(), ReadRequest{
		ImagePath: "a.tif", ChartPath: "c.ti2", Name: "proof",
	}, nil)
	if err == nil {
		t.Fatal("expected launch error")
	}
	if errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("launch failure misclassified as tool result: %v", err)
	}
}

func TestColprofBuildArgs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "proof.icc")
	fake := &testsupport.FakeExecutor{
		OnRun: func(call testsupport.Call) testsupport.FakeResult {
			if err := os.WriteFile(out, []byte("icc"), 0o644); err != nil {
				t.Fatal(err)
			}
			return testsupport.FakeResult{}
		},
	}
	client, err := NewColprof("colprof", WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}

	got, err := client.Build(context.Background(), dir, BuildRequest{
		Name:           "proof",
		OutputPath:     out,
		Quality:        "m",
		InkLimit:       250,
		BlackInkLimit:  90,
		NoiseTolerance: 1.2,
		CurveParams:    "-kp 0 0 0.86 0.75 0.55",
		LinkProfile:    "/profiles/sRGB.icm",
		Manufacturer:   "Epson",
		Model:          "3880",
		Description:    "Epson 3880 glossy",
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got != out {
		t.Fatalf("output = %q", got)
	}

	joined := strings.Join(fake.Calls[0].Args, " ")
	for _, want := range []string{
		"-qm", "-l250", "-L90", "-r1.2",
		"-kp 0 0 0.86 0.75 0.55",
		"-S /profiles/sRGB.icm -cmt -dpp",
		"-A Epson", "-M 3880", "-D Epson 3880 glossy",
		"-O " + out + " proof",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
}

func TestColprofMissingOutputFatal(t *testing.T) {
	client, err := NewColprof("colprof", WithExecutor(&testsupport.FakeExecutor{}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Build(context.Background(), t.TempDir(), BuildRequest{
		Name:       "proof",
		OutputPath: filepath.Join(t.TempDir(), "proof.icc"),
	}, nil)
	if err == nil {
		t.Fatal("expected error when profiler wrote no output")
	}
}

func TestXiccluGraphsDetached(t *testing.T) {
	fake := &testsupport.FakeExecutor{}
	client, err := NewXicclu("xicclu", WithStarter(fake))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	dir := t.TempDir()

	if err := client.GraphBlackMin(ctx, dir, "proof_prep.icc"); err != nil {
		t.Fatal(err)
	}
	if err := client.GraphBlackMax(ctx, dir, "proof_prep.icc"); err != nil {
		t.Fatal(err)
	}
	if err := client.GraphCurve(ctx, dir, "proof_prep.icc", "-kp 0 0 0.86 0.75 0.55"); err != nil {
		t.Fatal(err)
	}

	if len(fake.Started) != 3 {
		t.Fatalf("started %d processes, want 3", len(fake.Started))
	}
	min := strings.Join(fake.Started[0].Args, " ")
	if !strings.Contains(min, "-kz") || !strings.HasSuffix(min, "proof_prep.icc") {
		t.Fatalf("min-black args = %q", min)
	}
	maxArgs := strings.Join(fake.Started[1].Args, " ")
	if !strings.Contains(maxArgs, "-kx") {
		t.Fatalf("max-black args = %q", maxArgs)
	}
	curve := strings.Join(fake.Started[2].Args, " ")
	if !strings.Contains(curve, "-kp 0 0 0.86 0.75 0.55") {
		t.Fatalf("curve args = %q", curve)
	}
}

func TestXiccluGraphCurveRequiresParams(t *testing.T) {
	client, err := NewXicclu("xicclu", WithStarter(&testsupport.FakeExecutor{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := client.GraphCurve(context.Background(), t.TempDir(), "p.icc", "  "); err == nil {
		t.Fatal("expected error for empty curve parameters")
	}
}
