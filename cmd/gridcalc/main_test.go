package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nickandperla.net/gridcalc/pkg/gridcalc"
)

// run executes the CLI in-process with a config file that does not exist,
// so only defaults and flags apply.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const scenarioCSV = "B2+2,A1+A2\nB2-3,7+5\n"

func TestEvalWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", scenarioCSV)
	outPath := filepath.Join(dir, "output.csv")

	for _, args := range [][]string{
		{"eval", in, "--out", outPath},
		{"--file", in, "--out", outPath},
		{"-f", in, "-o", outPath},
	} {
		os.Remove(outPath)

		output, err := run(t, "", args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if !strings.Contains(output, "Output to file "+outPath) {
			t.Errorf("%v: expected output message, got %q", args, output)
		}
		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("%v: output not written: %v", args, err)
		}
		if want := "14.0,23.0\n9.0,12.0\n"; string(data) != want {
			t.Errorf("%v: expected %q, got %q", args, want, data)
		}
	}
}

func TestEvalPrint(t *testing.T) {
	in := writeFile(t, t.TempDir(), "in.csv", "10/3,A1*3\n")

	output, err := run(t, "", "eval", in, "--print", "--precision", "1")
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if want := "3.3,10.0\n"; output != want {
		t.Errorf("expected %q, got %q", want, output)
	}
}

func TestEvalCircular(t *testing.T) {
	in := writeFile(t, t.TempDir(), "in.csv", "1,A2\nB2,A2+1\n")

	_, err := run(t, "", "eval", in, "--print")
	var circ *gridcalc.CircularReferenceError
	if !errors.As(err, &circ) {
		t.Fatalf("expected CircularReferenceError, got %v", err)
	}
	if !strings.Contains(err.Error(), "circular reference") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestEvalMissingFile(t *testing.T) {
	if _, err := run(t, "", "eval", filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestSaveShowHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "sheets.db")

	for _, driver := range []string{"sqlite", "bolt"} {
		t.Run(driver, func(t *testing.T) {
			db := db + "." + driver
			first := writeFile(t, dir, "first.csv", scenarioCSV)
			second := writeFile(t, dir, "second.csv", "1,A1*2.5\n")

			for _, in := range []string{first, second} {
				if _, err := run(t, "", "eval", in, "--print", "--save", "budget", "--store", driver, "--db", db); err != nil {
					t.Fatalf("eval --save failed: %v", err)
				}
			}

			output, err := run(t, "", "show", "budget", "--store", driver, "--db", db)
			if err != nil {
				t.Fatalf("show failed: %v", err)
			}
			if want := "1.0,2.5\n"; output != want {
				t.Errorf("show: expected %q, got %q", want, output)
			}

			output, err = run(t, "", "history", "budget", "--store", driver, "--db", db)
			if err != nil {
				t.Fatalf("history failed: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(output), "\n")
			if len(lines) != 2 {
				t.Fatalf("expected 2 versions, got:\n%s", output)
			}
			if !strings.HasPrefix(lines[0], "v2\t") || !strings.HasSuffix(lines[0], "1x2") {
				t.Errorf("unexpected newest entry %q", lines[0])
			}
			if !strings.HasPrefix(lines[1], "v1\t") || !strings.HasSuffix(lines[1], "2x2") {
				t.Errorf("unexpected oldest entry %q", lines[1])
			}

			output, err = run(t, "", "history", "budget", "--limit", "1", "--store", driver, "--db", db)
			if err != nil {
				t.Fatalf("history --limit failed: %v", err)
			}
			if n := strings.Count(output, "\n"); n != 1 {
				t.Errorf("expected 1 line with --limit 1, got %d", n)
			}

			_, err = run(t, "", "show", "missing", "--store", driver, "--db", db)
			if !errors.Is(err, gridcalc.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreNone(t *testing.T) {
	_, err := run(t, "", "show", "budget", "--store", "none")
	if !errors.Is(err, gridcalc.ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "B2+2;A1+A2\nB2-3;7+5\n")
	outPath := filepath.Join(dir, "configured.csv")
	cfg := writeFile(t, dir, "gridcalc.yaml", "output: "+outPath+"\ndelimiter: \";\"\nstore:\n  driver: none\n")

	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "eval", in})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("configured output not written: %v", err)
	}
	if want := "14.0;23.0\n9.0;12.0\n"; string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestREPL(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", scenarioCSV)

	script := strings.Join([]string{
		"B2",
		"A1*2",
		"B2 = 1",
		"A1",
		"Z9",
		"1+",
		":rows",
		":bogus",
		":quit",
		"A1",
	}, "\n")

	output, err := run(t, script, "repl", in, "--store", "none")
	if err != nil {
		t.Fatalf("repl failed: %v", err)
	}

	for _, want := range []string{
		">>> 12.0\n",
		">>> 28.0\n",
		">>> 1\n",
		">>> 3.0\n",
		"Error: reference Z9",
		"Error: ",
		"3.0,1.0\n-2.0,1.0\n",
		"unknown command :bogus",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	// Nothing after :quit runs
	if strings.Count(output, ">>> ") != 9 {
		t.Errorf("expected 9 prompts, got:\n%s", output)
	}
}

func TestREPLSaveAndWrite(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "repl.db")
	outPath := filepath.Join(dir, "repl.csv")

	script := "7*6\n:save answer\n:write " + outPath + "\n"
	output, err := run(t, script, "repl", "--store", "sqlite", "--db", db)
	if err != nil {
		t.Fatalf("repl failed: %v", err)
	}
	if !strings.Contains(output, "42.0") {
		t.Errorf("expected 42.0, got:\n%s", output)
	}
	if !strings.Contains(output, "Saved answer") {
		t.Errorf("expected save confirmation, got:\n%s", output)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected %s to be written: %v", outPath, err)
	}
}

func TestListAndDelete(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "sheets.db")
	in := writeFile(t, dir, "in.csv", scenarioCSV)

	for _, name := range []string{"budget", "alpha"} {
		if _, err := run(t, "", "eval", in, "--print", "--save", name, "--db", db); err != nil {
			t.Fatalf("eval --save %s failed: %v", name, err)
		}
	}

	output, err := run(t, "", "list", "--db", db)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if want := "alpha\nbudget\n"; output != want {
		t.Errorf("list: expected %q, got %q", want, output)
	}

	output, err = run(t, "", "delete", "budget", "--db", db)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(output, "Deleted budget") {
		t.Errorf("delete: unexpected output %q", output)
	}

	output, _ = run(t, "", "list", "--db", db)
	if want := "alpha\n"; output != want {
		t.Errorf("list after delete: expected %q, got %q", want, output)
	}

	if _, err := run(t, "", "history", "budget", "--db", db); !errors.Is(err, gridcalc.ErrNotFound) {
		t.Errorf("history after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := run(t, "", "delete", "budget", "--db", db); !errors.Is(err, gridcalc.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSingleDashFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", scenarioCSV)
	outPath := filepath.Join(dir, "dash.csv")

	tests := [][]string{
		{"-file", in, "--out", outPath},
		{"-file=" + in, "--out", outPath},
	}
	for _, args := range tests {
		os.Remove(outPath)

		var out bytes.Buffer
		cmd := newRootCmd(strings.NewReader(""), &out, &bytes.Buffer{})
		cmd.SetArgs(normalizeArgs(append([]string{"--config", filepath.Join(dir, "none.yaml")}, args...)))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if _, err := os.Stat(outPath); err != nil {
			t.Errorf("%v: output not written: %v", args, err)
		}
	}
}

func TestNormalizeArgs(t *testing.T) {
	got := normalizeArgs([]string{"-file", "a.csv", "-f", "b.csv", "-file=c.csv", "--", "-file"})
	want := []string{"--file", "a.csv", "-f", "b.csv", "--file=c.csv", "--", "-file"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestREPLEmptySheet(t *testing.T) {
	script := "B2 = 5\nA1 = B2*2\nA1\nC3\nC4\n"
	output, err := run(t, script, "repl", "--rows", "3", "--cols", "3", "--store", "none")
	if err != nil {
		t.Fatalf("repl failed: %v", err)
	}
	for _, want := range []string{">>> 5\n", ">>> 10.0\n", ">>> 10.0\n>>> 0\n", "Error: reference C4"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}
